package database

import (
	"context"

	"moodmap/internal/models"
	"moodmap/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmitComment inserts a comment node and bumps the live count on its
// parent: TopLevelCommentCount on the record for top-level comments,
// SubReplyCount on the parent comment for sub-replies.
func (m *MongoDB) SubmitComment(ctx context.Context, node *models.CommentNode) error {
	doc := encodeComment(node)
	result, err := m.Comments.InsertOne(ctx, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to submit comment", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		node.ID = oid.Hex()
	}

	if node.IsTopLevel() {
		return m.adjustTopLevelCount(ctx, node.ParentRecordID, 1)
	}
	return m.adjustSubReplyCount(ctx, node.ParentCommentID, 1)
}

// RemoveComment deletes a comment and decrements its parent's count. Sub
// replies of a removed top-level comment are deleted with it.
func (m *MongoDB) RemoveComment(ctx context.Context, commentID string) error {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid comment ID", err)
	}

	var doc commentDocument
	err = m.Comments.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to remove comment", err)
	}

	node := decodeComment(&doc)
	if node.IsTopLevel() {
		if _, err := m.Comments.DeleteMany(ctx, bson.M{"parent_comment_id": commentID}); err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to remove sub-replies", err)
		}
		return m.adjustTopLevelCount(ctx, node.ParentRecordID, -1)
	}
	return m.adjustSubReplyCount(ctx, node.ParentCommentID, -1)
}

// GetComment fetches one comment node by identifier.
func (m *MongoDB) GetComment(ctx context.Context, commentID string) (*models.CommentNode, error) {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "invalid comment ID", err)
	}

	var doc commentDocument
	err = m.Comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get comment", err)
	}
	return decodeComment(&doc), nil
}

// TopLevelComments returns every comment whose parent is the record,
// newest first.
func (m *MongoDB) TopLevelComments(ctx context.Context, recordID string) ([]*models.CommentNode, error) {
	return m.findComments(ctx, bson.M{"parent_record_id": recordID})
}

// SubReplies returns every comment whose parent is the given top-level
// comment, newest first.
func (m *MongoDB) SubReplies(ctx context.Context, commentID string) ([]*models.CommentNode, error) {
	return m.findComments(ctx, bson.M{"parent_comment_id": commentID})
}

func (m *MongoDB) findComments(ctx context.Context, filter bson.M) ([]*models.CommentNode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "posted_at", Value: -1}})
	cursor, err := m.Comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comments", err)
	}
	defer cursor.Close(ctx)

	nodes := make([]*models.CommentNode, 0)
	for cursor.Next(ctx) {
		var doc commentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode comment", err)
		}
		nodes = append(nodes, decodeComment(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error while reading comments", err)
	}
	return nodes, nil
}

func (m *MongoDB) adjustTopLevelCount(ctx context.Context, recordID string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid record ID", err)
	}
	_, err = m.Records.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"top_comment_count": delta}})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to adjust comment count", err)
	}
	return nil
}

func (m *MongoDB) adjustSubReplyCount(ctx context.Context, commentID string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid comment ID", err)
	}
	_, err = m.Comments.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"sub_reply_count": delta}})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to adjust sub-reply count", err)
	}
	return nil
}

package database

import (
	"context"
	"time"

	"moodmap/internal/models"
	"moodmap/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type followDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Follower  string              `bson:"follower"`
	Target    string              `bson:"target"`
	Status    models.FollowStatus `bson:"status"`
	CreatedAt time.Time           `bson:"created_at"`
}

func decodeFollow(doc *followDocument) *models.FollowRequest {
	return &models.FollowRequest{
		ID:        doc.ID.Hex(),
		Follower:  doc.Follower,
		Target:    doc.Target,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
	}
}

// SaveFollowRequest inserts a pending follow request, rejecting duplicates
// for the same follower/target pair.
func (m *MongoDB) SaveFollowRequest(ctx context.Context, req *models.FollowRequest) error {
	count, err := m.Follows.CountDocuments(ctx, bson.M{
		"follower": req.Follower,
		"target":   req.Target,
		"status":   bson.M{"$in": []models.FollowStatus{models.FollowPending, models.FollowAccepted}},
	})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to check existing follow", err)
	}
	if count > 0 {
		return utils.NewAppError(utils.ErrFollowRequestExists, "follow request already exists", nil)
	}

	doc := &followDocument{
		Follower:  req.Follower,
		Target:    req.Target,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
	result, err := m.Follows.InsertOne(ctx, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save follow request", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		req.ID = oid.Hex()
	}
	return nil
}

// GetFollowRequest fetches one follow request by identifier.
func (m *MongoDB) GetFollowRequest(ctx context.Context, requestID string) (*models.FollowRequest, error) {
	oid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "invalid follow request ID", err)
	}

	var doc followDocument
	err = m.Follows.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrFollowNotFound, "Follow request not found: "+requestID, nil)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get follow request", err)
	}
	return decodeFollow(&doc), nil
}

// UpdateFollowStatus moves a request to accepted or declined.
func (m *MongoDB) UpdateFollowStatus(ctx context.Context, requestID string, status models.FollowStatus) error {
	oid, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid follow request ID", err)
	}

	result, err := m.Follows.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update follow status", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrFollowNotFound, "Follow request not found: "+requestID, nil)
	}
	return nil
}

// PendingFollowRequests lists requests awaiting a decision from target,
// oldest first so they can be handled in arrival order.
func (m *MongoDB) PendingFollowRequests(ctx context.Context, target string) ([]*models.FollowRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.Follows.Find(ctx, bson.M{"target": target, "status": models.FollowPending}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query follow requests", err)
	}
	defer cursor.Close(ctx)

	requests := make([]*models.FollowRequest, 0)
	for cursor.Next(ctx) {
		var doc followDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode follow request", err)
		}
		requests = append(requests, decodeFollow(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error while reading follow requests", err)
	}
	return requests, nil
}

// Following returns the usernames this follower has accepted follows for;
// these are the source users of the following feed.
func (m *MongoDB) Following(ctx context.Context, follower string) ([]string, error) {
	cursor, err := m.Follows.Find(ctx, bson.M{"follower": follower, "status": models.FollowAccepted})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query following list", err)
	}
	defer cursor.Close(ctx)

	targets := make([]string, 0)
	for cursor.Next(ctx) {
		var doc followDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode follow", err)
		}
		targets = append(targets, doc.Target)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error while reading follows", err)
	}
	return targets, nil
}

// Followers returns the usernames with an accepted follow on target; they
// are the audience for target's feed change events.
func (m *MongoDB) Followers(ctx context.Context, target string) ([]string, error) {
	cursor, err := m.Follows.Find(ctx, bson.M{"target": target, "status": models.FollowAccepted})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query followers", err)
	}
	defer cursor.Close(ctx)

	followers := make([]string, 0)
	for cursor.Next(ctx) {
		var doc followDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode follow", err)
		}
		followers = append(followers, doc.Follower)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error while reading follows", err)
	}
	return followers, nil
}

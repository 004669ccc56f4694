package database

import (
	"context"
	"fmt"
	"time"

	"moodmap/internal/models"
	"moodmap/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreAdapter is the persistence boundary for the whole system. It is
// always injected explicitly into the actors that need it, never reached
// through a package-level handle, so the core stays testable without a
// live backend.
type StoreAdapter interface {
	// Connection
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// Mood record methods
	SaveRecord(ctx context.Context, record *models.MoodRecord) error
	UpdateRecord(ctx context.Context, record *models.MoodRecord) error
	GetRecord(ctx context.Context, recordID string) (*models.MoodRecord, error)
	GetRecordsByAuthor(ctx context.Context, author string) ([]*models.MoodRecord, error)
	GetPublicRecordsByAuthors(ctx context.Context, authors []string) ([]*models.MoodRecord, error)
	SearchPublicRecords(ctx context.Context, searchTerm string) ([]*models.MoodRecord, error)
	RemoveRecord(ctx context.Context, author string, recordID string) error

	// Comment methods
	SubmitComment(ctx context.Context, node *models.CommentNode) error
	RemoveComment(ctx context.Context, commentID string) error
	GetComment(ctx context.Context, commentID string) (*models.CommentNode, error)
	TopLevelComments(ctx context.Context, recordID string) ([]*models.CommentNode, error)
	SubReplies(ctx context.Context, commentID string) ([]*models.CommentNode, error)

	// Follow methods
	SaveFollowRequest(ctx context.Context, req *models.FollowRequest) error
	GetFollowRequest(ctx context.Context, requestID string) (*models.FollowRequest, error)
	UpdateFollowStatus(ctx context.Context, requestID string, status models.FollowStatus) error
	PendingFollowRequests(ctx context.Context, target string) ([]*models.FollowRequest, error)
	Following(ctx context.Context, follower string) ([]string, error)
	Followers(ctx context.Context, target string) ([]string, error)
}

// recordDocument is the wire shape of a mood record in the store: enum
// names as plain strings, the timestamp as epoch millis, and the location
// as an optional [lat, lon] pair. Decoding performs the strict enum parse;
// a document with an unrecognized emotion or situation is rejected with
// ErrMalformedRecord rather than silently defaulted.
type recordDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Author          string             `bson:"author"`
	Emotion         string             `bson:"emotion"`
	Trigger         string             `bson:"trigger,omitempty"`
	Reason          string             `bson:"reason,omitempty"`
	Situation       string             `bson:"situation,omitempty"`
	TimePosted      int64              `bson:"time_posted"`
	Location        []float64          `bson:"location,omitempty"`
	ImageRef        string             `bson:"image_ref,omitempty"`
	IsPublic        bool               `bson:"is_public"`
	Edited          bool               `bson:"edited"`
	TopCommentCount int                `bson:"top_comment_count"`
}

func encodeRecord(record *models.MoodRecord) *recordDocument {
	doc := &recordDocument{
		Author:          record.Author,
		Emotion:         string(record.Emotion),
		Trigger:         record.Trigger,
		Reason:          record.Reason,
		Situation:       string(record.Situation),
		TimePosted:      record.CreatedAt.UnixMilli(),
		ImageRef:        record.ImageRef,
		IsPublic:        record.Visibility == models.VisibilityPublic,
		Edited:          record.Edited,
		TopCommentCount: record.TopLevelCommentCount,
	}
	if record.HasLocation() {
		doc.Location = []float64{record.Latitude, record.Longitude}
	}
	if record.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(record.ID); err == nil {
			doc.ID = oid
		}
	}
	return doc
}

func decodeRecord(doc *recordDocument) (*models.MoodRecord, error) {
	emotion, err := models.ParseEmotion(doc.Emotion)
	if err != nil {
		return nil, utils.NewMalformedRecordError(doc.ID.Hex(), err)
	}

	var situation models.SocialSituation
	if doc.Situation != "" {
		situation, err = models.ParseSituation(doc.Situation)
		if err != nil {
			return nil, utils.NewMalformedRecordError(doc.ID.Hex(), err)
		}
	}

	visibility := models.VisibilityPrivate
	if doc.IsPublic {
		visibility = models.VisibilityPublic
	}

	record := &models.MoodRecord{
		ID:                   doc.ID.Hex(),
		Author:               doc.Author,
		Emotion:              emotion,
		Trigger:              doc.Trigger,
		Reason:               doc.Reason,
		Situation:            situation,
		Latitude:             models.InvalidCoordinate,
		Longitude:            models.InvalidCoordinate,
		ImageRef:             doc.ImageRef,
		Visibility:           visibility,
		CreatedAt:            time.UnixMilli(doc.TimePosted),
		Edited:               doc.Edited,
		TopLevelCommentCount: doc.TopCommentCount,
	}
	if len(doc.Location) == 2 {
		record.SetLocation(doc.Location[0], doc.Location[1])
	} else if len(doc.Location) != 0 {
		return nil, utils.NewMalformedRecordError(doc.ID.Hex(),
			fmt.Errorf("location has %d elements, want 2", len(doc.Location)))
	}
	return record, nil
}

// commentDocument is the wire shape of a comment node.
type commentDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Author          string             `bson:"author"`
	Text            string             `bson:"text"`
	ParentRecordID  string             `bson:"parent_record_id,omitempty"`
	ParentCommentID string             `bson:"parent_comment_id,omitempty"`
	RootRecordID    string             `bson:"root_record_id"`
	PostedAt        int64              `bson:"posted_at"`
	SubReplyCount   int                `bson:"sub_reply_count"`
}

func encodeComment(node *models.CommentNode) *commentDocument {
	doc := &commentDocument{
		Author:          node.Author,
		Text:            node.Text,
		ParentRecordID:  node.ParentRecordID,
		ParentCommentID: node.ParentCommentID,
		RootRecordID:    node.RootRecordID,
		PostedAt:        node.PostedAt.UnixMilli(),
		SubReplyCount:   node.SubReplyCount,
	}
	if node.ID != "" {
		if oid, err := primitive.ObjectIDFromHex(node.ID); err == nil {
			doc.ID = oid
		}
	}
	return doc
}

func decodeComment(doc *commentDocument) *models.CommentNode {
	return &models.CommentNode{
		ID:              doc.ID.Hex(),
		Author:          doc.Author,
		Text:            doc.Text,
		ParentRecordID:  doc.ParentRecordID,
		ParentCommentID: doc.ParentCommentID,
		RootRecordID:    doc.RootRecordID,
		PostedAt:        time.UnixMilli(doc.PostedAt),
		SubReplyCount:   doc.SubReplyCount,
	}
}

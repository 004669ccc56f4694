package database

import (
	"context"
	"time"

	"moodmap/internal/models"
	"moodmap/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        string `bson:"_id"`
	Username  string `bson:"username"`
	CreatedAt int64  `bson:"created_at"`
}

// SaveUser registers a new user, enforcing username uniqueness.
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	count, err := m.Users.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to check username", err)
	}
	if count > 0 {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "Username taken: "+user.Username, nil)
	}

	doc := &userDocument{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UnixMilli(),
	}
	if _, err := m.Users.InsertOne(ctx, doc); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save user", err)
	}
	return nil
}

// GetUserByUsername fetches a user profile.
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDocument
	err := m.Users.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(username)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get user", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "stored user has invalid ID", err)
	}
	return &models.User{
		ID:        id,
		Username:  doc.Username,
		CreatedAt: time.UnixMilli(doc.CreatedAt),
	}, nil
}

package database

import (
	"context"
	"log"

	"moodmap/internal/models"
	"moodmap/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveRecord inserts a new mood record and assigns its document identifier.
func (m *MongoDB) SaveRecord(ctx context.Context, record *models.MoodRecord) error {
	doc := encodeRecord(record)
	result, err := m.Records.InsertOne(ctx, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save mood record", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

// UpdateRecord replaces the stored document for an already-persisted record.
func (m *MongoDB) UpdateRecord(ctx context.Context, record *models.MoodRecord) error {
	oid, err := primitive.ObjectIDFromHex(record.ID)
	if err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid record ID", err)
	}

	doc := encodeRecord(record)
	result, err := m.Records.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update mood record", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewRecordNotFoundError(record.ID)
	}
	return nil
}

// GetRecord fetches one record by document identifier.
func (m *MongoDB) GetRecord(ctx context.Context, recordID string) (*models.MoodRecord, error) {
	oid, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "invalid record ID", err)
	}

	var doc recordDocument
	err = m.Records.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewRecordNotFoundError(recordID)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get mood record", err)
	}
	return decodeRecord(&doc)
}

// GetRecordsByAuthor returns a user's own mood history (all visibilities),
// newest first.
func (m *MongoDB) GetRecordsByAuthor(ctx context.Context, author string) ([]*models.MoodRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time_posted", Value: -1}})
	cursor, err := m.Records.Find(ctx, bson.M{"author": author}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query mood history", err)
	}
	return m.decodeRecordCursor(ctx, cursor)
}

// GetPublicRecordsByAuthors returns the raw, unordered feed input: every
// PUBLIC record from the given authors. Ordering and per-author bounding
// belong to the aggregator, not the store.
func (m *MongoDB) GetPublicRecordsByAuthors(ctx context.Context, authors []string) ([]*models.MoodRecord, error) {
	if len(authors) == 0 {
		return []*models.MoodRecord{}, nil
	}
	cursor, err := m.Records.Find(ctx, bson.M{
		"author":    bson.M{"$in": authors},
		"is_public": true,
	})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query feed records", err)
	}
	return m.decodeRecordCursor(ctx, cursor)
}

// SearchPublicRecords finds public records whose reason contains the search
// term, case-insensitively.
func (m *MongoDB) SearchPublicRecords(ctx context.Context, searchTerm string) ([]*models.MoodRecord, error) {
	cursor, err := m.Records.Find(ctx, bson.M{
		"is_public": true,
		"reason":    bson.M{"$regex": searchTerm, "$options": "i"},
	})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to search records", err)
	}
	return m.decodeRecordCursor(ctx, cursor)
}

// RemoveRecord deletes a record owned by author, along with every comment
// in its thread.
func (m *MongoDB) RemoveRecord(ctx context.Context, author string, recordID string) error {
	oid, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return utils.NewAppError(utils.ErrInvalidInput, "invalid record ID", err)
	}

	result, err := m.Records.DeleteOne(ctx, bson.M{"_id": oid, "author": author})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to remove mood record", err)
	}
	if result.DeletedCount == 0 {
		// Either the record does not exist or it belongs to someone else.
		return utils.NewRecordNotFoundError(recordID)
	}

	if _, err := m.Comments.DeleteMany(ctx, bson.M{"root_record_id": recordID}); err != nil {
		log.Printf("Failed to clean up comments for removed record %s: %v", recordID, err)
	}
	return nil
}

// decodeRecordCursor drains a cursor, strict-parsing every document. A
// malformed document fails the whole query with a typed error instead of
// being silently dropped.
func (m *MongoDB) decodeRecordCursor(ctx context.Context, cursor *mongo.Cursor) ([]*models.MoodRecord, error) {
	defer cursor.Close(ctx)

	records := make([]*models.MoodRecord, 0)
	for cursor.Next(ctx) {
		var doc recordDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, utils.NewAppError(utils.ErrDatabase, "failed to decode mood record", err)
		}
		record, err := decodeRecord(&doc)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := cursor.Err(); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "cursor error while reading records", err)
	}
	return records, nil
}

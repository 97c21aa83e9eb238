// File: database/repository/availability/availability_mongo.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotsync/models"
)

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo creates the repository on the given database.
func NewMongoAvailabilityRepo(db *mongo.Database) AvailabilityRepository {
	repo := &MongoAvailabilityRepo{coll: db.Collection("availability")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create availability indexes: %v\n", err)
	}
	return repo
}

func (r *MongoAvailabilityRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "dayIndex", Value: 1},
				{Key: "hour", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "dayIndex", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetMarks fetches the marks of the given users on the given days.
func (r *MongoAvailabilityRepo) GetMarks(ctx context.Context, userIDs []string, dayIndexes []int) ([]models.AvailabilityMark, error) {
	if len(userIDs) == 0 || len(dayIndexes) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId":   bson.M{"$in": userIDs},
		"dayIndex": bson.M{"$in": dayIndexes},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability marks: %w", err)
	}
	defer cursor.Close(ctx)

	var marks []models.AvailabilityMark
	if err := cursor.All(ctx, &marks); err != nil {
		return nil, fmt.Errorf("failed to decode availability marks: %w", err)
	}
	return marks, nil
}

// ReplaceWeek deletes the user's marks on the given days and inserts the new
// set in one transaction-like sweep. Duplicate (day, hour) pairs in the input
// collapse to a single mark.
func (r *MongoAvailabilityRepo) ReplaceWeek(ctx context.Context, userID string, dayIndexes []int, marks []models.AvailabilityMark) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"userId":   userID,
		"dayIndex": bson.M{"$in": dayIndexes},
	}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear week for user %s: %w", userID, err)
	}

	if len(marks) == 0 {
		return nil
	}

	seen := make(map[models.SlotKey]bool, len(marks))
	docs := make([]interface{}, 0, len(marks))
	for _, m := range marks {
		m.UserID = userID
		if seen[m.Key()] {
			continue
		}
		seen[m.Key()] = true
		docs = append(docs, m)
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert week for user %s: %w", userID, err)
	}
	return nil
}

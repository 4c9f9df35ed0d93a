package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
)

const collectionCompletions = "habit_completions"

type CompletionRepository struct {
	col *mongo.Collection
}

func NewCompletionRepository(db *mongo.Database) *CompletionRepository {
	return &CompletionRepository{col: db.Collection(collectionCompletions)}
}

func (r *CompletionRepository) FindByHabit(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"habit_id": habitID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []*domain.CompletionRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *CompletionRepository) FindByHabitAndDate(ctx context.Context, habitID, date string) (*domain.CompletionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec domain.CompletionRecord
	err := r.col.FindOne(ctx, bson.M{"habit_id": habitID, "date": date}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Save inserts a new completion record. The unique (habit_id, date) index
// turns a concurrent duplicate insert into domain.ErrCompletionExists.
func (r *CompletionRepository) Save(ctx context.Context, c *domain.CompletionRecord) (*domain.CompletionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCompletionExists
		}
		return nil, err
	}
	return c, nil
}

func (r *CompletionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrCompletionNotFound
	}
	return nil
}

// DeleteByHabit removes every record of the habit (cascade on habit deletion).
func (r *CompletionRepository) DeleteByHabit(ctx context.Context, habitID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"habit_id": habitID})
	return err
}

func (r *CompletionRepository) CountInPeriod(ctx context.Context, habitID, start, end string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// fixed-format date keys compare correctly as strings
	return r.col.CountDocuments(ctx, bson.M{
		"habit_id": habitID,
		"date":     bson.M{"$gte": start, "$lte": end},
	})
}

func (r *CompletionRepository) FindByUserAndPeriod(ctx context.Context, userID, start, end string) ([]*domain.CompletionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": start, "$lte": end},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []*domain.CompletionRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the completion indexes. The unique (habit_id, date)
// index is the invariant the toggle operation relies on: at most one record
// per habit per calendar day.
func (r *CompletionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "habit_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

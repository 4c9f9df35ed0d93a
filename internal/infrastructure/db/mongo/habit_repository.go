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

const collectionHabits = "habits"

type HabitRepository struct {
	col *mongo.Collection
}

func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{col: db.Collection(collectionHabits)}
}

// Save inserts the habit when it carries no ID yet, otherwise replaces the
// stored document in full.
func (r *HabitRepository) Save(ctx context.Context, h *domain.Habit) (*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if h.ID == "" {
		h.ID = primitive.NewObjectID().Hex()
		if _, err := r.col.InsertOne(ctx, h); err != nil {
			return nil, err
		}
		return h, nil
	}

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": h.ID}, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id string) (*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var h domain.Habit
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&h)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *HabitRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return r.find(ctx, bson.M{"user_id": userID}, nil)
}

func (r *HabitRepository) FindByUserAndActive(ctx context.Context, userID string, active bool) ([]*domain.Habit, error) {
	return r.find(ctx, bson.M{"user_id": userID, "is_active": active}, nil)
}

func (r *HabitRepository) FindActiveByUserAndCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error) {
	return r.find(ctx, bson.M{"user_id": userID, "is_active": true, "category": category}, nil)
}

func (r *HabitRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"user_id": userID, "is_active": true})
}

// FindTopByStreak returns up to limit active habits ordered by streak
// descending; the secondary _id sort makes the order deterministic on ties.
func (r *HabitRepository) FindTopByStreak(ctx context.Context, userID string, limit int) ([]*domain.Habit, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "streak", Value: -1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"user_id": userID, "is_active": true}, opts)
}

func (r *HabitRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

func (r *HabitRepository) FindActiveIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

func (r *HabitRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Habit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var habits []*domain.Habit
	if err := cur.All(ctx, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// EnsureIndexes creates the indexes the habit queries rely on.
func (r *HabitRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "streak", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

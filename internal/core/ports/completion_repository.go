package ports

import (
	"context"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
)

// CompletionRepository defines persistence operations for completion records.
// Dates are civil-date keys in domain.DateLayout format.
type CompletionRepository interface {
	FindByHabit(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error)
	// FindByHabitAndDate returns domain.ErrCompletionNotFound when no record
	// exists for the (habit, date) pair.
	FindByHabitAndDate(ctx context.Context, habitID, date string) (*domain.CompletionRecord, error)
	// Save inserts a new record. A concurrent insert for the same
	// (habit, date) pair surfaces as domain.ErrCompletionExists.
	Save(ctx context.Context, c *domain.CompletionRecord) (*domain.CompletionRecord, error)
	Delete(ctx context.Context, id string) error
	// DeleteByHabit removes every record owned by the habit (cascade on habit
	// deletion — no record may outlive its habit).
	DeleteByHabit(ctx context.Context, habitID string) error
	CountInPeriod(ctx context.Context, habitID, start, end string) (int64, error)
	FindByUserAndPeriod(ctx context.Context, userID, start, end string) ([]*domain.CompletionRecord, error)
}

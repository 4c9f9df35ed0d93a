package ports

import (
	"context"
	"time"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
)

// CreateHabitInput carries the client-settable fields of a new habit. Derived
// fields (streak, completion rate) and ownership are set by the service.
type CreateHabitInput struct {
	Name      string
	Category  string
	Frequency string
	Goal      string
	Color     string
	Icon      string
	Tags      []string
	Priority  string
	Reminder  bool
}

// UpdateHabitInput carries the mutable fields of an existing habit.
type UpdateHabitInput struct {
	Name      string
	Category  string
	Frequency string
	Goal      string
	Color     string
	Icon      string
	Tags      []string
	Priority  string
	Reminder  bool
	IsActive  bool
}

// Actor identifies the authenticated user performing an operation. Role ADMIN
// bypasses the ownership check; everyone else only sees their own habits.
type Actor struct {
	UserID string
	Role   string
}

// HabitService defines the use-case operations for habits and their
// completion toggling.
type HabitService interface {
	ListHabits(ctx context.Context, userID string) ([]*domain.Habit, error)
	ListActiveHabits(ctx context.Context, userID string) ([]*domain.Habit, error)
	ListHabitsByCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error)
	CountActiveHabits(ctx context.Context, userID string) (int64, error)
	GetHabit(ctx context.Context, actor Actor, habitID string) (*domain.Habit, error)
	CreateHabit(ctx context.Context, userID string, in CreateHabitInput) (*domain.Habit, error)
	UpdateHabit(ctx context.Context, actor Actor, habitID string, in UpdateHabitInput) (*domain.Habit, error)
	// DeleteHabit removes the habit and cascade-deletes its completion records.
	DeleteHabit(ctx context.Context, actor Actor, habitID string) error
	// ToggleCompletion flips the completion state of (habit, date): an existing
	// record is removed, a missing one is created with the optional note. Both
	// branches recompute and persist the habit's streak and completion rate,
	// and the updated habit is returned.
	ToggleCompletion(ctx context.Context, actor Actor, habitID string, date time.Time, note string) (*domain.Habit, error)
	// RefreshStats recomputes and persists the derived fields for one habit.
	// Used by the nightly refresher to un-stale streaks at day rollover.
	RefreshStats(ctx context.Context, habitID string) error
}

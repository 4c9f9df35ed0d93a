package domain

import (
	"errors"
	"time"
)

// Priority expresses how important a habit is to its owner.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var ErrHabitNotFound = errors.New("habit not found")
var ErrCompletionNotFound = errors.New("completion not found")
var ErrCompletionExists = errors.New("completion already recorded for date")
var ErrHabitLocked = errors.New("habit is being modified concurrently")
var ErrForbidden = errors.New("access forbidden")

// IsValid reports whether p is one of the known priority levels.
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Habit is the core aggregate root. Streak and CompletionRate are derived from
// the habit's completion records and are only ever written through the
// recompute path — client input never sets them directly.
type Habit struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	UserID         string    `json:"user_id" bson:"user_id"`
	Name           string    `json:"name" bson:"name"`
	Category       string    `json:"category" bson:"category"`
	Frequency      string    `json:"frequency" bson:"frequency"`
	Goal           string    `json:"goal,omitempty" bson:"goal,omitempty"`
	Color          string    `json:"color,omitempty" bson:"color,omitempty"`
	Icon           string    `json:"icon,omitempty" bson:"icon,omitempty"`
	Tags           []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Priority       Priority  `json:"priority" bson:"priority"`
	Reminder       bool      `json:"reminder" bson:"reminder"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	Streak         int       `json:"streak" bson:"streak"`
	CompletionRate float64   `json:"completion_rate" bson:"completion_rate"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

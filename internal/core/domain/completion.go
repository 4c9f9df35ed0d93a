package domain

import "time"

// DateLayout is the civil-date key format used for completion dates. Dates are
// day-granular: storing them as fixed-format strings keeps equality and range
// queries timezone-safe.
const DateLayout = "2006-01-02"

// CompletionRecord is evidence that a habit was performed on one calendar day.
// At most one record exists per (habit, date) pair; the completion store
// enforces this with a unique index.
type CompletionRecord struct {
	ID      string `json:"id" bson:"_id,omitempty"`
	HabitID string `json:"habit_id" bson:"habit_id"`
	UserID  string `json:"user_id" bson:"user_id"`
	Date    string `json:"date" bson:"date"`
	Note    string `json:"note,omitempty" bson:"note,omitempty"`
}

// DateKey converts a timestamp to its UTC civil-date key.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDateKey parses a civil-date key back into a UTC midnight timestamp.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

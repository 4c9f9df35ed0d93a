package handler

import "time"

type createHabitRequest struct {
	Name      string   `json:"name"      validate:"required"`
	Category  string   `json:"category"  validate:"required"`
	Frequency string   `json:"frequency" validate:"required"`
	Goal      string   `json:"goal"`
	Color     string   `json:"color"`
	Icon      string   `json:"icon"`
	Tags      []string `json:"tags"`
	Priority  string   `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Reminder  bool     `json:"reminder"`
}

type updateHabitRequest struct {
	Name      string   `json:"name"      validate:"required"`
	Category  string   `json:"category"  validate:"required"`
	Frequency string   `json:"frequency" validate:"required"`
	Goal      string   `json:"goal"`
	Color     string   `json:"color"`
	Icon      string   `json:"icon"`
	Tags      []string `json:"tags"`
	Priority  string   `json:"priority" validate:"omitempty,oneof=HIGH MEDIUM LOW"`
	Reminder  bool     `json:"reminder"`
	IsActive  bool     `json:"is_active"`
}

// toggleCompletionRequest is the optional toggle body. An empty date means
// "today".
type toggleCompletionRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note string `json:"note"`
}

type habitResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Frequency      string    `json:"frequency"`
	Goal           string    `json:"goal,omitempty"`
	Color          string    `json:"color,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Priority       string    `json:"priority"`
	Reminder       bool      `json:"reminder"`
	IsActive       bool      `json:"is_active"`
	Streak         int       `json:"streak"`
	CompletionRate float64   `json:"completion_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

package handler

import (
	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createHabitRequest) ports.CreateHabitInput {
	return ports.CreateHabitInput{
		Name:      req.Name,
		Category:  req.Category,
		Frequency: req.Frequency,
		Goal:      req.Goal,
		Color:     req.Color,
		Icon:      req.Icon,
		Tags:      req.Tags,
		Priority:  req.Priority,
		Reminder:  req.Reminder,
	}
}

func toUpdateInput(req updateHabitRequest) ports.UpdateHabitInput {
	return ports.UpdateHabitInput{
		Name:      req.Name,
		Category:  req.Category,
		Frequency: req.Frequency,
		Goal:      req.Goal,
		Color:     req.Color,
		Icon:      req.Icon,
		Tags:      req.Tags,
		Priority:  req.Priority,
		Reminder:  req.Reminder,
		IsActive:  req.IsActive,
	}
}

// --- Domain → HTTP response ---

func toHabitResponse(h *domain.Habit) habitResponse {
	return habitResponse{
		ID:             h.ID,
		UserID:         h.UserID,
		Name:           h.Name,
		Category:       h.Category,
		Frequency:      h.Frequency,
		Goal:           h.Goal,
		Color:          h.Color,
		Icon:           h.Icon,
		Tags:           h.Tags,
		Priority:       string(h.Priority),
		Reminder:       h.Reminder,
		IsActive:       h.IsActive,
		Streak:         h.Streak,
		CompletionRate: h.CompletionRate,
		CreatedAt:      h.CreatedAt.UTC(),
	}
}

func toHabitListResponse(habits []*domain.Habit) []habitResponse {
	out := make([]habitResponse, len(habits))
	for i, h := range habits {
		out[i] = toHabitResponse(h)
	}
	return out
}

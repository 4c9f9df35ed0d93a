package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/habittracker/habit-tracker-backend/internal/api/metrics"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// StatsHandler handles HTTP requests for user statistics.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get handles GET /v1/statistics.
//
// @Summary      Aggregate statistics for the authenticated user
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.StatsReport
// @Failure      401  {object}  map[string]string
// @Router       /v1/statistics [get]
func (h *StatsHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := h.service.UserStatistics(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	metrics.StatsRequestDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, report)
}

// TopHabits handles GET /v1/statistics/top-habits.
//
// @Summary      The authenticated user's best active habits by streak
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   habitResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/statistics/top-habits [get]
func (h *StatsHandler) TopHabits(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	habits, err := h.service.TopPerformingHabits(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHabitListResponse(habits))
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/habittracker/habit-tracker-backend/internal/api/metrics"
	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// HabitHandler handles HTTP requests for habit operations.
type HabitHandler struct {
	service ports.HabitService
}

func NewHabitHandler(service ports.HabitService) *HabitHandler {
	return &HabitHandler{service: service}
}

// List handles GET /v1/habits.
//
// @Summary      List the authenticated user's habits
// @Tags         habits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   habitResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/habits [get]
func (h *HabitHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	habits, err := h.service.ListHabits(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHabitListResponse(habits))
}

// ListActive handles GET /v1/habits/active.
//
// @Summary      List the authenticated user's active habits
// @Tags         habits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   habitResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/habits/active [get]
func (h *HabitHandler) ListActive(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	habits, err := h.service.ListActiveHabits(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHabitListResponse(habits))
}

// ListByCategory handles GET /v1/habits/category/:category.
//
// @Summary      List active habits in a category
// @Tags         habits
// @Produce      json
// @Security     BearerAuth
// @Param        category  path      string  true  "Category label"
// @Success      200       {array}   habitResponse
// @Failure      401       {object}  map[string]string
// @Router       /v1/habits/category/{category} [get]
func (h *HabitHandler) ListByCategory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	habits, err := h.service.ListHabitsByCategory(c.Request().Context(), actor.UserID, c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHabitListResponse(habits))
}

// Get handles GET /v1/habits/:id.
//
// @Summary      Get a habit by id
// @Tags         habits
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Habit id"
// @Success      200  {object}  habitResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/habits/{id} [get]
func (h *HabitHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	habit, err := h.service.GetHabit(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "habit not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toHabitResponse(habit))
}

// Create handles POST /v1/habits.
//
// @Summary      Create a new habit
// @Tags         habits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHabitRequest  true  "Habit details"
// @Success      201   {object}  habitResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/habits [post]
func (h *HabitHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createHabitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.service.CreateHabit(c.Request().Context(), actor.UserID, toCreateInput(req))
	if err != nil {
		return err
	}

	metrics.HabitsCreatedTotal.WithLabelValues(created.Category).Inc()
	return c.JSON(http.StatusCreated, toHabitResponse(created))
}

// Update handles PUT /v1/habits/:id.
//
// @Summary      Update a habit
// @Tags         habits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Habit id"
// @Param        body  body      updateHabitRequest  true  "Habit details"
// @Success      200   {object}  habitResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/habits/{id} [put]
func (h *HabitHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateHabitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.service.UpdateHabit(c.Request().Context(), actor, c.Param("id"), toUpdateInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "habit not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toHabitResponse(updated))
}

// Delete handles DELETE /v1/habits/:id.
//
// @Summary      Delete a habit and its completion records
// @Tags         habits
// @Security     BearerAuth
// @Param        id  path  string  true  "Habit id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/habits/{id} [delete]
func (h *HabitHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteHabit(c.Request().Context(), actor, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "habit not found"})
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Toggle handles POST /v1/habits/:id/toggle.
//
// @Summary      Toggle a habit's completion for a date
// @Description  Creates the completion record for the date when absent, removes it when present. Both branches recompute the habit's streak and completion rate. The date comes from the "date" query parameter or the body; when neither is set, today is toggled.
// @Param        date  query     string                   false  "Civil date (YYYY-MM-DD), defaults to today"
// @Tags         habits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true   "Habit id"
// @Param        body  body      toggleCompletionRequest  false  "Toggle details"
// @Success      200   {object}  habitResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/habits/{id}/toggle [post]
func (h *HabitHandler) Toggle(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req toggleCompletionRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}
	}

	dateStr := c.QueryParam("date")
	if dateStr == "" {
		dateStr = req.Date
	}

	date := time.Now().UTC()
	if dateStr != "" {
		parsed, err := domain.ParseDateKey(dateStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be formatted as YYYY-MM-DD"})
		}
		date = parsed
	}

	updated, err := h.service.ToggleCompletion(c.Request().Context(), actor, c.Param("id"), date, req.Note)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "habit not found"})
		}
		if errors.Is(err, domain.ErrHabitLocked) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "habit is being modified, retry"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toHabitResponse(updated))
}

// AdminListUserHabits handles GET /v1/admin/users/:id/habits.
//
// @Summary      List any user's habits (admin only)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {array}   habitResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/users/{id}/habits [get]
func (h *HabitHandler) AdminListUserHabits(c echo.Context) error {
	habits, err := h.service.ListHabits(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHabitListResponse(habits))
}

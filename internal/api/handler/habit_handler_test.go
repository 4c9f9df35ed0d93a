package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

type stubHabitService struct {
	listFn       func(ctx context.Context, userID string) ([]*domain.Habit, error)
	listActiveFn func(ctx context.Context, userID string) ([]*domain.Habit, error)
	listByCatFn  func(ctx context.Context, userID, category string) ([]*domain.Habit, error)
	getFn        func(ctx context.Context, actor ports.Actor, habitID string) (*domain.Habit, error)
	createFn     func(ctx context.Context, userID string, in ports.CreateHabitInput) (*domain.Habit, error)
	updateFn     func(ctx context.Context, actor ports.Actor, habitID string, in ports.UpdateHabitInput) (*domain.Habit, error)
	deleteFn     func(ctx context.Context, actor ports.Actor, habitID string) error
	toggleFn     func(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error)
}

func (s *stubHabitService) ListHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.listFn(ctx, userID)
}

func (s *stubHabitService) ListActiveHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.listActiveFn(ctx, userID)
}

func (s *stubHabitService) ListHabitsByCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error) {
	return s.listByCatFn(ctx, userID, category)
}

func (s *stubHabitService) CountActiveHabits(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (s *stubHabitService) GetHabit(ctx context.Context, actor ports.Actor, habitID string) (*domain.Habit, error) {
	return s.getFn(ctx, actor, habitID)
}

func (s *stubHabitService) CreateHabit(ctx context.Context, userID string, in ports.CreateHabitInput) (*domain.Habit, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubHabitService) UpdateHabit(ctx context.Context, actor ports.Actor, habitID string, in ports.UpdateHabitInput) (*domain.Habit, error) {
	return s.updateFn(ctx, actor, habitID, in)
}

func (s *stubHabitService) DeleteHabit(ctx context.Context, actor ports.Actor, habitID string) error {
	return s.deleteFn(ctx, actor, habitID)
}

func (s *stubHabitService) ToggleCompletion(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
	return s.toggleFn(ctx, actor, habitID, date, note)
}

func (s *stubHabitService) RefreshStats(ctx context.Context, habitID string) error {
	return nil
}

// authedContext builds an echo.Context carrying the claims the Auth middleware
// would have injected.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c
}

func TestHabitHandler_List_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Habit, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return []*domain.Habit{
				{ID: "h1", UserID: "u1", Name: "Read", Category: "learning", Priority: domain.PriorityMedium, IsActive: true},
				{ID: "h2", UserID: "u1", Name: "Run", Category: "fitness", Priority: domain.PriorityHigh, IsActive: true},
			}, nil
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/habits", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["id"] != "h1" || resp[1]["name"] != "Run" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestHabitHandler_List_MissingClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewHabitHandler(&stubHabitService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/habits", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.List(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestHabitHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		getFn: func(ctx context.Context, actor ports.Actor, habitID string) (*domain.Habit, error) {
			return nil, domain.ErrHabitNotFound
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/habits/h404", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h404")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHabitHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		createFn: func(ctx context.Context, userID string, in ports.CreateHabitInput) (*domain.Habit, error) {
			if userID != "u1" || in.Name != "Meditate" || in.Priority != "HIGH" {
				t.Fatalf("unexpected input: %s %+v", userID, in)
			}
			return &domain.Habit{
				ID:       "h1",
				UserID:   userID,
				Name:     in.Name,
				Category: in.Category,
				Priority: domain.PriorityHigh,
				IsActive: true,
			}, nil
		},
	}
	handler := NewHabitHandler(stub)

	body := strings.NewReader(`{"name":"Meditate","category":"wellness","frequency":"daily","priority":"HIGH"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/habits", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "h1" || resp["is_active"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestHabitHandler_Create_MissingName(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		createFn: func(ctx context.Context, userID string, in ports.CreateHabitInput) (*domain.Habit, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewHabitHandler(stub)

	body := strings.NewReader(`{"category":"wellness","frequency":"daily"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/habits", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	err := handler.Create(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestHabitHandler_Create_InvalidPriority(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		createFn: func(ctx context.Context, userID string, in ports.CreateHabitInput) (*domain.Habit, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewHabitHandler(stub)

	body := strings.NewReader(`{"name":"Meditate","category":"wellness","frequency":"daily","priority":"URGENT"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/habits", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	err := handler.Create(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestHabitHandler_Delete_Success(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubHabitService{
		deleteFn: func(ctx context.Context, actor ports.Actor, habitID string) error {
			called = true
			if habitID != "h1" || actor.UserID != "u1" {
				t.Fatalf("unexpected args: %s %+v", habitID, actor)
			}
			return nil
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/habits/h1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("expected service delete to be called")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestHabitHandler_Toggle_ExplicitDate(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		toggleFn: func(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
			if domain.DateKey(date) != "2025-06-10" {
				t.Fatalf("unexpected date: %s", domain.DateKey(date))
			}
			if note != "evening run" {
				t.Fatalf("unexpected note: %q", note)
			}
			return &domain.Habit{ID: habitID, UserID: actor.UserID, Streak: 3, CompletionRate: 10.0}, nil
		},
	}
	handler := NewHabitHandler(stub)

	body := strings.NewReader(`{"date":"2025-06-10","note":"evening run"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/habits/h1/toggle", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h1")

	if err := handler.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["streak"] != float64(3) {
		t.Fatalf("expected updated streak in payload: %+v", resp)
	}
}

func TestHabitHandler_Toggle_QueryParamDate(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		toggleFn: func(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
			if domain.DateKey(date) != "2025-06-09" {
				t.Fatalf("unexpected date: %s", domain.DateKey(date))
			}
			return &domain.Habit{ID: habitID, UserID: actor.UserID}, nil
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/habits/h1/toggle?date=2025-06-09", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h1")

	if err := handler.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHabitHandler_Toggle_DefaultsToToday(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		toggleFn: func(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
			if domain.DateKey(date) != domain.DateKey(time.Now().UTC()) {
				t.Fatalf("expected today, got %s", domain.DateKey(date))
			}
			return &domain.Habit{ID: habitID, UserID: actor.UserID}, nil
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/habits/h1/toggle", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h1")

	if err := handler.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHabitHandler_Toggle_BadDate(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		toggleFn: func(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewHabitHandler(stub)

	body := strings.NewReader(`{"date":"10/06/2025"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/habits/h1/toggle", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h1")

	_ = handler.Toggle(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHabitHandler_Toggle_Locked(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		toggleFn: func(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
			return nil, domain.ErrHabitLocked
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/habits/h1/toggle", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("h1")

	if err := handler.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHabitHandler_AdminListUserHabits(t *testing.T) {
	e := newTestEcho()
	stub := &stubHabitService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Habit, error) {
			if userID != "u2" {
				t.Fatalf("expected target user id, got %s", userID)
			}
			return []*domain.Habit{{ID: "h9", UserID: "u2", Name: "Stretch"}}, nil
		},
	}
	handler := NewHabitHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users/u2/habits", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("u2")

	if err := handler.AdminListUserHabits(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["user_id"] != "u2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

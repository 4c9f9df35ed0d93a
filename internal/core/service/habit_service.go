package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/habittracker/habit-tracker-backend/internal/api/metrics"
	"github.com/habittracker/habit-tracker-backend/internal/core/domain"
	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// ToggleLocker serializes concurrent toggles for the same habit (Redis).
// Lock returns false when another toggle currently holds the habit.
type ToggleLocker interface {
	Lock(ctx context.Context, habitID string) (bool, error)
	Unlock(ctx context.Context, habitID string) error
}

// HabitService implements habit CRUD and the completion toggle engine.
type HabitService struct {
	habits         ports.HabitRepository
	completions    ports.CompletionRepository
	locker         ToggleLocker
	rateWindowDays int
	now            func() time.Time
	logger         zerolog.Logger
}

func NewHabitService(
	habits ports.HabitRepository,
	completions ports.CompletionRepository,
	locker ToggleLocker,
	rateWindowDays int,
	logger zerolog.Logger,
) *HabitService {
	if rateWindowDays <= 0 {
		rateWindowDays = domain.DefaultRateWindowDays
	}
	return &HabitService{
		habits:         habits,
		completions:    completions,
		locker:         locker,
		rateWindowDays: rateWindowDays,
		now:            func() time.Time { return time.Now().UTC() },
		logger:         logger,
	}
}

func (s *HabitService) ListHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.habits.FindByUser(ctx, userID)
}

func (s *HabitService) ListActiveHabits(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.habits.FindByUserAndActive(ctx, userID, true)
}

func (s *HabitService) ListHabitsByCategory(ctx context.Context, userID, category string) ([]*domain.Habit, error) {
	return s.habits.FindActiveByUserAndCategory(ctx, userID, category)
}

func (s *HabitService) CountActiveHabits(ctx context.Context, userID string) (int64, error) {
	return s.habits.CountActiveByUser(ctx, userID)
}

func (s *HabitService) GetHabit(ctx context.Context, actor ports.Actor, habitID string) (*domain.Habit, error) {
	return s.getOwned(ctx, actor, habitID)
}

func (s *HabitService) CreateHabit(ctx context.Context, userID string, in ports.CreateHabitInput) (*domain.Habit, error) {
	priority := domain.Priority(in.Priority)
	if !priority.IsValid() {
		priority = domain.PriorityMedium
	}

	habit := &domain.Habit{
		UserID:    userID,
		Name:      in.Name,
		Category:  in.Category,
		Frequency: in.Frequency,
		Goal:      in.Goal,
		Color:     in.Color,
		Icon:      in.Icon,
		Tags:      in.Tags,
		Priority:  priority,
		Reminder:  in.Reminder,
		IsActive:  true,
		CreatedAt: s.now(),
	}

	created, err := s.habits.Save(ctx, habit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create habit")
		return nil, err
	}

	s.logger.Info().Str("habit_id", created.ID).Str("user_id", userID).Str("category", created.Category).Msg("habit created")
	return created, nil
}

func (s *HabitService) UpdateHabit(ctx context.Context, actor ports.Actor, habitID string, in ports.UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.getOwned(ctx, actor, habitID)
	if err != nil {
		return nil, err
	}

	// Derived fields, ownership, and creation time survive updates untouched.
	habit.Name = in.Name
	habit.Category = in.Category
	habit.Frequency = in.Frequency
	habit.Goal = in.Goal
	habit.Color = in.Color
	habit.Icon = in.Icon
	habit.Tags = in.Tags
	habit.Reminder = in.Reminder
	habit.IsActive = in.IsActive
	if p := domain.Priority(in.Priority); p.IsValid() {
		habit.Priority = p
	}

	updated, err := s.habits.Save(ctx, habit)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("habit_id", habitID).Msg("habit updated")
	return updated, nil
}

// DeleteHabit removes the habit and its completion records. Completions go
// first so no record can outlive its habit.
func (s *HabitService) DeleteHabit(ctx context.Context, actor ports.Actor, habitID string) error {
	if _, err := s.getOwned(ctx, actor, habitID); err != nil {
		return err
	}

	if err := s.completions.DeleteByHabit(ctx, habitID); err != nil {
		return err
	}
	if err := s.habits.DeleteByID(ctx, habitID); err != nil {
		return err
	}

	s.logger.Info().Str("habit_id", habitID).Msg("habit deleted")
	return nil
}

// ToggleCompletion flips the (habit, date) completion state and recomputes the
// habit's derived fields. Two toggles for the same date return the record set
// to its prior state.
func (s *HabitService) ToggleCompletion(ctx context.Context, actor ports.Actor, habitID string, date time.Time, note string) (*domain.Habit, error) {
	habit, err := s.getOwned(ctx, actor, habitID)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		acquired, lockErr := s.locker.Lock(ctx, habitID)
		switch {
		case lockErr != nil:
			// The unique index on (habit, date) still guards correctness.
			s.logger.Warn().Err(lockErr).Str("habit_id", habitID).Msg("toggle lock unavailable, relying on store uniqueness")
		case !acquired:
			return nil, domain.ErrHabitLocked
		default:
			defer func() {
				if err := s.locker.Unlock(ctx, habitID); err != nil {
					s.logger.Warn().Err(err).Str("habit_id", habitID).Msg("failed to release toggle lock")
				}
			}()
		}
	}

	key := domain.DateKey(date)
	existing, err := s.completions.FindByHabitAndDate(ctx, habitID, key)
	switch {
	case err == nil:
		if err := s.completions.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		metrics.CompletionTogglesTotal.WithLabelValues("uncompleted").Inc()
		s.logger.Info().Str("habit_id", habitID).Str("date", key).Msg("completion removed")
	case errors.Is(err, domain.ErrCompletionNotFound):
		record := &domain.CompletionRecord{
			HabitID: habitID,
			UserID:  habit.UserID,
			Date:    key,
			Note:    note,
		}
		if _, err := s.completions.Save(ctx, record); err != nil {
			if !errors.Is(err, domain.ErrCompletionExists) {
				return nil, err
			}
			// Lost a race against a concurrent toggle: the record is already
			// there, recompute from it.
		}
		metrics.CompletionTogglesTotal.WithLabelValues("completed").Inc()
		s.logger.Info().Str("habit_id", habitID).Str("date", key).Msg("completion recorded")
	default:
		return nil, err
	}

	return s.recompute(ctx, habit)
}

// RefreshStats recomputes the derived fields from the habit's current
// completion set. Invoked by the nightly refresher at day rollover.
func (s *HabitService) RefreshStats(ctx context.Context, habitID string) error {
	habit, err := s.habits.FindByID(ctx, habitID)
	if err != nil {
		return err
	}
	_, err = s.recompute(ctx, habit)
	return err
}

// recompute derives streak and completion rate from the full completion set
// and persists them on the habit. There is no rollback if persisting fails
// after a completion write; the error is surfaced and logged with the habit id.
func (s *HabitService) recompute(ctx context.Context, habit *domain.Habit) (*domain.Habit, error) {
	records, err := s.completions.FindByHabit(ctx, habit.ID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	habit.Streak = domain.CurrentStreak(records, today)
	habit.CompletionRate = domain.CompletionRate(records, today, s.rateWindowDays)

	saved, err := s.habits.Save(ctx, habit)
	if err != nil {
		s.logger.Error().Err(err).Str("habit_id", habit.ID).Msg("derived stats not persisted after completion change")
		return nil, err
	}
	return saved, nil
}

// getOwned fetches a habit and enforces ownership: non-admin actors only see
// their own habits, and a foreign habit reads as not found.
func (s *HabitService) getOwned(ctx context.Context, actor ports.Actor, habitID string) (*domain.Habit, error) {
	habit, err := s.habits.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && habit.UserID != actor.UserID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/habittracker/habit-tracker-backend/internal/core/ports"
)

// Refresher enqueues a recompute job for every active habit at each UTC day
// rollover. Stored streaks and completion rates go stale at midnight when a
// day passes without a completion; this walks them back to the truth.
type Refresher struct {
	habits     ports.HabitRepository
	dispatcher *Dispatcher
	log        zerolog.Logger
}

func NewRefresher(habits ports.HabitRepository, dispatcher *Dispatcher, log zerolog.Logger) *Refresher {
	return &Refresher{habits: habits, dispatcher: dispatcher, log: log}
}

// Start runs the rollover loop until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	for {
		timer := time.NewTimer(untilNextMidnightUTC(time.Now().UTC()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context) {
	ids, err := r.habits.FindActiveIDs(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to list habits for stats refresh")
		return
	}

	r.dispatcher.EnqueueBatch(ids)
	r.log.Info().Int("habits", len(ids)).Msg("nightly stats refresh enqueued")
}

func untilNextMidnightUTC(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}

package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/habittracker/habit-tracker-backend/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// StatsRefresher recomputes one habit's derived fields.
type StatsRefresher interface {
	RefreshStats(ctx context.Context, habitID string) error
}

// Dispatcher routes habit recompute jobs to a fixed set of workers using
// consistent hashing on the habit id, so jobs for the same habit never run
// concurrently or out of order.
type Dispatcher struct {
	workers   []chan string
	refresher StatsRefresher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, refresher StatsRefresher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan string, numWorkers),
		refresher: refresher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a habit to the worker responsible for it. The call is
// non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(habitID string) {
	d.workers[d.shardIndex(habitID)] <- habitID
}

// EnqueueBatch enqueues multiple habits preserving per-habit ordering.
func (d *Dispatcher) EnqueueBatch(habitIDs []string) {
	for _, id := range habitIDs {
		d.Enqueue(id)
	}
}

// shardIndex maps a habit id deterministically to a worker index.
func (d *Dispatcher) shardIndex(habitID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(habitID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case habitID, ok := <-ch:
			if !ok {
				return
			}
			if err := d.refresher.RefreshStats(ctx, habitID); err != nil {
				metrics.StreakRefreshTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("habit_id", habitID).
					Int("worker_id", id).
					Msg("stats refresh failed")
				continue
			}
			metrics.StreakRefreshTotal.WithLabelValues("ok").Inc()
		}
	}
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockTTL = 10 * time.Second

// HabitLock serializes completion toggles per habit, backed by Redis.
// Key format: habitlock:<habit_id>. The TTL bounds how long a crashed holder
// can block other toggles.
type HabitLock struct {
	client *redis.Client
}

// NewHabitLock creates a HabitLock wrapping the given Redis client.
func NewHabitLock(client *redis.Client) *HabitLock {
	return &HabitLock{client: client}
}

// Lock attempts to acquire the habit's lock. Returns false when another
// toggle currently holds it.
func (l *HabitLock) Lock(ctx context.Context, habitID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(habitID), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("habit lock: %w", err)
	}
	return ok, nil
}

// Unlock releases the habit's lock.
func (l *HabitLock) Unlock(ctx context.Context, habitID string) error {
	return l.client.Del(ctx, l.key(habitID)).Err()
}

func (l *HabitLock) key(habitID string) string {
	return fmt.Sprintf("habitlock:%s", habitID)
}

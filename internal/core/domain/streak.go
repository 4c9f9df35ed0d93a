package domain

import "time"

// Default derivation windows. Both are policy values, overridable through
// configuration; these constants are the fallbacks.
const (
	DefaultRateWindowDays   = 30
	DefaultWeeklyWindowDays = 7
)

// dateSet indexes completion records by civil-date key.
func dateSet(completions []*CompletionRecord) map[string]struct{} {
	set := make(map[string]struct{}, len(completions))
	for _, c := range completions {
		set[c.Date] = struct{}{}
	}
	return set
}

// CurrentStreak walks backward from today one day at a time and counts
// consecutive days with a completion record, today included. The walk stops at
// the first day without a record, so a habit not completed today has streak 0.
func CurrentStreak(completions []*CompletionRecord, today time.Time) int {
	done := dateSet(completions)

	streak := 0
	day := today.UTC()
	for {
		if _, ok := done[DateKey(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// CompletionRate returns the percentage of the trailing windowDays-day window
// on which the habit was completed: records dated strictly after
// today-windowDays count toward the rate. One record per day (the store
// invariant) keeps the result within [0, 100].
func CompletionRate(completions []*CompletionRecord, today time.Time, windowDays int) float64 {
	if windowDays <= 0 {
		windowDays = DefaultRateWindowDays
	}
	cutoff := DateKey(today.UTC().AddDate(0, 0, -windowDays))

	var recent int
	for _, c := range completions {
		// lexicographic comparison of fixed-format date keys
		if c.Date > cutoff {
			recent++
		}
	}
	return float64(recent) / float64(windowDays) * 100
}

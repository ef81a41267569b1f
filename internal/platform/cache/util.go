package cache

import (
	"time"
)

// TimeUntilMidnight returns the duration from now to the next midnight in loc.
func TimeUntilMidnight(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return next.Sub(now)
}

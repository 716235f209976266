package utils

import (
	"time"
)

// MillisPerDay is the number of milliseconds in a 24 hour day
const MillisPerDay int64 = 24 * 60 * 60 * 1000

// GetCurrentTimeMillis returns current time in milliseconds since epoch
func GetCurrentTimeMillis() int64 {
	return time.Now().UnixMilli()
}

// WholeDaysBetween returns the number of whole days from `from` to `to`, both in millis.
// Partial days are floored toward negative infinity, so a `to` before `from` yields a negative count.
func WholeDaysBetween(from, to int64) int {
	diff := to - from
	days := diff / MillisPerDay
	if diff%MillisPerDay != 0 && diff < 0 {
		days--
	}
	return int(days)
}

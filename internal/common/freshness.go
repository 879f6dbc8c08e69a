// Package common provides shared utilities for Vantage
package common

import "time"

// Default cache TTLs, used when the configured durations do not parse
const (
	TTLSnapshot  = 5 * time.Minute  // primary provider path
	TTLAlternate = 15 * time.Minute // rate-limited alternate provider path
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(created time.Time, ttl time.Duration) bool {
	if created.IsZero() {
		return false
	}
	return time.Since(created) < ttl
}

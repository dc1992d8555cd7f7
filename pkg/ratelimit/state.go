// Package ratelimit paces PokeAPI requests and honours 429 cool-downs.
//
// PokeAPI has no quota headers. Clients are asked to keep the request rate
// reasonable, and an overloaded instance answers 429 with an optional
// Retry-After. The Tracker spaces requests evenly and, after a 429, holds
// every request until the cool-down ends.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Redis keys for shared cool-down state.
const (
	RedisKeyCooldownUntil = "pokeapi:rate_limit:cooldown_until"
	RedisKeyLastUpdate    = "pokeapi:rate_limit:last_update"
)

const (
	// DefaultCooldown applies to a 429 without a usable Retry-After.
	DefaultCooldown = 1 * time.Second

	// MaxCooldown caps the cool-down a server can impose.
	MaxCooldown = 60 * time.Second
)

// RateLimitState is the current cool-down state.
// With Redis configured it is shared by every client on the same instance.
type RateLimitState struct {
	// CooldownUntil holds requests until this time after a 429.
	CooldownUntil time.Time `json:"cooldown_until"`

	// LastUpdate is when a 429 was last observed.
	LastUpdate time.Time `json:"last_update"`
}

// IsStale returns true if the state is older than maxAge.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// IsCoolingDown reports whether requests must wait.
func (s *RateLimitState) IsCoolingDown() bool {
	return time.Now().Before(s.CooldownUntil)
}

// TimeUntilReset returns the remaining cool-down, or 0.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.CooldownUntil)
	if duration < 0 {
		return 0
	}
	return duration
}

// ParseRetryAfter reads a Retry-After header in either delta-seconds or
// HTTP-date form. The result is clamped to [0, MaxCooldown].
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	var d time.Duration
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		d = at.Sub(now)
	} else {
		return 0, false
	}

	if d < 0 {
		d = 0
	}
	if d > MaxCooldown {
		d = MaxCooldown
	}
	return d, true
}

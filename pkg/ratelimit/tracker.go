package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
)

// Prometheus metrics for rate limit tracking.
var (
	rateLimitedResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limited_responses_total",
		Help: "Total number of 429 responses received from PokeAPI",
	})

	cooldownWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limit_cooldown_waits_total",
		Help: "Total number of requests held by a 429 cool-down",
	})

	cooldownSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokeapi_rate_limit_cooldown_seconds",
		Help: "Length of the most recent 429 cool-down in seconds",
	})
)

// Tracker gates outgoing PokeAPI requests.
type Tracker struct {
	limiter ratelimit.Limiter
	redis   *redis.Client
	logger  zerolog.Logger

	mu    sync.Mutex
	local RateLimitState
}

// NewTracker creates a tracker that allows requestsPerSecond requests per
// second; zero or less disables pacing. redisClient may be nil, in which
// case cool-down state is kept in memory.
func NewTracker(requestsPerSecond int, redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	var limiter ratelimit.Limiter
	if requestsPerSecond > 0 {
		limiter = ratelimit.New(requestsPerSecond, ratelimit.WithoutSlack)
	} else {
		limiter = ratelimit.NewUnlimited()
	}

	return &Tracker{
		limiter: limiter,
		redis:   redisClient,
		logger:  logger,
	}
}

// GetState returns the current cool-down state.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		state := t.local
		return &state, nil
	}

	until, err := t.redis.Get(ctx, RedisKeyCooldownUntil).Int64()
	if errors.Is(err, redis.Nil) {
		return &RateLimitState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cooldown: %w", err)
	}

	state := &RateLimitState{CooldownUntil: time.UnixMilli(until)}
	if last, err := t.redis.Get(ctx, RedisKeyLastUpdate).Int64(); err == nil {
		state.LastUpdate = time.UnixMilli(last)
	}
	return state, nil
}

// Wait blocks until a request may be sent: first until any cool-down ends,
// then for the pacing slot. The cool-down wait returns early with the
// context's error. The pacing slot cannot be interrupted, so a context
// cancelled while waiting for it is reported once the slot is taken.
func (t *Tracker) Wait(ctx context.Context) error {
	state, err := t.GetState(ctx)
	if err != nil {
		// Pacing still applies when shared state is unreadable.
		t.logger.Warn().Err(err).Msg("Failed to read rate limit state")
		state = &RateLimitState{}
	}

	if wait := state.TimeUntilReset(); wait > 0 {
		cooldownWaitsTotal.Inc()
		t.logger.Warn().
			Dur("wait_duration", wait).
			Msg("PokeAPI cool-down active - holding request")

		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	t.limiter.Take()
	return ctx.Err()
}

// UpdateFromResponse records a cool-down when resp is a 429.
func (t *Tracker) UpdateFromResponse(ctx context.Context, resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	rateLimitedResponsesTotal.Inc()

	now := time.Now()
	wait, ok := ParseRetryAfter(resp.Header.Get("Retry-After"), now)
	if !ok {
		wait = DefaultCooldown
	}

	state := RateLimitState{
		CooldownUntil: now.Add(wait),
		LastUpdate:    now,
	}
	cooldownSeconds.Set(wait.Seconds())

	t.logger.Warn().
		Dur("cooldown", wait).
		Time("until", state.CooldownUntil).
		Msg("PokeAPI rate limited - cooling down")

	if t.redis == nil {
		t.mu.Lock()
		if state.CooldownUntil.After(t.local.CooldownUntil) {
			t.local = state
		}
		t.mu.Unlock()
		return nil
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyCooldownUntil, state.CooldownUntil.UnixMilli(), wait+time.Second)
	pipe.Set(ctx, RedisKeyLastUpdate, state.LastUpdate.UnixMilli(), 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store rate limit state in redis: %w", err)
	}
	return nil
}

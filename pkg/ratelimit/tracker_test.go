package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestTracker(rps int) *Tracker {
	return NewTracker(rps, nil, zerolog.Nop())
}

func TestTracker_UpdateFromResponse(t *testing.T) {
	tests := []struct {
		name         string
		resp         *http.Response
		wantCooldown bool
		minWait      time.Duration
	}{
		{
			name: "nil response",
			resp: nil,
		},
		{
			name: "ok response",
			resp: &http.Response{StatusCode: http.StatusOK, Header: http.Header{}},
		},
		{
			name: "server error is not a cool-down",
			resp: &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{"Retry-After": {"5"}}},
		},
		{
			name:         "429 with Retry-After",
			resp:         &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": {"5"}}},
			wantCooldown: true,
			minWait:      4 * time.Second,
		},
		{
			name:         "429 without Retry-After",
			resp:         &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}},
			wantCooldown: true,
			minWait:      DefaultCooldown / 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newTestTracker(0)
			ctx := context.Background()

			if err := tracker.UpdateFromResponse(ctx, tt.resp); err != nil {
				t.Fatalf("UpdateFromResponse() error = %v", err)
			}

			state, err := tracker.GetState(ctx)
			if err != nil {
				t.Fatalf("GetState() error = %v", err)
			}
			if state.IsCoolingDown() != tt.wantCooldown {
				t.Errorf("IsCoolingDown() = %v, want %v", state.IsCoolingDown(), tt.wantCooldown)
			}
			if tt.wantCooldown && state.TimeUntilReset() < tt.minWait {
				t.Errorf("TimeUntilReset() = %v, want >= %v", state.TimeUntilReset(), tt.minWait)
			}
		})
	}
}

func TestTracker_CooldownOnlyExtends(t *testing.T) {
	tracker := newTestTracker(0)
	ctx := context.Background()

	long := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": {"30"}}}
	short := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": {"1"}}}

	_ = tracker.UpdateFromResponse(ctx, long)
	_ = tracker.UpdateFromResponse(ctx, short)

	state, _ := tracker.GetState(ctx)
	if state.TimeUntilReset() < 25*time.Second {
		t.Errorf("TimeUntilReset() = %v, shorter 429 must not shrink the cool-down", state.TimeUntilReset())
	}
}

func TestTracker_WaitHonoursContext(t *testing.T) {
	tracker := newTestTracker(0)
	_ = tracker.UpdateFromResponse(context.Background(), &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{"Retry-After": {"30"}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := tracker.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Wait() took %v after cancellation", elapsed)
	}
}

func TestTracker_WaitCancelledContext(t *testing.T) {
	tracker := newTestTracker(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tracker.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestTracker_WaitCancelledDuringPacing(t *testing.T) {
	tracker := newTestTracker(2)
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	// The next slot is ~500ms away; the context expires first.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tracker.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTracker_Pacing(t *testing.T) {
	tracker := newTestTracker(20)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := tracker.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	// 5 takes at 20/s span at least 4 intervals of 50ms.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("5 paced requests took %v, want >= 150ms", elapsed)
	}
}

package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestFanOut_PreservesOrder(t *testing.T) {
	keys := []int{5, 1, 4, 2, 3}

	got, err := FanOut(context.Background(), keys, DefaultConfig(), func(_ context.Context, k int) (string, error) {
		// Later keys finish first.
		time.Sleep(time.Duration(10-k) * time.Millisecond)
		return fmt.Sprintf("item-%d", k), nil
	})
	if err != nil {
		t.Fatalf("FanOut() error = %v", err)
	}

	want := []string{"item-5", "item-1", "item-4", "item-2", "item-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFanOut_Empty(t *testing.T) {
	calls := 0
	got, err := FanOut(context.Background(), []string(nil), DefaultConfig(), func(context.Context, string) (int, error) {
		calls++
		return 0, nil
	})
	if err != nil {
		t.Fatalf("FanOut() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("FanOut() = %v, want empty non-nil slice", got)
	}
	if calls != 0 {
		t.Errorf("fetch calls = %d, want 0", calls)
	}
}

func TestFanOut_AllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	var completed atomic.Int32

	got, err := FanOut(context.Background(), []string{"a", "b", "c", "d"}, DefaultConfig(),
		func(ctx context.Context, k string) (string, error) {
			if k == "b" {
				return "", boom
			}
			// Siblings keep running after the failure.
			select {
			case <-time.After(30 * time.Millisecond):
				completed.Add(1)
				return k, nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

	if !errors.Is(err, boom) {
		t.Errorf("FanOut() error = %v, want boom", err)
	}
	if got != nil {
		t.Errorf("FanOut() = %v, want nil results on failure", got)
	}
	if completed.Load() != 3 {
		t.Errorf("completed siblings = %d, want 3", completed.Load())
	}
}

func TestFanOut_Unbounded(t *testing.T) {
	var inFlight, peak atomic.Int32
	keys := make([]int, 20)

	_, err := FanOut(context.Background(), keys, DefaultConfig(), func(context.Context, int) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	})
	if err != nil {
		t.Fatalf("FanOut() error = %v", err)
	}
	if peak.Load() != 20 {
		t.Errorf("peak concurrency = %d, want 20", peak.Load())
	}
}

func TestFanOut_MaxConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	keys := make([]int, 12)

	_, err := FanOut(context.Background(), keys, Config{MaxConcurrency: 3}, func(context.Context, int) (int, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return 0, nil
	})
	if err != nil {
		t.Fatalf("FanOut() error = %v", err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak.Load())
	}
}

func TestFanOut_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := FanOut(ctx, []int{1, 2, 3}, DefaultConfig(), func(ctx context.Context, _ int) (int, error) {
		select {
		case <-time.After(5 * time.Second):
			return 0, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("FanOut() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v", elapsed)
	}
}

func TestFanOut_ItemTimeout(t *testing.T) {
	_, err := FanOut(context.Background(), []int{1}, Config{Timeout: 20 * time.Millisecond}, func(ctx context.Context, _ int) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("FanOut() error = %v, want context.DeadlineExceeded", err)
	}
}

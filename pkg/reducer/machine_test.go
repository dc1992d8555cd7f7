package reducer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type counterState struct {
	Total int
	Seen  []int
}

type addEvent struct {
	N     int
	Delay time.Duration
	Emit  bool
}

type noteEffect struct {
	N int
}

func counterReducer(inFlight *atomic.Int32, overlaps *atomic.Int32) Reducer[counterState, addEvent, noteEffect] {
	return func(ctx context.Context, s counterState, e addEvent) Next[counterState, noteEffect] {
		if inFlight != nil {
			if inFlight.Add(1) > 1 {
				overlaps.Add(1)
			}
			defer inFlight.Add(-1)
		}
		if e.Delay > 0 {
			select {
			case <-time.After(e.Delay):
			case <-ctx.Done():
				return Same[counterState, noteEffect](s)
			}
		}

		seen := append(append([]int(nil), s.Seen...), e.N)
		next := counterState{Total: s.Total + e.N, Seen: seen}
		if e.Emit {
			return WithEffect(next, noteEffect{N: e.N})
		}
		return Same[counterState, noteEffect](next)
	}
}

func newCounter(t *testing.T) *Machine[counterState, addEvent, noteEffect] {
	t.Helper()
	m := New("counter", counterState{}, counterReducer(nil, nil))
	m.Start(context.Background())
	t.Cleanup(m.Stop)
	return m
}

func TestMachine_ProcessesInSendOrder(t *testing.T) {
	m := newCounter(t)

	for i := 1; i <= 50; i++ {
		if err := m.Send(addEvent{N: i}); err != nil {
			t.Fatalf("Send(%d) error = %v", i, err)
		}
	}
	state, err := m.SendAndWait(context.Background(), addEvent{N: 0})
	if err != nil {
		t.Fatalf("SendAndWait() error = %v", err)
	}

	if len(state.Seen) != 51 {
		t.Fatalf("reduced %d events, want 51", len(state.Seen))
	}
	for i := 0; i < 50; i++ {
		if state.Seen[i] != i+1 {
			t.Fatalf("Seen[%d] = %d, want %d", i, state.Seen[i], i+1)
		}
	}
	if state.Total != 1275 {
		t.Errorf("Total = %d, want 1275", state.Total)
	}
}

func TestMachine_SerializesSlowReductions(t *testing.T) {
	var inFlight, overlaps atomic.Int32
	m := New("serial", counterState{}, counterReducer(&inFlight, &overlaps))
	m.Start(context.Background())
	defer m.Stop()

	// A slow event sent first still completes before a fast one.
	_ = m.Send(addEvent{N: 1, Delay: 40 * time.Millisecond})
	_ = m.Send(addEvent{N: 2})
	state, err := m.SendAndWait(context.Background(), addEvent{N: 3, Delay: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("SendAndWait() error = %v", err)
	}

	want := []int{1, 2, 3}
	for i := range want {
		if state.Seen[i] != want[i] {
			t.Errorf("Seen = %v, want %v", state.Seen, want)
			break
		}
	}
	if overlaps.Load() != 0 {
		t.Errorf("overlapping reductions = %d, want 0", overlaps.Load())
	}
}

func TestMachine_SendDoesNotBlock(t *testing.T) {
	m := New("unstarted", counterState{}, counterReducer(nil, nil))
	defer m.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			_ = m.Send(addEvent{N: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a machine that is not consuming")
	}
}

func TestMachine_EffectSlotKeepsNewest(t *testing.T) {
	m := newCounter(t)

	_ = m.Send(addEvent{N: 1, Emit: true})
	_ = m.Send(addEvent{N: 2, Emit: true})
	if _, err := m.SendAndWait(context.Background(), addEvent{N: 3, Emit: true}); err != nil {
		t.Fatalf("SendAndWait() error = %v", err)
	}

	select {
	case eff := <-m.Effects():
		if eff.N != 3 {
			t.Errorf("effect = %d, want newest (3)", eff.N)
		}
	default:
		t.Fatal("no effect delivered")
	}

	select {
	case eff := <-m.Effects():
		t.Errorf("unexpected second effect %d", eff.N)
	default:
	}
}

func TestMachine_EffectConsumedPromptly(t *testing.T) {
	m := newCounter(t)

	for i := 1; i <= 3; i++ {
		if _, err := m.SendAndWait(context.Background(), addEvent{N: i, Emit: true}); err != nil {
			t.Fatalf("SendAndWait() error = %v", err)
		}
		select {
		case eff := <-m.Effects():
			if eff.N != i {
				t.Errorf("effect = %d, want %d", eff.N, i)
			}
		case <-time.After(time.Second):
			t.Fatalf("effect %d not delivered", i)
		}
	}
}

func TestMachine_Subscribe(t *testing.T) {
	m := newCounter(t)

	states, cancel := m.Subscribe()
	defer cancel()

	initial := <-states
	if initial.Total != 0 {
		t.Errorf("initial Total = %d, want 0", initial.Total)
	}

	for i := 1; i <= 5; i++ {
		_ = m.Send(addEvent{N: 1})
	}
	if _, err := m.SendAndWait(context.Background(), addEvent{N: 1}); err != nil {
		t.Fatalf("SendAndWait() error = %v", err)
	}

	// Intermediate states are conflated; the latest is always available.
	latest := <-states
	if latest.Total != 6 {
		t.Errorf("latest Total = %d, want 6", latest.Total)
	}
}

func TestMachine_SubscribeCancel(t *testing.T) {
	m := newCounter(t)

	states, cancel := m.Subscribe()
	<-states
	cancel()

	if _, ok := <-states; ok {
		t.Error("channel still open after cancel")
	}
	cancel()
}

func TestMachine_Stop(t *testing.T) {
	m := New("stop", counterState{}, counterReducer(nil, nil))
	m.Start(context.Background())

	states, _ := m.Subscribe()
	<-states

	m.Stop()
	m.Stop()

	if err := m.Send(addEvent{N: 1}); !errors.Is(err, ErrStopped) {
		t.Errorf("Send() after Stop error = %v, want ErrStopped", err)
	}
	if _, ok := <-states; ok {
		t.Error("subscription open after Stop")
	}
	if _, ok := <-m.Effects(); ok {
		t.Error("effects open after Stop")
	}
}

func TestMachine_StopCancelsInFlight(t *testing.T) {
	var ctxErr atomic.Value
	m := New("cancel", 0, func(ctx context.Context, s int, e int) Next[int, struct{}] {
		<-ctx.Done()
		ctxErr.Store(ctx.Err())
		return Same[int, struct{}](s)
	})
	m.Start(context.Background())

	waitErr := make(chan error, 1)
	go func() {
		_, err := m.SendAndWait(context.Background(), 1)
		waitErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return while a reduction was in flight")
	}
	if err, _ := ctxErr.Load().(error); !errors.Is(err, context.Canceled) {
		t.Errorf("reducer ctx error = %v, want context.Canceled", err)
	}
	if err := <-waitErr; !errors.Is(err, ErrStopped) {
		t.Errorf("SendAndWait() error = %v, want ErrStopped", err)
	}
}

func TestMachine_ParentCancelStops(t *testing.T) {
	m := New("parent", counterState{}, counterReducer(nil, nil))
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	defer m.Stop()

	states, _ := m.Subscribe()
	<-states

	inFlight := make(chan error, 1)
	queued := make(chan error, 1)
	go func() {
		_, err := m.SendAndWait(context.Background(), addEvent{N: 1, Delay: time.Hour})
		inFlight <- err
	}()
	time.Sleep(20 * time.Millisecond)
	go func() {
		_, err := m.SendAndWait(context.Background(), addEvent{N: 2})
		queued <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()

	for name, ch := range map[string]chan error{"in-flight": inFlight, "queued": queued} {
		select {
		case err := <-ch:
			if !errors.Is(err, ErrStopped) {
				t.Errorf("%s SendAndWait() error = %v, want ErrStopped", name, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s waiter not released after parent cancel", name)
		}
	}

	if err := m.Send(addEvent{N: 3}); !errors.Is(err, ErrStopped) {
		t.Errorf("Send() after parent cancel error = %v, want ErrStopped", err)
	}
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer waitCancel()
	if _, err := m.SendAndWait(waitCtx, addEvent{N: 4}); !errors.Is(err, ErrStopped) {
		t.Errorf("SendAndWait() after parent cancel error = %v, want ErrStopped", err)
	}
	deadline := time.After(time.Second)
	for open := true; open; {
		select {
		case _, open = <-states:
		case <-deadline:
			t.Fatal("subscription open after parent cancel")
		}
	}
	if _, ok := <-m.Effects(); ok {
		t.Error("effects open after parent cancel")
	}
}

func TestMachine_StopWithoutStart(t *testing.T) {
	m := New("idle", counterState{}, counterReducer(nil, nil))
	_ = m.Send(addEvent{N: 1})

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung on an unstarted machine")
	}
}

func TestMachine_IDsAreUnique(t *testing.T) {
	a := New("a", 0, func(context.Context, int, int) Next[int, int] { return Next[int, int]{} })
	b := New("b", 0, func(context.Context, int, int) Next[int, int] { return Next[int, int]{} })
	if a.ID() == b.ID() {
		t.Error("two machines share an id")
	}
}

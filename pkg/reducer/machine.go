package reducer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_machine_events_total",
		Help: "Total number of events reduced by machine",
	}, []string{"machine"})

	eventDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokedex_machine_event_duration_seconds",
		Help:    "Time spent reducing one event by machine",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"machine"})

	effectsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_machine_effects_dropped_total",
		Help: "Total number of unconsumed effects replaced by a newer one",
	}, []string{"machine"})
)

// ErrStopped is returned when sending to a stopped machine.
var ErrStopped = errors.New("machine stopped")

type envelope[E any] struct {
	event E
	done  chan struct{} // closed after reduction; nil for fire-and-forget
}

// Machine serializes events through a Reducer.
type Machine[S any, E any, F any] struct {
	id     uuid.UUID
	name   string
	reduce Reducer[S, E, F]
	logger zerolog.Logger

	mu      sync.Mutex
	state   S
	queue   []envelope[E]
	subs    map[int]chan S
	nextSub int
	stopped bool

	signal  chan struct{}
	effects chan F

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	startOnce   sync.Once
	stopOnce    sync.Once
	releaseOnce sync.Once
}

// New creates a machine named name holding initial. It does nothing until Start.
func New[S any, E any, F any](name string, initial S, reduce Reducer[S, E, F]) *Machine[S, E, F] {
	id := uuid.New()
	return &Machine[S, E, F]{
		id:     id,
		name:   name,
		reduce: reduce,
		logger: log.With().
			Str("component", "machine").
			Str("machine", name).
			Str("machine_id", id.String()).
			Logger(),
		state:   initial,
		subs:    make(map[int]chan S),
		signal:  make(chan struct{}, 1),
		effects: make(chan F, 1),
		done:    make(chan struct{}),
	}
}

// ID returns the machine's unique id.
func (m *Machine[S, E, F]) ID() uuid.UUID {
	return m.id
}

// Start launches the event loop. Cancelling ctx has the same effect as Stop:
// queued waiters get ErrStopped and later sends are refused.
// Calls after the first are no-ops.
func (m *Machine[S, E, F]) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.ctx, m.cancel = context.WithCancel(ctx)
		go m.loop()
		m.logger.Debug().Msg("Machine started")
	})
}

// Stop cancels in-flight work, waits for the loop to exit, and closes the
// effect and subscription channels. Pending events are discarded.
func (m *Machine[S, E, F]) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.stopped = true
		m.mu.Unlock()

		m.startOnce.Do(func() {})
		if m.cancel != nil {
			m.cancel()
			<-m.done
			return
		}
		m.release()
		close(m.done)
	})
}

// release refuses further events, wakes every queued waiter and closes the
// effect and subscription channels. It runs once, from whichever of Stop or
// the loop's exit gets there first.
func (m *Machine[S, E, F]) release() {
	m.releaseOnce.Do(func() {
		m.mu.Lock()
		m.stopped = true
		for id, ch := range m.subs {
			close(ch)
			delete(m.subs, id)
		}
		pending := len(m.queue)
		for _, env := range m.queue {
			if env.done != nil {
				close(env.done)
			}
		}
		m.queue = nil
		m.mu.Unlock()

		close(m.effects)
		m.logger.Debug().Int("discarded_events", pending).Msg("Machine stopped")
	})
}

// Send enqueues event without blocking.
func (m *Machine[S, E, F]) Send(event E) error {
	return m.enqueue(envelope[E]{event: event})
}

// SendAndWait enqueues event and waits until it has been reduced, returning
// the state right after it. Events queued earlier are reduced first.
func (m *Machine[S, E, F]) SendAndWait(ctx context.Context, event E) (S, error) {
	env := envelope[E]{event: event, done: make(chan struct{})}
	if err := m.enqueue(env); err != nil {
		var zero S
		return zero, err
	}

	select {
	case <-env.done:
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.stopped {
			return m.state, ErrStopped
		}
		return m.state, nil
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

func (m *Machine[S, E, F]) enqueue(env envelope[E]) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	m.queue = append(m.queue, env)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
	return nil
}

// State returns the current state.
func (m *Machine[S, E, F]) State() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel that always holds the latest state,
// starting with the current one. Intermediate states may be skipped by a
// slow reader. The channel is closed by cancel or Stop.
func (m *Machine[S, E, F]) Subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.state

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			close(c)
			delete(m.subs, id)
		}
	}
}

// Effects returns the single-slot effect channel. It is closed once the
// machine stops.
func (m *Machine[S, E, F]) Effects() <-chan F {
	return m.effects
}

func (m *Machine[S, E, F]) loop() {
	defer close(m.done)
	defer m.release()

	for {
		env, ok := m.dequeue()
		if !ok {
			select {
			case <-m.signal:
				continue
			case <-m.ctx.Done():
				return
			}
		}

		if m.ctx.Err() != nil {
			m.requeue(env)
			return
		}

		start := time.Now()
		next := m.reduce(m.ctx, m.State(), env.event)
		eventDuration.WithLabelValues(m.name).Observe(time.Since(start).Seconds())
		eventsTotal.WithLabelValues(m.name).Inc()

		m.publish(next.State)
		if next.Effect != nil {
			m.emit(*next.Effect)
		}
		if m.ctx.Err() != nil {
			m.release()
		}
		if env.done != nil {
			close(env.done)
		}
	}
}

func (m *Machine[S, E, F]) dequeue() (envelope[E], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return envelope[E]{}, false
	}
	env := m.queue[0]
	m.queue[0] = envelope[E]{}
	m.queue = m.queue[1:]
	return env, true
}

// requeue puts env back so release can wake its waiter.
func (m *Machine[S, E, F]) requeue(env envelope[E]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append([]envelope[E]{env}, m.queue...)
}

// publish stores state and replaces whatever each subscriber has not read.
func (m *Machine[S, E, F]) publish(state S) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = state
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// emit delivers effect, dropping an unconsumed older one. The loop is the
// only producer, so the send after draining cannot block.
func (m *Machine[S, E, F]) emit(effect F) {
	select {
	case m.effects <- effect:
		return
	default:
	}

	select {
	case <-m.effects:
		effectsDroppedTotal.WithLabelValues(m.name).Inc()
		m.logger.Debug().Msg("Dropped unconsumed effect")
	default:
	}
	m.effects <- effect
}

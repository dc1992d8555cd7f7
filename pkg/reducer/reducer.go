// Package reducer runs reducer-driven state machines.
//
// A Machine owns a state value and applies events to it one at a time with
// a Reducer. Events are queued without blocking the sender and are reduced
// strictly in the order they were sent; a reducer may block on I/O and the
// next event waits for it. Observers read the latest state through State or
// Subscribe. One-shot effects such as navigation are delivered on a
// single-slot channel where a newer effect replaces an unconsumed one.
package reducer

import "context"

// Next is the outcome of reducing one event: the new state and at most
// one effect.
type Next[S any, F any] struct {
	State  S
	Effect *F
}

// Reducer computes the next state for an event. ctx is the machine's
// lifecycle context and is cancelled by Stop.
type Reducer[S any, E any, F any] func(ctx context.Context, state S, event E) Next[S, F]

// Same returns a Next with state and no effect.
func Same[S any, F any](state S) Next[S, F] {
	return Next[S, F]{State: state}
}

// WithEffect returns a Next carrying state and effect.
func WithEffect[S any, F any](state S, effect F) Next[S, F] {
	return Next[S, F]{State: state, Effect: &effect}
}

package pokemondetail

import (
	"context"

	"github.com/alopesmendes/PokedexAI/pkg/reducer"
)

// State is the detail screen state. A new success keeps any earlier
// Failure; only Loading clears it.
type State struct {
	IsLoading bool
	Detail    *Detail
	Failure   *Failure
}

// Event is Loading or FetchDetail.
type Event interface {
	isEvent()
}

// Loading marks a fetch as started and clears the last failure.
type Loading struct{}

// FetchDetail fetches the record named Name.
type FetchDetail struct {
	Name string
}

func (Loading) isEvent()     {}
func (FetchDetail) isEvent() {}

// Effect is reserved for navigation; fetches never emit one.
type Effect interface {
	isEffect()
}

// NavigateBack asks the owner to leave the detail view.
type NavigateBack struct{}

func (NavigateBack) isEffect() {}

// DetailQuery is satisfied by *GetDetail.
type DetailQuery interface {
	Invoke(ctx context.Context, p Params) Query
}

// Machine runs the detail reducer.
type Machine = reducer.Machine[State, Event, Effect]

// NewReducer returns the detail reducer backed by uc.
func NewReducer(uc DetailQuery) reducer.Reducer[State, Event, Effect] {
	return func(ctx context.Context, state State, event Event) reducer.Next[State, Effect] {
		switch e := event.(type) {
		case Loading:
			state.IsLoading = true
			state.Failure = nil
		case FetchDetail:
			switch q := uc.Invoke(ctx, Params{Name: e.Name}).(type) {
			case QuerySuccess:
				state.IsLoading = false
				state.Detail = q.Detail
			case QueryFailure:
				state.IsLoading = false
				state.Failure = q.Failure
			}
		}
		return reducer.Same[State, Effect](state)
	}
}

// NewMachine creates an unstarted detail machine with an empty State.
func NewMachine(uc DetailQuery) *Machine {
	return reducer.New("pokemondetail", State{}, NewReducer(uc))
}

// Load sends Loading then FetchDetail for name and waits for the result.
func Load(ctx context.Context, m *Machine, name string) (State, error) {
	if err := m.Send(Loading{}); err != nil {
		return State{}, err
	}
	return m.SendAndWait(ctx, FetchDetail{Name: name})
}

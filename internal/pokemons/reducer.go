package pokemons

import (
	"context"
	"slices"

	"github.com/alopesmendes/PokedexAI/pkg/reducer"
)

// DefaultPageSize is the limit of the first page.
const DefaultPageSize = 20

// State is the list screen state. Offset and Limit hold the cursor of the
// next page; both are nil once the list is exhausted.
type State struct {
	IsLoading bool
	Items     []ItemSummary
	Offset    *int
	Limit     *int
	Count     *int
	Failure   *Failure
}

// NewState returns the initial state with the cursor at the first page.
func NewState() State {
	offset, limit := 0, DefaultPageSize
	return State{
		Items:  []ItemSummary{},
		Offset: &offset,
		Limit:  &limit,
	}
}

// Exhausted reports whether there is no further page to request.
func (s State) Exhausted() bool {
	return s.Offset == nil || s.Limit == nil
}

// Event is one of ListLoading, GetPage or SelectItem.
type Event interface {
	isEvent()
}

// ListLoading marks a page as requested and clears the last failure.
type ListLoading struct{}

// GetPage requests a page. Nil fields fall back to the state cursor.
type GetPage struct {
	Offset *int
	Limit  *int
}

// SelectItem emits NavigateToDetail for ID without touching the state.
type SelectItem struct {
	ID int
}

func (ListLoading) isEvent() {}
func (GetPage) isEvent()     {}
func (SelectItem) isEvent()  {}

// Effect is a one-shot instruction for the caller.
type Effect interface {
	isEffect()
}

// NavigateToDetail asks the owner to open the detail view of ID.
type NavigateToDetail struct {
	ID int
}

func (NavigateToDetail) isEffect() {}

// PageQuery is satisfied by *GetPokemons.
type PageQuery interface {
	Invoke(ctx context.Context, p Params) Query
}

// Machine is the list state machine.
type Machine = reducer.Machine[State, Event, Effect]

// NewReducer returns the list reducer backed by uc.
func NewReducer(uc PageQuery) reducer.Reducer[State, Event, Effect] {
	return func(ctx context.Context, state State, event Event) reducer.Next[State, Effect] {
		switch e := event.(type) {
		case ListLoading:
			state.IsLoading = true
			state.Failure = nil
			return reducer.Same[State, Effect](state)

		case GetPage:
			return reducer.Same[State, Effect](getPage(ctx, uc, state, e))

		case SelectItem:
			return reducer.WithEffect[State, Effect](state, NavigateToDetail{ID: e.ID})

		default:
			return reducer.Same[State, Effect](state)
		}
	}
}

func getPage(ctx context.Context, uc PageQuery, state State, e GetPage) State {
	offset, limit := e.Offset, e.Limit
	if offset == nil {
		offset = state.Offset
	}
	if limit == nil {
		limit = state.Limit
	}
	if offset == nil || limit == nil {
		state.IsLoading = false
		return state
	}

	switch q := uc.Invoke(ctx, Params{Count: state.Count, Offset: *offset, Limit: *limit}).(type) {
	case QuerySuccess:
		count := q.List.Count
		state.IsLoading = false
		state.Offset = q.List.NextOffset
		state.Limit = q.List.NextLimit
		state.Count = &count
		state.Items = append(slices.Clone(state.Items), q.List.Items...)
		state.Failure = nil
	case QueryError:
		state.IsLoading = false
		state.Failure = q.Failure
	}
	return state
}

// NewMachine creates an unstarted list machine in its initial state.
func NewMachine(uc PageQuery) *Machine {
	return reducer.New("pokemons", NewState(), NewReducer(uc))
}

// Start issues the activation sequence, ListLoading then the first page of
// pageSize, and returns the state once the page is reduced.
func Start(ctx context.Context, m *Machine, pageSize int) (State, error) {
	offset := 0
	return Load(ctx, m, &offset, &pageSize)
}

// Load sends ListLoading then GetPage and waits for the page. Nil offset or
// limit fall back to the state cursor.
func Load(ctx context.Context, m *Machine, offset, limit *int) (State, error) {
	if err := m.Send(ListLoading{}); err != nil {
		return State{}, err
	}
	return m.SendAndWait(ctx, GetPage{Offset: offset, Limit: limit})
}

// LoadMore requests the page at the state cursor. The limit is shrunk to
// what remains of Count so the last page passes validation.
func LoadMore(ctx context.Context, m *Machine) (State, error) {
	return Load(ctx, m, nil, RemainingLimit(m.State()))
}

// RemainingLimit returns the cursor limit clamped to Count, or nil when no
// clamping is needed.
func RemainingLimit(state State) *int {
	if state.Exhausted() || state.Count == nil {
		return nil
	}
	rest := *state.Count - *state.Offset
	if rest <= 0 || rest >= *state.Limit {
		return nil
	}
	return &rest
}

// ShouldLoadMore reports whether the caller should request the next page:
// the last visible index has reached the last item and nothing is loading.
func ShouldLoadMore(state State, lastVisible int) bool {
	if state.IsLoading || state.Exhausted() || len(state.Items) == 0 {
		return false
	}
	return lastVisible >= len(state.Items)-1
}

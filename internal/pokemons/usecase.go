package pokemons

import "context"

// Params are the inputs of one page request. A nil Count skips the
// upper-bound check.
type Params struct {
	Count  *int
	Offset int
	Limit  int
}

// Query is the outcome of GetPokemons: QuerySuccess or QueryError.
type Query interface {
	isQuery()
}

// QuerySuccess carries a resolved page.
type QuerySuccess struct {
	List *PokemonList
}

// QueryError carries the page failure, validation or transport.
type QueryError struct {
	Failure *Failure
}

func (QuerySuccess) isQuery() {}
func (QueryError) isQuery()   {}

// PageSource is satisfied by *Repository.
type PageSource interface {
	GetPage(ctx context.Context, count *int, offset, limit int) (*PokemonList, error)
}

// GetPokemons adapts a PageSource result into a Query.
type GetPokemons struct {
	source PageSource
}

// NewGetPokemons returns a use case reading from source.
func NewGetPokemons(source PageSource) *GetPokemons {
	return &GetPokemons{source: source}
}

// Invoke requests one page. It never returns an error; failures come back
// as QueryError.
func (u *GetPokemons) Invoke(ctx context.Context, p Params) Query {
	list, err := u.source.GetPage(ctx, p.Count, p.Offset, p.Limit)
	if err != nil {
		return QueryError{Failure: toFailure(err)}
	}
	return QuerySuccess{List: list}
}

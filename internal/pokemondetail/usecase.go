package pokemondetail

import "context"

// Params identifies the record to fetch by name or numeric id.
type Params struct {
	Name string
}

// Query is QuerySuccess or QueryFailure.
type Query interface {
	isQuery()
}

// QuerySuccess carries the fetched record.
type QuerySuccess struct {
	Detail *Detail
}

// QueryFailure carries the reason the fetch failed.
type QueryFailure struct {
	Failure *Failure
}

func (QuerySuccess) isQuery() {}
func (QueryFailure) isQuery() {}

// DetailSource is satisfied by *Repository.
type DetailSource interface {
	GetDetail(ctx context.Context, name string) (*Detail, error)
}

// GetDetail adapts a DetailSource result into a Query.
type GetDetail struct {
	source DetailSource
}

// NewGetDetail returns a use case reading from source.
func NewGetDetail(source DetailSource) *GetDetail {
	return &GetDetail{source: source}
}

// Invoke fetches p.Name. It never returns an error; failures come back as
// QueryFailure.
func (u *GetDetail) Invoke(ctx context.Context, p Params) Query {
	detail, err := u.source.GetDetail(ctx, p.Name)
	if err != nil {
		return QueryFailure{Failure: toFailure(err)}
	}
	return QuerySuccess{Detail: detail}
}

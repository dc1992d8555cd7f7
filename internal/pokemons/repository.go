package pokemons

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/alopesmendes/PokedexAI/pkg/client"
	"github.com/alopesmendes/PokedexAI/pkg/logging"
	"github.com/alopesmendes/PokedexAI/pkg/pagination"
)

var pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pokedex_pages_total",
	Help: "Total number of list pages requested by outcome",
}, []string{"result"})

// ListFetcher fetches one page of list references.
type ListFetcher interface {
	FetchPokemonList(ctx context.Context, offset, limit int) (*client.PokemonListDTO, error)
}

// FormFetcher fetches the form record of one Pokémon.
type FormFetcher interface {
	FetchPokemonForm(ctx context.Context, name string) (*client.PokemonFormDTO, error)
}

// Remote is satisfied by *client.Client.
type Remote interface {
	ListFetcher
	FormFetcher
}

// Repository resolves list pages into summaries.
type Repository struct {
	remote Remote
	fanout pagination.Config
	logger zerolog.Logger
}

// NewRepository creates a repository. A zero fan-out config is unbounded.
func NewRepository(remote Remote, fanout pagination.Config) *Repository {
	return &Repository{
		remote: remote,
		fanout: fanout,
		logger: logging.NewLogger("pokemons"),
	}
}

// Validate checks paging parameters in a fixed order and returns the first
// violation, or nil.
func Validate(count *int, offset, limit int) *Failure {
	switch {
	case count != nil && *count < 0:
		return validationFailure(CountNegative, "Count must be greater than zero")
	case offset < 0:
		return validationFailure(OffsetNegative, "Offset must be greater than zero")
	case limit <= 0:
		return validationFailure(LimitNonPositive, "Limit must be greater than zero")
	case count != nil && offset+limit > *count:
		return validationFailure(OffsetExceedsTotal, "Offset goes over total")
	}
	return nil
}

// GetPage fetches the page at offset and resolves every entry's form
// concurrently. Any form failure fails the whole page. The returned error is
// always a *Failure.
func (r *Repository) GetPage(ctx context.Context, count *int, offset, limit int) (*PokemonList, error) {
	if f := Validate(count, offset, limit); f != nil {
		pagesTotal.WithLabelValues("invalid").Inc()
		r.logger.Debug().
			Str("kind", f.Kind.String()).
			Int("offset", offset).
			Int("limit", limit).
			Msg("Rejected page request")
		return nil, f
	}

	page, err := r.remote.FetchPokemonList(ctx, offset, limit)
	if err != nil {
		return nil, r.fail(offset, limit, err)
	}

	forms, err := pagination.FanOut(ctx, page.Results, r.fanout,
		func(ctx context.Context, ref client.NamedAPIResource) (ItemSummary, error) {
			form, err := r.remote.FetchPokemonForm(ctx, ref.Name)
			if err != nil {
				return ItemSummary{}, err
			}
			return SummaryFromForm(form), nil
		})
	if err != nil {
		return nil, r.fail(offset, limit, err)
	}

	byID := make(map[int]ItemSummary, len(forms))
	for _, summary := range forms {
		byID[summary.ID] = summary
	}

	list, err := assemble(page, byID)
	if err != nil {
		return nil, r.fail(offset, limit, err)
	}

	pagesTotal.WithLabelValues("ok").Inc()
	r.logger.Debug().
		Int("offset", offset).
		Int("limit", limit).
		Int("items", len(list.Items)).
		Msg("Page resolved")

	return list, nil
}

func (r *Repository) fail(offset, limit int, err error) *Failure {
	f := toFailure(err)
	pagesTotal.WithLabelValues("error").Inc()
	r.logger.Warn().
		Err(err).
		Str("kind", f.Kind.String()).
		Int("offset", offset).
		Int("limit", limit).
		Msg("Page fetch failed")
	return f
}

package pokemondetail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alopesmendes/PokedexAI/pkg/client"
	"github.com/alopesmendes/PokedexAI/pkg/logging"
)

// DetailFetcher is satisfied by *client.Client.
type DetailFetcher interface {
	FetchPokemonDetail(ctx context.Context, name string) (*client.PokemonDetailDTO, error)
}

// Repository maps remote detail records into Detail values.
type Repository struct {
	remote DetailFetcher
	logger zerolog.Logger
}

// NewRepository returns a Repository reading from remote.
func NewRepository(remote DetailFetcher) *Repository {
	return &Repository{
		remote: remote,
		logger: logging.NewLogger("pokemondetail"),
	}
}

// GetDetail fetches one record by name or id. The returned error is always
// a *Failure.
func (r *Repository) GetDetail(ctx context.Context, name string) (*Detail, error) {
	dto, err := r.remote.FetchPokemonDetail(ctx, name)
	if err != nil {
		f := toFailure(err)
		r.logger.Warn().
			Err(err).
			Str("name", name).
			Str("kind", f.Kind.String()).
			Msg("Detail fetch failed")
		return nil, f
	}
	return DetailFromDTO(dto), nil
}

// Package pagination handles PokeAPI's offset/limit paging.
//
// PokeAPI list endpoints return a page of {name, url} references together
// with absolute continuation URLs:
//
//	{
//	  "count": 1302,
//	  "next": "https://pokeapi.co/api/v2/pokemon?offset=20&limit=20",
//	  "previous": null,
//	  "results": [{"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon/1/"}]
//	}
//
// ParseCursor turns "next" into the offset and limit of the following page,
// and ExtractIDFromURL reads the numeric id at the end of a resource URL.
//
// Each reference then needs its own request. FanOut issues them
// concurrently and returns results in input order, or the first error:
//
//	forms, err := pagination.FanOut(ctx, names, pagination.DefaultConfig(),
//		func(ctx context.Context, name string) (*client.PokemonFormDTO, error) {
//			return c.FetchPokemonForm(ctx, name)
//		})
//
// A failed item does not cancel its siblings; the batch still fails as a
// whole once every item has finished.
package pagination

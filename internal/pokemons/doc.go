// Package pokemons pages through the Pokémon list.
//
// Repository.GetPage validates the paging parameters, fetches one list page
// and then resolves every entry's form concurrently. The page is returned
// whole or not at all. GetPokemons adapts the result into a Query and the
// list reducer accumulates pages in State, driven by a reducer.Machine.
package pokemons

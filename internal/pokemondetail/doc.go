// Package pokemondetail loads the full record of a single Pokémon.
//
// It mirrors the list feature without fan-out or parameter validation: the
// repository makes one call to GET /pokemon/{name}, the use case adapts the
// outcome into a Query and the reducer tracks one fetch at a time.
package pokemondetail

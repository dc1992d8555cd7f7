package pokemons

import "strings"

// PokemonType is an elemental type. Unrecognised names map to TypeUnknown.
type PokemonType string

const (
	TypeBug      PokemonType = "bug"
	TypeDark     PokemonType = "dark"
	TypeDragon   PokemonType = "dragon"
	TypeElectric PokemonType = "electric"
	TypeFairy    PokemonType = "fairy"
	TypeFighting PokemonType = "fighting"
	TypeFire     PokemonType = "fire"
	TypeFlying   PokemonType = "flying"
	TypeGhost    PokemonType = "ghost"
	TypeGrass    PokemonType = "grass"
	TypeGround   PokemonType = "ground"
	TypeIce      PokemonType = "ice"
	TypeNormal   PokemonType = "normal"
	TypePoison   PokemonType = "poison"
	TypePsychic  PokemonType = "psychic"
	TypeRock     PokemonType = "rock"
	TypeSteel    PokemonType = "steel"
	TypeWater    PokemonType = "water"
	TypeUnknown  PokemonType = "unknown"
)

var knownTypes = map[PokemonType]struct{}{
	TypeBug: {}, TypeDark: {}, TypeDragon: {}, TypeElectric: {}, TypeFairy: {},
	TypeFighting: {}, TypeFire: {}, TypeFlying: {}, TypeGhost: {}, TypeGrass: {},
	TypeGround: {}, TypeIce: {}, TypeNormal: {}, TypePoison: {}, TypePsychic: {},
	TypeRock: {}, TypeSteel: {}, TypeWater: {},
}

// ParsePokemonType matches name case-insensitively.
func ParsePokemonType(name string) PokemonType {
	t := PokemonType(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownTypes[t]; ok {
		return t
	}
	return TypeUnknown
}

// Badge marks a notable form.
type Badge string

const (
	BadgeBattleOnly Badge = "battle-only"
	BadgeMega       Badge = "mega"
)

// ItemSummary is one entry of the list.
type ItemSummary struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	ImageURL     string        `json:"image_url,omitempty"`
	Types        []PokemonType `json:"types"`
	StatusBadges []Badge       `json:"status_badges"`
	IsBattleOnly bool          `json:"is_battle_only"`
	IsDefault    bool          `json:"is_default"`
	IsMega       bool          `json:"is_mega"`
}

// PokemonList is one resolved page.
type PokemonList struct {
	Count      int           `json:"count"`
	NextOffset *int          `json:"next_offset"`
	NextLimit  *int          `json:"next_limit"`
	Items      []ItemSummary `json:"items"`
}

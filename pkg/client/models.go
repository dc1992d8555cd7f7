package client

// NamedAPIResource is PokeAPI's {name, url} reference.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonListDTO is the body of GET /pokemon.
type PokemonListDTO struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []NamedAPIResource `json:"results"`
}

// PokemonFormDTO is the body of GET /pokemon-form/{name}.
type PokemonFormDTO struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Order        int                `json:"order"`
	FormName     string             `json:"form_name"`
	FormOrder    int                `json:"form_order"`
	IsBattleOnly bool               `json:"is_battle_only"`
	IsDefault    bool               `json:"is_default"`
	IsMega       bool               `json:"is_mega"`
	Pokemon      NamedAPIResource   `json:"pokemon"`
	Sprites      FormSpritesDTO     `json:"sprites"`
	Types        []TypeSlotDTO      `json:"types"`
	VersionGroup NamedAPIResource   `json:"version_group"`
	Names        []LocalizedNameDTO `json:"names"`
	FormNames    []LocalizedNameDTO `json:"form_names"`
}

// FormSpritesDTO holds the sprite URLs of a form.
type FormSpritesDTO struct {
	BackDefault  *string `json:"back_default"`
	BackShiny    *string `json:"back_shiny"`
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

// LocalizedNameDTO is a name in a given language.
type LocalizedNameDTO struct {
	Name     string           `json:"name"`
	Language NamedAPIResource `json:"language"`
}

// TypeSlotDTO is a slotted type reference.
type TypeSlotDTO struct {
	Slot int              `json:"slot"`
	Type NamedAPIResource `json:"type"`
}

// PokemonDetailDTO is the body of GET /pokemon/{name}.
type PokemonDetailDTO struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Order          int               `json:"order"`
	Height         int               `json:"height"`
	Weight         int               `json:"weight"`
	BaseExperience *int              `json:"base_experience"`
	IsDefault      bool              `json:"is_default"`
	Species        NamedAPIResource  `json:"species"`
	Abilities      []AbilitySlotDTO  `json:"abilities"`
	Stats          []StatDTO         `json:"stats"`
	Types          []TypeSlotDTO     `json:"types"`
	Moves          []MoveDTO         `json:"moves"`
	Sprites        PokemonSpritesDTO `json:"sprites"`
}

// AbilitySlotDTO is one ability of a Pokémon.
type AbilitySlotDTO struct {
	Ability  *NamedAPIResource `json:"ability"`
	IsHidden bool              `json:"is_hidden"`
	Slot     int               `json:"slot"`
}

// StatDTO is one base stat of a Pokémon.
type StatDTO struct {
	BaseStat int              `json:"base_stat"`
	Effort   int              `json:"effort"`
	Stat     NamedAPIResource `json:"stat"`
}

// MoveDTO is a learnable move reference.
type MoveDTO struct {
	Move NamedAPIResource `json:"move"`
}

// PokemonSpritesDTO holds the sprites of a Pokémon.
type PokemonSpritesDTO struct {
	BackDefault      *string         `json:"back_default"`
	BackFemale       *string         `json:"back_female"`
	BackShiny        *string         `json:"back_shiny"`
	BackShinyFemale  *string         `json:"back_shiny_female"`
	FrontDefault     *string         `json:"front_default"`
	FrontFemale      *string         `json:"front_female"`
	FrontShiny       *string         `json:"front_shiny"`
	FrontShinyFemale *string         `json:"front_shiny_female"`
	Other            OtherSpritesDTO `json:"other"`
}

// OtherSpritesDTO holds alternative artwork.
type OtherSpritesDTO struct {
	Home            HomeSpritesDTO     `json:"home"`
	OfficialArtwork ArtworkSpritesDTO  `json:"official-artwork"`
	Showdown        PokemonShowdownDTO `json:"showdown"`
}

// HomeSpritesDTO holds Pokémon HOME renders.
type HomeSpritesDTO struct {
	FrontDefault     *string `json:"front_default"`
	FrontFemale      *string `json:"front_female"`
	FrontShiny       *string `json:"front_shiny"`
	FrontShinyFemale *string `json:"front_shiny_female"`
}

// ArtworkSpritesDTO holds the official artwork.
type ArtworkSpritesDTO struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

// PokemonShowdownDTO holds Showdown animated sprites.
type PokemonShowdownDTO struct {
	BackDefault  *string `json:"back_default"`
	BackShiny    *string `json:"back_shiny"`
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

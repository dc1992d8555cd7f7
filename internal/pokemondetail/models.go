package pokemondetail

// Detail is the full record of one Pokémon.
type Detail struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Order          int       `json:"order"`
	Height         int       `json:"height"`
	Weight         int       `json:"weight"`
	BaseExperience *int      `json:"base_experience,omitempty"`
	IsDefault      bool      `json:"is_default"`
	Species        string    `json:"species"`
	Abilities      []Ability `json:"abilities"`
	Stats          []Stat    `json:"stats"`
	Types          []Type    `json:"types"`
	Moves          []string  `json:"moves"`
	Sprites        Sprites   `json:"sprites"`
}

// Ability is one ability slot; hidden abilities are flagged.
type Ability struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
	Slot     int    `json:"slot"`
}

// Stat is a base stat with its effort-value yield.
type Stat struct {
	Name     string `json:"name"`
	BaseStat int    `json:"base_stat"`
	Effort   int    `json:"effort"`
}

// Type is a slotted elemental type.
type Type struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

// Sprites holds image URLs. Empty strings mean the image does not exist.
type Sprites struct {
	FrontDefault     string `json:"front_default,omitempty"`
	FrontShiny       string `json:"front_shiny,omitempty"`
	FrontFemale      string `json:"front_female,omitempty"`
	FrontShinyFemale string `json:"front_shiny_female,omitempty"`
	BackDefault      string `json:"back_default,omitempty"`
	BackShiny        string `json:"back_shiny,omitempty"`
	BackFemale       string `json:"back_female,omitempty"`
	BackShinyFemale  string `json:"back_shiny_female,omitempty"`
	OfficialArtwork  string `json:"official_artwork,omitempty"`
	Home             string `json:"home,omitempty"`
	Showdown         string `json:"showdown,omitempty"`
}

// Artwork returns the best available picture.
func (s Sprites) Artwork() string {
	for _, url := range []string{s.OfficialArtwork, s.Home, s.FrontDefault} {
		if url != "" {
			return url
		}
	}
	return ""
}

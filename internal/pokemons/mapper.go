package pokemons

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/alopesmendes/PokedexAI/pkg/client"
	"github.com/alopesmendes/PokedexAI/pkg/pagination"
)

// SummaryFromForm maps a pokemon-form record to a list entry.
func SummaryFromForm(dto *client.PokemonFormDTO) ItemSummary {
	summary := ItemSummary{
		ID:           dto.ID,
		Name:         titleCase(dto.Name),
		Types:        make([]PokemonType, 0, len(dto.Types)),
		StatusBadges: []Badge{},
		IsBattleOnly: dto.IsBattleOnly,
		IsDefault:    dto.IsDefault,
		IsMega:       dto.IsMega,
	}
	if dto.Sprites.FrontDefault != nil {
		summary.ImageURL = *dto.Sprites.FrontDefault
	}
	for _, slot := range dto.Types {
		if slot.Type.Name == "" {
			continue
		}
		summary.Types = append(summary.Types, ParsePokemonType(slot.Type.Name))
	}
	if dto.IsBattleOnly {
		summary.StatusBadges = append(summary.StatusBadges, BadgeBattleOnly)
	}
	if dto.IsMega {
		summary.StatusBadges = append(summary.StatusBadges, BadgeMega)
	}
	return summary
}

// assemble builds the page in list order. Entries whose id cannot be read
// or has no resolved summary are dropped.
func assemble(dto *client.PokemonListDTO, byID map[int]ItemSummary) (*PokemonList, error) {
	cursor, err := pagination.ParseCursor(dto.Next)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", client.ErrDecode, err)
	}

	items := make([]ItemSummary, 0, len(dto.Results))
	for _, ref := range dto.Results {
		id, err := pagination.ExtractIDFromURL(ref.URL)
		if err != nil {
			continue
		}
		if summary, ok := byID[id]; ok {
			items = append(items, summary)
		}
	}

	return &PokemonList{
		Count:      dto.Count,
		NextOffset: cursor.Offset,
		NextLimit:  cursor.Limit,
		Items:      items,
	}, nil
}

// titleCase upper-cases the first letter only.
func titleCase(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return name
	}
	return string(unicode.ToTitle(r)) + name[size:]
}

package pokemondetail

import "github.com/alopesmendes/PokedexAI/pkg/client"

// DetailFromDTO maps a /pokemon record. Abilities without a reference are
// skipped.
func DetailFromDTO(dto *client.PokemonDetailDTO) *Detail {
	d := &Detail{
		ID:             dto.ID,
		Name:           dto.Name,
		Order:          dto.Order,
		Height:         dto.Height,
		Weight:         dto.Weight,
		BaseExperience: dto.BaseExperience,
		IsDefault:      dto.IsDefault,
		Species:        dto.Species.Name,
		Abilities:      make([]Ability, 0, len(dto.Abilities)),
		Stats:          make([]Stat, 0, len(dto.Stats)),
		Types:          make([]Type, 0, len(dto.Types)),
		Moves:          make([]string, 0, len(dto.Moves)),
		Sprites:        spritesFromDTO(dto.Sprites),
	}

	for _, a := range dto.Abilities {
		if a.Ability == nil {
			continue
		}
		d.Abilities = append(d.Abilities, Ability{Name: a.Ability.Name, IsHidden: a.IsHidden, Slot: a.Slot})
	}
	for _, s := range dto.Stats {
		d.Stats = append(d.Stats, Stat{Name: s.Stat.Name, BaseStat: s.BaseStat, Effort: s.Effort})
	}
	for _, t := range dto.Types {
		d.Types = append(d.Types, Type{Slot: t.Slot, Name: t.Type.Name})
	}
	for _, m := range dto.Moves {
		d.Moves = append(d.Moves, m.Move.Name)
	}
	return d
}

func spritesFromDTO(s client.PokemonSpritesDTO) Sprites {
	return Sprites{
		FrontDefault:     deref(s.FrontDefault),
		FrontShiny:       deref(s.FrontShiny),
		FrontFemale:      deref(s.FrontFemale),
		FrontShinyFemale: deref(s.FrontShinyFemale),
		BackDefault:      deref(s.BackDefault),
		BackShiny:        deref(s.BackShiny),
		BackFemale:       deref(s.BackFemale),
		BackShinyFemale:  deref(s.BackShinyFemale),
		OfficialArtwork:  deref(s.Other.OfficialArtwork.FrontDefault),
		Home:             deref(s.Other.Home.FrontDefault),
		Showdown:         deref(s.Other.Showdown.FrontDefault),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

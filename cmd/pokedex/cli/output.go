package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/alopesmendes/PokedexAI/internal/pokemondetail"
	"github.com/alopesmendes/PokedexAI/internal/pokemons"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// encode writes v as JSON or YAML. YAML goes through the JSON form so both
// formats share the json field names.
func encode(w io.Writer, format string, v any) error {
	if format != outputYAML {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

func newItemTable(w io.Writer) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPES\tBADGES")
	return tw
}

func writeItems(tw *tabwriter.Writer, items []pokemons.ItemSummary) {
	for _, item := range items {
		types := make([]string, len(item.Types))
		for i, t := range item.Types {
			types[i] = string(t)
		}
		badges := make([]string, len(item.StatusBadges))
		for i, b := range item.StatusBadges {
			badges[i] = string(b)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Name, strings.Join(types, ","), strings.Join(badges, ","))
	}
}

func writeDetail(w io.Writer, d *pokemondetail.Detail) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	types := make([]string, len(d.Types))
	for i, t := range d.Types {
		types[i] = t.Name
	}
	abilities := make([]string, len(d.Abilities))
	for i, a := range d.Abilities {
		abilities[i] = a.Name
		if a.IsHidden {
			abilities[i] += " (hidden)"
		}
	}

	fmt.Fprintf(tw, "ID:\t%d\n", d.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", d.Name)
	fmt.Fprintf(tw, "Species:\t%s\n", d.Species)
	fmt.Fprintf(tw, "Types:\t%s\n", strings.Join(types, ", "))
	fmt.Fprintf(tw, "Weight:\t%.1f kg\n", float64(d.Weight)/10)
	fmt.Fprintf(tw, "Height:\t%.1f m\n", float64(d.Height)/10)
	fmt.Fprintf(tw, "Abilities:\t%s\n", strings.Join(abilities, ", "))
	for _, s := range d.Stats {
		fmt.Fprintf(tw, "  %s:\t%d\n", s.Name, s.BaseStat)
	}
	fmt.Fprintf(tw, "Moves:\t%d\n", len(d.Moves))
	if art := d.Sprites.Artwork(); art != "" {
		fmt.Fprintf(tw, "Artwork:\t%s\n", art)
	}
}

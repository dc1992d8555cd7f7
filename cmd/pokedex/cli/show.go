package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alopesmendes/PokedexAI/internal/pokemondetail"
)

func newShowCmd(o *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "show NAME",
		Short:   "Show one Pokémon by name or id",
		Example: "  pokedex show pikachu\n  pokedex show 25 -o json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			return runShow(cmd, o, strings.ToLower(strings.TrimSpace(args[0])), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func runShow(cmd *cobra.Command, o *options, name, output string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	m := pokemondetail.NewMachine(a.detail)
	m.Start(ctx)
	defer m.Stop()

	state, err := pokemondetail.Load(ctx, m, name)
	if err != nil {
		return err
	}
	if state.Failure != nil {
		return state.Failure
	}

	if output != outputTable {
		return encode(cmd.OutOrStdout(), output, state.Detail)
	}
	writeDetail(cmd.OutOrStdout(), state.Detail)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/alopesmendes/PokedexAI/internal/pokemons"
)

func newListCmd(o *options) *cobra.Command {
	var (
		pages  int
		all    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Pokémon page by page",
		Long: `List Pokémon starting from the first page. Each page's forms are fetched
concurrently; a failure on any of them fails the whole page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			if !all && pages < 1 {
				pages = 1
			}
			return runList(cmd, o, pages, all, output)
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	cmd.Flags().IntP("page-size", "n", 0, "items per page (default from list.page_size)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	bindFlags(o.v, cmd.Flags(), map[string]string{"list.page_size": "page-size"})

	return cmd
}

func runList(cmd *cobra.Command, o *options, pages int, all bool, output string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	m := pokemons.NewMachine(a.list)
	m.Start(ctx)
	defer m.Stop()

	tw := newItemTable(cmd.OutOrStdout())
	printed := 0

	state, err := pokemons.Start(ctx, m, o.cfg.List.PageSize)
	for loaded := 1; ; loaded++ {
		if err != nil {
			return err
		}
		if state.Failure != nil {
			return state.Failure
		}

		if output == outputTable {
			writeItems(tw, state.Items[printed:])
			tw.Flush()
		}
		printed = len(state.Items)

		if state.Exhausted() || (!all && loaded >= pages) {
			break
		}
		state, err = pokemons.LoadMore(ctx, m)
	}

	if output != outputTable {
		return encode(cmd.OutOrStdout(), output, state.Items)
	}
	return nil
}

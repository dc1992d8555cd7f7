// Package cli implements the pokedex command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alopesmendes/PokedexAI/internal/config"
	"github.com/alopesmendes/PokedexAI/internal/pokemondetail"
	"github.com/alopesmendes/PokedexAI/internal/pokemons"
	"github.com/alopesmendes/PokedexAI/pkg/client"
	"github.com/alopesmendes/PokedexAI/pkg/logging"
)

// options is shared by every subcommand. cfg is set before RunE.
type options struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).ExecuteContext(context.Background())
}

func newRootCmd(version, commit, date string) *cobra.Command {
	opts := &options{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse PokeAPI from the terminal",
		Long: `pokedex pages through the Pokémon list and shows individual records from PokeAPI.

Responses can be cached in Redis (--redis-addr) and the same features are
available over HTTP with "pokedex serve".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (YAML)")
	flags.String("base-url", "", "PokeAPI root URL")
	flags.String("redis-addr", "", "Redis address; enables response caching")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("pretty", false, "human-readable log lines")
	bindFlags(opts.v, flags, map[string]string{
		"api.base_url": "base-url",
		"redis.addr":   "redis-addr",
		"log.level":    "log-level",
		"log.pretty":   "pretty",
	})

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}

// bindFlags maps config keys to flag names.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func (o *options) load() error {
	cfg, err := config.Load(o.v, o.cfgFile)
	if err != nil {
		return err
	}
	if err := logging.ValidateLevel(logging.LogLevel(cfg.Log.Level)); err != nil {
		return err
	}
	logging.Setup(cfg.Logging())
	o.cfg = cfg
	return nil
}

// app holds the wired dependencies of one command run.
type app struct {
	redis  *redis.Client
	client *client.Client
	list   *pokemons.GetPokemons
	detail *pokemondetail.GetDetail
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	var rdb *redis.Client
	if opts := cfg.RedisOptions(); opts != nil {
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
		}
	}

	c, err := client.New(cfg.ClientConfig(rdb))
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &app{
		redis:  rdb,
		client: c,
		list:   pokemons.NewGetPokemons(pokemons.NewRepository(c, cfg.FanOut())),
		detail: pokemondetail.NewGetDetail(pokemondetail.NewRepository(c)),
	}, nil
}

func (a *app) Close() error {
	a.client.Close()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

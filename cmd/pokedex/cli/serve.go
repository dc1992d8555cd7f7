package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alopesmendes/PokedexAI/internal/server"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the list and detail features over HTTP",
		Long: `Start an HTTP server with:

  GET /pokemon?offset=&limit=   one resolved list page
  GET /pokemon/{name}           one Pokémon record
  GET /health, /ready           liveness and readiness probes
  GET /metrics                  Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, o)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	cmd.Flags().Int("rate-limit", 0, "requests per minute per client IP, 0 disables")
	bindFlags(o.v, cmd.Flags(), map[string]string{
		"server.addr":       "addr",
		"server.rate_limit": "rate-limit",
	})

	return cmd
}

func runServe(cmd *cobra.Command, o *options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Config{
		Addr:            o.cfg.Server.Addr,
		ShutdownTimeout: o.cfg.Server.ShutdownTimeout,
		RateLimit:       o.cfg.Server.RateLimit,
		CORSOrigins:     o.cfg.Server.CORSOrigins,
		PageSize:        o.cfg.List.PageSize,
	}, a.list, a.detail, a.redis)

	return srv.ListenAndServe(ctx)
}

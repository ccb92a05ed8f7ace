package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/server"
)

// NewServeCmd creates the command that serves the JSON API.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shop as a JSON HTTP API",
		Long: `Serves products, the cart, feedback and stats over HTTP until interrupted.
The session is shared with the CLI through the configured storage backend.`,
		Example: `  # Listen on the configured address
  ecoshopper serve

  # Listen on every interface, persisting to SQLite
  ecoshopper serve --addr :8080 --storage sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.Printf("🌱 Serving EcoShopper API on http://%s (Ctrl+C to stop)\n", cfg.Addr)
			return server.New(ctx, a.shop, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

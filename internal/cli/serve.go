package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve games over the HTTP API",
		Long: `Serve games over a JSON HTTP API until interrupted.

Games live in memory; saves go to the configured store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(st,
				server.WithLogger(c.Logger),
				server.WithMaxSessions(cfg.Server.MaxSessions),
				server.WithSessionTTL(cfg.Server.SessionTTL.Duration),
				server.WithShutdownTimeout(cfg.Server.ShutdownTimeout.Duration),
				server.WithGameOptions(c.gameOptions()...),
			)
			c.Logger.Info("serving", "addr", addr, "store", cfg.Store.Backend)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

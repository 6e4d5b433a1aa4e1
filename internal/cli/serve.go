package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/agenthands/neoscope/internal/logger"
	"github.com/agenthands/neoscope/internal/server"
)

func (a *App) serveCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups and queries over HTTP",
		Long: `Loads the database once and serves it read-only:

  GET /neos/:designation     one NEO with its approaches
  GET /neos?name=NAME        lookup by name
  GET /approaches?...        filtered query (date, start_date, end_date,
                             min_/max_distance, min_/max_velocity,
                             min_/max_diameter, hazardous, limit)
  GET /healthz
  GET /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.Config.Server.Port = port
			}

			db, err := a.loadDatabase()
			if err != nil {
				return err
			}

			gin.SetMode(a.Config.Server.Mode)
			srv := server.NewServer(db, a.Config, logger.Component(a.Logger, "server"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides config and PORT)")
	return cmd
}

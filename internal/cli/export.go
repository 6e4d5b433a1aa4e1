package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/neoscope/internal/core"
	"github.com/agenthands/neoscope/internal/core/output"
	"github.com/agenthands/neoscope/internal/driver"
	"github.com/agenthands/neoscope/internal/logger"
)

func (a *App) exportCommand() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching close approaches into Memgraph or Neo4j",
		Long: `Runs the same filters as query and merges the matches into the graph
database configured under [memgraph] (or MEMGRAPH_URI). Each NEO becomes a
:NEO node linked to its :CloseApproach nodes by :APPROACHED. Re-running an
export updates nodes in place.

Examples:
  neoscope export --hazardous
  neoscope export --start-date 2020-01-01 --limit 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := flags.criteria(cmd, a.Config.Query.IncludeUnknownDiameter)
			if err != nil {
				return err
			}

			db, err := a.loadDatabase()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			m := a.Config.Memgraph
			d, err := driver.NewMemgraphDriver(ctx, m.URI, m.User, m.Password, logger.Component(a.Logger, "driver"))
			if err != nil {
				return err
			}
			defer d.Close(ctx)

			exporter := output.NewGraphExporter(d, logger.Component(a.Logger, "export"))
			stats, err := exporter.Export(ctx, core.Limit(db.Query(criteria.Build()), flags.limit))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d NEOs and %d close approaches to %s\n",
				stats.NEOs, stats.Approaches, m.URI)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/neoscope/internal/core/model"
	"github.com/agenthands/neoscope/internal/metrics"
)

const noMatchMessage = "No matching NEOs exist in the database."

func (a *App) inspectCommand() *cobra.Command {
	var (
		pdes    string
		name    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Look up a single NEO by designation or name",
		Long: `Prints one NEO. With --verbose, also lists each of its close approaches.

Examples:
  neoscope inspect --pdes 433
  neoscope inspect --name Halley --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.loadDatabase()
			if err != nil {
				return err
			}

			var (
				neo *model.NearEarthObject
				ok  bool
				by  string
			)
			if cmd.Flags().Changed("pdes") {
				neo, ok = db.GetNEOByDesignation(pdes)
				by = "designation"
			} else {
				neo, ok = db.GetNEOByName(name)
				by = "name"
			}

			if !ok {
				metrics.LookupsTotal.WithLabelValues(by, "miss").Inc()
				fmt.Fprintln(cmd.ErrOrStderr(), noMatchMessage)
				return nil
			}
			metrics.LookupsTotal.WithLabelValues(by, "hit").Inc()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, neo)
			if verbose {
				for _, ca := range neo.Approaches() {
					fmt.Fprintf(out, "- %s\n", ca)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pdes, "pdes", "p", "", "Primary designation of the NEO")
	cmd.Flags().StringVarP(&name, "name", "n", "", "IAU name of the NEO")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the NEO's close approaches")
	cmd.MarkFlagsMutuallyExclusive("pdes", "name")
	cmd.MarkFlagsOneRequired("pdes", "name")

	return cmd
}

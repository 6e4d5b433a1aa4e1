package cli

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agenthands/neoscope/internal/core"
	"github.com/agenthands/neoscope/internal/core/filter"
	"github.com/agenthands/neoscope/internal/core/model"
	"github.com/agenthands/neoscope/internal/core/output"
	"github.com/agenthands/neoscope/internal/metrics"
)

// queryFlags are the filter flags shared by query and export.
type queryFlags struct {
	date      string
	startDate string
	endDate   string

	minDistance float64
	maxDistance float64
	minVelocity float64
	maxVelocity float64
	minDiameter float64
	maxDiameter float64

	hazardous      bool
	notHazardous   bool
	includeUnknown bool

	limit int
}

func (q *queryFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&q.date, "date", "d", "", "Only approaches on this date (YYYY-MM-DD)")
	f.StringVarP(&q.startDate, "start-date", "s", "", "Only approaches on or after this date (YYYY-MM-DD)")
	f.StringVarP(&q.endDate, "end-date", "e", "", "Only approaches on or before this date (YYYY-MM-DD)")
	f.Float64Var(&q.minDistance, "min-distance", 0, "Minimum approach distance in au")
	f.Float64Var(&q.maxDistance, "max-distance", 0, "Maximum approach distance in au")
	f.Float64Var(&q.minVelocity, "min-velocity", 0, "Minimum relative velocity in km/s")
	f.Float64Var(&q.maxVelocity, "max-velocity", 0, "Maximum relative velocity in km/s")
	f.Float64Var(&q.minDiameter, "min-diameter", 0, "Minimum NEO diameter in km")
	f.Float64Var(&q.maxDiameter, "max-diameter", 0, "Maximum NEO diameter in km")
	f.BoolVar(&q.hazardous, "hazardous", false, "Only potentially hazardous NEOs")
	f.BoolVar(&q.notHazardous, "not-hazardous", false, "Only NEOs that are not potentially hazardous")
	f.BoolVar(&q.includeUnknown, "include-unknown-diameter", false, "Let NEOs of unknown diameter pass diameter bounds")
	f.IntVarP(&q.limit, "limit", "l", 0, "Maximum number of results; 0 means no limit")
	cmd.MarkFlagsMutuallyExclusive("hazardous", "not-hazardous")
}

// criteria converts the flags the user actually set into filter criteria.
func (q *queryFlags) criteria(cmd *cobra.Command, includeUnknown bool) (filter.Criteria, error) {
	c := filter.Criteria{IncludeUnknownDiameter: includeUnknown}
	changed := cmd.Flags().Changed

	dates := []struct {
		flag  string
		value string
		dst   **time.Time
	}{
		{"date", q.date, &c.Date},
		{"start-date", q.startDate, &c.StartDate},
		{"end-date", q.endDate, &c.EndDate},
	}
	for _, d := range dates {
		if !changed(d.flag) {
			continue
		}
		t, err := model.ParseDate(d.value)
		if err != nil {
			return c, errors.Wrapf(filter.ErrInvalidCriteria, "--%s must be YYYY-MM-DD, got %q", d.flag, d.value)
		}
		*d.dst = &t
	}

	bounds := []struct {
		flag  string
		value float64
		dst   **float64
	}{
		{"min-distance", q.minDistance, &c.MinDistance},
		{"max-distance", q.maxDistance, &c.MaxDistance},
		{"min-velocity", q.minVelocity, &c.MinVelocity},
		{"max-velocity", q.maxVelocity, &c.MaxVelocity},
		{"min-diameter", q.minDiameter, &c.MinDiameter},
		{"max-diameter", q.maxDiameter, &c.MaxDiameter},
	}
	for _, b := range bounds {
		if changed(b.flag) {
			v := b.value
			*b.dst = &v
		}
	}

	switch {
	case q.hazardous && q.notHazardous:
		return c, errors.Wrap(filter.ErrInvalidCriteria, "--hazardous and --not-hazardous are mutually exclusive")
	case q.hazardous:
		c.Hazardous = &q.hazardous
	case q.notHazardous:
		v := false
		c.Hazardous = &v
	}

	if changed("include-unknown-diameter") {
		c.IncludeUnknownDiameter = q.includeUnknown
	}

	if q.limit < 0 {
		return c, errors.Wrapf(filter.ErrInvalidCriteria, "--limit must not be negative, got %d", q.limit)
	}

	return c, c.Validate()
}

func (a *App) queryCommand() *cobra.Command {
	var (
		flags   queryFlags
		outfile string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Find close approaches matching a set of filters",
		Long: `Prints the close approaches that satisfy every given filter, in the order
they were loaded. Without --limit, printed results are capped at [query] limit
(10 by default) while --outfile receives every match. Output files are CSV or
JSON depending on the extension.

Examples:
  neoscope query --date 2020-01-01
  neoscope query --start-date 2020-01-01 --end-date 2020-12-31 --max-distance 0.05
  neoscope query --min-diameter 1 --hazardous --outfile big.csv`,
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

			start := time.Now()
			set := criteria.Build()
			limit := flags.limit
			if !cmd.Flags().Changed("limit") && outfile == "" {
				limit = a.Config.Query.Limit
			}
			results := core.Limit(db.Query(set), limit)

			var n int
			if outfile != "" {
				n, err = output.WriteFile(outfile, results)
			} else {
				n, err = printApproaches(cmd.OutOrStdout(), results)
			}
			if err != nil {
				metrics.QueriesTotal.WithLabelValues("cli", "error").Inc()
				return err
			}

			metrics.QueriesTotal.WithLabelValues("cli", "ok").Inc()
			metrics.MatchesTotal.WithLabelValues("cli").Add(float64(n))
			metrics.QueryDuration.WithLabelValues("cli").Observe(time.Since(start).Seconds())
			a.Logger.Infow("query finished",
				"filters", set.Names(),
				"matches", n,
				"outfile", outfile,
			)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "Write results to a .csv or .json file instead of stdout")

	return cmd
}

// printApproaches renders results as a table on a terminal and as
// tab-separated CSV columns otherwise. The piped form starts with a header
// line unless nothing matched.
func printApproaches(w io.Writer, results iter.Seq[*model.CloseApproach]) (int, error) {
	if !isTerminal(w) {
		n := 0
		for ca := range results {
			if n == 0 {
				if _, err := fmt.Fprintln(w, strings.Join(output.CSVHeader, "\t")); err != nil {
					return n, errors.Wrap(err, "failed to write header")
				}
			}
			if _, err := fmt.Fprintln(w, strings.Join(output.Row(ca), "\t")); err != nil {
				return n, errors.Wrap(err, "failed to write result")
			}
			n++
		}
		return n, nil
	}

	var rows [][]string
	for ca := range results {
		rows = append(rows, output.Row(ca))
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No close approaches match the given filters.")
		return 0, err
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(muted).
		BorderRow(false).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(output.CSVHeader...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		}).
		Rows(rows...)

	_, err := fmt.Fprintln(w, tbl.Render())
	return len(rows), err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

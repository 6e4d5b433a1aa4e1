package output

import (
	"context"
	"iter"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/agenthands/neoscope/internal/core/model"
	"github.com/agenthands/neoscope/internal/driver"
	"github.com/agenthands/neoscope/internal/metrics"
)

// GraphExporter writes query results into a property graph: one :NEO node per
// object and one :CloseApproach node per approach, joined by :APPROACHED.
type GraphExporter struct {
	Driver driver.GraphDriver
	Logger *zap.SugaredLogger
}

type ExportStats struct {
	NEOs       int
	Approaches int
}

func NewGraphExporter(d driver.GraphDriver, logger *zap.SugaredLogger) *GraphExporter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &GraphExporter{Driver: d, Logger: logger}
}

// Export saves every NEO referenced by results, then its approaches in one
// batch per NEO. Orphan approaches are skipped.
func (g *GraphExporter) Export(ctx context.Context, results iter.Seq[*model.CloseApproach]) (ExportStats, error) {
	var stats ExportStats

	if err := g.Driver.BuildIndices(ctx); err != nil {
		return stats, errors.Wrap(err, "failed to build indices")
	}

	var order []*model.NearEarthObject
	batches := make(map[*model.NearEarthObject][]map[string]any)

	for ca := range results {
		neo := ca.NEO()
		if neo == nil {
			g.Logger.Warnw("skipping unlinked approach", "designation", ca.Designation)
			continue
		}
		if _, seen := batches[neo]; !seen {
			order = append(order, neo)
		}
		batches[neo] = append(batches[neo], map[string]any{
			"datetime_utc":  ca.TimeString(),
			"distance_au":   ca.Distance,
			"velocity_km_s": ca.Velocity,
		})
	}

	for _, neo := range order {
		rec := NewNEORecord(neo)
		params := map[string]any{
			"designation":           rec.Designation,
			"name":                  rec.Name,
			"diameter_km":           nil,
			"potentially_hazardous": rec.PotentiallyHazardous,
		}
		if rec.DiameterKM != nil {
			params["diameter_km"] = *rec.DiameterKM
		}
		if _, err := g.Driver.ExecuteQuery(ctx, driver.SaveNEOQuery, params); err != nil {
			return stats, errors.Wrapf(err, "failed to save neo %s", neo.Designation)
		}
		stats.NEOs++
		metrics.ExportedTotal.WithLabelValues("NEO").Inc()

		batch := batches[neo]
		_, err := g.Driver.ExecuteQuery(ctx, driver.SaveApproachesQuery, map[string]any{
			"designation": neo.Designation,
			"approaches":  batch,
		})
		if err != nil {
			return stats, errors.Wrapf(err, "failed to save approaches of %s", neo.Designation)
		}
		stats.Approaches += len(batch)
		metrics.ExportedTotal.WithLabelValues("CloseApproach").Add(float64(len(batch)))
	}

	g.Logger.Infow("exported to graph", "neos", stats.NEOs, "approaches", stats.Approaches)
	return stats, nil
}

package driver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// MemgraphDriver talks Bolt to Memgraph (or Neo4j).
type MemgraphDriver struct {
	Driver neo4j.DriverWithContext
	logger *zap.SugaredLogger
}

func NewMemgraphDriver(ctx context.Context, uri, username, password string, logger *zap.SugaredLogger) (*MemgraphDriver, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bolt driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to reach %s", uri),
			"check memgraph.uri in the config or MEMGRAPH_URI")
	}

	logger.Infow("connected to graph database", "uri", uri)
	return &MemgraphDriver{Driver: driver, logger: logger}, nil
}

func (d *MemgraphDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *MemgraphDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, errors.Wrap(err, "failed to execute query")
	}
	return *result, nil
}

func (d *MemgraphDriver) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :NEO(designation);",
		"CREATE INDEX ON :CloseApproach(designation);",
		"CREATE INDEX ON :CloseApproach(datetime_utc);",
	}

	for _, q := range queries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			// Memgraph errors on existing indices; keep going.
			d.logger.Warnw("failed to create index", "query", q, "error", err)
		}
	}

	return nil
}

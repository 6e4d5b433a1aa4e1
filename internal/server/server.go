package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/neoscope/internal/config"
	"github.com/agenthands/neoscope/internal/core"
	"github.com/agenthands/neoscope/internal/core/output"
	"github.com/agenthands/neoscope/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server exposes a linked Database over HTTP. The database is read-only, so
// handlers share it without locking.
type Server struct {
	DB     *core.Database
	Config *config.Config
	Logger *zap.SugaredLogger
}

func NewServer(db *core.Database, cfg *config.Config, logger *zap.SugaredLogger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{DB: db, Config: cfg, Logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(s.Logger))

	r.GET("/healthz", s.Healthz)
	r.GET("/neos", s.FindNEO)
	r.GET("/neos/:designation", s.GetNEO)
	r.GET("/approaches", s.ListApproaches)

	if s.Config.Server.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Server.Port,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infow("starting server", "port", s.Config.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	s.Logger.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"neos":       len(s.DB.NEOs()),
		"approaches": len(s.DB.Approaches()),
	})
}

func (s *Server) GetNEO(c *gin.Context) {
	designation := c.Param("designation")
	neo, ok := s.DB.GetNEOByDesignation(designation)
	if !ok {
		metrics.LookupsTotal.WithLabelValues("designation", "miss").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "no NEO with designation " + designation})
		return
	}
	metrics.LookupsTotal.WithLabelValues("designation", "hit").Inc()
	c.JSON(http.StatusOK, output.NewNEODetail(neo))
}

func (s *Server) FindNEO(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}
	neo, ok := s.DB.GetNEOByName(name)
	if !ok {
		metrics.LookupsTotal.WithLabelValues("name", "miss").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "no NEO named " + name})
		return
	}
	metrics.LookupsTotal.WithLabelValues("name", "hit").Inc()
	c.JSON(http.StatusOK, output.NewNEODetail(neo))
}

func (s *Server) ListApproaches(c *gin.Context) {
	start := time.Now()

	q, err := ParseApproachQuery(c.Request.URL.Query(), s.Config.Query.Limit, s.Config.Query.IncludeUnknownDiameter)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("http", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := q.Criteria.Build()
	records := []output.ApproachRecord{}
	for ca := range core.Limit(s.DB.Query(set), q.Limit) {
		records = append(records, output.NewApproachRecord(ca))
	}

	metrics.QueriesTotal.WithLabelValues("http", "ok").Inc()
	metrics.MatchesTotal.WithLabelValues("http").Add(float64(len(records)))
	metrics.QueryDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())

	s.Logger.Debugw("approach query",
		"filters", set.Names(),
		"limit", q.Limit,
		"matches", len(records),
		requestIDKey, c.GetString(requestIDKey),
	)

	c.JSON(http.StatusOK, records)
}

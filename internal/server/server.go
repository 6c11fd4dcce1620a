package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/logger"
	"MooMetrics/internal/metrics"
	"MooMetrics/internal/model"
)

const (
	errCodeBadRequest  = "BAD_REQUEST"
	errCodeNotFound    = "NOT_FOUND"
	errCodeUpstream    = "UPSTREAM_UNAVAILABLE"
	errCodeMalformed   = "UPSTREAM_MALFORMED"
	errCodeInternal    = "INTERNAL_ERROR"
	refreshTimeout     = 60 * time.Second
	defaultStoredDays  = 30
	coinHistoryTimeout = 30 * time.Second
)

// Source is the data the API renders from. *collector.Collector satisfies it.
type Source interface {
	Snapshot() collector.Snapshot
	Refresh(ctx context.Context) collector.Snapshot
	CoinHistory(ctx context.Context, coin string) ([]aggregate.DailyImpact, error)
}

// Refresher runs a full refresh including its bookkeeping.
// *scheduler.Scheduler satisfies it.
type Refresher interface {
	RefreshNow() collector.Snapshot
}

// DailyStore reads recorded per-day news tallies. *recorder.SQLiteRecorder
// satisfies it.
type DailyStore interface {
	DailyFor(coin string, limit int) ([]aggregate.DailyCoinAggregate, error)
}

// Options are the dashboard settings taken from config. When Refresher is
// set, POST /api/refresh goes through it instead of Source. Store is
// optional and backs /api/coins/:coin/daily.
type Options struct {
	Coins      []model.Coin
	Roster     []model.Channel
	SeedRoster bool
	Location   *time.Location
	Refresher  Refresher
	Store      DailyStore
}

// Server wires the dashboard views to HTTP routes.
type Server struct {
	engine *gin.Engine
	source Source
	opts   Options
	log    *logger.Logger
	now    func() time.Time
}

// New builds the router. A nil log discards output.
func New(source Source, opts Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Server{
		engine: gin.New(),
		source: source,
		opts:   opts,
		log:    log.With("component", "server"),
		now:    time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the router for mounting in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.Use(gin.Recovery(), s.requestLogger(), corsMiddleware())

	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/legend", s.handleLegend)
	api.GET("/news", s.handleNews)
	api.GET("/videos", s.handleVideos)
	api.GET("/coins", s.handleCoins)
	api.GET("/coins/:coin/history", s.handleCoinHistory)
	api.GET("/coins/:coin/daily", s.handleCoinDaily)
	api.POST("/refresh", s.handleRefresh)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.APIRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.log.Debugf("%3d | %13v | %-7s %s", status, time.Since(start), c.Request.Method, c.Request.URL.RequestURI())
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Cache-Control")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg, "error_code": code})
}

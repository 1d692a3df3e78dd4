package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	"github.com/rhyrak/go-timetable/internal/store"
	"github.com/rhyrak/go-timetable/pkg/config"
	"github.com/rhyrak/go-timetable/pkg/logger"
	"github.com/rhyrak/go-timetable/pkg/model"
)

// RunStore persists generated timetables.
type RunStore interface {
	Save(ctx context.Context, res *scheduler.Result) (*store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
	Get(ctx context.Context, id string) (*store.Run, error)
	Placements(ctx context.Context, runID string) ([]model.Placement, error)
	Delete(ctx context.Context, id string) error
}

// Server answers timetable generation requests over HTTP. Cache and store
// are optional.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *Metrics
	cache    Cache
	store    RunStore
	cacheTTL time.Duration

	// generation runs one request at a time
	mu sync.Mutex
}

type Option func(*Server)

func WithCache(c Cache) Option {
	return func(s *Server) { s.cache = c }
}

func WithStore(st RunStore) Option {
	return func(s *Server) { s.store = st }
}

func New(cfg *config.Config, l *zap.Logger, opts ...Option) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		cfg:      cfg,
		logger:   l,
		metrics:  NewMetrics(),
		cacheTTL: cfg.CacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), logger.GinMiddleware(s.logger), s.metrics.Middleware())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/timetables", s.generate)
	v1.GET("/timetables", s.listRuns)
	v1.GET("/timetables/:id", s.getRun)
	v1.DELETE("/timetables/:id", s.deleteRun)
	v1.GET("/timetables/:id/placements", s.runPlacements)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

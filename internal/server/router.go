// Package server exposes the analytics service over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/castlens/castlens-go/internal/constants"
	"github.com/castlens/castlens-go/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyticsService builds the live analytics view model.
type AnalyticsService interface {
	BuildChannelAnalytics(ctx context.Context, channelID string) (*domain.ChannelAnalytics, error)
}

// SnapshotSource serves persisted analytics builds. A nil analytics result
// with a nil error means no snapshot has been captured yet.
type SnapshotSource interface {
	Latest(ctx context.Context, channelID string) (*domain.ChannelAnalytics, time.Time, error)
}

// Server manages the HTTP REST API.
type Server struct {
	router    *gin.Engine
	analytics AnalyticsService
	snapshots SnapshotSource // nil when history is disabled
	logger    *zap.Logger
	httpSrv   *http.Server
}

func NewServer(analytics AnalyticsService, snapshots SnapshotSource, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger(logger))

	s := &Server{
		router:    router,
		analytics: analytics,
		snapshots: snapshots,
		logger:    logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/channels/:channelId/analytics", s.getChannelAnalytics)
		v1.GET("/channels/:channelId/analytics/snapshot", s.getLatestSnapshot)
	}
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  constants.ServerConfig.ReadTimeout,
		WriteTimeout: constants.ServerConfig.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

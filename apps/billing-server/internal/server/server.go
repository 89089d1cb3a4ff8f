// Package server はbilling-serverのHTTPサーバー管理を提供する。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/config"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
)

// Server はHTTPサーバーを管理する。
type Server struct {
	engine *gin.Engine
	server *http.Server
	addr   string
}

// New は新しいServerを生成する。
func New(cfg *config.Config, h *handler.Handler, m *metrics.Metrics) *Server {
	engine := gin.New()

	engine.Use(httputil.TraceIDMiddleware())
	engine.Use(httputil.LoggingMiddleware())
	engine.Use(httputil.RecoveryMiddleware())
	engine.Use(m.GinMiddleware())

	SetupRouter(engine, h, m, cfg.AdminJWTSecret)

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           engine,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			WriteTimeout:      config.RequestTimeout,
		},
		addr: cfg.ListenAddr,
	}
}

// Handler はルーティング済みのハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run はサーバーを起動する。Shutdownによる停止はエラーとしない。
func (s *Server) Run() error {
	slog.Info("starting http server", "event_id", "SRV_START", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown はサーバーをシャットダウンする。
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down http server", "event_id", "SRV_STOP")
	return s.server.Shutdown(ctx)
}

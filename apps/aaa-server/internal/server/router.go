package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
)

// SetupRouter はルーティングを設定する。
// jwtSecretが空の場合、ブリッジAPIは認証なしで公開される。
func SetupRouter(engine *gin.Engine, h *handler.BridgeHandler, m *metrics.Metrics, jwtSecret string) {
	engine.GET("/health", h.HandleHealth)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := engine.Group("/api/v1/radius")
	if jwtSecret != "" {
		v1.Use(httputil.JWTMiddleware(jwtSecret))
	} else {
		slog.Warn("bridge api is not protected", "event_id", "SRV_NO_AUTH")
	}
	{
		v1.POST("/authorize", h.HandleAuthorize)
		v1.POST("/accounting", h.HandleAccounting)
	}
}

package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
)

// SetupRouter はルーティングを設定する。
// jwtSecretが空の場合、APIは認証なしで公開される。
func SetupRouter(engine *gin.Engine, h *handler.Handler, m *metrics.Metrics, jwtSecret string) {
	engine.GET("/health", h.HandleHealth)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := engine.Group("/api/v1")
	if jwtSecret != "" {
		v1.Use(httputil.JWTMiddleware(jwtSecret))
	} else {
		slog.Warn("billing api is not protected", "event_id", "SRV_NO_AUTH")
	}

	billing := v1.Group("/billing")
	{
		billing.POST("/payments", h.HandlePayment)
		billing.GET("/entitlement", h.HandleEntitlement)
	}

	services := v1.Group("/services")
	{
		services.GET("/access", h.HandleServiceAccess)
		services.DELETE("/:id", h.HandleDeleteService)
	}

	fairUse := v1.Group("/fairuse")
	{
		fairUse.POST("/usage", h.HandleUsage)
		fairUse.GET("/:customer_id/:service_id", h.HandleStatus)
		fairUse.POST("/:customer_id/:service_id/burst", h.HandleBurst)
	}

	v1.POST("/admin/notify/reload", h.HandleNotifyReload)
}

package httputil

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// TraceIDHeader はFreeRADIUS・管理画面・連携先とトレースIDを受け渡すヘッダ。
const TraceIDHeader = "X-Trace-ID"

const (
	traceIDKey    = "trace_id"
	maxTraceIDLen = 128
)

// TraceID はTraceIDMiddlewareが設定したトレースIDを返す。
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// TraceIDMiddleware は受信したX-Trace-IDを引き継ぎ、無ければUUIDを採番する。
// 採用したIDは応答ヘッダとリクエストのcontextにも設定する。
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" || len(id) > maxTraceIDLen {
			id = uuid.NewString()
		}
		c.Set(traceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWithTraceID(c.Request.Context(), id))
		c.Next()
	}
}

// LoggingMiddleware はアクセスログを出力する。5xxはERROR、4xxはWARNとする。
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request completed",
			logging.FieldEventID, "HTTP_ACCESS",
			logging.FieldTraceID, TraceID(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			logging.FieldHTTPStatus, status,
			logging.FieldLatencyMs, time.Since(start).Milliseconds(),
		)
	}
}

// RecoveryMiddleware はハンドラのpanicを500のProblemDetailに変換する。
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		slog.Error("panic recovered",
			logging.FieldEventID, "SYS_ERR",
			logging.FieldTraceID, TraceID(c),
			logging.FieldError, recovered,
		)
		AbortWithProblem(c, Problem(http.StatusInternalServerError, "An unexpected error occurred"))
	})
}

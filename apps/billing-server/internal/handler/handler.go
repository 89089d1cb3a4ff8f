// Package handler はbilling-serverのHTTPハンドラーを提供する。
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/usecase"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// Handler はbilling-serverのハンドラー。
type Handler struct {
	billing  BillingService
	fairUse  FairUseService
	notifier NotifierReloader
	loader   NotifyConfigLoader
	checks   map[string]HealthCheck
	fields   *logging.CommonFields
}

// Deps はHandlerの依存関係。
type Deps struct {
	Billing  BillingService
	FairUse  FairUseService
	Notifier NotifierReloader
	Loader   NotifyConfigLoader
	Checks   map[string]HealthCheck
	Fields   *logging.CommonFields
}

// New は新しいHandlerを生成する。
func New(d Deps) *Handler {
	fields := d.Fields
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &Handler{
		billing:  d.Billing,
		fairUse:  d.FairUse,
		notifier: d.Notifier,
		loader:   d.Loader,
		checks:   d.Checks,
		fields:   fields,
	}
}

// HandleHealth はGET /health のハンドラー。
func (h *Handler) HandleHealth(c *gin.Context) {
	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			slog.Warn("health check failed",
				logging.FieldEventID, "HEALTH_CHECK_ERR",
				logging.FieldTraceID, httputil.TraceID(c),
				"component", name,
				logging.FieldError, err,
			)
			result[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "components": result})
}

// writeError はエラーをログ出力し、ProblemDetailとして返す。
func (h *Handler) writeError(c *gin.Context, err error, attrs ...any) {
	pe := usecase.FromError(err)
	args := append([]any{
		logging.FieldEventID, pe.EventID,
		logging.FieldTraceID, httputil.TraceID(c),
		logging.FieldError, err.Error(),
	}, attrs...)
	slog.Log(c.Request.Context(), pe.LogLevel(), pe.Message, args...)
	httputil.WriteProblem(c, pe.ToProblemDetail())
}

// badRequest は入力不正を400で返す。
func (h *Handler) badRequest(c *gin.Context, eventID, detail string, err error) {
	slog.Warn("invalid request",
		logging.FieldEventID, eventID,
		logging.FieldTraceID, httputil.TraceID(c),
		logging.FieldError, err.Error(),
	)
	httputil.WriteProblem(c, httputil.Problem(http.StatusBadRequest, detail))
}

// pathID は正の整数のパスパラメータを取得する。
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

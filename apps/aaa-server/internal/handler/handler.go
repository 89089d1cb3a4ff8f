// Package handler はAAA HTTPブリッジのリクエストハンドラーを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/acct"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/auth"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// BridgeHandler はRADIUSブリッジAPIのハンドラー。
type BridgeHandler struct {
	authorizer Authorizer
	processor  AccountingProcessor
	checks     map[string]HealthCheck
}

// NewBridgeHandler は新しいBridgeHandlerを生成する。
func NewBridgeHandler(a Authorizer, p AccountingProcessor, checks map[string]HealthCheck) *BridgeHandler {
	return &BridgeHandler{authorizer: a, processor: p, checks: checks}
}

// accountingRequest は課金要求のリクエストボディ。
type accountingRequest struct {
	acct.Event
	NASSecret string `json:"nas_secret"`
}

// HandleAuthorize はPOST /api/v1/radius/authorize のハンドラー。
func (h *BridgeHandler) HandleAuthorize(c *gin.Context) {
	traceID := httputil.TraceID(c)

	var req auth.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, traceID, "AUTH_BAD_REQUEST", err)
		return
	}
	if req.Username == "" || req.NASAddress == "" {
		h.badRequest(c, traceID, "AUTH_BAD_REQUEST", errors.New("username and nas_address are required"))
		return
	}
	req.TraceID = traceID

	decision, err := h.authorizer.Authenticate(c.Request.Context(), &req)
	if err != nil {
		httputil.WriteProblem(c, httputil.Problem(http.StatusInternalServerError, "Authorization backend unavailable"))
		return
	}
	c.JSON(http.StatusOK, decision)
}

// HandleAccounting はPOST /api/v1/radius/accounting のハンドラー。
func (h *BridgeHandler) HandleAccounting(c *gin.Context) {
	traceID := httputil.TraceID(c)

	var req accountingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, traceID, "ACCT_BAD_REQUEST", err)
		return
	}
	ev := req.Event
	ev.NASSecret = req.NASSecret
	ev.TraceID = traceID

	err := h.processor.Process(c.Request.Context(), &ev)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, acct.ErrUnknownNAS):
		httputil.WriteProblem(c, httputil.Problem(http.StatusForbidden, "NAS not authorized"))
	case errors.Is(err, acct.ErrUnknownStatusType), errors.Is(err, acct.ErrMissingSessionID):
		h.badRequest(c, traceID, "ACCT_BAD_REQUEST", err)
	default:
		httputil.WriteProblem(c, httputil.Problem(http.StatusInternalServerError, "Accounting backend unavailable"))
	}
}

// HandleHealth はGET /health のハンドラー。
func (h *BridgeHandler) HandleHealth(c *gin.Context) {
	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			slog.Warn("health check failed",
				"event_id", "HEALTH_CHECK_ERR",
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

func (h *BridgeHandler) badRequest(c *gin.Context, traceID, eventID string, err error) {
	slog.Warn("invalid request body",
		logging.FieldTraceID, traceID,
		logging.FieldEventID, eventID,
		logging.FieldError, err.Error(),
	)
	httputil.WriteProblem(c, httputil.Problem(http.StatusBadRequest, "Invalid request body"))
}

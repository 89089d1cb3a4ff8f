package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// paymentRequest は入金反映のリクエストボディ。
type paymentRequest struct {
	ServiceID int64 `json:"service_id"`
	PaymentID int64 `json:"payment_id"`
}

// HandlePayment はPOST /api/v1/billing/payments のハンドラー。
func (h *Handler) HandlePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "BILLING_BAD_REQUEST", "Invalid request body", err)
		return
	}
	if req.ServiceID <= 0 || req.PaymentID <= 0 {
		h.badRequest(c, "BILLING_BAD_REQUEST", "service_id and payment_id must be positive",
			errors.New("non-positive id"))
		return
	}

	act, err := h.billing.ActivateOrExtend(c.Request.Context(), req.ServiceID, req.PaymentID)
	if err != nil {
		h.writeError(c, err,
			logging.FieldServiceID, req.ServiceID,
			"payment_id", req.PaymentID,
		)
		return
	}
	c.JSON(http.StatusOK, act)
}

// HandleEntitlement はGET /api/v1/billing/entitlement のハンドラー。
func (h *Handler) HandleEntitlement(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Query("plan_id"), 10, 64)
	if err != nil || planID <= 0 {
		h.badRequest(c, "BILLING_BAD_REQUEST", "plan_id must be a positive integer", errOrRange(err))
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		h.badRequest(c, "BILLING_BAD_REQUEST", "amount must be a decimal number", err)
		return
	}

	ent, err := h.billing.ComputeEntitlement(c.Request.Context(), planID, amount)
	if err != nil {
		h.writeError(c, err, "plan_id", planID)
		return
	}
	c.JSON(http.StatusOK, ent)
}

// HandleDeleteService はDELETE /api/v1/services/:id のハンドラー。
// 削除済みサービスへの再要求も成功として扱う。
func (h *Handler) HandleDeleteService(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, "BILLING_BAD_REQUEST", "id must be a positive integer", err)
		return
	}
	if err := h.billing.DeleteService(c.Request.Context(), id); err != nil {
		h.writeError(c, err, logging.FieldServiceID, id)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleServiceAccess はGET /api/v1/services/access のハンドラー。
func (h *Handler) HandleServiceAccess(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		h.badRequest(c, "BILLING_BAD_REQUEST", "username is required", errors.New("empty username"))
		return
	}

	allowed, err := h.billing.CheckServiceAccess(c.Request.Context(), username)
	if err != nil {
		h.writeError(c, err, h.fields.WithUsername(username))
		return
	}
	slog.Debug("service access checked",
		logging.FieldEventID, "BILLING_ACCESS_CHECK",
		logging.FieldTraceID, httputil.TraceID(c),
		h.fields.WithUsername(username),
		"allowed", allowed,
	)
	c.JSON(http.StatusOK, gin.H{"username": username, "allowed": allowed})
}

func errOrRange(err error) error {
	if err != nil {
		return err
	}
	return strconv.ErrRange
}

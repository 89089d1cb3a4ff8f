package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// usageRequest は使用量加算のリクエストボディ。
type usageRequest struct {
	CustomerID  int64           `json:"customer_id"`
	ServiceID   int64           `json:"service_id"`
	UploadMB    decimal.Decimal `json:"upload_mb"`
	DownloadMB  decimal.Decimal `json:"download_mb"`
	IsFreeHours bool            `json:"is_free_hours"`
}

// HandleUsage はPOST /api/v1/fairuse/usage のハンドラー。
func (h *Handler) HandleUsage(c *gin.Context) {
	var req usageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "FUP_BAD_REQUEST", "Invalid request body", err)
		return
	}
	if req.CustomerID <= 0 {
		h.badRequest(c, "FUP_BAD_REQUEST", "customer_id must be positive", errors.New("non-positive customer_id"))
		return
	}

	err := h.fairUse.UpdateUsage(c.Request.Context(), req.CustomerID, req.ServiceID,
		req.UploadMB, req.DownloadMB, req.IsFreeHours)
	if err != nil {
		h.writeError(c, err, logging.WithService(req.CustomerID, req.ServiceID)...)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleStatus はGET /api/v1/fairuse/:customer_id/:service_id のハンドラー。
func (h *Handler) HandleStatus(c *gin.Context) {
	customerID, serviceID, ok := h.serviceParams(c)
	if !ok {
		return
	}

	st, err := h.fairUse.CheckStatus(c.Request.Context(), customerID, serviceID)
	if err != nil {
		h.writeError(c, err, logging.WithService(customerID, serviceID)...)
		return
	}
	c.JSON(http.StatusOK, st)
}

// HandleBurst はPOST /api/v1/fairuse/:customer_id/:service_id/burst のハンドラー。
// バーストが利用できない場合は409を返す。
func (h *Handler) HandleBurst(c *gin.Context) {
	customerID, serviceID, ok := h.serviceParams(c)
	if !ok {
		return
	}

	activated, err := h.fairUse.ActivateBurst(c.Request.Context(), customerID, serviceID)
	if err != nil {
		h.writeError(c, err, logging.WithService(customerID, serviceID)...)
		return
	}
	if !activated {
		httputil.WriteProblem(c, httputil.Problem(http.StatusConflict, "Burst is not available for this service"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"activated": true})
}

func (h *Handler) serviceParams(c *gin.Context) (customerID, serviceID int64, ok bool) {
	customerID, err := pathID(c, "customer_id")
	if err != nil {
		h.badRequest(c, "FUP_BAD_REQUEST", "customer_id must be a positive integer", err)
		return 0, 0, false
	}
	serviceID, err = pathID(c, "service_id")
	if err != nil {
		h.badRequest(c, "FUP_BAD_REQUEST", "service_id must be a positive integer", err)
		return 0, 0, false
	}
	return customerID, serviceID, true
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/usecase"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// HandleNotifyReload はPOST /api/v1/admin/notify/reload のハンドラー。
// 設定の読み込みに失敗した場合は現在の設定を維持する。
func (h *Handler) HandleNotifyReload(c *gin.Context) {
	cfg, err := h.loader()
	if err != nil {
		h.writeError(c, &usecase.ProblemError{
			Status:  usecase.ErrNotifyConfig.Status,
			Title:   usecase.ErrNotifyConfig.Title,
			Detail:  err.Error(),
			Message: usecase.ErrNotifyConfig.Message,
			EventID: usecase.ErrNotifyConfig.EventID,
		})
		return
	}

	h.notifier.Reload(cfg)
	slog.Info("notifier reloaded by admin",
		logging.FieldEventID, "NOTIFY_RELOAD",
		logging.FieldTraceID, httputil.TraceID(c),
		"subject", c.GetString(httputil.SubjectKey),
	)
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "enabled": cfg.Enabled()})
}

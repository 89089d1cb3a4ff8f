package radius

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/acct"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
)

// Handler はRADIUSリクエストを処理するハンドラ。
// layeh.com/radius.Handlerインターフェースの実装。
type Handler struct {
	authorizer handler.Authorizer
	processor  handler.AccountingProcessor
	timeout    time.Duration
}

// NewHandler は新しいHandlerを生成する。
// timeoutは1パケットあたりのエンジン処理の上限。
func NewHandler(a handler.Authorizer, p handler.AccountingProcessor, timeout time.Duration) *Handler {
	return &Handler{authorizer: a, processor: p, timeout: timeout}
}

// ServeRADIUS はRADIUSリクエストを処理する
func (h *Handler) ServeRADIUS(w radius.ResponseWriter, r *radius.Request) {
	traceID := uuid.New().String()
	srcIP := sourceIP(r.RemoteAddr)

	slog.Debug("radius packet received",
		logging.FieldEventID, "PKT_RECV",
		logging.FieldTraceID, traceID,
		"src_ip", srcIP,
		"code", r.Code.String(),
	)

	ctx, cancel := context.WithTimeout(logging.ContextWithTraceID(r.Context(), traceID), h.timeout)
	defer cancel()

	switch r.Code {
	case radius.CodeAccessRequest:
		h.handleAccessRequest(ctx, w, r, traceID, srcIP)
	case radius.CodeAccountingRequest:
		h.handleAccountingRequest(ctx, w, r, traceID, srcIP)
	case radius.CodeStatusServer:
		h.handleStatusServer(w, r, traceID, srcIP)
	default:
		slog.Warn("unsupported radius code",
			logging.FieldEventID, "PKT_UNKNOWN_CODE",
			logging.FieldTraceID, traceID,
			"src_ip", srcIP,
			"code", r.Code.String(),
		)
	}
}

// handleAccessRequest はAccess-Requestを認可し、Accept/Rejectを返す。
// 認可エンジンの障害時は応答せず、NASの再送に委ねる。
func (h *Handler) handleAccessRequest(ctx context.Context, w radius.ResponseWriter, r *radius.Request, traceID, srcIP string) {
	signed := hasMessageAuthenticator(r.Packet)
	if signed && !verifyMessageAuthenticator(r.Packet) {
		slog.Warn("message-authenticator verification failed",
			logging.FieldEventID, "PKT_MA_INVALID",
			logging.FieldTraceID, traceID,
			"src_ip", srcIP,
		)
		return
	}

	decision, err := h.authorizer.Authenticate(ctx, authRequest(r.Packet, srcIP, traceID))
	if err != nil {
		slog.Error("authorization failed",
			logging.FieldEventID, "AUTH_ENGINE_ERR",
			logging.FieldTraceID, traceID,
			"src_ip", srcIP,
			logging.FieldError, err,
		)
		return
	}

	var resp *radius.Packet
	if decision.Accepted() {
		resp = r.Response(radius.CodeAccessAccept)
		if err := applyAttributes(resp, decision.Attributes); err != nil {
			slog.Error("failed to encode reply attributes",
				logging.FieldEventID, "PKT_ENCODE_ERR",
				logging.FieldTraceID, traceID,
				logging.FieldError, err,
			)
			return
		}
	} else {
		resp = r.Response(radius.CodeAccessReject)
		if decision.Reason != "" {
			_ = rfc2865.ReplyMessage_SetString(resp, decision.Reason)
		}
	}
	if signed {
		signMessageAuthenticator(resp, r.Authenticator)
	}
	h.write(w, resp, traceID)
}

// handleAccountingRequest は課金イベントを処理し、成功時のみAccounting-Responseを返す。
func (h *Handler) handleAccountingRequest(ctx context.Context, w radius.ResponseWriter, r *radius.Request, traceID, srcIP string) {
	err := h.processor.Process(ctx, accountingEvent(r.Packet, srcIP, traceID))
	if err != nil {
		level := slog.LevelError
		if acct.InvalidRequest(err) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "accounting request dropped",
			logging.FieldEventID, "PKT_DROP",
			logging.FieldTraceID, traceID,
			"src_ip", srcIP,
			logging.FieldError, err,
		)
		return
	}
	h.write(w, r.Response(radius.CodeAccountingResponse), traceID)
}

// handleStatusServer はStatus-Serverに応答する。
// Message-Authenticatorの検証に失敗した場合は無応答とする。
func (h *Handler) handleStatusServer(w radius.ResponseWriter, r *radius.Request, traceID, srcIP string) {
	if !verifyMessageAuthenticator(r.Packet) {
		slog.Warn("status-server message-authenticator verification failed",
			logging.FieldEventID, "RADIUS_STATUS_AUTH_FAIL",
			logging.FieldTraceID, traceID,
			"src_ip", srcIP,
		)
		return
	}
	resp := r.Response(radius.CodeAccessAccept)
	signMessageAuthenticator(resp, r.Authenticator)
	h.write(w, resp, traceID)
}

func (h *Handler) write(w radius.ResponseWriter, resp *radius.Packet, traceID string) {
	if err := w.Write(resp); err != nil {
		slog.Error("failed to send radius response",
			logging.FieldEventID, "PKT_SEND_ERR",
			logging.FieldTraceID, traceID,
			logging.FieldError, err,
		)
	}
}

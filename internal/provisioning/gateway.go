package provisioning

import (
	"context"
	"log/slog"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// Gateway はネットワーク機器への設定反映を定義する。
type Gateway interface {
	// RegisterNAS はNASクライアントを登録する
	RegisterNAS(ctx context.Context, nas *model.NASClient) error
	// PushRateLimit は接続中セッションへ速度制限を反映する
	PushRateLimit(ctx context.Context, req *RateLimitRequest) error
	// Disconnect は接続中セッションを切断する
	Disconnect(ctx context.Context, req *DisconnectRequest) error
}

// RegisterNASRequest はNAS登録要求。シークレットは含めない。
type RegisterNASRequest struct {
	Address string       `json:"address"`
	Name    string       `json:"name"`
	Vendor  model.Vendor `json:"vendor"`
}

// RateLimitRequest は速度制限反映要求。
type RateLimitRequest struct {
	NASAddress   string            `json:"nas_address"`
	Vendor       model.Vendor      `json:"vendor"`
	SessionID    string            `json:"session_id"`
	Username     string            `json:"username"`
	FramedIP     string            `json:"framed_ip,omitempty"`
	UploadMbps   int               `json:"upload_mbps"`
	DownloadMbps int               `json:"download_mbps"`
	Attributes   []VendorAttribute `json:"attributes"`
}

// DisconnectRequest は切断要求。
type DisconnectRequest struct {
	NASAddress string `json:"nas_address"`
	SessionID  string `json:"session_id"`
	Username   string `json:"username"`
	Reason     string `json:"reason"`
}

// NopGateway は連携先未設定時に使用するGateway。要求はログのみ出力する。
type NopGateway struct{}

// RegisterNAS は何もしない。
func (NopGateway) RegisterNAS(ctx context.Context, nas *model.NASClient) error {
	slog.Debug("provisioning disabled",
		"event_id", "PROV_SKIPPED",
		logging.FieldTraceID, logging.TraceIDFromContext(ctx),
		"operation", OpRegisterNAS,
		logging.FieldNASAddress, nas.Address,
	)
	return nil
}

// PushRateLimit は何もしない。
func (NopGateway) PushRateLimit(ctx context.Context, req *RateLimitRequest) error {
	slog.Debug("provisioning disabled",
		"event_id", "PROV_SKIPPED",
		logging.FieldTraceID, logging.TraceIDFromContext(ctx),
		"operation", OpRateLimit,
		logging.FieldSessionID, req.SessionID,
	)
	return nil
}

// Disconnect は何もしない。
func (NopGateway) Disconnect(ctx context.Context, req *DisconnectRequest) error {
	slog.Debug("provisioning disabled",
		"event_id", "PROV_SKIPPED",
		logging.FieldTraceID, logging.TraceIDFromContext(ctx),
		"operation", OpDisconnect,
		logging.FieldSessionID, req.SessionID,
	)
	return nil
}

package provisioning

import "time"

// 操作名（メトリクスラベル兼用）
const (
	OpRegisterNAS = "register_nas"
	OpRateLimit   = "rate_limit"
	OpDisconnect  = "disconnect"
)

// APIパス
const (
	PathRegisterNAS = "/api/v1/nas"
	PathRateLimit   = "/api/v1/rate-limit"
	PathDisconnect  = "/api/v1/disconnect"
)

// HTTPヘッダ
const (
	HeaderTraceID     = "X-Trace-ID"
	HeaderContentType = "Content-Type"
	HeaderAPIKey      = "X-API-Key"
	ContentTypeJSON   = "application/json"
)

// BackendID は連携失敗時のapperr.OpErrorに設定する連携先識別子。
const BackendID = "provisioning"

// 既定値
const (
	DefaultRequestTimeout     = 5 * time.Second
	DefaultCBName             = "provisioning"
	DefaultCBMaxRequests      = 1
	DefaultCBInterval         = 0
	DefaultCBTimeout          = 30 * time.Second
	DefaultCBFailureThreshold = 5
)

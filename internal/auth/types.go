package auth

import (
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/provisioning"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// Result は認可結果。
type Result string

const (
	ResultAccept Result = "Access-Accept"
	ResultReject Result = "Access-Reject"
)

// 拒否理由
const (
	ReasonNASNotAuthorized   = "NAS not authorized"
	ReasonUserNotFound       = "User not found"
	ReasonInvalidCredentials = "Invalid credentials"
	ReasonServiceExpired     = "Service expired"
	ReasonServiceNotActive   = "Service not active"
	ReasonAlreadyLoggedIn    = "Already logged in"
)

// DefaultInterimInterval はAcct-Interim-Intervalの既定値（秒）。
const DefaultInterimInterval = 300

// Request は認可要求。
type Request struct {
	TraceID          string `json:"-"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	NASAddress       string `json:"nas_address"`
	NASSecret        string `json:"nas_secret"`
	ServiceType      string `json:"service_type"`
	CallingStationID string `json:"calling_station_id"`
}

// Attributes はAccess-Acceptに付与する応答属性。
type Attributes struct {
	ServiceType         string                         `json:"Service-Type,omitempty"`
	RateLimit           string                         `json:"Rate-Limit,omitempty"` // "<up>M/<down>M"
	UploadMbps          int                            `json:"-"`
	DownloadMbps        int                            `json:"-"`
	Vendor              []provisioning.VendorAttribute `json:"Vendor-Specific,omitempty"`
	SessionTimeout      int                            `json:"Session-Timeout,omitempty"`
	IdleTimeout         int                            `json:"Idle-Timeout,omitempty"`
	FramedIPAddress     string                         `json:"Framed-IP-Address,omitempty"`
	FramedPool          string                         `json:"Framed-Pool,omitempty"`
	AcctInterimInterval int                            `json:"Acct-Interim-Interval"`
}

// Decision は認可判定。拒否は常にDecisionで表し、errorにはしない。
type Decision struct {
	Result     Result            `json:"result"`
	Reason     string            `json:"reason,omitempty"`
	Attributes *Attributes       `json:"attributes,omitempty"`
	NAS        *model.NASClient  `json:"-"`
	Credential *model.Credential `json:"-"`
}

// Accepted は許可判定かを返す。
func (d *Decision) Accepted() bool {
	return d != nil && d.Result == ResultAccept
}

func reject(reason string) *Decision {
	return &Decision{Result: ResultReject, Reason: reason}
}

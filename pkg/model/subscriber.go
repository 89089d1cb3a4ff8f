// Package model は共通データ構造体を提供する。
package model

import "time"

// CredentialStatus は加入者認証情報の状態を表す。
type CredentialStatus string

const (
	// CredentialActive は利用可能
	CredentialActive CredentialStatus = "active"
	// CredentialSuspended は停止中
	CredentialSuspended CredentialStatus = "suspended"
	// CredentialExpired は有効期限切れ
	CredentialExpired CredentialStatus = "expired"
)

// Credential は加入者のRADIUS認証情報を表す。
// 顧客とサービスの組み合わせごとに1件。
// テーブル: subscriber_credentials
type Credential struct {
	ID                int64            `json:"id"`
	Username          string           `json:"username"`
	PasswordHash      string           `json:"-"`                     // bcryptハッシュ
	CustomerID        int64            `json:"customer_id"`           // 所有顧客
	ServiceID         *int64           `json:"service_id,omitempty"`  // 紐付くサービス（任意）
	IPAddress         string           `json:"ip_address,omitempty"`  // 固定割当IP
	IPPool            string           `json:"ip_pool,omitempty"`     // IPプール名
	DownloadLimitMbps int              `json:"download_limit_mbps"`   // 個別下り速度（0で未指定）
	UploadLimitMbps   int              `json:"upload_limit_mbps"`     // 個別上り速度（0で未指定）
	SessionTimeout    int              `json:"session_timeout"`       // 秒（0で設定なし）
	IdleTimeout       int              `json:"idle_timeout"`          // 秒（0で設定なし）
	SimultaneousUse   int              `json:"simultaneous_use"`      // 同時接続数上限（0以下で無制限）
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"` // 有効期限
	Status            CredentialStatus `json:"status"`
}

// HasRateOverride は個別速度指定があるかを返す。
func (c *Credential) HasRateOverride() bool {
	return c.DownloadLimitMbps > 0 && c.UploadLimitMbps > 0
}

// IsExpiredAt は指定時刻時点で有効期限を過ぎているかを返す。
// 有効期限未設定の場合はfalse。
func (c *Credential) IsExpiredAt(now time.Time) bool {
	return c.ExpiryDate != nil && now.After(*c.ExpiryDate)
}

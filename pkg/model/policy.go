package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FairUseAction は月間上限到達後のアクション。
type FairUseAction string

const (
	// FairUseActionThrottle は速度制限
	FairUseActionThrottle FairUseAction = "throttle"
	// FairUseActionBlock は遮断（外部の強制処理へイベントで通知）
	FairUseActionBlock FairUseAction = "block"
	// FairUseActionNotify は通知のみ
	FairUseActionNotify FairUseAction = "notify"
)

// FairUsePolicy は月間データ量ポリシーを表す。
// テーブル: fair_use_policies
type FairUsePolicy struct {
	ID                   int64               `json:"id"`
	Name                 string              `json:"name"`
	MonthlyLimitGB       decimal.Decimal     `json:"monthly_limit_gb"`
	SoftCapGB            decimal.NullDecimal `json:"soft_cap_gb"` // 警告のみの閾値
	Action               FairUseAction       `json:"action"`
	ThrottleDownloadMbps int                 `json:"throttle_download_mbps"`
	ThrottleUploadMbps   int                 `json:"throttle_upload_mbps"`
	BurstEnabled         bool                `json:"burst_enabled"`
	BurstDownloadMbps    int                 `json:"burst_download_mbps"`
	BurstUploadMbps      int                 `json:"burst_upload_mbps"`
	BurstDuration        time.Duration       `json:"burst_duration"`
	BurstCooldown        time.Duration       `json:"burst_cooldown"`
	FreeHoursStart       *int                `json:"free_hours_start,omitempty"` // 0-23時
	FreeHoursEnd         *int                `json:"free_hours_end,omitempty"`   // 0-23時（この時を含まない）
}

// IsFreeHour は指定時刻がフリータイム帯に含まれるかを返す。
// 開始>終了の場合は日付をまたぐ帯として扱う（例: 22時〜6時）。
func (p *FairUsePolicy) IsFreeHour(t time.Time) bool {
	if p.FreeHoursStart == nil || p.FreeHoursEnd == nil {
		return false
	}
	start, end, h := *p.FreeHoursStart, *p.FreeHoursEnd, t.Hour()
	if start == end {
		return false
	}
	if start < end {
		return h >= start && h < end
	}
	return h >= start || h < end
}

// HasSoftCap はハード上限より小さいソフトキャップが設定されているかを返す。
func (p *FairUsePolicy) HasSoftCap() bool {
	return p.SoftCapGB.Valid && p.SoftCapGB.Decimal.IsPositive() &&
		p.SoftCapGB.Decimal.LessThan(p.MonthlyLimitGB)
}

// FairUseTracking は (顧客, サービス, 月) ごとの利用量集計を表す。
// テーブル: fair_use_tracking
type FairUseTracking struct {
	CustomerID      int64           `json:"customer_id"`
	ServiceID       int64           `json:"service_id"`
	Period          string          `json:"period"` // YYYY-MM
	TotalUploadMB   decimal.Decimal `json:"total_upload_mb"`
	TotalDownloadMB decimal.Decimal `json:"total_download_mb"`
	FreeHoursMB     decimal.Decimal `json:"free_hours_mb"`
	BillableMB      decimal.Decimal `json:"billable_mb"`
	LimitReached    bool            `json:"limit_reached"`
	LimitReachedAt  *time.Time      `json:"limit_reached_at,omitempty"`
	Throttled       bool            `json:"throttled"`
	BurstCount      int             `json:"burst_count"`
	LastBurstAt     *time.Time      `json:"last_burst_at,omitempty"`
}

// FairUseEventType はフェアユースの監査イベント種別。
type FairUseEventType string

const (
	FairUseEventSoftCapReached FairUseEventType = "soft_cap_reached"
	FairUseEventLimitReached   FairUseEventType = "limit_reached"
	FairUseEventBurstActivated FairUseEventType = "burst_activated"
)

// FairUseEvent はフェアユースの監査ログ（追記のみ）を表す。
// テーブル: fair_use_events
type FairUseEvent struct {
	CustomerID int64            `json:"customer_id"`
	ServiceID  int64            `json:"service_id"`
	Period     string           `json:"period"`
	Type       FairUseEventType `json:"event_type"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

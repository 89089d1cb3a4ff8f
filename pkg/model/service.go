package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan はサービスプランを表す。
// テーブル: plans
type Plan struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`      // 課金サイクルあたりの価格
	CycleDays       int             `json:"cycle_days"` // 課金サイクル日数
	DownloadMbps    int             `json:"download_mbps"`
	UploadMbps      int             `json:"upload_mbps"`
	FairUsePolicyID *int64          `json:"fair_use_policy_id,omitempty"`
}

// CustomerService は顧客とプランの契約（利用権）を表す。
// 物理削除はせず、IsDeletedで論理削除する。
// テーブル: customer_services
type CustomerService struct {
	ID           int64      `json:"id"`
	CustomerID   int64      `json:"customer_id"`
	PlanID       int64      `json:"plan_id"`
	ServiceStart time.Time  `json:"service_start"`
	ServiceEnd   time.Time  `json:"service_end"`
	IsActive     bool       `json:"is_active"`
	IsSuspended  bool       `json:"is_suspended"`
	IsDeleted    bool       `json:"is_deleted"`
	LastBilledAt *time.Time `json:"last_billed_at,omitempty"`
}

// Entitled は指定時刻に利用権があるかを返す。
// 有効・未停止・未削除かつ now ∈ [ServiceStart, ServiceEnd] の場合のみtrue。
func (s *CustomerService) Entitled(now time.Time) bool {
	if !s.IsActive || s.IsSuspended || s.IsDeleted {
		return false
	}
	return !now.Before(s.ServiceStart) && !now.After(s.ServiceEnd)
}

// Payment は入金記録を表す。
// テーブル: payments
type Payment struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
}

// ServiceEventType はサービスのライフサイクルイベント種別。
type ServiceEventType string

const (
	ServiceEventActivated ServiceEventType = "activated"
	ServiceEventExtended  ServiceEventType = "extended"
	ServiceEventSuspended ServiceEventType = "suspended"
	ServiceEventDeleted   ServiceEventType = "deleted"
)

// ServiceEvent はサービスの監査ログ（追記のみ）を表す。
// テーブル: service_events
type ServiceEvent struct {
	ServiceID int64            `json:"service_id"`
	Type      ServiceEventType `json:"event_type"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

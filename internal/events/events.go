// Package events はプロセス内のドメインイベント配信を提供する。
//
// 課金・フェアユースの状態遷移をイベントとして発行し、
// 通知スケジュールや機器への速度反映は購読側で行う。
package events

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// イベント名
const (
	NameServiceActivated    = "service.activated"
	NameServiceSuspended    = "service.suspended"
	NameServiceDeleted      = "service.deleted"
	NameFairUseSoftCap      = "fairuse.soft_cap_reached"
	NameFairUseLimitReached = "fairuse.limit_reached"
	NameBurstActivated      = "fairuse.burst_activated"
)

// Event はドメインイベント。
type Event interface {
	Name() string
}

// ServiceActivated は入金によりサービスが有効化または延長されたことを表す。
type ServiceActivated struct {
	ServiceID  int64
	CustomerID int64
	NewEnd     time.Time
	Extended   bool // trueの場合は有効期間中の延長
	PaidDays   int64
	OccurredAt time.Time
}

// Name はイベント名を返す。
func (ServiceActivated) Name() string { return NameServiceActivated }

// ServiceSuspended は期限切れによりサービスが停止されたことを表す。
type ServiceSuspended struct {
	ServiceID  int64
	CustomerID int64
	ServiceEnd time.Time
	OccurredAt time.Time
}

// Name はイベント名を返す。
func (ServiceSuspended) Name() string { return NameServiceSuspended }

// ServiceDeleted はサービスが論理削除されたことを表す。
type ServiceDeleted struct {
	ServiceID  int64
	CustomerID int64
	OccurredAt time.Time
}

// Name はイベント名を返す。
func (ServiceDeleted) Name() string { return NameServiceDeleted }

// FairUseSoftCapReached は警告閾値を超えたことを表す。
type FairUseSoftCapReached struct {
	CustomerID int64
	ServiceID  int64
	Period     string
	UsedGB     decimal.Decimal
	SoftCapGB  decimal.Decimal
	OccurredAt time.Time
}

// Name はイベント名を返す。
func (FairUseSoftCapReached) Name() string { return NameFairUseSoftCap }

// FairUseLimitReached は月間上限に到達したことを表す。期間ごとに一度だけ発行される。
type FairUseLimitReached struct {
	CustomerID   int64
	ServiceID    int64
	Period       string
	Action       model.FairUseAction
	Throttled    bool
	UsedGB       decimal.Decimal
	DownloadMbps int // 制限後の下り速度（Throttled時のみ有効）
	UploadMbps   int // 制限後の上り速度（Throttled時のみ有効）
	OccurredAt   time.Time
}

// Name はイベント名を返す。
func (FairUseLimitReached) Name() string { return NameFairUseLimitReached }

// BurstActivated はバーストが有効化されたことを表す。
type BurstActivated struct {
	CustomerID   int64
	ServiceID    int64
	Period       string
	DownloadMbps int
	UploadMbps   int
	Until        time.Time
	OccurredAt   time.Time
}

// Name はイベント名を返す。
func (BurstActivated) Name() string { return NameBurstActivated }

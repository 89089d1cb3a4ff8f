package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/billing"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/fairuse"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/notify"
)

// BillingService はサービスの課金操作を定義する。
type BillingService interface {
	ActivateOrExtend(ctx context.Context, serviceID, paymentID int64) (*billing.Activation, error)
	ComputeEntitlement(ctx context.Context, planID int64, amount decimal.Decimal) (*billing.Entitlement, error)
	DeleteService(ctx context.Context, serviceID int64) error
	CheckServiceAccess(ctx context.Context, username string) (bool, error)
}

// FairUseService はフェアユース操作を定義する。
type FairUseService interface {
	UpdateUsage(ctx context.Context, customerID, serviceID int64, uploadMB, downloadMB decimal.Decimal, isFreeHours bool) error
	CheckStatus(ctx context.Context, customerID, serviceID int64) (*fairuse.Status, error)
	ActivateBurst(ctx context.Context, customerID, serviceID int64) (bool, error)
}

// NotifierReloader は通知設定の差し替えを定義する。
type NotifierReloader interface {
	Reload(cfg notify.Config)
}

// NotifyConfigLoader は最新の通知設定を読み込む。
type NotifyConfigLoader func() (notify.Config, error)

// HealthCheck は依存コンポーネントの疎通確認。
type HealthCheck func(ctx context.Context) error

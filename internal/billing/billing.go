// Package billing は入金から利用期間を算出し、サービスの有効化・延長・停止を行う。
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// MaxUpdateAttempts は利用期間の比較更新の最大試行回数。
const MaxUpdateAttempts = 3

// Engine は課金エンジン。
type Engine struct {
	services  store.ServiceStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option はEngineの設定を変更する。
type Option func(*Engine)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics はメトリクスを設定する。
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine は新しいEngineを生成する。
func NewEngine(services store.ServiceStore, publisher events.Publisher, opts ...Option) *Engine {
	if publisher == nil {
		publisher = events.Nop{}
	}
	e := &Engine{
		services:  services,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Activation は有効化・延長の結果。
type Activation struct {
	ServiceID  int64                  `json:"service_id"`
	CustomerID int64                  `json:"customer_id"`
	PaymentID  int64                  `json:"payment_id"`
	Event      model.ServiceEventType `json:"event"`
	DailyRate  decimal.Decimal        `json:"daily_rate"`
	PaidDays   int64                  `json:"paid_days"`
	Start      time.Time              `json:"start"`
	NewEnd     time.Time              `json:"service_end"`
}

// ActivateOrExtend は入金を反映してサービスを有効化または延長する。
//
// 起点は現在時刻と現在のservice_endの遅い方であり、未使用の期間は失われない。
// 更新は直前のservice_endを条件とする比較更新で行い、競合時は読み直して再試行する。
func (e *Engine) ActivateOrExtend(ctx context.Context, serviceID, paymentID int64) (*Activation, error) {
	for attempt := 1; attempt <= MaxUpdateAttempts; attempt++ {
		act, applied, err := e.tryActivate(ctx, serviceID, paymentID)
		if err != nil {
			return nil, err
		}
		if !applied {
			slog.Warn("service window changed concurrently, retrying",
				"event_id", "BILLING_CAS_RETRY",
				logging.FieldServiceID, serviceID,
				"attempt", attempt,
			)
			continue
		}

		kind := "extended"
		if act.Event == model.ServiceEventActivated {
			kind = "activated"
		}
		e.metrics.ObserveActivation(kind)
		slog.Info("service "+kind,
			"event_id", "BILLING_"+strings.ToUpper(kind),
			logging.FieldCustomerID, act.CustomerID,
			logging.FieldServiceID, act.ServiceID,
			"payment_id", paymentID,
			"paid_days", act.PaidDays,
			"service_end", act.NewEnd,
		)

		e.publisher.Publish(ctx, events.ServiceActivated{
			ServiceID:  act.ServiceID,
			CustomerID: act.CustomerID,
			NewEnd:     act.NewEnd,
			Extended:   act.Event == model.ServiceEventExtended,
			PaidDays:   act.PaidDays,
			OccurredAt: e.now(),
		})
		return act, nil
	}
	return nil, fmt.Errorf("%w: service_id=%d", ErrConcurrentUpdate, serviceID)
}

func (e *Engine) tryActivate(ctx context.Context, serviceID, paymentID int64) (*Activation, bool, error) {
	svc, err := e.services.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: id=%d", ErrServiceNotFound, serviceID)
		}
		return nil, false, err
	}
	if svc.IsDeleted {
		return nil, false, fmt.Errorf("%w: id=%d", ErrServiceDeleted, serviceID)
	}

	payment, err := e.services.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: id=%d", ErrPaymentNotFound, paymentID)
		}
		return nil, false, err
	}
	if payment.CustomerID != svc.CustomerID {
		return nil, false, fmt.Errorf("%w: payment_id=%d, service_id=%d", ErrPaymentMismatch, paymentID, serviceID)
	}

	plan, err := e.services.GetPlan(ctx, svc.PlanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: id=%d", ErrPlanNotFound, svc.PlanID)
		}
		return nil, false, err
	}

	rate, days, err := PaidDays(plan, payment.Amount)
	if err != nil {
		return nil, false, err
	}

	now := e.now()
	start := now
	upd := store.WindowUpdate{
		ServiceID: svc.ID,
		PrevEnd:   svc.ServiceEnd,
		BilledAt:  now,
	}
	if svc.ServiceEnd.After(now) {
		start = svc.ServiceEnd
	} else {
		upd.Start = &now
	}
	upd.End = start.Add(time.Duration(days) * Day)

	evType := model.ServiceEventExtended
	if !svc.IsActive {
		evType = model.ServiceEventActivated
	}

	applied, err := e.services.ApplyWindow(ctx, upd, model.ServiceEvent{
		ServiceID: svc.ID,
		Type:      evType,
		Metadata: map[string]any{
			"payment_id":   paymentID,
			"amount":       payment.Amount.StringFixed(2),
			"daily_rate":   rate.StringFixed(4),
			"paid_days":    days,
			"previous_end": svc.ServiceEnd.UTC().Format(time.RFC3339),
			"service_end":  upd.End.UTC().Format(time.RFC3339),
		},
		CreatedAt: now,
	})
	if err != nil || !applied {
		return nil, false, err
	}

	return &Activation{
		ServiceID:  svc.ID,
		CustomerID: svc.CustomerID,
		PaymentID:  paymentID,
		Event:      evType,
		DailyRate:  rate,
		PaidDays:   days,
		Start:      start,
		NewEnd:     upd.End,
	}, true, nil
}

// SuspendExpiredServices は期限切れサービスを一括停止し、停止件数を返す。
// 既に停止済みのサービスは対象外のため、繰り返し実行しても結果は変わらない。
func (e *Engine) SuspendExpiredServices(ctx context.Context) (int, error) {
	now := e.now()
	suspended, err := e.services.SuspendExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, s := range suspended {
		slog.Info("service suspended",
			"event_id", "BILLING_SUSPENDED",
			logging.FieldCustomerID, s.CustomerID,
			logging.FieldServiceID, s.ID,
			"service_end", s.ServiceEnd,
		)
		e.publisher.Publish(ctx, events.ServiceSuspended{
			ServiceID:  s.ID,
			CustomerID: s.CustomerID,
			ServiceEnd: s.ServiceEnd,
			OccurredAt: now,
		})
	}
	e.metrics.ObserveSuspensions(len(suspended))
	return len(suspended), nil
}

// DeleteService はサービスを論理削除する。削除済みの場合は何もしない。
func (e *Engine) DeleteService(ctx context.Context, serviceID int64) error {
	svc, err := e.services.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: id=%d", ErrServiceNotFound, serviceID)
		}
		return err
	}

	now := e.now()
	deleted, err := e.services.SoftDelete(ctx, serviceID, now)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	slog.Info("service deleted",
		"event_id", "BILLING_DELETED",
		logging.FieldCustomerID, svc.CustomerID,
		logging.FieldServiceID, serviceID,
	)
	e.publisher.Publish(ctx, events.ServiceDeleted{
		ServiceID:  serviceID,
		CustomerID: svc.CustomerID,
		OccurredAt: now,
	})
	return nil
}

// CheckServiceAccess はユーザーのサービスが現在利用可能かを返す。
// サービスが紐付いていない場合はfalseを返す。
func (e *Engine) CheckServiceAccess(ctx context.Context, username string) (bool, error) {
	svc, err := e.services.GetServiceByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return svc.Entitled(e.now()), nil
}

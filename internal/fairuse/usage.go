package fairuse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// UpdateUsage は当月の使用量を加算する。
//
// 課金対象の使用量が警告閾値を超えた場合はイベントのみ記録し、
// 月間上限に到達した場合はApplyThrottleを呼び出す。
// ポリシーが未設定の場合は集計のみ行う。
func (e *Engine) UpdateUsage(ctx context.Context, customerID, serviceID int64, uploadMB, downloadMB decimal.Decimal, isFreeHours bool) error {
	if serviceID <= 0 {
		return ErrNoService
	}
	if uploadMB.IsNegative() || downloadMB.IsNegative() {
		return fmt.Errorf("%w: upload_mb=%s, download_mb=%s", ErrInvalidUsage, uploadMB, downloadMB)
	}
	p, err := e.policy(ctx, serviceID)
	if err != nil {
		return err
	}
	return e.addUsage(ctx, e.key(customerID, serviceID, e.now()), p, uploadMB, downloadMB, isFreeHours)
}

// RecordSessionUsage はセッションのオクテット増分を使用量として計上する。
// inputOctetsは加入者からの上り、outputOctetsは加入者への下り。
// 無料時間帯かどうかはatの時刻とポリシーで判定する。
func (e *Engine) RecordSessionUsage(ctx context.Context, customerID, serviceID, inputOctets, outputOctets int64, at time.Time) error {
	if serviceID <= 0 {
		return ErrNoService
	}
	uploadMB, downloadMB := OctetsToMB(inputOctets), OctetsToMB(outputOctets)
	if uploadMB.IsZero() && downloadMB.IsZero() {
		return nil
	}

	p, err := e.policy(ctx, serviceID)
	if err != nil {
		return err
	}
	free := p != nil && p.IsFreeHour(at.In(e.loc))
	return e.addUsage(ctx, e.key(customerID, serviceID, at), p, uploadMB, downloadMB, free)
}

func (e *Engine) addUsage(ctx context.Context, key store.TrackingKey, p *model.FairUsePolicy, uploadMB, downloadMB decimal.Decimal, free bool) error {
	after, err := e.store.AddUsage(ctx, key, uploadMB, downloadMB, free)
	if err != nil {
		return err
	}
	if p == nil || free {
		return nil
	}

	usedMB := after.BillableMB
	beforeMB := usedMB.Sub(uploadMB.Add(downloadMB))
	limitMB := p.MonthlyLimitGB.Mul(mbPerGB)

	if p.HasSoftCap() {
		softMB := p.SoftCapGB.Decimal.Mul(mbPerGB)
		if beforeMB.LessThan(softMB) && usedMB.GreaterThanOrEqual(softMB) && beforeMB.LessThan(limitMB) {
			e.softCapReached(ctx, key, p, usedMB)
		}
	}

	if p.MonthlyLimitGB.IsPositive() && !after.LimitReached && usedMB.GreaterThanOrEqual(limitMB) {
		if _, err := e.applyThrottle(ctx, key, p, usedMB); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) softCapReached(ctx context.Context, key store.TrackingKey, p *model.FairUsePolicy, usedMB decimal.Decimal) {
	now := e.now()
	usedGB := mbToGB(usedMB)
	e.audit(ctx, &model.FairUseEvent{
		CustomerID: key.CustomerID,
		ServiceID:  key.ServiceID,
		Period:     key.Period,
		Type:       model.FairUseEventSoftCapReached,
		Metadata: map[string]any{
			"used_gb":     usedGB.String(),
			"soft_cap_gb": p.SoftCapGB.Decimal.String(),
		},
		CreatedAt: now,
	})
	slog.Info("fair use soft cap reached",
		"event_id", "FUP_SOFT_CAP_REACHED",
		logging.FieldCustomerID, key.CustomerID,
		logging.FieldServiceID, key.ServiceID,
		"period", key.Period,
		"used_gb", usedGB.String(),
	)
	e.publisher.Publish(ctx, events.FairUseSoftCapReached{
		CustomerID: key.CustomerID,
		ServiceID:  key.ServiceID,
		Period:     key.Period,
		UsedGB:     usedGB,
		SoftCapGB:  p.SoftCapGB.Decimal,
		OccurredAt: now,
	})
}

// ApplyThrottle は当月の上限到達を記録する。
// 同一期間で既に記録済みの場合は何もせずfalseを返す。
// ポリシーのアクションがthrottleの場合のみ速度制限状態にする。
func (e *Engine) ApplyThrottle(ctx context.Context, customerID, serviceID int64, p *model.FairUsePolicy) (bool, error) {
	key := e.key(customerID, serviceID, e.now())
	t, err := e.store.GetOrCreateTracking(ctx, key)
	if err != nil {
		return false, err
	}
	if t.LimitReached {
		return false, nil
	}
	return e.applyThrottle(ctx, key, p, t.BillableMB)
}

func (e *Engine) applyThrottle(ctx context.Context, key store.TrackingKey, p *model.FairUsePolicy, usedMB decimal.Decimal) (bool, error) {
	now := e.now()
	throttled := p.Action == model.FairUseActionThrottle

	applied, err := e.store.MarkLimitReached(ctx, key, throttled, now)
	if err != nil || !applied {
		return false, err
	}

	usedGB := mbToGB(usedMB)
	ev := events.FairUseLimitReached{
		CustomerID: key.CustomerID,
		ServiceID:  key.ServiceID,
		Period:     key.Period,
		Action:     p.Action,
		Throttled:  throttled,
		UsedGB:     usedGB,
		OccurredAt: now,
	}
	if throttled {
		ev.DownloadMbps = p.ThrottleDownloadMbps
		ev.UploadMbps = p.ThrottleUploadMbps
	}

	e.audit(ctx, &model.FairUseEvent{
		CustomerID: key.CustomerID,
		ServiceID:  key.ServiceID,
		Period:     key.Period,
		Type:       model.FairUseEventLimitReached,
		Metadata: map[string]any{
			"action":           string(p.Action),
			"used_gb":          usedGB.String(),
			"monthly_limit_gb": p.MonthlyLimitGB.String(),
			"throttled":        throttled,
		},
		CreatedAt: now,
	})
	slog.Warn("fair use limit reached",
		"event_id", "FUP_LIMIT_REACHED",
		logging.FieldCustomerID, key.CustomerID,
		logging.FieldServiceID, key.ServiceID,
		"period", key.Period,
		"action", string(p.Action),
		"used_gb", usedGB.String(),
	)
	e.publisher.Publish(ctx, ev)
	return true, nil
}

// audit はフェアユースイベントを記録する。失敗はログのみ。
func (e *Engine) audit(ctx context.Context, ev *model.FairUseEvent) {
	e.metrics.ObserveFairUse(string(ev.Type))
	if err := e.store.InsertFairUseEvent(ctx, ev); err != nil {
		slog.Error("fair use event write failed",
			"event_id", "DB_WRITE_ERR",
			logging.FieldCustomerID, ev.CustomerID,
			logging.FieldServiceID, ev.ServiceID,
			"event_type", string(ev.Type),
			logging.FieldError, err,
		)
	}
}

func burstEvent(customerID, serviceID int64, period string, p *model.FairUsePolicy, until, now time.Time) events.BurstActivated {
	return events.BurstActivated{
		CustomerID:   customerID,
		ServiceID:    serviceID,
		Period:       period,
		DownloadMbps: p.BurstDownloadMbps,
		UploadMbps:   p.BurstUploadMbps,
		Until:        until,
		OccurredAt:   now,
	}
}

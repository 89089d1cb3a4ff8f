package fairuse

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// Status は当月の使用状況。
type Status struct {
	Period         string          `json:"period"`
	Enforced       bool            `json:"enforced"` // ポリシーが設定されているか
	UsedGB         decimal.Decimal `json:"used_gb"`
	LimitGB        decimal.Decimal `json:"limit_gb"`
	RemainingGB    decimal.Decimal `json:"remaining_gb"`
	PercentUsed    decimal.Decimal `json:"percent_used"`
	FreeHoursGB    decimal.Decimal `json:"free_hours_gb"`
	LimitReached   bool            `json:"limit_reached"`
	Throttled      bool            `json:"throttled"`
	BurstAvailable bool            `json:"burst_available"`
	BurstActive    bool            `json:"burst_active"`
	BurstUntil     *time.Time      `json:"burst_until,omitempty"`
	BurstCount     int             `json:"burst_count"`
}

// ThrottleState は認可時に適用する速度制限の状態。
type ThrottleState struct {
	Throttled         bool
	DownloadMbps      int
	UploadMbps        int
	BurstActive       bool
	BurstDownloadMbps int
	BurstUploadMbps   int
	BurstUntil        time.Time
}

// RateLimit は基本速度に制限状態を適用した上り・下り速度を返す。
// バースト中はバースト速度、制限中は制限速度が優先される。
func (s *ThrottleState) RateLimit(baseUp, baseDown int) (up, down int) {
	switch {
	case s == nil:
		return baseUp, baseDown
	case s.BurstActive:
		return s.BurstUploadMbps, s.BurstDownloadMbps
	case s.Throttled:
		return s.UploadMbps, s.DownloadMbps
	}
	return baseUp, baseDown
}

// policy はサービスのポリシーを返す。未設定の場合はnilを返す。
func (e *Engine) policy(ctx context.Context, serviceID int64) (*model.FairUsePolicy, error) {
	p, err := e.store.GetPolicyForService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// CheckStatus は当月の使用状況を返す。当月の集計行が無い場合は作成する。
// ポリシーが未設定の場合はEnforced=falseの状態を返す。
func (e *Engine) CheckStatus(ctx context.Context, customerID, serviceID int64) (*Status, error) {
	now := e.now()
	key := e.key(customerID, serviceID, now)

	t, err := e.store.GetOrCreateTracking(ctx, key)
	if err != nil {
		return nil, err
	}
	p, err := e.policy(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Period:       key.Period,
		UsedGB:       mbToGB(t.BillableMB),
		FreeHoursGB:  mbToGB(t.FreeHoursMB),
		LimitReached: t.LimitReached,
		Throttled:    t.Throttled,
		BurstCount:   t.BurstCount,
	}
	if p == nil {
		return st, nil
	}

	st.Enforced = true
	st.LimitGB = p.MonthlyLimitGB
	if p.MonthlyLimitGB.IsPositive() {
		st.RemainingGB = decimal.Max(decimal.Zero, p.MonthlyLimitGB.Sub(st.UsedGB))
		st.PercentUsed = decimal.Min(hundred, st.UsedGB.Div(p.MonthlyLimitGB).Mul(hundred)).Round(2)
	}
	st.BurstAvailable = burstEligible(p, t, now)
	if until, ok := burstUntil(p, t, now); ok {
		st.BurstActive = true
		st.BurstUntil = &until
	}
	return st, nil
}

// CanActivateBurst はバーストを有効化できるかを返す。
func (e *Engine) CanActivateBurst(ctx context.Context, customerID, serviceID int64) (bool, error) {
	p, err := e.policy(ctx, serviceID)
	if err != nil || p == nil || !p.BurstEnabled {
		return false, err
	}
	now := e.now()
	t, err := e.store.GetOrCreateTracking(ctx, e.key(customerID, serviceID, now))
	if err != nil {
		return false, err
	}
	return burstEligible(p, t, now), nil
}

// ActivateBurst はバーストを有効化する。
// 条件を満たさない場合は状態を変更せずfalseを返す。
func (e *Engine) ActivateBurst(ctx context.Context, customerID, serviceID int64) (bool, error) {
	p, err := e.policy(ctx, serviceID)
	if err != nil || p == nil || !p.BurstEnabled {
		return false, err
	}

	now := e.now()
	key := e.key(customerID, serviceID, now)
	if _, err := e.store.GetOrCreateTracking(ctx, key); err != nil {
		return false, err
	}
	ok, err := e.store.RecordBurst(ctx, key, now, p.BurstCooldown)
	if err != nil {
		return false, err
	}
	if !ok {
		slog.Info("burst refused during cooldown",
			"event_id", "FUP_BURST_REFUSED",
			logging.FieldCustomerID, customerID,
			logging.FieldServiceID, serviceID,
		)
		return false, nil
	}

	until := now.Add(p.BurstDuration)
	e.audit(ctx, &model.FairUseEvent{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Period:     key.Period,
		Type:       model.FairUseEventBurstActivated,
		Metadata: map[string]any{
			"download_mbps": p.BurstDownloadMbps,
			"upload_mbps":   p.BurstUploadMbps,
			"until":         until.UTC().Format(time.RFC3339),
		},
		CreatedAt: now,
	})
	slog.Info("burst activated",
		"event_id", "FUP_BURST_ACTIVATED",
		logging.FieldCustomerID, customerID,
		logging.FieldServiceID, serviceID,
		"until", until,
	)
	e.publisher.Publish(ctx, burstEvent(customerID, serviceID, key.Period, p, until, now))
	return true, nil
}

// Throttle は認可時に適用する速度制限の状態を返す。
// ポリシーが未設定の場合は制限なしの状態を返す。
func (e *Engine) Throttle(ctx context.Context, customerID, serviceID int64) (*ThrottleState, error) {
	p, err := e.policy(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &ThrottleState{}, nil
	}

	now := e.now()
	t, err := e.store.GetOrCreateTracking(ctx, e.key(customerID, serviceID, now))
	if err != nil {
		return nil, err
	}

	st := &ThrottleState{
		Throttled:    t.Throttled,
		DownloadMbps: p.ThrottleDownloadMbps,
		UploadMbps:   p.ThrottleUploadMbps,
	}
	if until, ok := burstUntil(p, t, now); ok {
		st.BurstActive = true
		st.BurstDownloadMbps = p.BurstDownloadMbps
		st.BurstUploadMbps = p.BurstUploadMbps
		st.BurstUntil = until
	}
	return st, nil
}

func burstEligible(p *model.FairUsePolicy, t *model.FairUseTracking, now time.Time) bool {
	if !p.BurstEnabled {
		return false
	}
	return t.LastBurstAt == nil || now.Sub(*t.LastBurstAt) >= p.BurstCooldown
}

func burstUntil(p *model.FairUsePolicy, t *model.FairUseTracking, now time.Time) (time.Time, bool) {
	if !p.BurstEnabled || t.LastBurstAt == nil || p.BurstDuration <= 0 {
		return time.Time{}, false
	}
	until := t.LastBurstAt.Add(p.BurstDuration)
	return until, now.Before(until)
}

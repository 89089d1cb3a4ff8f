package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// Day は利用期間の1日。
const Day = 24 * time.Hour

// Entitlement は入金額から算出した利用期間。
type Entitlement struct {
	DailyRate decimal.Decimal `json:"daily_rate"`
	PaidDays  int64           `json:"paid_days"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
}

// ComputeEntitlement はプランと入金額から、現在時刻を起点とした利用期間を算出する。
func (e *Engine) ComputeEntitlement(ctx context.Context, planID int64, amount decimal.Decimal) (*Entitlement, error) {
	plan, err := e.services.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrPlanNotFound, planID)
		}
		return nil, err
	}

	rate, days, err := PaidDays(plan, amount)
	if err != nil {
		return nil, err
	}

	start := e.now()
	return &Entitlement{
		DailyRate: rate,
		PaidDays:  days,
		Start:     start,
		End:       start.Add(time.Duration(days) * Day),
	}, nil
}

// PaidDays は日額と購入日数を算出する。
// 日額は price / cycleDays、日数は floor(amount / 日額)。
// 日数は amount * cycleDays / price の整数商として求め、丸め誤差を生じさせない。
func PaidDays(plan *model.Plan, amount decimal.Decimal) (decimal.Decimal, int64, error) {
	if !plan.Price.IsPositive() || plan.CycleDays <= 0 {
		return decimal.Zero, 0, fmt.Errorf("%w: id=%d, price=%s, cycle_days=%d",
			ErrInvalidPlan, plan.ID, plan.Price.String(), plan.CycleDays)
	}

	cycle := decimal.NewFromInt(int64(plan.CycleDays))
	rate := plan.Price.Div(cycle)

	var days int64
	if amount.IsPositive() {
		q, _ := amount.Mul(cycle).QuoRem(plan.Price, 0)
		days = q.IntPart()
	}
	if days <= 0 {
		return rate, 0, &InsufficientPaymentError{
			Amount:   amount,
			Required: rate.RoundCeil(2),
		}
	}
	return rate, days, nil
}

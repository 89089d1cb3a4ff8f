package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
)

var (
	// ErrServiceNotFound はサービスが存在しない場合のエラー
	ErrServiceNotFound = apperr.ErrServiceNotFound
	// ErrPlanNotFound はプランが存在しない場合のエラー
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPaymentNotFound は入金が存在しない場合のエラー
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentMismatch は入金の顧客とサービスの顧客が異なる場合のエラー
	ErrPaymentMismatch = errors.New("payment belongs to another customer")
	// ErrInsufficientPayment は入金額が1日分に満たない場合のエラー
	ErrInsufficientPayment = apperr.ErrInsufficientPayment
	// ErrInvalidPlan はプランの価格またはサイクル日数が正でない場合のエラー
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrServiceDeleted は削除済みサービスへの操作エラー
	ErrServiceDeleted = errors.New("service deleted")
	// ErrConcurrentUpdate は比較更新が規定回数競合した場合のエラー
	ErrConcurrentUpdate = errors.New("concurrent update")
)

// InsufficientPaymentError は入金額不足の詳細。
// errors.Is(err, ErrInsufficientPayment) で判定できる。
type InsufficientPaymentError struct {
	Amount   decimal.Decimal // 入金額
	Required decimal.Decimal // 最低必要額（1日分、小数第2位切り上げ）
}

// Error はerrorインターフェースを実装する。
func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: amount=%s, required=%s",
		e.Amount.StringFixed(2), e.Required.StringFixed(2))
}

// Unwrap はErrInsufficientPaymentを返す。
func (e *InsufficientPaymentError) Unwrap() error {
	return ErrInsufficientPayment
}

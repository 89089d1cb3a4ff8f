// Package usecase はbilling-serverのエラー変換を提供する。
package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/billing"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/fairuse"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/httputil"
)

// ProblemError はビジネスロジックエラーを表す。
type ProblemError struct {
	Status  int
	Title   string
	Detail  string
	Message string // ログメッセージ
	EventID string

	extensions map[string]any
}

// Error はerrorインターフェースを実装する。
func (e *ProblemError) Error() string {
	return e.Detail
}

// ToProblemDetail はProblemDetailに変換する。
func (e *ProblemError) ToProblemDetail() *httputil.ProblemDetail {
	pd := httputil.NewProblemDetail(e.Status, e.Title, e.Detail)
	for k, v := range e.extensions {
		pd.With(k, v)
	}
	return pd
}

// LogLevel はログレベルを返す。
func (e *ProblemError) LogLevel() slog.Level {
	switch {
	case e.Status >= 500:
		return slog.LevelError
	case e.Status == http.StatusNotFound:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// 定義済みエラー
var (
	ErrServiceNotFound = &ProblemError{
		Status:  http.StatusNotFound,
		Title:   "Not Found",
		Detail:  "Service does not exist",
		Message: "service not found",
		EventID: "BILLING_NOT_FOUND",
	}

	ErrPlanNotFound = &ProblemError{
		Status:  http.StatusNotFound,
		Title:   "Not Found",
		Detail:  "Plan does not exist",
		Message: "plan not found",
		EventID: "BILLING_NOT_FOUND",
	}

	ErrPaymentNotFound = &ProblemError{
		Status:  http.StatusNotFound,
		Title:   "Not Found",
		Detail:  "Payment does not exist",
		Message: "payment not found",
		EventID: "BILLING_NOT_FOUND",
	}

	ErrPaymentMismatch = &ProblemError{
		Status:  http.StatusConflict,
		Title:   "Conflict",
		Detail:  "Payment belongs to another customer",
		Message: "payment mismatch",
		EventID: "BILLING_PAYMENT_MISMATCH",
	}

	ErrConcurrentUpdate = &ProblemError{
		Status:  http.StatusConflict,
		Title:   "Conflict",
		Detail:  "Service was updated concurrently, retry the request",
		Message: "concurrent update",
		EventID: "BILLING_CONFLICT",
	}

	ErrServiceDeleted = &ProblemError{
		Status:  http.StatusGone,
		Title:   "Gone",
		Detail:  "Service has been deleted",
		Message: "service deleted",
		EventID: "BILLING_SERVICE_DELETED",
	}

	ErrInvalidPlan = &ProblemError{
		Status:  http.StatusBadRequest,
		Title:   "Bad Request",
		Detail:  "Plan price and cycle days must be positive",
		Message: "invalid plan",
		EventID: "BILLING_INVALID_PLAN",
	}

	ErrInvalidUsage = &ProblemError{
		Status:  http.StatusBadRequest,
		Title:   "Bad Request",
		Detail:  "Usage values must not be negative",
		Message: "invalid usage",
		EventID: "FUP_INVALID_USAGE",
	}

	ErrNoService = &ProblemError{
		Status:  http.StatusBadRequest,
		Title:   "Bad Request",
		Detail:  "A service id is required",
		Message: "no service bound",
		EventID: "FUP_INVALID_USAGE",
	}

	ErrNotifyConfig = &ProblemError{
		Status:  http.StatusBadRequest,
		Title:   "Bad Request",
		Detail:  "Notification configuration is invalid",
		Message: "notify config invalid",
		EventID: "NOTIFY_CONFIG_ERR",
	}

	ErrInternal = &ProblemError{
		Status:  http.StatusInternalServerError,
		Title:   "Internal Server Error",
		Detail:  "An unexpected error occurred",
		Message: "internal error",
		EventID: "SYS_ERR",
	}

	ErrBackendUnavailable = &ProblemError{
		Status:  http.StatusServiceUnavailable,
		Title:   "Service Unavailable",
		Detail:  "Storage backend unavailable",
		Message: "backend unavailable",
		EventID: "DB_CONN_ERR",
	}
)

// FromError はエンジンのエラーをProblemErrorへ変換する。
// 対応表にないエラーは500として扱う。
func FromError(err error) *ProblemError {
	var pe *ProblemError
	if errors.As(err, &pe) {
		return pe
	}

	if apperr.Unavailable(err) {
		return ErrBackendUnavailable
	}

	var insufficient *billing.InsufficientPaymentError
	if errors.As(err, &insufficient) {
		return &ProblemError{
			Status: http.StatusPaymentRequired,
			Title:  "Payment Required",
			Detail: fmt.Sprintf("Payment of %s is below the minimum of %s",
				insufficient.Amount.StringFixed(2), insufficient.Required.StringFixed(2)),
			Message: "insufficient payment",
			EventID: "BILLING_INSUFFICIENT",
			extensions: map[string]any{
				"amount":   insufficient.Amount.StringFixed(2),
				"required": insufficient.Required.StringFixed(2),
			},
		}
	}

	table := []struct {
		target error
		pe     *ProblemError
	}{
		{billing.ErrServiceNotFound, ErrServiceNotFound},
		{billing.ErrPlanNotFound, ErrPlanNotFound},
		{billing.ErrPaymentNotFound, ErrPaymentNotFound},
		{billing.ErrPaymentMismatch, ErrPaymentMismatch},
		{billing.ErrConcurrentUpdate, ErrConcurrentUpdate},
		{billing.ErrServiceDeleted, ErrServiceDeleted},
		{billing.ErrInvalidPlan, ErrInvalidPlan},
		{fairuse.ErrInvalidUsage, ErrInvalidUsage},
		{fairuse.ErrNoService, ErrNoService},
		{store.ErrNotFound, ErrServiceNotFound},
	}
	for _, row := range table {
		if errors.Is(err, row.target) {
			return row.pe
		}
	}
	return ErrInternal
}

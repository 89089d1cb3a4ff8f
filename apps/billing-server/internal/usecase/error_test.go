package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/billing"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/fairuse"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
)

func TestProblemError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := ErrServiceNotFound
		if got := err.Error(); got != err.Detail {
			t.Errorf("Error() = %q, want %q", got, err.Detail)
		}
	})

	t.Run("ToProblemDetail", func(t *testing.T) {
		err := ErrPaymentMismatch
		pd := err.ToProblemDetail()

		if pd.Status != err.Status {
			t.Errorf("Status = %d, want %d", pd.Status, err.Status)
		}
		if pd.Title != err.Title {
			t.Errorf("Title = %q, want %q", pd.Title, err.Title)
		}
		if pd.Detail != err.Detail {
			t.Errorf("Detail = %q, want %q", pd.Detail, err.Detail)
		}
	})
}

func TestProblemErrorLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		err   *ProblemError
		level slog.Level
	}{
		{"500 error", ErrInternal, slog.LevelError},
		{"503 error", ErrBackendUnavailable, slog.LevelError},
		{"404 error", ErrServiceNotFound, slog.LevelInfo},
		{"409 error", ErrPaymentMismatch, slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.LogLevel(); got != tt.level {
				t.Errorf("LogLevel() = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"service not found", fmt.Errorf("activate: %w", billing.ErrServiceNotFound), http.StatusNotFound},
		{"plan not found", billing.ErrPlanNotFound, http.StatusNotFound},
		{"payment not found", billing.ErrPaymentNotFound, http.StatusNotFound},
		{"store not found", store.ErrNotFound, http.StatusNotFound},
		{"payment mismatch", billing.ErrPaymentMismatch, http.StatusConflict},
		{"concurrent update", billing.ErrConcurrentUpdate, http.StatusConflict},
		{"deleted", billing.ErrServiceDeleted, http.StatusGone},
		{"invalid plan", billing.ErrInvalidPlan, http.StatusBadRequest},
		{"invalid usage", fmt.Errorf("%w: upload_mb=-1", fairuse.ErrInvalidUsage), http.StatusBadRequest},
		{"no service", fairuse.ErrNoService, http.StatusBadRequest},
		{"database", apperr.NewDatabaseError("select", "customer_services", errors.New("conn reset")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"problem passthrough", ErrNotifyConfig, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err).Status; got != tt.want {
				t.Errorf("FromError(%v).Status = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFromErrorInsufficientPayment(t *testing.T) {
	err := fmt.Errorf("activate: %w", &billing.InsufficientPaymentError{
		Amount:   decimal.RequireFromString("10"),
		Required: decimal.RequireFromString("33.34"),
	})

	pe := FromError(err)
	if pe.Status != http.StatusPaymentRequired {
		t.Fatalf("Status = %d, want %d", pe.Status, http.StatusPaymentRequired)
	}
	if pe.Detail != "Payment of 10.00 is below the minimum of 33.34" {
		t.Errorf("Detail = %q", pe.Detail)
	}
	pd := pe.ToProblemDetail()
	if pd.Extensions["required"] != "33.34" {
		t.Errorf("required = %v, want %q", pd.Extensions["required"], "33.34")
	}
}

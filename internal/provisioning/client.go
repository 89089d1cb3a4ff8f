package provisioning

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// ClientConfig はプロビジョニングAPIクライアントの設定。
type ClientConfig struct {
	BaseURL            string
	APIKey             string
	RequestTimeout     time.Duration
	CBMaxRequests      uint32
	CBInterval         time.Duration
	CBTimeout          time.Duration
	CBFailureThreshold uint32
}

// DefaultClientConfig は既定値を設定したClientConfigを返す。
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:            baseURL,
		RequestTimeout:     DefaultRequestTimeout,
		CBMaxRequests:      DefaultCBMaxRequests,
		CBInterval:         DefaultCBInterval,
		CBTimeout:          DefaultCBTimeout,
		CBFailureThreshold: DefaultCBFailureThreshold,
	}
}

// Client はHTTP経由のGateway実装。
type Client struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
	baseURL    string
	metrics    *metrics.Metrics
}

// NewClient は新しいClientを生成する。mは省略可能。
func NewClient(cfg ClientConfig, m *metrics.Metrics) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetHeader(HeaderContentType, ContentTypeJSON)
	if cfg.APIKey != "" {
		httpClient.SetHeader(HeaderAPIKey, cfg.APIKey)
	}

	threshold := cfg.CBFailureThreshold
	cbSettings := gobreaker.Settings{
		Name:        DefaultCBName,
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	}

	return &Client{
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		metrics:    m,
	}
}

// RegisterNAS はNASクライアントを登録する。
func (c *Client) RegisterNAS(ctx context.Context, nas *model.NASClient) error {
	return c.post(ctx, OpRegisterNAS, PathRegisterNAS, &RegisterNASRequest{
		Address: nas.Address,
		Name:    nas.Name,
		Vendor:  nas.Vendor,
	})
}

// PushRateLimit は接続中セッションへ速度制限を反映する。
func (c *Client) PushRateLimit(ctx context.Context, req *RateLimitRequest) error {
	return c.post(ctx, OpRateLimit, PathRateLimit, req)
}

// Disconnect は接続中セッションを切断する。
func (c *Client) Disconnect(ctx context.Context, req *DisconnectRequest) error {
	return c.post(ctx, OpDisconnect, PathDisconnect, req)
}

// post はCircuit Breaker経由でJSONをPOSTする。
// 5xxと接続エラーのみをCircuit Breakerの失敗として数える。
func (c *Client) post(ctx context.Context, op, path string, body any) error {
	traceID := logging.TraceIDFromContext(ctx)
	start := time.Now()

	result, err := c.cb.Execute(func() (any, error) {
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetHeader(HeaderTraceID, traceID).
			SetBody(body).
			Post(c.baseURL + path)
		if err != nil {
			return nil, apperr.NewBackendError(BackendID, 0, err)
		}

		status := resp.StatusCode()
		if status >= 500 {
			return nil, apperr.NewBackendError(BackendID, status, errors.New(resp.String()))
		}
		if status >= 300 {
			return apperr.NewBackendError(BackendID, status, errors.New(resp.String())), nil
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = ErrCircuitOpen
	}
	if err == nil {
		if be, ok := result.(*apperr.OpError); ok {
			err = be
		}
	}

	c.metrics.ObserveProvisioning(op, err)
	if err != nil {
		slog.Error("provisioning request failed",
			"event_id", "PROV_API_ERR",
			logging.FieldTraceID, traceID,
			"operation", op,
			logging.FieldError, err,
			logging.FieldLatencyMs, time.Since(start).Milliseconds(),
		)
		return err
	}
	slog.Debug("provisioning request succeeded",
		logging.FieldTraceID, traceID,
		"operation", op,
		logging.FieldLatencyMs, time.Since(start).Milliseconds(),
	)
	return nil
}

// Package notify は顧客への通知送信と送信予定の管理を提供する。
package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

const (
	// BackendID は連携失敗時のapperr.OpErrorに設定する連携先識別子。
	BackendID = "notify"
	// PathNotify は通知APIのパス。
	PathNotify = "/api/v1/notify"
	// DefaultChannel は既定の通知チャネル。
	DefaultChannel = "sms"
	// DefaultTimeout は既定のリクエストタイムアウト。
	DefaultTimeout = 5 * time.Second
)

// ErrDisabled は通知先が未設定の場合のエラー
var ErrDisabled = errors.New("notifier disabled")

// Config は通知送信の設定。
type Config struct {
	BaseURL string        `json:"base_url"`
	APIKey  string        `json:"-"`
	Channel string        `json:"channel"`
	Timeout time.Duration `json:"timeout"`
}

// Enabled は送信先が設定されているかを返す。
func (c Config) Enabled() bool {
	return c.BaseURL != ""
}

func (c Config) withDefaults() Config {
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

// Message は通知APIへの送信内容。
type Message struct {
	CustomerID int64  `json:"customer_id"`
	Channel    string `json:"channel"`
	Message    string `json:"message"`
}

// Sender は通知送信を定義する。
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// state は設定とそれに対応するHTTPクライアントの組。
type state struct {
	cfg    Config
	client *resty.Client
}

// Notifier はHTTP経由で通知を送信する。
// 設定はReloadで明示的に差し替える。
type Notifier struct {
	current atomic.Pointer[state]
	metrics *metrics.Metrics
}

// NewNotifier は新しいNotifierを生成する。mは省略可能。
func NewNotifier(cfg Config, m *metrics.Metrics) *Notifier {
	n := &Notifier{metrics: m}
	n.Reload(cfg)
	return n
}

// Reload は設定を差し替える。送信中の要求は旧設定のまま完了する。
func (n *Notifier) Reload(cfg Config) {
	cfg = cfg.withDefaults()
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}
	n.current.Store(&state{cfg: cfg, client: client})

	slog.Info("notifier configuration loaded",
		"event_id", "NOTIFY_CONFIG_LOADED",
		"enabled", cfg.Enabled(),
		"channel", cfg.Channel,
	)
}

// Config は現在の設定を返す。
func (n *Notifier) Config() Config {
	return n.current.Load().cfg
}

// Send は通知を送信する。チャネル未指定の場合は設定値を使用する。
func (n *Notifier) Send(ctx context.Context, m *Message) error {
	st := n.current.Load()
	if !st.cfg.Enabled() {
		return ErrDisabled
	}
	body := *m
	if body.Channel == "" {
		body.Channel = st.cfg.Channel
	}

	resp, err := st.client.R().
		SetContext(ctx).
		SetHeader("X-Trace-ID", logging.TraceIDFromContext(ctx)).
		SetBody(&body).
		Post(st.cfg.BaseURL + PathNotify)
	switch {
	case err != nil:
		err = apperr.NewBackendError(BackendID, 0, err)
	case resp.IsError():
		err = apperr.NewBackendError(BackendID, resp.StatusCode(), errors.New(resp.String()))
	}
	n.metrics.ObserveNotification(err)
	return err
}

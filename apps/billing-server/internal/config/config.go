// Package config はbilling-serverの設定を提供する。
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/valkey"
	"github.com/robfig/cron/v3"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/notify"
)

// Config はアプリケーション設定を保持する
type Config struct {
	// PostgreSQL接続設定
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Valkey接続設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPass string `envconfig:"REDIS_PASS"`

	// HTTPサーバー設定
	ListenAddr     string `envconfig:"LISTEN_ADDR" default:":8081"`
	AdminJWTSecret string `envconfig:"ADMIN_JWT_SECRET"`

	// 定期処理（cron式または@every記法）
	ExpirySchedule string `envconfig:"EXPIRY_SCHEDULE" default:"@every 1m"`
	NotifySchedule string `envconfig:"NOTIFY_SCHEDULE" default:"@every 30s"`

	// フェアユース設定
	FairUseTimezone string `envconfig:"FAIRUSE_TIMEZONE" default:"UTC"`

	// プロビジョニング連携（URL未指定の場合は無効）
	ProvisioningURL    string `envconfig:"PROVISIONING_URL"`
	ProvisioningAPIKey string `envconfig:"PROVISIONING_API_KEY"`

	// ログ設定
	LogLevel        string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskUsername bool   `envconfig:"LOG_MASK_USERNAME" default:"true"`

	Notify NotifyConfig

	location *time.Location
}

// NotifyConfig は通知送信の設定（NOTIFY_*）。実行中にReloadNotifyで再読み込みできる。
type NotifyConfig struct {
	URL     string        `envconfig:"URL"`
	APIKey  string        `envconfig:"API_KEY"`
	Channel string        `envconfig:"CHANNEL" default:"sms"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

// Load は.envファイルと環境変数から設定を読み込む
// 環境変数が.envより優先される
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ReloadNotify は通知設定のみを読み直す。.envファイルの値は既存の環境変数を上書きする
func ReloadNotify() (notify.Config, error) {
	_ = godotenv.Overload()

	var nc NotifyConfig
	if err := envconfig.Process("NOTIFY", &nc); err != nil {
		return notify.Config{}, fmt.Errorf("failed to load notify config: %w", err)
	}
	if err := nc.validate(); err != nil {
		return notify.Config{}, err
	}
	return nc.NotifierConfig(), nil
}

// NotifierConfig はnotify.Configへ変換する
func (n NotifyConfig) NotifierConfig() notify.Config {
	return notify.Config{
		BaseURL: n.URL,
		APIKey:  n.APIKey,
		Channel: n.Channel,
		Timeout: n.Timeout,
	}
}

// Valkey はValkeyの接続設定を返す
func (c *Config) Valkey() valkey.Settings {
	return valkey.Settings{
		Addr:           net.JoinHostPort(c.RedisHost, c.RedisPort),
		Password:       c.RedisPass,
		CommandTimeout: valkeyCommandTimeout,
	}
}

// Location はフリータイム判定に使うタイムゾーンを返す
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// validate は設定値のバリデーションを行う
func (c *Config) validate() error {
	if !isHTTPURL(c.ProvisioningURL) {
		return errors.New("PROVISIONING_URL must start with http:// or https://")
	}
	if _, err := cron.ParseStandard(c.ExpirySchedule); err != nil {
		return fmt.Errorf("EXPIRY_SCHEDULE: %w", err)
	}
	if _, err := cron.ParseStandard(c.NotifySchedule); err != nil {
		return fmt.Errorf("NOTIFY_SCHEDULE: %w", err)
	}
	if err := c.Notify.validate(); err != nil {
		return err
	}
	loc, err := time.LoadLocation(c.FairUseTimezone)
	if err != nil {
		return fmt.Errorf("FAIRUSE_TIMEZONE: %w", err)
	}
	c.location = loc
	return nil
}

func (n NotifyConfig) validate() error {
	if !isHTTPURL(n.URL) {
		return errors.New("NOTIFY_URL must start with http:// or https://")
	}
	if n.Timeout <= 0 {
		return errors.New("NOTIFY_TIMEOUT must be positive")
	}
	return nil
}

// isHTTPURL は空またはhttp(s)スキームのURLかを返す
func isHTTPURL(s string) bool {
	return s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

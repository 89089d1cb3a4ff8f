// Package config はaaa-serverの設定を提供する。
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
)

// Config はアプリケーション設定を保持する
type Config struct {
	// PostgreSQL接続設定
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Valkey接続設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPass string `envconfig:"REDIS_PASS"`

	// HTTPブリッジ設定
	ListenAddr      string `envconfig:"LISTEN_ADDR" default:":8080"`
	BridgeJWTSecret string `envconfig:"BRIDGE_JWT_SECRET"`

	// RADIUS設定（アドレス未指定の場合は起動しない）
	RadiusAuthAddr string `envconfig:"RADIUS_AUTH_ADDR"`
	RadiusAcctAddr string `envconfig:"RADIUS_ACCT_ADDR"`
	RadiusSecret   string `envconfig:"RADIUS_SECRET"`

	// AAA設定
	NASCacheSize    int           `envconfig:"NAS_CACHE_SIZE" default:"1024"`
	NASCacheTTL     time.Duration `envconfig:"NAS_CACHE_TTL" default:"30s"`
	InterimInterval int           `envconfig:"ACCT_INTERIM_INTERVAL" default:"300"`

	// フェアユース設定
	FairUseTimezone string `envconfig:"FAIRUSE_TIMEZONE" default:"UTC"`

	// プロビジョニング連携（URL未指定の場合は無効）
	ProvisioningURL    string `envconfig:"PROVISIONING_URL"`
	ProvisioningAPIKey string `envconfig:"PROVISIONING_API_KEY"`

	// ログ設定
	LogLevel        string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskUsername bool   `envconfig:"LOG_MASK_USERNAME" default:"true"`

	location *time.Location
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
	if c.ProvisioningURL != "" &&
		!strings.HasPrefix(c.ProvisioningURL, "http://") && !strings.HasPrefix(c.ProvisioningURL, "https://") {
		return errors.New("PROVISIONING_URL must start with http:// or https://")
	}
	if c.NASCacheSize <= 0 {
		return errors.New("NAS_CACHE_SIZE must be positive")
	}
	if c.InterimInterval <= 0 {
		return errors.New("ACCT_INTERIM_INTERVAL must be positive")
	}
	loc, err := time.LoadLocation(c.FairUseTimezone)
	if err != nil {
		return fmt.Errorf("FAIRUSE_TIMEZONE: %w", err)
	}
	c.location = loc
	return nil
}

// Package valkey はセッション状態・重複検出・通知キューが共有するValkey接続を扱う。
package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 未指定項目の既定値
const (
	defaultDialTimeout    = 3 * time.Second
	defaultCommandTimeout = 2 * time.Second
	defaultPoolSize       = 10
)

// Settings は接続設定。ゼロ値の項目は既定値で補う。
type Settings struct {
	Addr           string
	Password       string
	DialTimeout    time.Duration
	CommandTimeout time.Duration
	PoolSize       int
	// MaxRetries はgo-redisと同じ解釈で、0は既定回数、-1はリトライなし。
	MaxRetries int
}

func (s Settings) options() *redis.Options {
	if s.DialTimeout <= 0 {
		s.DialTimeout = defaultDialTimeout
	}
	if s.CommandTimeout <= 0 {
		s.CommandTimeout = defaultCommandTimeout
	}
	if s.PoolSize <= 0 {
		s.PoolSize = defaultPoolSize
	}
	return &redis.Options{
		Addr:         s.Addr,
		Password:     s.Password,
		DialTimeout:  s.DialTimeout,
		ReadTimeout:  s.CommandTimeout,
		WriteTimeout: s.CommandTimeout,
		PoolSize:     s.PoolSize,
		MaxRetries:   s.MaxRetries,
	}
}

// Dial は接続を確立し、PINGが通ったクライアントを返す。
// ctxに期限がない場合はDialTimeoutを上限とする。
func Dial(ctx context.Context, s Settings) (*redis.Client, error) {
	opts := s.options()
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("valkey %s: %w", s.Addr, err)
	}
	return client, nil
}

// Missing はキー未存在を示すエラーかどうかを返す。
func Missing(err error) bool {
	return errors.Is(err, redis.Nil)
}

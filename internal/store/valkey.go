package store

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/valkey"
)

// ValkeyClient はセッション・重複検出・通知キューの各ストアが共有する接続。
type ValkeyClient struct {
	rdb *redis.Client
}

// NewValkeyClient は接続を確立する。疎通できない場合はエラーを返す。
func NewValkeyClient(ctx context.Context, s valkey.Settings) (*ValkeyClient, error) {
	rdb, err := valkey.Dial(ctx, s)
	if err != nil {
		return nil, err
	}
	return &ValkeyClient{rdb: rdb}, nil
}

func (v *ValkeyClient) Client() *redis.Client { return v.rdb }

func (v *ValkeyClient) Close() error { return v.rdb.Close() }

// Ping はヘルスチェック用。
func (v *ValkeyClient) Ping(ctx context.Context) error {
	return v.rdb.Ping(ctx).Err()
}

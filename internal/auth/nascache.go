package auth

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// NASキャッシュの既定値
const (
	DefaultNASCacheSize = 1024
	DefaultNASCacheTTL  = 30 * time.Second
)

// NASCache はNAS検索結果をTTL付きLRUで保持する。
// 未登録の結果もnilとして保持する。
type NASCache struct {
	nas   store.NASStore
	cache *expirable.LRU[string, *model.NASClient]
}

// NewNASCache は新しいNASCacheを生成する。
func NewNASCache(nas store.NASStore, size int, ttl time.Duration) *NASCache {
	if size <= 0 {
		size = DefaultNASCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultNASCacheTTL
	}
	return &NASCache{
		nas:   nas,
		cache: expirable.NewLRU[string, *model.NASClient](size, nil, ttl),
	}
}

// Lookup はアドレスに対応する有効なNASを返す。未登録の場合はnilを返す。
func (c *NASCache) Lookup(ctx context.Context, address string) (*model.NASClient, error) {
	if nas, ok := c.cache.Get(address); ok {
		return nas, nil
	}
	nas, err := c.nas.GetNASByAddress(ctx, address)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		nas = nil
	}
	c.cache.Add(address, nas)
	return nas, nil
}

// Invalidate はアドレスのキャッシュを破棄する。
func (c *NASCache) Invalidate(address string) {
	c.cache.Remove(address)
}

// Purge は全キャッシュを破棄する。
func (c *NASCache) Purge() {
	c.cache.Purge()
}

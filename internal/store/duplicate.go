package store

import (
	"context"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/valkey"
)

// acctMarks はacct:seen:<Acct-Session-ID> にセッションの到達段階を記録する。
type acctMarks struct {
	vc  *ValkeyClient
	ttl time.Duration
}

// NewDuplicateStore はAccountingの到達記録ストアを返す。記録はttlで失効する。
func NewDuplicateStore(vc *ValkeyClient, ttl time.Duration) DuplicateStore {
	return &acctMarks{vc: vc, ttl: ttl}
}

// Get は記録値を返す。記録がなければ空文字列。
func (m *acctMarks) Get(ctx context.Context, acctSessionID string) (string, error) {
	key := KeyPrefixAcctSeen + acctSessionID
	mark, err := m.vc.Client().Get(ctx, key).Result()
	switch {
	case valkey.Missing(err):
		return "", nil
	case err != nil:
		return "", apperr.NewValkeyError("GET", key, err)
	}
	return mark, nil
}

func (m *acctMarks) Set(ctx context.Context, acctSessionID, mark string) error {
	key := KeyPrefixAcctSeen + acctSessionID
	if err := m.vc.Client().Set(ctx, key, mark, m.ttl).Err(); err != nil {
		return apperr.NewValkeyError("SET", key, err)
	}
	return nil
}

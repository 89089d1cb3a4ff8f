package handler

//go:generate mockgen -source=interfaces.go -destination=../mocks/handler_mock.go -package=mocks

import (
	"context"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/acct"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/auth"
)

// Authorizer はアクセス要求の認可を定義する
type Authorizer interface {
	Authenticate(ctx context.Context, req *auth.Request) (*auth.Decision, error)
}

// AccountingProcessor は課金イベントの処理を定義する
type AccountingProcessor interface {
	Process(ctx context.Context, ev *acct.Event) error
}

// HealthCheck は依存先の疎通を確認する
type HealthCheck func(ctx context.Context) error

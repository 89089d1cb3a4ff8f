// Package auth は加入者のアクセス要求を認可し、応答属性を組み立てる。
package auth

//go:generate mockgen -source=authenticator.go -destination=../mocks/auth_mock.go -package=mocks

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/fairuse"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/provisioning"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// ServiceAccessChecker はユーザーのサービス利用可否を判定する。
type ServiceAccessChecker interface {
	CheckServiceAccess(ctx context.Context, username string) (bool, error)
}

// SessionCounter はユーザーのアクティブセッション数を返す。
type SessionCounter interface {
	CountActiveByUsername(ctx context.Context, username string) (int, error)
}

// PlanLookup はサービスとプランを取得する。
type PlanLookup interface {
	GetService(ctx context.Context, id int64) (*model.CustomerService, error)
	GetPlan(ctx context.Context, id int64) (*model.Plan, error)
}

// ThrottleSource はフェアユースの速度制限状態を返す。
type ThrottleSource interface {
	Throttle(ctx context.Context, customerID, serviceID int64) (*fairuse.ThrottleState, error)
}

// Authenticator はアクセス要求の認可を行う。
type Authenticator struct {
	nas         *NASCache
	credentials store.CredentialStore
	access      ServiceAccessChecker
	sessions    SessionCounter
	plans       PlanLookup
	throttle    ThrottleSource

	fields          *logging.CommonFields
	metrics         *metrics.Metrics
	interimInterval int
	now             func() time.Time
}

// Option はAuthenticatorの設定を変更する。
type Option func(*Authenticator)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithMetrics はメトリクスを設定する。
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Authenticator) { a.metrics = m }
}

// WithLogFields はユーザー名マスキング設定を含むログフィールド生成器を設定する。
func WithLogFields(cf *logging.CommonFields) Option {
	return func(a *Authenticator) { a.fields = cf }
}

// WithInterimInterval はAcct-Interim-Interval（秒）を設定する。
func WithInterimInterval(sec int) Option {
	return func(a *Authenticator) {
		if sec > 0 {
			a.interimInterval = sec
		}
	}
}

// Deps はAuthenticatorの依存。Throttleは省略可能。
type Deps struct {
	NAS         *NASCache
	Credentials store.CredentialStore
	Access      ServiceAccessChecker
	Sessions    SessionCounter
	Plans       PlanLookup
	Throttle    ThrottleSource
}

// NewAuthenticator は新しいAuthenticatorを生成する。
func NewAuthenticator(d Deps, opts ...Option) *Authenticator {
	a := &Authenticator{
		nas:             d.NAS,
		credentials:     d.Credentials,
		access:          d.Access,
		sessions:        d.Sessions,
		plans:           d.Plans,
		throttle:        d.Throttle,
		fields:          logging.NewCommonFields(nil),
		interimInterval: DefaultInterimInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate はアクセス要求を認可する。
//
// 判定は順に行い、最初に該当した拒否理由で終了する。
// 拒否はDecisionで返し、ストア障害のみerrorを返す。
func (a *Authenticator) Authenticate(ctx context.Context, req *Request) (*Decision, error) {
	start := a.now()
	d, err := a.decide(ctx, req)
	elapsed := a.now().Sub(start)

	if err != nil {
		a.metrics.ObserveAuth("error", "", elapsed)
		slog.Error("authorization failed",
			append(a.fields.AAALogFields(req.TraceID, "AUTH_ERR", req.Username, req.NASAddress),
				logging.FieldError, err)...,
		)
		return nil, err
	}

	if d.Accepted() {
		a.metrics.ObserveAuth("accept", "", elapsed)
		slog.Info("access accepted",
			append(a.fields.AAALogFields(req.TraceID, "AUTH_ACCEPT", req.Username, req.NASAddress),
				"rate_limit", d.Attributes.RateLimit,
				logging.FieldLatencyMs, elapsed.Milliseconds())...,
		)
		return d, nil
	}

	a.metrics.ObserveAuth("reject", d.Reason, elapsed)
	slog.Info("access rejected",
		append(a.fields.AAALogFields(req.TraceID, "AUTH_REJECT", req.Username, req.NASAddress),
			"reason", d.Reason,
			logging.FieldLatencyMs, elapsed.Milliseconds())...,
	)
	return d, nil
}

func (a *Authenticator) decide(ctx context.Context, req *Request) (*Decision, error) {
	// NAS
	nas, err := a.nas.Lookup(ctx, req.NASAddress)
	if err != nil {
		return nil, fmt.Errorf("lookup nas: %w", err)
	}
	if nas == nil || subtle.ConstantTimeCompare([]byte(nas.Secret), []byte(req.NASSecret)) != 1 {
		return reject(ReasonNASNotAuthorized), nil
	}

	// 認証情報
	cred, err := a.credentials.GetCredential(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return reject(ReasonUserNotFound), nil
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	if !VerifyPassword(cred.PasswordHash, req.Password) {
		slog.Warn("invalid credentials",
			append(a.fields.AAALogFields(req.TraceID, "AUTH_INVALID_CREDENTIALS", req.Username, req.NASAddress),
				"calling_station_id", req.CallingStationID)...,
		)
		return reject(ReasonInvalidCredentials), nil
	}

	if cred.Status != model.CredentialActive {
		return reject(string(cred.Status)), nil
	}

	now := a.now()
	if cred.IsExpiredAt(now) {
		if err := a.credentials.SetCredentialStatus(ctx, cred.ID, model.CredentialExpired); err != nil {
			slog.Error("credential status update failed",
				append(a.fields.AAALogFields(req.TraceID, "DB_WRITE_ERR", req.Username, req.NASAddress),
					logging.FieldError, err)...,
			)
		}
		return reject(ReasonServiceExpired), nil
	}

	if cred.ServiceID != nil {
		ok, err := a.access.CheckServiceAccess(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check service access: %w", err)
		}
		if !ok {
			return reject(ReasonServiceNotActive), nil
		}
	}

	// 同時接続数の確認と判定は不可分ではない
	if cred.SimultaneousUse > 0 {
		n, err := a.sessions.CountActiveByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("count sessions: %w", err)
		}
		if n >= cred.SimultaneousUse {
			return reject(ReasonAlreadyLoggedIn), nil
		}
	}

	attrs, err := a.buildAttributes(ctx, req, nas, cred)
	if err != nil {
		return nil, err
	}
	return &Decision{
		Result:     ResultAccept,
		Attributes: attrs,
		NAS:        nas,
		Credential: cred,
	}, nil
}

func (a *Authenticator) buildAttributes(ctx context.Context, req *Request, nas *model.NASClient, cred *model.Credential) (*Attributes, error) {
	attrs := &Attributes{
		ServiceType:         req.ServiceType,
		SessionTimeout:      max(cred.SessionTimeout, 0),
		IdleTimeout:         max(cred.IdleTimeout, 0),
		AcctInterimInterval: a.interimInterval,
	}
	if attrs.ServiceType == "" {
		attrs.ServiceType = "Framed-User"
	}

	if cred.IPAddress != "" {
		attrs.FramedIPAddress = cred.IPAddress
	} else if cred.IPPool != "" {
		attrs.FramedPool = cred.IPPool
	}

	up, down, err := a.baseRate(ctx, cred)
	if err != nil {
		return nil, err
	}

	if cred.ServiceID != nil && a.throttle != nil {
		st, err := a.throttle.Throttle(ctx, cred.CustomerID, *cred.ServiceID)
		if err != nil {
			// フェアユース障害時は制限なしで許可する
			slog.Warn("fair use lookup failed",
				append(a.fields.AAALogFields(req.TraceID, "FUP_LOOKUP_ERR", req.Username, req.NASAddress),
					logging.FieldError, err)...,
			)
		} else {
			up, down = st.RateLimit(up, down)
		}
	}

	if up > 0 && down > 0 {
		attrs.UploadMbps, attrs.DownloadMbps = up, down
		attrs.RateLimit = provisioning.RateLimitString(up, down)
		attrs.Vendor = provisioning.ProfileFor(nas.Vendor).RateLimitAttributes(up, down)
	}
	return attrs, nil
}

// baseRate は個別指定またはプランの速度を返す。いずれも無い場合は0を返す。
func (a *Authenticator) baseRate(ctx context.Context, cred *model.Credential) (up, down int, err error) {
	if cred.HasRateOverride() {
		return cred.UploadLimitMbps, cred.DownloadLimitMbps, nil
	}
	if cred.ServiceID == nil || a.plans == nil {
		return 0, 0, nil
	}

	svc, err := a.plans.GetService(ctx, *cred.ServiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("lookup service: %w", err)
	}
	plan, err := a.plans.GetPlan(ctx, svc.PlanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("lookup plan: %w", err)
	}
	return plan.UploadMbps, plan.DownloadMbps, nil
}

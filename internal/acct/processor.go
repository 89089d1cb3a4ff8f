// Package acct は課金イベントを処理し、アクティブ・アーカイブセッションと使用量を更新する。
package acct

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// NASLookup はアドレスに対応する有効なNASを返す。未登録の場合はnilを返す。
type NASLookup interface {
	Lookup(ctx context.Context, address string) (*model.NASClient, error)
}

// UsageRecorder はセッションの使用量増分を計上する。
type UsageRecorder interface {
	RecordSessionUsage(ctx context.Context, customerID, serviceID, inputOctets, outputOctets int64, at time.Time) error
}

// Processor は課金処理のメインロジック。
type Processor struct {
	nas         NASLookup
	credentials store.CredentialStore
	sessions    store.SessionStore
	tracker     SessionTracker
	usage       UsageRecorder

	fields  *logging.CommonFields
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option はProcessorの設定を変更する。
type Option func(*Processor)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithMetrics はメトリクスを設定する。
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// WithLogFields はユーザー名マスキング設定を含むログフィールド生成器を設定する。
func WithLogFields(cf *logging.CommonFields) Option {
	return func(p *Processor) { p.fields = cf }
}

// NewProcessor は新しいProcessorを生成する。usageは省略可能。
func NewProcessor(
	nas NASLookup,
	cs store.CredentialStore,
	ss store.SessionStore,
	tracker SessionTracker,
	usage UsageRecorder,
	opts ...Option,
) *Processor {
	p := &Processor{
		nas:         nas,
		credentials: cs,
		sessions:    ss,
		tracker:     tracker,
		usage:       usage,
		fields:      logging.NewCommonFields(nil),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process は課金イベントを処理する。
//
// NASの検証は状態変更より前に行い、失敗時はErrUnknownNASを返す。
// 監査ログは種別に関わらず記録する。
func (p *Processor) Process(ctx context.Context, ev *Event) error {
	switch ev.StatusType {
	case StatusStart, StatusInterimUpdate, StatusStop:
		if ev.SessionID == "" {
			return ErrMissingSessionID
		}
	case StatusAccountingOn, StatusAccountingOff:
	default:
		p.metrics.ObserveAcct(string(ev.StatusType), "invalid")
		return fmt.Errorf("%w: %q", ErrUnknownStatusType, ev.StatusType)
	}

	nas, err := p.verifyNAS(ctx, ev)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrUnknownNAS) {
			outcome = "unknown_nas"
			slog.Warn("accounting from unknown NAS",
				p.fields.AAALogFields(ev.TraceID, "ACCT_UNKNOWN_NAS", ev.Username, ev.NASAddress)...,
			)
		}
		p.metrics.ObserveAcct(string(ev.StatusType), outcome)
		return err
	}

	now := p.now()
	if err := p.sessions.InsertAccountingRecord(ctx, ev.record(now)); err != nil {
		p.logDBError(ev, err)
		p.metrics.ObserveAcct(string(ev.StatusType), "error")
		return err
	}

	var outcome string
	switch ev.StatusType {
	case StatusStart:
		outcome, err = p.processStart(ctx, ev, now)
	case StatusInterimUpdate:
		outcome, err = p.processInterim(ctx, ev, now)
	case StatusStop:
		outcome, err = p.processStop(ctx, ev, now)
	default:
		outcome, err = p.processNASReboot(ctx, ev, nas, now)
	}
	if err != nil {
		p.logDBError(ev, err)
		outcome = "error"
	}
	p.metrics.ObserveAcct(string(ev.StatusType), outcome)
	return err
}

func (p *Processor) verifyNAS(ctx context.Context, ev *Event) (*model.NASClient, error) {
	nas, err := p.nas.Lookup(ctx, ev.NASAddress)
	if err != nil {
		return nil, fmt.Errorf("lookup nas: %w", err)
	}
	if nas == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNAS, ev.NASAddress)
	}
	if !ev.SecretVerified && subtle.ConstantTimeCompare([]byte(nas.Secret), []byte(ev.NASSecret)) != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNAS, ev.NASAddress)
	}
	return nas, nil
}

// recordUsage は使用量増分をフェアユースに計上する。失敗はログのみ。
func (p *Processor) recordUsage(ctx context.Context, ev *Event, sess *model.ActiveSession, cur, prev model.Counters, at time.Time) {
	if p.usage == nil || sess.ServiceID == nil {
		return
	}
	in, out := usageDelta(cur, prev)
	if in == 0 && out == 0 {
		return
	}
	if err := p.usage.RecordSessionUsage(ctx, sess.CustomerID, *sess.ServiceID, in, out, at); err != nil {
		slog.Error("fair use update failed",
			append(p.fields.AAALogFields(ev.TraceID, "FUP_UPDATE_ERR", ev.Username, ev.NASAddress),
				logging.FieldSessionID, ev.SessionID,
				logging.FieldError, err)...,
		)
	}
}

func (p *Processor) logDBError(ev *Event, err error) {
	slog.Error("accounting write failed",
		append(p.fields.AAALogFields(ev.TraceID, "DB_WRITE_ERR", ev.Username, ev.NASAddress),
			"status_type", string(ev.StatusType),
			logging.FieldSessionID, ev.SessionID,
			logging.FieldError, err)...,
	)
}

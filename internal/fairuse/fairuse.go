// Package fairuse は加入者・サービス単位の月間使用量を集計し、
// ポリシーに基づく速度制限とバーストの状態を判定する。
package fairuse

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
)

// PeriodLayout は集計期間キーの書式（YYYY-MM、UTC）。
const PeriodLayout = "2006-01"

var (
	mbPerGB     = decimal.NewFromInt(1024)
	bytesPerMB  = decimal.NewFromInt(1024 * 1024)
	hundred     = decimal.NewFromInt(100)
	mbPrecision = int32(3)
)

// octetScale はオクテット数/2^20が必ず割り切れる小数桁数。
const octetScale = int32(20)

// Period は時刻が属する集計期間キーを返す。
func Period(t time.Time) string {
	return t.UTC().Format(PeriodLayout)
}

// OctetsToMB はオクテット数を丸めずにMBへ変換する。
// 丸めはGB表示時のみ行うため、小さな増分も累計から失われない。
func OctetsToMB(octets int64) decimal.Decimal {
	if octets <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(octets).DivRound(bytesPerMB, octetScale)
}

// Engine はフェアユースエンジン。
type Engine struct {
	store     store.FairUseStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	loc       *time.Location // 無料時間帯の判定に使うタイムゾーン
}

// Option はEngineの設定を変更する。
type Option func(*Engine)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithMetrics はメトリクスを設定する。
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLocation は無料時間帯の判定に使うタイムゾーンを設定する。
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine は新しいEngineを生成する。
func NewEngine(s store.FairUseStore, publisher events.Publisher, opts ...Option) *Engine {
	if publisher == nil {
		publisher = events.Nop{}
	}
	e := &Engine{
		store:     s,
		publisher: publisher,
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) key(customerID, serviceID int64, now time.Time) store.TrackingKey {
	return store.TrackingKey{CustomerID: customerID, ServiceID: serviceID, Period: Period(now)}
}

func mbToGB(mb decimal.Decimal) decimal.Decimal {
	return mb.Div(mbPerGB).Round(mbPrecision)
}

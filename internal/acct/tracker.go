package acct

import (
	"context"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
)

// acct:seen に記録するセッションの到達段階
const (
	markStart = "start"
	markStop  = "stop"
)

// StartVerdict はAcct-Startの到達順の判定結果。
type StartVerdict int

const (
	// StartFirst は初めて届いたStart。
	StartFirst StartVerdict = iota
	// StartRepeated は再送されたStart。
	StartRepeated
	// StartAfterStop はStop済みセッションに届いたStart。セッションを作り直してはならない。
	StartAfterStop
)

func (v StartVerdict) String() string {
	switch v {
	case StartFirst:
		return "first"
	case StartRepeated:
		return "repeated"
	case StartAfterStop:
		return "start_after_stop"
	}
	return "unknown"
}

// SessionTracker はAcct-Session-Idごとの到達段階を追跡する。
type SessionTracker interface {
	// ObserveStart はStartの到達を記録し、判定結果を返す。
	ObserveStart(ctx context.Context, acctSessionID string) (StartVerdict, error)
	// ObserveStop はStopの到達を記録する。以後のStartはStartAfterStopとなる。
	ObserveStop(ctx context.Context, acctSessionID string) error
}

type tracker struct {
	marks store.DuplicateStore
}

// NewSessionTracker はacct:seen記録を使うSessionTrackerを返す。
func NewSessionTracker(marks store.DuplicateStore) SessionTracker {
	return &tracker{marks: marks}
}

// ObserveStart は記録が無ければstartを書き込む。stop記録は上書きしないため、
// Stop後のStartが何度再送されても判定は変わらない。
func (t *tracker) ObserveStart(ctx context.Context, acctSessionID string) (StartVerdict, error) {
	mark, err := t.marks.Get(ctx, acctSessionID)
	if err != nil {
		return StartFirst, err
	}
	switch mark {
	case markStop:
		return StartAfterStop, nil
	case "":
		return StartFirst, t.marks.Set(ctx, acctSessionID, markStart)
	default:
		return StartRepeated, nil
	}
}

func (t *tracker) ObserveStop(ctx context.Context, acctSessionID string) error {
	return t.marks.Set(ctx, acctSessionID, markStop)
}

package acct

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// processStop はAcct-Stop処理を行う。
// 重複・順序異常のStopはセッションが無いため監査ログのみとなる。
func (p *Processor) processStop(ctx context.Context, ev *Event, now time.Time) (string, error) {
	// 1. Stop到達の記録
	if err := p.tracker.ObserveStop(ctx, ev.SessionID); err != nil {
		slog.Error("session tracking failed",
			"event_id", "VALKEY_CONN_ERR",
			logging.FieldTraceID, ev.TraceID,
			logging.FieldError, err,
		)
	}

	// 2. アーカイブ
	final := ev.Counters()
	upd, err := p.sessions.ArchiveSession(ctx, ev.SessionID, final, now, ev.TerminateCause)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("stop without active session",
				append(p.fields.AAALogFields(ev.TraceID, "ACCT_SESSION_NOT_FOUND", ev.Username, ev.NASAddress),
					logging.FieldSessionID, ev.SessionID)...,
			)
			return "unknown_session", nil
		}
		return "", err
	}

	// 3. 最終増分の計上
	p.recordUsage(ctx, ev, &upd.Session, final, upd.Previous, now)

	slog.Info("accounting stop",
		append(p.fields.AAALogFields(ev.TraceID, "ACCT_STOP", ev.Username, ev.NASAddress),
			logging.FieldSessionID, ev.SessionID,
			"input_octets", final.InputOctets,
			"output_octets", final.OutputOctets,
			"session_time", final.SessionTime,
			"terminate_cause", ev.TerminateCause)...,
	)
	return "ok", nil
}

package acct

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// processInterim はAcct-Interim-Update処理を行う。
// セッションが存在しない場合は監査ログのみとなる。
func (p *Processor) processInterim(ctx context.Context, ev *Event, now time.Time) (string, error) {
	cur := ev.Counters()
	upd, err := p.sessions.UpdateCounters(ctx, ev.SessionID, cur, ev.FramedIPAddress, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("interim without active session",
				append(p.fields.AAALogFields(ev.TraceID, "ACCT_SESSION_NOT_FOUND", ev.Username, ev.NASAddress),
					logging.FieldSessionID, ev.SessionID)...,
			)
			return "unknown_session", nil
		}
		return "", err
	}

	p.recordUsage(ctx, ev, &upd.Session, cur, upd.Previous, now)

	slog.Info("accounting interim",
		append(p.fields.AAALogFields(ev.TraceID, "ACCT_INTERIM", ev.Username, ev.NASAddress),
			logging.FieldSessionID, ev.SessionID,
			"input_octets", cur.InputOctets,
			"output_octets", cur.OutputOctets,
			"session_time", cur.SessionTime)...,
	)
	return "ok", nil
}

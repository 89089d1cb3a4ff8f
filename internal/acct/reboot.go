package acct

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// processNASReboot はAccounting-On/Off処理を行う。
// NASの全アクティブセッションを現在のカウンタでアーカイブする。
func (p *Processor) processNASReboot(ctx context.Context, ev *Event, nas *model.NASClient, now time.Time) (string, error) {
	sessions, err := p.sessions.ListByNAS(ctx, nas.Address)
	if err != nil {
		return "", err
	}

	var (
		archived int
		errs     []error
	)
	for i := range sessions {
		s := &sessions[i]
		if err := p.tracker.ObserveStop(ctx, s.SessionID); err != nil {
			slog.Error("session tracking failed",
				"event_id", "VALKEY_CONN_ERR",
				logging.FieldTraceID, ev.TraceID,
				logging.FieldError, err,
			)
		}
		if _, err := p.sessions.ArchiveSession(ctx, s.SessionID, s.Counters, now, TerminateCauseNASReboot); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		archived++
	}

	slog.Warn("NAS reboot cleared active sessions",
		"event_id", "ACCT_NAS_REBOOT",
		logging.FieldTraceID, ev.TraceID,
		logging.FieldNASAddress, nas.Address,
		"status_type", string(ev.StatusType),
		"archived", archived,
	)
	return "ok", errors.Join(errs...)
}

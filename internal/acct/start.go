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

// processStart はAcct-Start処理を行う。
func (p *Processor) processStart(ctx context.Context, ev *Event, now time.Time) (string, error) {
	// 1. 到達順の判定（Valkey障害時は初回として処理を続ける）
	verdict, err := p.tracker.ObserveStart(ctx, ev.SessionID)
	if err != nil {
		slog.Error("session tracking failed",
			"event_id", "VALKEY_CONN_ERR",
			logging.FieldTraceID, ev.TraceID,
			logging.FieldError, err,
		)
	}
	switch verdict {
	case StartAfterStop:
		slog.Warn("start after stop ignored",
			append(p.fields.AAALogFields(ev.TraceID, "ACCT_SEQUENCE_ERR", ev.Username, ev.NASAddress),
				logging.FieldSessionID, ev.SessionID,
				"reason", verdict.String())...,
		)
		return "sequence_error", nil
	case StartRepeated:
		slog.Warn("duplicate accounting start",
			append(p.fields.AAALogFields(ev.TraceID, "ACCT_DUPLICATE_START", ev.Username, ev.NASAddress),
				logging.FieldSessionID, ev.SessionID)...,
		)
	}

	// 2. 顧客・サービスの解決
	sess := &model.ActiveSession{
		SessionID:        ev.SessionID,
		UniqueID:         ev.UniqueID,
		Username:         ev.Username,
		NASAddress:       ev.NASAddress,
		NASPortID:        ev.NASPortID,
		ServiceType:      ev.ServiceType,
		FramedIPAddress:  ev.FramedIPAddress,
		CallingStationID: ev.CallingStationID,
		CalledStationID:  ev.CalledStationID,
		StartTime:        now,
		LastUpdate:       now,
		Counters:         ev.Counters(),
	}
	cred, err := p.credentials.GetCredential(ctx, ev.Username)
	switch {
	case err == nil:
		sess.CustomerID = cred.CustomerID
		sess.ServiceID = cred.ServiceID
	case errors.Is(err, store.ErrNotFound):
		slog.Warn("accounting start for unknown user",
			append(p.fields.AAALogFields(ev.TraceID, "ACCT_UNKNOWN_USER", ev.Username, ev.NASAddress),
				logging.FieldSessionID, ev.SessionID)...,
		)
	default:
		return "", err
	}

	// 3. セッション登録
	if err := p.sessions.UpsertSession(ctx, sess); err != nil {
		return "", err
	}

	slog.Info("accounting start",
		append(p.fields.AAALogFields(ev.TraceID, "ACCT_START", ev.Username, ev.NASAddress),
			logging.FieldSessionID, ev.SessionID,
			p.fields.WithCallingStation(ev.CallingStationID),
			"framed_ip", ev.FramedIPAddress)...,
	)
	if verdict == StartRepeated {
		return "duplicate", nil
	}
	return "ok", nil
}

package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// 切断理由
const (
	ReasonSuspended    = "service-suspended"
	ReasonDeleted      = "service-deleted"
	ReasonFairUseBlock = "fair-use-block"
)

// SessionLister はサービスの接続中セッションを列挙する。
type SessionLister interface {
	ListByService(ctx context.Context, serviceID int64) ([]model.ActiveSession, error)
}

// NASLookup はアドレスに対応する有効なNASを返す。未登録の場合はnilを返す。
type NASLookup interface {
	Lookup(ctx context.Context, address string) (*model.NASClient, error)
}

// Listener はドメインイベントを受けて接続中セッションへ設定を反映する。
type Listener struct {
	gw       Gateway
	sessions SessionLister
	nas      NASLookup
}

// NewListener は新しいListenerを生成する。
func NewListener(gw Gateway, sessions SessionLister, nas NASLookup) *Listener {
	return &Listener{gw: gw, sessions: sessions, nas: nas}
}

// Subscribe はイベントバスへハンドラを登録する。
func (l *Listener) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.NameFairUseLimitReached, l.Handle)
	bus.Subscribe(events.NameBurstActivated, l.Handle)
	bus.Subscribe(events.NameServiceSuspended, l.Handle)
	bus.Subscribe(events.NameServiceDeleted, l.Handle)
}

// Handle はイベントを処理する。
func (l *Listener) Handle(ctx context.Context, ev events.Event) error {
	switch e := ev.(type) {
	case events.FairUseLimitReached:
		switch {
		case e.Throttled:
			return l.pushRate(ctx, e.ServiceID, e.UploadMbps, e.DownloadMbps)
		case e.Action == model.FairUseActionBlock:
			return l.disconnect(ctx, e.ServiceID, ReasonFairUseBlock)
		}
		return nil
	case events.BurstActivated:
		return l.pushRate(ctx, e.ServiceID, e.UploadMbps, e.DownloadMbps)
	case events.ServiceSuspended:
		return l.disconnect(ctx, e.ServiceID, ReasonSuspended)
	case events.ServiceDeleted:
		return l.disconnect(ctx, e.ServiceID, ReasonDeleted)
	}
	return nil
}

func (l *Listener) pushRate(ctx context.Context, serviceID int64, up, down int) error {
	if up <= 0 || down <= 0 {
		return nil
	}
	sessions, err := l.sessions.ListByService(ctx, serviceID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	var errs []error
	for i := range sessions {
		s := &sessions[i]
		vendor := model.VendorMikrotik
		if nas, err := l.nas.Lookup(ctx, s.NASAddress); err == nil && nas != nil {
			vendor = nas.Vendor
		}
		req := &RateLimitRequest{
			NASAddress:   s.NASAddress,
			Vendor:       vendor,
			SessionID:    s.SessionID,
			Username:     s.Username,
			FramedIP:     s.FramedIPAddress,
			UploadMbps:   up,
			DownloadMbps: down,
			Attributes:   ProfileFor(vendor).RateLimitAttributes(up, down),
		}
		if err := l.gw.PushRateLimit(ctx, req); err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Info("rate limit pushed",
			"event_id", "PROV_RATE_LIMIT",
			logging.FieldTraceID, logging.TraceIDFromContext(ctx),
			logging.FieldSessionID, s.SessionID,
			logging.FieldNASAddress, s.NASAddress,
			"rate_limit", RateLimitString(up, down),
		)
	}
	return errors.Join(errs...)
}

func (l *Listener) disconnect(ctx context.Context, serviceID int64, reason string) error {
	sessions, err := l.sessions.ListByService(ctx, serviceID)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	var errs []error
	for i := range sessions {
		s := &sessions[i]
		req := &DisconnectRequest{
			NASAddress: s.NASAddress,
			SessionID:  s.SessionID,
			Username:   s.Username,
			Reason:     reason,
		}
		if err := l.gw.Disconnect(ctx, req); err != nil {
			errs = append(errs, err)
			continue
		}
		slog.Info("session disconnect requested",
			"event_id", "PROV_DISCONNECT",
			logging.FieldTraceID, logging.TraceIDFromContext(ctx),
			logging.FieldSessionID, s.SessionID,
			logging.FieldNASAddress, s.NASAddress,
			"reason", reason,
		)
	}
	return errors.Join(errs...)
}

// SyncNAS は登録済みNASをすべて連携先へ登録する。
func SyncNAS(ctx context.Context, gw Gateway, nas []model.NASClient) error {
	var errs []error
	for i := range nas {
		if err := gw.RegisterNAS(ctx, &nas[i]); err != nil {
			errs = append(errs, fmt.Errorf("register %s: %w", nas[i].Address, err))
		}
	}
	return errors.Join(errs...)
}

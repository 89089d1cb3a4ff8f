package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// WarningOffsets は期限切れ警告を送る、期限の何日前か。
var WarningOffsets = []int{5, 2}

// DefaultBatchSize は1回の配信で処理する最大件数。
const DefaultBatchSize = 100

// Scheduler はドメインイベントから通知を予約し、予定時刻に送信する。
type Scheduler struct {
	queue  store.NotificationQueue
	sender Sender
	now    func() time.Time
	batch  int64
}

// SchedulerOption はSchedulerの設定を変更する。
type SchedulerOption func(*Scheduler)

// WithClock は現在時刻の取得関数を差し替える。
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithBatchSize は1回の配信件数を設定する。
func WithBatchSize(n int64) SchedulerOption {
	return func(s *Scheduler) { s.batch = n }
}

// NewScheduler は新しいSchedulerを生成する。
func NewScheduler(q store.NotificationQueue, sender Sender, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{queue: q, sender: sender, now: time.Now, batch: DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe はイベントバスへハンドラを登録する。
func (s *Scheduler) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.NameServiceActivated, s.Handle)
	bus.Subscribe(events.NameServiceDeleted, s.Handle)
	bus.Subscribe(events.NameFairUseSoftCap, s.Handle)
	bus.Subscribe(events.NameFairUseLimitReached, s.Handle)
}

// Handle はイベントを処理する。
func (s *Scheduler) Handle(ctx context.Context, ev events.Event) error {
	switch e := ev.(type) {
	case events.ServiceActivated:
		return s.scheduleExpiryWarnings(ctx, e)
	case events.ServiceDeleted:
		return s.queue.Cancel(ctx, warningIDs(e.ServiceID)...)
	case events.FairUseSoftCapReached:
		return s.queue.Enqueue(ctx, &store.QueuedNotification{
			ID:         fmt.Sprintf("fup:%d:%s:soft_cap", e.ServiceID, e.Period),
			CustomerID: e.CustomerID,
			ServiceID:  e.ServiceID,
			Message: fmt.Sprintf("You have used %s GB of your %s GB fair-use allowance this month.",
				e.UsedGB.StringFixed(2), e.SoftCapGB.StringFixed(2)),
			DueAt: s.now(),
		})
	case events.FairUseLimitReached:
		msg := "You have reached your monthly fair-use limit."
		if e.Throttled {
			msg = fmt.Sprintf("You have reached your monthly fair-use limit. Your speed is now %d/%d Mbps until next month.",
				e.DownloadMbps, e.UploadMbps)
		}
		return s.queue.Enqueue(ctx, &store.QueuedNotification{
			ID:         fmt.Sprintf("fup:%d:%s:limit", e.ServiceID, e.Period),
			CustomerID: e.CustomerID,
			ServiceID:  e.ServiceID,
			Message:    msg,
			DueAt:      s.now(),
		})
	}
	return nil
}

// scheduleExpiryWarnings は期限前の警告を予約する。
// 過去になる警告は予約せず、以前の予約は取り消す。
func (s *Scheduler) scheduleExpiryWarnings(ctx context.Context, e events.ServiceActivated) error {
	now := s.now()
	var stale []string
	for _, days := range WarningOffsets {
		id := warningID(e.ServiceID, days)
		dueAt := e.NewEnd.AddDate(0, 0, -days)
		if !dueAt.After(now) {
			stale = append(stale, id)
			continue
		}
		n := &store.QueuedNotification{
			ID:         id,
			CustomerID: e.CustomerID,
			ServiceID:  e.ServiceID,
			Message: fmt.Sprintf("Your internet service expires in %d days on %s. Please renew to stay connected.",
				days, e.NewEnd.Format("2006-01-02")),
			DueAt: dueAt,
		}
		if err := s.queue.Enqueue(ctx, n); err != nil {
			return err
		}
	}
	return s.queue.Cancel(ctx, stale...)
}

// Dispatch は送信予定時刻を過ぎた通知を送信し、送信件数を返す。
// 取り出し済みの通知は送信失敗時も再送しない。
func (s *Scheduler) Dispatch(ctx context.Context) (int, error) {
	due, err := s.queue.Due(ctx, s.now(), s.batch)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for i := range due {
		n := &due[i]
		claimed, err := s.queue.Claim(ctx, n.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !claimed {
			continue
		}
		err = s.sender.Send(ctx, &Message{CustomerID: n.CustomerID, Channel: n.Channel, Message: n.Message})
		if errors.Is(err, ErrDisabled) {
			slog.Debug("notification dropped",
				"event_id", "NOTIFY_DISABLED",
				"notification_id", n.ID,
			)
			continue
		}
		if err != nil {
			slog.Error("notification send failed",
				"event_id", "NOTIFY_SEND_ERR",
				logging.FieldTraceID, logging.TraceIDFromContext(ctx),
				"notification_id", n.ID,
				logging.FieldCustomerID, n.CustomerID,
				logging.FieldError, err,
			)
			errs = append(errs, err)
			continue
		}
		sent++
		slog.Info("notification sent",
			"event_id", "NOTIFY_SENT",
			logging.FieldTraceID, logging.TraceIDFromContext(ctx),
			"notification_id", n.ID,
			logging.FieldCustomerID, n.CustomerID,
		)
	}
	return sent, errors.Join(errs...)
}

func warningID(serviceID int64, days int) string {
	return fmt.Sprintf("svc:%d:%d", serviceID, days)
}

func warningIDs(serviceID int64) []string {
	ids := make([]string, len(WarningOffsets))
	for i, days := range WarningOffsets {
		ids[i] = warningID(serviceID, days)
	}
	return ids
}

// Package scheduler はbilling-serverの定期処理（期限切れ停止・通知送信）を管理する。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

// JobFunc は1回分の定期処理。処理件数を返す。
type JobFunc func(ctx context.Context) (int, error)

// Scheduler はcronによる定期実行を管理する。
// 同一ジョブの多重実行は行わず、前回の実行中は次回をスキップする。
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

// New は新しいSchedulerを生成する。timeoutは1回の実行の上限。
func New(timeout time.Duration) *Scheduler {
	logger := slogAdapter{}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add はジョブを登録する。specは標準cron式または@every記法。
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, fn) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	slog.Info("job scheduled", logging.FieldEventID, "JOB_SCHEDULED", "job", name, "schedule", spec)
	return nil
}

// Start はスケジューラを開始する。
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop は新規実行を止め、実行中のジョブの完了を待つ。
// ctxの期限を過ぎた場合は実行中ジョブのコンテキストを取り消す。
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// run はジョブを1回実行し、結果をログ出力する。
func (s *Scheduler) run(name string, fn JobFunc) {
	traceID := uuid.New().String()
	ctx, cancel := context.WithTimeout(logging.ContextWithTraceID(s.ctx, traceID), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := fn(ctx)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		slog.Error("job failed",
			logging.FieldEventID, "JOB_ERR",
			logging.FieldTraceID, traceID,
			"job", name,
			"processed", n,
			logging.FieldLatencyMs, latency,
			logging.FieldError, err,
		)
		return
	}
	level := slog.LevelDebug
	if n > 0 {
		level = slog.LevelInfo
	}
	slog.Log(ctx, level, "job completed",
		logging.FieldEventID, "JOB_DONE",
		logging.FieldTraceID, traceID,
		"job", name,
		"processed", n,
		logging.FieldLatencyMs, latency,
	)
}

// slogAdapter はcron.Loggerをslogへ出力する。
type slogAdapter struct{}

func (slogAdapter) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogAdapter) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{logging.FieldEventID, "JOB_PANIC", logging.FieldError, err}, keysAndValues...)...)
}

// Package main は課金サーバー（入金反映・期限管理・フェアユース・通知）のエントリーポイント。
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/config"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/scheduler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/billing-server/internal/server"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/auth"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/billing"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/fairuse"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/metrics"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/notify"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/provisioning"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// nasCacheSize はプロビジョニング用NAS解決キャッシュの件数。
const nasCacheSize = 256

func main() {
	if err := run(); err != nil {
		slog.Error("billing-server terminated", "event_id", "SYS_ERR", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. 環境変数読み込み
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. ロガー初期化
	slog.SetDefault(logging.NewLogger(os.Stdout, cfg.LogLevel, "billing-server"))
	slog.Info("billing-server starting",
		"listen_addr", cfg.ListenAddr,
		"expiry_schedule", cfg.ExpirySchedule,
		"notify_schedule", cfg.NotifySchedule,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 3. PostgreSQL接続とスキーマ適用
	db, err := store.Open(ctx, cfg.DatabaseURL, store.DefaultPoolOptions())
	if err != nil {
		slog.Error("database connection failed", "event_id", "DB_CONN_ERR", "error", err)
		return err
	}
	defer db.Close()
	if err := store.Migrate(ctx, db); err != nil {
		slog.Error("schema migration failed", "event_id", "DB_MIGRATE_ERR", "error", err)
		return err
	}

	// 4. Valkey接続
	vc, err := store.NewValkeyClient(ctx, cfg.Valkey())
	if err != nil {
		slog.Error("valkey connection failed", "event_id", "VALKEY_CONN_ERR", "error", err)
		return err
	}
	defer vc.Close()

	// 5. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 6. Store層とイベントバス
	nasStore := store.NewNASStore(db)
	serviceStore := store.NewServiceStore(db)
	sessionStore := store.NewSessionStore(db)
	fairUseStore := store.NewFairUseStore(db)
	queue := store.NewNotificationQueue(vc)
	bus := events.NewBus()

	// 7. エンジン
	billingEngine := billing.NewEngine(serviceStore, bus, billing.WithMetrics(m))
	fairUse := fairuse.NewEngine(fairUseStore, bus, fairuse.WithMetrics(m), fairuse.WithLocation(cfg.Location()))

	// 8. 通知とプロビジョニング
	notifier := notify.NewNotifier(cfg.Notify.NotifierConfig(), m)
	notifications := notify.NewScheduler(queue, notifier)
	notifications.Subscribe(bus)

	var gateway provisioning.Gateway = provisioning.NopGateway{}
	if cfg.ProvisioningURL != "" {
		pc := provisioning.DefaultClientConfig(cfg.ProvisioningURL)
		pc.APIKey = cfg.ProvisioningAPIKey
		gateway = provisioning.NewClient(pc, m)
	}
	nasCache := auth.NewNASCache(nasStore, nasCacheSize, config.JobTimeout)
	provisioning.NewListener(gateway, sessionStore, nasCache).Subscribe(bus)

	// 9. 定期処理
	jobs := scheduler.New(config.JobTimeout)
	if err := jobs.Add("suspend-expired", cfg.ExpirySchedule, billingEngine.SuspendExpiredServices); err != nil {
		return err
	}
	if err := jobs.Add("dispatch-notifications", cfg.NotifySchedule, notifications.Dispatch); err != nil {
		return err
	}

	// 10. HTTPサーバー
	h := handler.New(handler.Deps{
		Billing:  billingEngine,
		FairUse:  fairUse,
		Notifier: notifier,
		Loader:   config.ReloadNotify,
		Checks: map[string]handler.HealthCheck{
			"database": db.PingContext,
			"valkey":   vc.Ping,
		},
		Fields: logging.NewCommonFields(logging.NewMasker(cfg.LogMaskUsername)),
	})
	httpSrv := server.New(cfg, h, m)

	// 11. 起動とシグナル待機 → Graceful Shutdown
	jobs.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Run)
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown started", "event_id", "SRV_SHUTDOWN")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return errors.Join(httpSrv.Shutdown(shutdownCtx), jobs.Stop(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("billing-server stopped")
	return nil
}

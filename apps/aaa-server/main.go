// Package main はAAAサーバー（RADIUS認可・課金とHTTPブリッジ）のエントリーポイント。
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/config"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/handler"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/radius"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/apps/aaa-server/internal/server"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/acct"
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

func main() {
	if err := run(); err != nil {
		slog.Error("aaa-server terminated", "event_id", "SYS_ERR", "error", err)
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
	slog.SetDefault(logging.NewLogger(os.Stdout, cfg.LogLevel, "aaa-server"))
	slog.Info("aaa-server starting",
		"listen_addr", cfg.ListenAddr,
		"radius_auth_addr", cfg.RadiusAuthAddr,
		"radius_acct_addr", cfg.RadiusAcctAddr,
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
	slog.Info("valkey connected", "addr", cfg.Valkey().Addr)

	// 5. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 6. Store層
	nasStore := store.NewNASStore(db)
	credStore := store.NewCredentialStore(db)
	serviceStore := store.NewServiceStore(db)
	sessionStore := store.NewSessionStore(db)
	fairUseStore := store.NewFairUseStore(db)
	nasCache := auth.NewNASCache(nasStore, cfg.NASCacheSize, cfg.NASCacheTTL)
	bus := events.NewBus()

	// 7. エンジン
	fields := logging.NewCommonFields(logging.NewMasker(cfg.LogMaskUsername))
	fairUse := fairuse.NewEngine(fairUseStore, bus, fairuse.WithMetrics(m), fairuse.WithLocation(cfg.Location()))
	billingEngine := billing.NewEngine(serviceStore, bus, billing.WithMetrics(m))
	authenticator := auth.NewAuthenticator(auth.Deps{
		NAS:         nasCache,
		Credentials: credStore,
		Access:      billingEngine,
		Sessions:    sessionStore,
		Plans:       serviceStore,
		Throttle:    fairUse,
	},
		auth.WithMetrics(m),
		auth.WithLogFields(fields),
		auth.WithInterimInterval(cfg.InterimInterval),
	)
	processor := acct.NewProcessor(
		nasCache,
		credStore,
		sessionStore,
		acct.NewSessionTracker(store.NewDuplicateStore(vc, config.DuplicateTTL)),
		fairUse,
		acct.WithMetrics(m),
		acct.WithLogFields(fields),
	)

	// 8. 外部連携（プロビジョニング・通知キュー）
	gateway := newGateway(ctx, cfg, m, nasStore)
	provisioning.NewListener(gateway, sessionStore, nasCache).Subscribe(bus)
	notify.NewScheduler(store.NewNotificationQueue(vc), nil).Subscribe(bus)

	// 9. HTTPブリッジ
	h := handler.NewBridgeHandler(authenticator, processor, map[string]handler.HealthCheck{
		"database": db.PingContext,
		"valkey":   vc.Ping,
	})
	httpSrv := server.New(cfg, h, m)

	// 10. RADIUS UDP（アドレス未指定のポートは待ち受けない）
	listeners := radius.NewListeners(
		radius.NewHandler(authenticator, processor, config.RadiusHandleTimeout),
		radius.NewSecretSource(nasCache, cfg.RadiusSecret),
		cfg.RadiusAuthAddr, cfg.RadiusAcctAddr,
	)
	if listeners.Len() == 0 {
		slog.Info("radius listeners disabled", "event_id", "RADIUS_DISABLED")
	}

	// 11. 起動とシグナル待機 → Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Run)
	g.Go(func() error {
		return listeners.Run(gctx, config.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown started", "event_id", "SRV_SHUTDOWN")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("aaa-server stopped")
	return nil
}

// newGateway はプロビジョニングAPIクライアントを生成し、登録済みNASを同期する。
// URL未設定の場合は何もしないGatewayを返す。
func newGateway(ctx context.Context, cfg *config.Config, m *metrics.Metrics, nasStore store.NASStore) provisioning.Gateway {
	if cfg.ProvisioningURL == "" {
		slog.Info("provisioning disabled", "event_id", "PROV_DISABLED")
		return provisioning.NopGateway{}
	}

	pc := provisioning.DefaultClientConfig(cfg.ProvisioningURL)
	pc.APIKey = cfg.ProvisioningAPIKey
	client := provisioning.NewClient(pc, m)

	nas, err := nasStore.ListNAS(ctx)
	if err == nil {
		err = provisioning.SyncNAS(ctx, client, nas)
	}
	if err != nil {
		slog.Warn("nas sync failed", "event_id", "PROV_SYNC_ERR", "error", err)
	}
	return client
}

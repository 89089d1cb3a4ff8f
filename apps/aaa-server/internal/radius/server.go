package radius

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"layeh.com/radius"
)

// Listeners は認証・課金ポートごとのPacketServerをまとめて動かす。
// 各ポートは同じハンドラとSecretSourceを共有する。
type Listeners struct {
	servers []*radius.PacketServer
}

// NewListeners は空でないアドレスごとにUDPのPacketServerを用意する。
func NewListeners(h radius.Handler, secrets radius.SecretSource, addrs ...string) *Listeners {
	l := &Listeners{}
	for _, addr := range addrs {
		if addr == "" {
			continue
		}
		l.servers = append(l.servers, &radius.PacketServer{
			Addr:         addr,
			Network:      "udp",
			SecretSource: secrets,
			Handler:      h,
		})
	}
	return l
}

// Len は待ち受けるポート数を返す。
func (l *Listeners) Len() int { return len(l.servers) }

// Run はctxが終了するまで全ポートで待ち受け、終了後はgraceを上限に処理中のパケットを待つ。
// いずれかのポートが起動に失敗した場合は残りも停止してそのエラーを返す。
func (l *Listeners) Run(ctx context.Context, grace time.Duration) error {
	if len(l.servers) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ps := range l.servers {
		ps := ps
		g.Go(func() error {
			slog.Info("radius listener started", "event_id", "SRV_START", "addr", ps.Addr)
			err := ps.ListenAndServe()
			if err == nil || errors.Is(err, radius.ErrServerShutdown) {
				return nil
			}
			return fmt.Errorf("radius listener %s: %w", ps.Addr, err)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		errs := make([]error, 0, len(l.servers))
		for _, ps := range l.servers {
			errs = append(errs, ps.Shutdown(sctx))
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

package acct

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/valkey"
)

func newTestTracker(t *testing.T) (*miniredis.Miniredis, SessionTracker) {
	t.Helper()
	mr := miniredis.RunT(t)
	vc, err := store.NewValkeyClient(context.Background(), valkey.Settings{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	t.Cleanup(func() { vc.Close() })
	return mr, NewSessionTracker(store.NewDuplicateStore(vc, 24*time.Hour))
}

func TestObserveStart(t *testing.T) {
	mr, tr := newTestTracker(t)
	ctx := context.Background()
	key := store.KeyPrefixAcctSeen + "sess-1"

	got, err := tr.ObserveStart(ctx, "sess-1")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got != StartFirst {
		t.Errorf("verdict = %v, want %v", got, StartFirst)
	}
	if mark, _ := mr.Get(key); mark != markStart {
		t.Errorf("mark = %q, want %q", mark, markStart)
	}
	if ttl := mr.TTL(key); ttl != 24*time.Hour {
		t.Errorf("TTL = %v, want %v", ttl, 24*time.Hour)
	}

	got, err = tr.ObserveStart(ctx, "sess-1")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got != StartRepeated {
		t.Errorf("verdict = %v, want %v", got, StartRepeated)
	}
}

func TestObserveStartAfterStop(t *testing.T) {
	mr, tr := newTestTracker(t)
	ctx := context.Background()

	if err := tr.ObserveStop(ctx, "sess-1"); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	for i := 0; i < 2; i++ {
		got, err := tr.ObserveStart(ctx, "sess-1")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got != StartAfterStop {
			t.Errorf("verdict = %v, want %v", got, StartAfterStop)
		}
	}
	if mark, _ := mr.Get(store.KeyPrefixAcctSeen + "sess-1"); mark != markStop {
		t.Errorf("mark = %q, want %q", mark, markStop)
	}
}

func TestTrackerValkeyDown(t *testing.T) {
	mr, tr := newTestTracker(t)
	mr.Close()

	if _, err := tr.ObserveStart(context.Background(), "sess-1"); err == nil {
		t.Error("Valkey停止時にエラーが返らない")
	}
	if err := tr.ObserveStop(context.Background(), "sess-1"); err == nil {
		t.Error("Valkey停止時にエラーが返らない")
	}
}

func TestStartVerdictString(t *testing.T) {
	tests := []struct {
		v    StartVerdict
		want string
	}{
		{StartFirst, "first"},
		{StartRepeated, "repeated"},
		{StartAfterStop, "start_after_stop"},
		{StartVerdict(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

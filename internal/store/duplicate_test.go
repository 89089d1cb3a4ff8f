package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/apperr"
)

func TestDuplicateStoreGetEmpty(t *testing.T) {
	_, vc := newTestValkeyClient(t)
	ds := NewDuplicateStore(vc, time.Hour)

	val, err := ds.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Get = %q, want empty string", val)
	}
}

func TestDuplicateStoreSetAndGet(t *testing.T) {
	mr, vc := newTestValkeyClient(t)
	ds := NewDuplicateStore(vc, 24*time.Hour)
	ctx := context.Background()

	if err := ds.Set(ctx, "acct-sess-1", "stop"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := ds.Get(ctx, "acct-sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "stop" {
		t.Errorf("Get = %q, want %q", val, "stop")
	}

	if ttl := mr.TTL(KeyPrefixAcctSeen + "acct-sess-1"); ttl != 24*time.Hour {
		t.Errorf("TTL = %v, want %v", ttl, 24*time.Hour)
	}
}

func TestDuplicateStoreExpires(t *testing.T) {
	mr, vc := newTestValkeyClient(t)
	ds := NewDuplicateStore(vc, time.Minute)
	ctx := context.Background()

	_ = ds.Set(ctx, "acct-sess-1", "stop")
	mr.FastForward(2 * time.Minute)

	val, err := ds.Get(ctx, "acct-sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "" {
		t.Errorf("Get after TTL = %q, want empty string", val)
	}
}

func TestDuplicateStoreValkeyDown(t *testing.T) {
	mr, vc := newTestValkeyClient(t)
	ds := NewDuplicateStore(vc, time.Hour)
	mr.Close()

	_, err := ds.Get(context.Background(), "acct-sess-1")
	if err == nil {
		t.Fatal("Get expected error when valkey is down")
	}
	if !errors.Is(err, apperr.ErrValkey) {
		t.Errorf("err = %v, want ErrValkey", err)
	}
}

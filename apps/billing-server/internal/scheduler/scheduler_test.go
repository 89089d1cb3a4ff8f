package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/logging"
)

func TestAddInvalidSpec(t *testing.T) {
	s := New(time.Second)
	if err := s.Add("expiry", "every minute", func(context.Context) (int, error) { return 0, nil }); err == nil {
		t.Error("Add() with invalid spec: want error")
	}
	if err := s.Add("expiry", "@every 1m", func(context.Context) (int, error) { return 0, nil }); err != nil {
		t.Errorf("予期しないエラー: %v", err)
	}
}

func TestRunPassesTraceAndTimeout(t *testing.T) {
	s := New(50 * time.Millisecond)

	var traceID string
	var deadline bool
	s.run("expiry", func(ctx context.Context) (int, error) {
		traceID = logging.TraceIDFromContext(ctx)
		_, deadline = ctx.Deadline()
		return 3, nil
	})

	if traceID == "" {
		t.Error("trace id is empty")
	}
	if !deadline {
		t.Error("job context has no deadline")
	}

	// エラーでもpanicしない
	s.run("notify", func(context.Context) (int, error) { return 0, errors.New("queue down") })
}

func TestScheduledExecution(t *testing.T) {
	s := New(time.Second)
	var calls atomic.Int32
	if err := s.Add("tick", "@every 1s", func(context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	}); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if calls.Load() == 0 {
		t.Error("job was not executed")
	}
}

func TestStopCancelsRunningJob(t *testing.T) {
	s := New(time.Minute)
	started := make(chan struct{})
	cancelled := make(chan struct{})

	go s.run("slow", func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	})
	<-started

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Error("running job was not cancelled")
	}
}

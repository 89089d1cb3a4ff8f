package store

import (
	"context"
	"testing"
	"time"
)

func TestNotificationQueueDueAndClaim(t *testing.T) {
	_, vc := newTestValkeyClient(t)
	q := NewNotificationQueue(vc)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	past := &QueuedNotification{ID: "svc:55:5", CustomerID: 100, ServiceID: 55, Channel: "sms", Message: "5 days left", DueAt: now.Add(-time.Minute)}
	future := &QueuedNotification{ID: "svc:55:2", CustomerID: 100, ServiceID: 55, Channel: "sms", Message: "2 days left", DueAt: now.Add(72 * time.Hour)}
	for _, n := range []*QueuedNotification{past, future} {
		if err := q.Enqueue(ctx, n); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	due, err := q.Due(ctx, now, 10)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("len(Due) = %d, want 1", len(due))
	}
	if due[0].ID != "svc:55:5" || due[0].Message != "5 days left" {
		t.Errorf("Due[0] = %+v, want svc:55:5", due[0])
	}

	claimed, err := q.Claim(ctx, "svc:55:5")
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if !claimed {
		t.Error("first Claim = false, want true")
	}

	claimed, err = q.Claim(ctx, "svc:55:5")
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if claimed {
		t.Error("second Claim = true, want false")
	}
}

func TestNotificationQueueEnqueueReplaces(t *testing.T) {
	_, vc := newTestValkeyClient(t)
	q := NewNotificationQueue(vc)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	_ = q.Enqueue(ctx, &QueuedNotification{ID: "svc:55:5", Message: "old", DueAt: now.Add(-time.Hour)})
	_ = q.Enqueue(ctx, &QueuedNotification{ID: "svc:55:5", Message: "new", DueAt: now.Add(time.Hour)})

	due, err := q.Due(ctx, now, 10)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("len(Due) = %d, want 0 after reschedule", len(due))
	}

	due, _ = q.Due(ctx, now.Add(2*time.Hour), 10)
	if len(due) != 1 || due[0].Message != "new" {
		t.Errorf("Due = %+v, want single rescheduled notification", due)
	}
}

func TestNotificationQueueCancel(t *testing.T) {
	_, vc := newTestValkeyClient(t)
	q := NewNotificationQueue(vc)
	ctx := context.Background()
	now := time.Now()

	_ = q.Enqueue(ctx, &QueuedNotification{ID: "svc:1:5", DueAt: now.Add(-time.Hour)})
	_ = q.Enqueue(ctx, &QueuedNotification{ID: "svc:1:2", DueAt: now.Add(-time.Hour)})

	if err := q.Cancel(ctx, "svc:1:5", "svc:1:2"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	due, err := q.Due(ctx, now, 10)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("len(Due) = %d, want 0", len(due))
	}
	if err := q.Cancel(ctx); err != nil {
		t.Errorf("Cancel() with no ids error = %v", err)
	}
}

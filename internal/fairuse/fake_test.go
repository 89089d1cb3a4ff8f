package fairuse

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// fakeFairUseStore はテスト用のインメモリFairUseStore。
type fakeFairUseStore struct {
	mu       sync.Mutex
	policies map[int64]*model.FairUsePolicy
	tracking map[store.TrackingKey]*model.FairUseTracking
	events   []model.FairUseEvent
	err      error
}

func newFakeFairUseStore() *fakeFairUseStore {
	return &fakeFairUseStore{
		policies: make(map[int64]*model.FairUsePolicy),
		tracking: make(map[store.TrackingKey]*model.FairUseTracking),
	}
}

func (f *fakeFairUseStore) GetPolicyForService(_ context.Context, serviceID int64) (*model.FairUsePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.policies[serviceID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeFairUseStore) row(key store.TrackingKey) *model.FairUseTracking {
	t, ok := f.tracking[key]
	if !ok {
		t = &model.FairUseTracking{CustomerID: key.CustomerID, ServiceID: key.ServiceID, Period: key.Period}
		for k, prev := range f.tracking {
			if k.CustomerID != key.CustomerID || k.ServiceID != key.ServiceID || k.Period >= key.Period {
				continue
			}
			if prev.LastBurstAt != nil && (t.LastBurstAt == nil || prev.LastBurstAt.After(*t.LastBurstAt)) {
				at := *prev.LastBurstAt
				t.LastBurstAt = &at
			}
		}
		f.tracking[key] = t
	}
	return t
}

func (f *fakeFairUseStore) GetOrCreateTracking(_ context.Context, key store.TrackingKey) (*model.FairUseTracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.row(key)
	return &cp, nil
}

func (f *fakeFairUseStore) AddUsage(_ context.Context, key store.TrackingKey, up, down decimal.Decimal, free bool) (*model.FairUseTracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t := f.row(key)
	t.TotalUploadMB = t.TotalUploadMB.Add(up)
	t.TotalDownloadMB = t.TotalDownloadMB.Add(down)
	if free {
		t.FreeHoursMB = t.FreeHoursMB.Add(up).Add(down)
	} else {
		t.BillableMB = t.BillableMB.Add(up).Add(down)
	}
	cp := *t
	return &cp, nil
}

func (f *fakeFairUseStore) MarkLimitReached(_ context.Context, key store.TrackingKey, throttled bool, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.row(key)
	if t.LimitReached {
		return false, nil
	}
	t.LimitReached = true
	t.LimitReachedAt = &at
	t.Throttled = throttled
	return true, nil
}

func (f *fakeFairUseStore) RecordBurst(_ context.Context, key store.TrackingKey, at time.Time, cooldown time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.row(key)
	if t.LastBurstAt != nil && t.LastBurstAt.After(at.Add(-cooldown)) {
		return false, nil
	}
	t.BurstCount++
	t.LastBurstAt = &at
	return true, nil
}

func (f *fakeFairUseStore) InsertFairUseEvent(_ context.Context, ev *model.FairUseEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeFairUseStore) eventTypes() []model.FairUseEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.FairUseEventType, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

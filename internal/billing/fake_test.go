package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/events"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/internal/store"
	"github.com/tmuthee9044-rgb/v0-isp-sub002/pkg/model"
)

// fakeServiceStore はテスト用のインメモリServiceStore。
type fakeServiceStore struct {
	mu        sync.Mutex
	services  map[int64]*model.CustomerService
	plans     map[int64]*model.Plan
	payments  map[int64]*model.Payment
	usernames map[string]int64
	events    []model.ServiceEvent

	conflicts int   // ApplyWindowを競合させる回数
	err       error // 全操作が返すエラー
}

func newFakeServiceStore() *fakeServiceStore {
	return &fakeServiceStore{
		services:  make(map[int64]*model.CustomerService),
		plans:     make(map[int64]*model.Plan),
		payments:  make(map[int64]*model.Payment),
		usernames: make(map[string]int64),
	}
}

func (f *fakeServiceStore) GetService(_ context.Context, id int64) (*model.CustomerService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.services[id]
	if !ok {
		return nil, fmt.Errorf("service %d: %w", id, store.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeServiceStore) GetServiceByUsername(ctx context.Context, username string) (*model.CustomerService, error) {
	f.mu.Lock()
	id, ok := f.usernames[username]
	f.mu.Unlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	return f.GetService(ctx, id)
}

func (f *fakeServiceStore) GetPlan(_ context.Context, id int64) (*model.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeServiceStore) GetPayment(_ context.Context, id int64) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeServiceStore) ApplyWindow(_ context.Context, upd store.WindowUpdate, ev model.ServiceEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	s := f.services[upd.ServiceID]
	if f.conflicts > 0 {
		f.conflicts--
		// 別の入金が先に反映された状態を再現する
		s.ServiceEnd = s.ServiceEnd.Add(Day)
		return false, nil
	}
	if !s.ServiceEnd.Equal(upd.PrevEnd) || s.IsDeleted {
		return false, nil
	}
	if upd.Start != nil {
		s.ServiceStart = *upd.Start
	}
	s.ServiceEnd = upd.End
	s.IsActive = true
	s.IsSuspended = false
	billed := upd.BilledAt
	s.LastBilledAt = &billed
	f.events = append(f.events, ev)
	return true, nil
}

func (f *fakeServiceStore) SuspendExpired(_ context.Context, now time.Time) ([]store.SuspendedService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []store.SuspendedService
	for _, s := range f.services {
		if s.ServiceEnd.Before(now) && s.IsActive && !s.IsSuspended && !s.IsDeleted {
			s.IsSuspended = true
			out = append(out, store.SuspendedService{ID: s.ID, CustomerID: s.CustomerID, ServiceEnd: s.ServiceEnd})
			f.events = append(f.events, model.ServiceEvent{ServiceID: s.ID, Type: model.ServiceEventSuspended, CreatedAt: now})
		}
	}
	return out, nil
}

func (f *fakeServiceStore) SoftDelete(_ context.Context, id int64, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.services[id]
	if s.IsDeleted {
		return false, nil
	}
	s.IsDeleted = true
	s.IsActive = false
	s.IsSuspended = true
	f.events = append(f.events, model.ServiceEvent{ServiceID: id, Type: model.ServiceEventDeleted, CreatedAt: now})
	return true, nil
}

// recordingPublisher は発行されたイベントを記録する。
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

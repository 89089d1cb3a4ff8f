package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Handler はイベントを処理する。
type Handler func(ctx context.Context, ev Event) error

// Publisher はイベントの発行を定義する。
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Bus は同期型のイベントバス。
// 購読順にハンドラを呼び出し、ハンドラのエラーやpanicは記録のみ行い発行元へ返さない。
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus は新しいBusを生成する。
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe はイベント名に対してハンドラを登録する。
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish はイベントを購読者へ配信する。
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[ev.Name()]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := b.invoke(ctx, h, ev); err != nil {
			slog.Warn("event handler failed",
				"event_id", "EVENT_HANDLER_ERR",
				"event", ev.Name(),
				"error", err,
			)
		}
	}
}

func (b *Bus) invoke(ctx context.Context, h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, ev)
}

// Nop は何もしないPublisher。
type Nop struct{}

// Publish は何もしない。
func (Nop) Publish(context.Context, Event) {}

package event

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"CoinSentinel/internal/model"
)

// PriceSaved is published after every successful price save.
type PriceSaved struct {
	ID         string
	Sample     model.PriceSample
	OccurredAt time.Time
}

// Subscriber receives price-saved events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Subscriber interface {
	OnPriceSaved(evt PriceSaved)
}

// Bus is a minimal in-process observer list. No downstream consumer exists
// in-core; this is the extension point for future listeners.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish delivers the sample to every subscriber.
func (b *Bus) Publish(sample model.PriceSample) {
	evt := PriceSaved{
		ID:         uuid.NewString(),
		Sample:     sample,
		OccurredAt: time.Now(),
	}

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		s.OnPriceSaved(evt)
	}
}

// LogSubscriber logs every saved price.
type LogSubscriber struct{}

func (LogSubscriber) OnPriceSaved(evt PriceSaved) {
	log.Printf("[INFO] price saved: %s %v (sample %d, event %s)",
		evt.Sample.Symbol, evt.Sample.Price.Value(), evt.Sample.ID, evt.ID)
}

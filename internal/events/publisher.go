package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventPublisher publishes cart and search activity events.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
	Close() error
}

// Cart activity events
type CartItemAddedEvent struct {
	ProductID  int       `json:"product_id"`
	Title      string    `json:"title"`
	Quantity   int       `json:"quantity"`
	CartSize   int       `json:"cart_size"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CartItemRemovedEvent struct {
	ProductID  int       `json:"product_id"`
	Index      int       `json:"index"`
	CartSize   int       `json:"cart_size"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CartClearedEvent struct {
	OccurredAt time.Time `json:"occurred_at"`
}

type CartReorderedEvent struct {
	ProductIDs []int     `json:"product_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Search activity events
type SearchCommittedEvent struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventType names an event for headers and logs.
func EventType(event interface{}) string {
	switch event.(type) {
	case CartItemAddedEvent:
		return "CartItemAdded"
	case CartItemRemovedEvent:
		return "CartItemRemoved"
	case CartClearedEvent:
		return "CartCleared"
	case CartReorderedEvent:
		return "CartReordered"
	case SearchCommittedEvent:
		return "SearchCommitted"
	default:
		return "Unknown"
	}
}

// DefaultRecentEvents is how many events an InMemoryEventPublisher keeps.
const DefaultRecentEvents = 1000

// InMemoryEventPublisher keeps the most recent events in a fixed-size ring.
// It is used when Kafka is disabled and in tests.
type InMemoryEventPublisher struct {
	logger *zap.Logger
	mu     sync.Mutex
	ring   []interface{}
	start  int
	size   int
}

func NewInMemoryEventPublisher(logger *zap.Logger) *InMemoryEventPublisher {
	return NewInMemoryEventPublisherWithCapacity(logger, DefaultRecentEvents)
}

// NewInMemoryEventPublisherWithCapacity keeps at most capacity events; older
// ones are dropped.
func NewInMemoryEventPublisherWithCapacity(logger *zap.Logger, capacity int) *InMemoryEventPublisher {
	if capacity <= 0 {
		capacity = DefaultRecentEvents
	}
	return &InMemoryEventPublisher{
		logger: logger,
		ring:   make([]interface{}, capacity),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	if p.size < len(p.ring) {
		p.ring[(p.start+p.size)%len(p.ring)] = event
		p.size++
	} else {
		p.ring[p.start] = event
		p.start = (p.start + 1) % len(p.ring)
	}
	p.mu.Unlock()
	p.logger.Debug("Event published (in-memory)", zap.String("event-type", EventType(event)))
	return nil
}

// Events returns the retained events, oldest first.
func (p *InMemoryEventPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interface{}, 0, p.size)
	for i := 0; i < p.size; i++ {
		out = append(out, p.ring[(p.start+i)%len(p.ring)])
	}
	return out
}

func (p *InMemoryEventPublisher) Close() error { return nil }

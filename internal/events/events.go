// Package events publishes domain events after their transaction commits.
// Delivery is best effort: a failed publish is logged and dropped.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/rentacar-backend/internal/worker"
)

const (
	RentalCreated   = "rental.created"
	RentalRequested = "rental.requested"
	RentalApproved  = "rental.approved"
	RentalCompleted = "rental.completed"
	RentalCancelled = "rental.cancelled"
	ReviewCreated   = "review.created"
)

type Event struct {
	Type     string         `json:"type"`
	EntityID string         `json:"entityId"`
	ActorID  string         `json:"actorId,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	At       time.Time      `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Emitter hands an event off without waiting for delivery.
type Emitter interface {
	Emit(ev Event)
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Emit(Event)                           {}

// Dispatcher publishes events from the worker pool.
type Dispatcher struct {
	pool    *worker.Pool
	pub     Publisher
	timeout time.Duration
}

func NewDispatcher(pool *worker.Pool, pub Publisher) *Dispatcher {
	return &Dispatcher{pool: pool, pub: pub, timeout: 5 * time.Second}
}

func (d *Dispatcher) Emit(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.pub.Publish(ctx, ev); err != nil {
			slog.Warn("event publish failed", "type", ev.Type, "entity_id", ev.EntityID, "err", err)
		}
	})
}

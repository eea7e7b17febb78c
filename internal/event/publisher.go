package event

import (
	"context"
	"maps"
	"time"

	"github.com/dshills/larek/internal/event/topic"
)

// timeNow is a variable to allow testing with fixed timestamps.
var timeNow = time.Now

// Publisher publishes events stamped with a fixed source.
// The state manager and each view own one.
type Publisher struct {
	bus    Bus
	source string
}

// NewPublisher creates a new Publisher wrapping the given bus.
// The source parameter identifies where events originate (e.g., "store", "view.basket").
func NewPublisher(bus Bus, source string) *Publisher {
	return &Publisher{
		bus:    bus,
		source: source,
	}
}

// Emit publishes payload under eventType in an Envelope carrying the publisher's source.
func (p *Publisher) Emit(ctx context.Context, eventType topic.Topic, payload any) error {
	return p.bus.Publish(ctx, Envelope{
		Topic:    eventType,
		Payload:  payload,
		Metadata: Metadata{ID: generateID(), Source: p.source, Timestamp: timeNow()},
	})
}

// PublishEvent creates and publishes a typed Event[T] with the publisher's source.
func PublishEvent[T any](ctx context.Context, p *Publisher, eventType topic.Topic, payload T) error {
	e := NewEvent(eventType, payload, p.source)
	e.Metadata.Timestamp = timeNow()
	return p.bus.Publish(ctx, e)
}

// Trigger binds a topic and fixed fields like Bus.Trigger, but stamps the
// events with the publisher's source.
func (p *Publisher) Trigger(eventType topic.Topic, bound Fields) TriggerFunc {
	bound = maps.Clone(bound)
	return func(ctx context.Context, fields Fields) error {
		return p.Emit(ctx, eventType, mergeFields(fields, bound))
	}
}

// Source returns the publisher's source identifier.
func (p *Publisher) Source() string {
	return p.source
}

// Bus returns the underlying bus.
func (p *Publisher) Bus() Bus {
	return p.bus
}

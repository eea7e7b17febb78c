package event

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dshills/larek/internal/event/dispatch"
	"github.com/dshills/larek/internal/event/topic"
)

// Bus is the central event bus interface.
//
// Delivery is synchronous and reentrant. Publish returns after every matching
// handler has run, including handlers of events published from inside them.
type Bus interface {
	// Publishing
	Publish(ctx context.Context, event any) error
	Emit(ctx context.Context, t topic.Topic, payload any) error
	Trigger(t topic.Topic, bound Fields) TriggerFunc

	// Subscription
	Subscribe(t topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(t topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	SubscribePattern(p topic.Pattern, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeAll(handler Handler, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error
	Clear()

	// Status
	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	registry   *Registry
	dispatcher *dispatch.SyncDispatcher
	config     busConfig

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &bus{
		registry:   NewRegistry(),
		dispatcher: dispatch.NewSyncDispatcher(),
		config:     config,
	}
}

// Publish delivers event to every matching subscription.
// The event must be an Event[T], an Envelope, or implement TopicProvider.
func (b *bus) Publish(ctx context.Context, event any) error {
	eventTopic := extractTopic(event)
	if !eventTopic.IsValid() {
		return ErrInvalidEvent
	}

	b.eventsPublished.Add(1)

	subs := b.registry.Match(eventTopic)
	if len(subs) == 0 {
		return nil
	}

	var errs []error
	for _, sub := range subs {
		// Subscriptions removed by an earlier handler of this publication are skipped.
		if !sub.ShouldDeliver(event) {
			continue
		}
		if sub.config.Once {
			sub.Cancel()
			b.registry.Remove(sub.id)
		}

		result := b.dispatcher.Dispatch(ctx, event, sub.handler)
		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
			perr := &PanicError{
				SubscriptionID: sub.id,
				Topic:          string(eventTopic),
				Value:          result.PanicValue,
				Stack:          string(result.PanicStack),
			}
			b.config.logger.Error("event handler panicked",
				"topic", string(eventTopic),
				"subscription", sub.key,
				"panic", result.PanicValue,
			)
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, sub, result.PanicValue, result.PanicStack)
			}
			errs = append(errs, perr)
		case result.Skipped:
			errs = append(errs, result.Error)
			return errors.Join(errs...)
		case result.Error != nil:
			b.handlerErrors.Add(1)
			b.config.logger.Warn("event handler failed",
				"topic", string(eventTopic),
				"subscription", sub.key,
				"error", result.Error,
			)
			errs = append(errs, &HandlerError{
				SubscriptionID: sub.id,
				Topic:          string(eventTopic),
				Err:            result.Error,
			})
		default:
			b.eventsDelivered.Add(1)
		}
	}

	return errors.Join(errs...)
}

// Emit publishes payload under topic t wrapped in an Envelope.
func (b *bus) Emit(ctx context.Context, t topic.Topic, payload any) error {
	return b.Publish(ctx, Envelope{
		Topic:    t,
		Payload:  payload,
		Metadata: newMetadata(b.config.source),
	})
}

// Subscribe registers handler for events published exactly under t.
func (b *bus) Subscribe(t topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if isNilHandler(handler) {
		return nil, ErrNilHandler
	}
	if !t.IsValid() {
		return nil, ErrInvalidTopic
	}
	return b.registry.AddExact(t, newSubscription(handler, opts...)), nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(t topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(t, fn, opts...)
}

// SubscribePattern registers handler for every topic matched by p.
func (b *bus) SubscribePattern(p topic.Pattern, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if isNilHandler(handler) {
		return nil, ErrNilHandler
	}
	if p == nil {
		return nil, ErrInvalidPattern
	}
	if g, ok := p.(topic.Glob); ok && !g.Valid() {
		return nil, ErrInvalidPattern
	}
	return b.registry.AddPattern(p, newSubscription(handler, opts...)), nil
}

// SubscribeAll registers handler under the sentinel topic "*".
// The handler runs only for events published to "*" itself.
func (b *bus) SubscribeAll(handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(topic.All, handler, opts...)
}

// Unsubscribe removes a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Clear removes every subscription.
func (b *bus) Clear() {
	b.registry.Clear()
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.Count(),
	}
}

// extractTopic extracts the topic from an event.
func extractTopic(event any) topic.Topic {
	switch e := event.(type) {
	case *Envelope:
		if e != nil {
			return e.Topic
		}
	case TopicProvider:
		return e.EventTopic()
	}
	return ""
}

func isNilHandler(h Handler) bool {
	if h == nil {
		return true
	}
	if f, ok := h.(HandlerFunc); ok && f == nil {
		return true
	}
	return false
}

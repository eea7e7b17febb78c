package event

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/larek/internal/event/topic"
)

// ErrSubscriberClosed is returned when subscribing through a closed Subscriber.
var ErrSubscriberClosed = errors.New("subscriber is closed")

// Subscriber tracks the subscriptions of one component so they can be
// removed together on Close.
type Subscriber struct {
	bus           Bus
	subscriptions []Subscription
	mu            sync.Mutex
	closed        bool
}

// NewSubscriber creates a new Subscriber wrapping the given bus.
func NewSubscriber(bus Bus) *Subscriber {
	return &Subscriber{bus: bus}
}

// Subscribe registers handler under an exact topic and tracks it.
func (s *Subscriber) Subscribe(t topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	return s.track(func() (Subscription, error) {
		return s.bus.Subscribe(t, handler, opts...)
	})
}

// SubscribePattern registers handler under a pattern and tracks it.
func (s *Subscriber) SubscribePattern(p topic.Pattern, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	return s.track(func() (Subscription, error) {
		return s.bus.SubscribePattern(p, handler, opts...)
	})
}

// SubscribePayload registers a typed payload handler under an exact topic.
func SubscribePayload[T any](s *Subscriber, t topic.Topic, fn func(ctx context.Context, payload T) error, opts ...SubscriptionOption) (Subscription, error) {
	return s.Subscribe(t, On(fn), opts...)
}

func (s *Subscriber) track(subscribe func() (Subscription, error)) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSubscriberClosed
	}
	sub, err := subscribe()
	if err != nil {
		return nil, err
	}
	s.subscriptions = append(s.subscriptions, sub)
	return sub, nil
}

// Close unsubscribes everything and rejects further subscriptions.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, sub := range s.subscriptions {
		if err := s.bus.Unsubscribe(sub); err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
			errs = append(errs, err)
		}
	}
	s.subscriptions = nil
	return errors.Join(errs...)
}

// Count returns the number of tracked subscriptions.
func (s *Subscriber) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscriptions)
}

package event

import (
	"sync/atomic"

	"github.com/dshills/larek/internal/event/topic"
)

// Subscription represents a registered handler.
// It is the only way to remove a function handler, since Go functions
// cannot be compared.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Key returns the exact topic or the pattern string the handler is registered under.
	Key() string

	// Pattern returns the pattern for pattern subscriptions, or nil for exact ones.
	Pattern() topic.Pattern

	// IsActive returns true until the subscription is cancelled.
	IsActive() bool

	// Cancel stops delivery without removing the registration.
	// Use Bus.Unsubscribe to remove it.
	Cancel()
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Filter is an optional predicate to filter events.
	// If set, events are only delivered if Filter returns true.
	Filter FilterFunc

	// Once indicates the subscription should be removed after its first delivery.
	Once bool
}

// DefaultSubscriptionConfig returns a default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// SubscriptionOption is a function that configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a filter predicate.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce removes the subscription after the first event it handles.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// subscription is the internal implementation of Subscription.
type subscription struct {
	id      string
	key     string
	exact   topic.Topic
	pattern topic.Pattern
	handler Handler
	config  SubscriptionConfig

	// seq is the registration order, used to break priority ties.
	seq       uint64
	cancelled atomic.Bool
}

func newSubscription(h Handler, opts ...SubscriptionOption) *subscription {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &subscription{
		id:      generateID(),
		handler: h,
		config:  config,
	}
}

// ID returns the subscription ID.
func (s *subscription) ID() string {
	return s.id
}

// Key returns the registration key.
func (s *subscription) Key() string {
	return s.key
}

// Pattern returns the subscription pattern, or nil.
func (s *subscription) Pattern() topic.Pattern {
	return s.pattern
}

// Handler returns the subscription's handler.
func (s *subscription) Handler() Handler {
	return s.handler
}

// Config returns the subscription configuration.
func (s *subscription) Config() SubscriptionConfig {
	return s.config
}

// IsActive returns true if the subscription has not been cancelled.
func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel permanently cancels the subscription.
func (s *subscription) Cancel() {
	s.cancelled.Store(true)
}

// ShouldDeliver returns true if the event should be delivered to this subscription.
func (s *subscription) ShouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	return true
}

package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that must observe a change before anything else.
	PriorityCritical Priority = 0

	// PriorityHigh is for state bookkeeping handlers.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority for wiring and view handlers.
	PriorityNormal Priority = 200

	// PriorityLow is for script hooks and logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event.
	// The event parameter is type-erased; handlers should type-assert
	// or use On to get a typed payload.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// On adapts a payload handler into a Handler.
// The handler is called for Event[T] values and for envelopes whose payload is a T.
// Events carrying any other payload type are skipped.
func On[T any](fn func(ctx context.Context, payload T) error) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if p, ok := PayloadOf[T](event); ok {
			return fn(ctx, p)
		}
		return nil
	})
}

// PayloadOf extracts a typed payload from an Event[T] or an Envelope.
func PayloadOf[T any](event any) (T, bool) {
	switch e := event.(type) {
	case Event[T]:
		return e.Payload, true
	case Envelope:
		p, ok := e.Payload.(T)
		return p, ok
	case *Envelope:
		if e == nil {
			break
		}
		p, ok := e.Payload.(T)
		return p, ok
	}
	var zero T
	return zero, false
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event any) bool

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished is the total number of events published.
	EventsPublished uint64

	// EventsDelivered is the number of successful handler invocations.
	EventsDelivered uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveSubscribers is the current number of registrations.
	ActiveSubscribers int
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, sub Subscription, recovered any, stack []byte)

// Package event provides the event bus that connects the storefront state
// manager with its views.
//
// Views publish intent events ("card.selected", "order.submitted"), wiring
// handlers translate them into state manager calls, and the state manager
// publishes change events ("basket.changed") that views re-render from.
//
// # Delivery
//
// Delivery is synchronous. Publish invokes every matching handler in the
// caller's goroutine and returns the joined handler errors. Handlers may
// publish further events; those are dispatched before the outer handler
// continues. The set of handlers is captured when a publication starts:
// handlers added meanwhile wait for the next publication, and handlers
// removed meanwhile are skipped.
//
// Handlers run in ascending Priority, then in registration order. A panic in
// a handler is recovered and returned as a *PanicError.
//
// # Registration
//
// Subscribe registers under an exact topic. SubscribePattern registers under
// a topic.Glob ("contacts.*.changed", "order.**") or a topic.Regexp. The two
// are kept apart so exact lookups stay a map access.
//
// Registering the same comparable handler value twice under the same key
// returns the original subscription. Function handlers are never comparable,
// so each registration of one is distinct and can only be removed through its
// Subscription.
//
// SubscribeAll subscribes to the literal topic "*". It is not a wildcard: the
// handler runs only for events published to "*".
//
// # Example
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	bus.Subscribe(events.BasketChanged, event.On(func(ctx context.Context, p events.BasketChangedPayload) error {
//	    basketView.Update(p.Items)
//	    return nil
//	}))
//
//	setEmail := bus.Trigger("contacts.email.changed", event.Fields{"field": "email"})
//	setEmail(ctx, event.Fields{"value": "a@b.c"})
package event

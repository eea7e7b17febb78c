// Package events defines the topics and payloads of the storefront event bus.
//
// Events fall into two groups:
//
//   - Change events are published by the state manager after a mutation
//     (catalog.changed, basket.changed, order.delivery.errors.changed, ...).
//   - Intent events are published by views when the user acts
//     (card.selected, order.submitted, contacts.email.changed, ...).
//
// Wiring handlers subscribe to intents and call the state manager; view
// handlers subscribe to changes and re-render from current state.
//
// # Usage
//
//	pub := event.NewPublisher(bus, "store")
//	pub.Emit(ctx, events.TopicBasketChanged, events.BasketChanged{Items: basket})
//
//	bus.Subscribe(events.TopicBasketChanged, event.On(func(ctx context.Context, e events.BasketChanged) error {
//	    return renderBasket(e.Items)
//	}))
package events

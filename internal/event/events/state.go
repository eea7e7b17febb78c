package events

import (
	"github.com/dshills/larek/internal/event/topic"
	"github.com/dshills/larek/internal/model"
)

// Change event topics, published by the state manager.
const (
	// TopicCatalogChanged is published when the catalog is replaced.
	TopicCatalogChanged topic.Topic = "catalog.changed"

	// TopicPreviewChanged is published when a product is chosen for the detail view.
	TopicPreviewChanged topic.Topic = "preview.changed"

	// TopicBasketChanged is published when the basket contents change.
	TopicBasketChanged topic.Topic = "basket.changed"

	// TopicBasketCounterChanged is published when the number of basket items changes.
	TopicBasketCounterChanged topic.Topic = "basket.counter.changed"

	// TopicDeliveryErrorsChanged is published after every delivery validation.
	TopicDeliveryErrorsChanged topic.Topic = "order.delivery.errors.changed"

	// TopicContactErrorsChanged is published after every contacts validation.
	TopicContactErrorsChanged topic.Topic = "order.contacts.errors.changed"

	// TopicOrderPlaced is published when the API accepts an order.
	TopicOrderPlaced topic.Topic = "order.placed"

	// TopicAPIRequestFailed is published when a remote call fails.
	TopicAPIRequestFailed topic.Topic = "api.request.failed"
)

// CatalogChanged carries the new catalog.
type CatalogChanged struct {
	Products []model.Product
}

// PreviewChanged carries the product selected for preview.
type PreviewChanged struct {
	Product model.Product
}

// BasketChanged carries the basket after the change.
type BasketChanged struct {
	Items []model.Product
}

// BasketCounterChanged carries the new item count.
type BasketCounterChanged struct {
	Count int
}

// FormErrorsChanged carries a freshly computed validation error set.
type FormErrorsChanged struct {
	// Form is "order" or "contacts".
	Form string

	Errors model.FormErrors
}

// Valid reports whether the form has no errors.
func (e FormErrorsChanged) Valid() bool {
	return e.Errors.Empty()
}

// OrderPlaced carries the API response to a submitted order.
type OrderPlaced struct {
	Result model.OrderResult
}

// APIRequestFailed describes a failed remote call.
type APIRequestFailed struct {
	// Op names the call, e.g. "products" or "order".
	Op string

	// Err is the failure.
	Err error
}

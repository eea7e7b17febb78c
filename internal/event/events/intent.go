package events

import (
	"github.com/dshills/larek/internal/event/topic"
	"github.com/dshills/larek/internal/model"
)

// Intent topics, published by views.
const (
	// TopicCardSelected is published when a catalog card is activated.
	TopicCardSelected topic.Topic = "card.selected"

	// TopicBasketOpened is published when the basket is requested.
	TopicBasketOpened topic.Topic = "basket.opened"

	// TopicPreviewToggled is published by the preview buy/remove button.
	TopicPreviewToggled topic.Topic = "preview.toggled"

	// TopicProductRemoved is published when a basket line is deleted.
	TopicProductRemoved topic.Topic = "product.removed"

	// TopicOrderOpened is published by the basket checkout button.
	TopicOrderOpened topic.Topic = "order.opened"

	// TopicPaymentChanged is published when a payment button is pressed.
	TopicPaymentChanged topic.Topic = "order.payment.changed"

	// TopicAddressChanged is published on every edit of the address field.
	TopicAddressChanged topic.Topic = "order.address.changed"

	// TopicOrderSubmitted is published by the delivery form submit button.
	TopicOrderSubmitted topic.Topic = "order.submitted"

	// TopicContactsSubmitted is published by the contacts form submit button.
	TopicContactsSubmitted topic.Topic = "contacts.submitted"

	// TopicModalOpened is published when the modal becomes visible.
	TopicModalOpened topic.Topic = "modal.opened"

	// TopicModalClosed is published when the modal is dismissed.
	TopicModalClosed topic.Topic = "modal.closed"

	// TopicSuccessClosed is published when the success panel is acknowledged.
	TopicSuccessClosed topic.Topic = "success.closed"
)

// ContactFieldChanges matches the per-field change events of the contacts form.
var ContactFieldChanges = topic.MustRegexp(`^contacts\.[^.]+\.changed$`)

// ContactFieldChanged returns the change topic of a contacts form field,
// e.g. "contacts.email.changed".
func ContactFieldChanged(field string) topic.Topic {
	return topic.Join("contacts", field, "changed")
}

// CardSelected names the activated product.
type CardSelected struct {
	ProductID string
}

// PreviewToggled names the previewed product whose button was pressed.
type PreviewToggled struct {
	ProductID string
}

// ProductRemoved names the product to take out of the basket.
type ProductRemoved struct {
	ProductID string
}

// PaymentChanged carries the chosen payment method.
type PaymentChanged struct {
	Method model.PaymentMethod
}

// AddressChanged carries the address field value.
type AddressChanged struct {
	Value string
}

// ModalToggled names the content shown in or removed from the modal.
type ModalToggled struct {
	Content string
}

// Keys of the Fields payload of contacts field events.
const (
	FieldKey = "field"
	ValueKey = "value"
)

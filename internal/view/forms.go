package view

import (
	"context"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/model"
	"github.com/dshills/larek/internal/renderer/backend"
)

// Form names, matching the state manager's error sets.
const (
	FormDelivery = "order"
	FormContacts = "contacts"
)

// Delivery form focus positions.
const (
	deliveryCard = iota
	deliveryCash
	deliveryAddress
	deliverySubmit
	deliveryFocusCount
)

// DeliveryForm collects the payment method and the address.
type DeliveryForm struct {
	pub     *event.Publisher
	theme   Theme
	payment model.PaymentMethod
	address TextField
	valid   bool
	errors  string
	focus   int
}

// NewDeliveryForm creates the delivery form. It panics if pub is nil.
func NewDeliveryForm(pub *event.Publisher) *DeliveryForm {
	return &DeliveryForm{
		pub:     mustPublisher(pub, "delivery form"),
		theme:   DefaultTheme(),
		address: TextField{Label: "Delivery address", Placeholder: "Enter an address"},
	}
}

// Name implements Component.
func (f *DeliveryForm) Name() string { return FormDelivery }

// Reset shows the form with v and focuses the first control.
func (f *DeliveryForm) Reset(v DeliveryView) {
	f.payment = v.Payment
	f.address.SetValue(v.Address)
	f.valid = v.Valid
	f.errors = v.Errors
	f.focus = deliveryCard
}

// SetPayment highlights the chosen payment method.
func (f *DeliveryForm) SetPayment(m model.PaymentMethod) { f.payment = m }

// SetValidation sets the submit state and the inline error text.
func (f *DeliveryForm) SetValidation(valid bool, errors string) {
	f.valid = valid
	f.errors = errors
}

// View returns the current form state.
func (f *DeliveryForm) View() DeliveryView {
	return DeliveryView{Payment: f.payment, Address: f.address.Value(), Valid: f.valid, Errors: f.errors}
}

// HandleKey implements Component.
func (f *DeliveryForm) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if ev.Type != backend.EventKey {
		return false, nil
	}
	if focusRing(&f.focus, deliveryFocusCount, ev) {
		return true, nil
	}

	switch f.focus {
	case deliveryAddress:
		if f.address.HandleKey(ev) {
			return true, f.pub.Emit(ctx, events.TopicAddressChanged, events.AddressChanged{Value: f.address.Value()})
		}
		if ev.Key == backend.KeyEnter {
			f.focus = deliverySubmit
			return true, nil
		}
	case deliveryCard, deliveryCash:
		if ev.Key == backend.KeyLeft || ev.Key == backend.KeyRight {
			f.focus = deliveryCard + deliveryCash - f.focus
			return true, nil
		}
		if ev.Key == backend.KeyEnter || ev.Key == backend.KeyRune && ev.Rune == ' ' {
			method := model.PaymentCard
			if f.focus == deliveryCash {
				method = model.PaymentCash
			}
			return true, f.pub.Emit(ctx, events.TopicPaymentChanged, events.PaymentChanged{Method: method})
		}
	case deliverySubmit:
		if ev.Key == backend.KeyEnter {
			if !f.valid {
				return true, nil
			}
			return true, f.pub.Emit(ctx, events.TopicOrderSubmitted, nil)
		}
	}
	return false, nil
}

// Draw implements Component.
func (f *DeliveryForm) Draw(c *Canvas) {
	t := f.theme
	c.Text(0, 0, "Payment method", t.Title)

	used := drawChoice(c, 2, 0, LabelCard, f.payment == model.PaymentCard, f.focus == deliveryCard, t)
	drawChoice(c, 2, used+2, LabelCash, f.payment == model.PaymentCash, f.focus == deliveryCash, t)

	f.address.Draw(c.Sub(c.Rect().Inset(4, 0, 0, 0)), 0, f.focus == deliveryAddress, t)

	drawFormFooter(c, LabelNext, f.valid, f.focus == deliverySubmit, f.errors, t)
}

// Contacts form focus positions.
const (
	contactsEmail = iota
	contactsPhone
	contactsSubmit
	contactsFocusCount
)

// ContactsForm collects the email and phone. Field edits are published as
// contacts.<field>.changed through bus triggers.
type ContactsForm struct {
	pub    *event.Publisher
	theme  Theme
	fields [2]TextField
	names  [2]string
	change [2]event.TriggerFunc
	valid  bool
	errors string
	focus  int
}

// NewContactsForm creates the contacts form. It panics if pub is nil.
func NewContactsForm(pub *event.Publisher) *ContactsForm {
	f := &ContactsForm{
		pub:   mustPublisher(pub, "contacts form"),
		theme: DefaultTheme(),
		fields: [2]TextField{
			{Label: "Email", Placeholder: "Enter an email"},
			{Label: "Phone", Placeholder: "+7 ("},
		},
		names: [2]string{model.FieldEmail, model.FieldPhone},
	}
	for i, name := range f.names {
		f.change[i] = pub.Trigger(events.ContactFieldChanged(name), event.Fields{events.FieldKey: name})
	}
	return f
}

// Name implements Component.
func (f *ContactsForm) Name() string { return FormContacts }

// Reset shows the form with v and focuses the first field.
func (f *ContactsForm) Reset(v ContactsView) {
	f.fields[contactsEmail].SetValue(v.Email)
	f.fields[contactsPhone].SetValue(v.Phone)
	f.valid = v.Valid
	f.errors = v.Errors
	f.focus = contactsEmail
}

// SetValidation sets the submit state and the inline error text.
func (f *ContactsForm) SetValidation(valid bool, errors string) {
	f.valid = valid
	f.errors = errors
}

// View returns the current form state.
func (f *ContactsForm) View() ContactsView {
	return ContactsView{
		Email:  f.fields[contactsEmail].Value(),
		Phone:  f.fields[contactsPhone].Value(),
		Valid:  f.valid,
		Errors: f.errors,
	}
}

// HandleKey implements Component.
func (f *ContactsForm) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if ev.Type != backend.EventKey {
		return false, nil
	}
	if focusRing(&f.focus, contactsFocusCount, ev) {
		return true, nil
	}

	if f.focus == contactsSubmit {
		if ev.Key != backend.KeyEnter {
			return false, nil
		}
		if !f.valid {
			return true, nil
		}
		return true, f.pub.Emit(ctx, events.TopicContactsSubmitted, nil)
	}

	field := &f.fields[f.focus]
	if field.HandleKey(ev) {
		return true, f.change[f.focus](ctx, event.Fields{events.ValueKey: field.Value()})
	}
	if ev.Key == backend.KeyEnter {
		f.focus++
		return true, nil
	}
	return false, nil
}

// Draw implements Component.
func (f *ContactsForm) Draw(c *Canvas) {
	t := f.theme
	for i := range f.fields {
		f.fields[i].Draw(c.Sub(c.Rect().Inset(i*3, 0, 0, 0)), 0, f.focus == i, t)
	}
	drawFormFooter(c, LabelPay, f.valid, f.focus == contactsSubmit, f.errors, t)
}

func drawChoice(c *Canvas, row, col int, label string, chosen, focused bool, t Theme) int {
	style := t.Text
	switch {
	case chosen:
		style = t.Button
	case focused:
		style = t.Selected
	}
	if focused {
		style = style.Underline()
	}
	return c.Text(row, col, " "+label+" ", style)
}

func drawFormFooter(c *Canvas, label string, valid, focused bool, errors string, t Theme) {
	bottom := c.Height() - 1
	used := drawButton(c, bottom, 0, label, focused, !valid, t)
	if errors != "" {
		c.Text(bottom, used+2, Truncate(errors, c.Width()-used-2), t.Error)
	}
}

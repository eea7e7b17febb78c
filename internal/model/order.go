package model

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the buyer pays.
type PaymentMethod string

// Payment methods. PaymentNone means nothing was chosen yet.
const (
	PaymentNone PaymentMethod = ""
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// Valid reports whether m is a selectable payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// Order is the checkout draft and the body of an order submission.
type Order struct {
	Payment PaymentMethod   `json:"payment" validate:"required"`
	Address string          `json:"address" validate:"required"`
	Email   string          `json:"email" validate:"required"`
	Phone   string          `json:"phone" validate:"required"`
	Items   []string        `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// Order form fields.
const (
	FieldPayment = "payment"
	FieldAddress = "address"
	FieldEmail   = "email"
	FieldPhone   = "phone"
)

// DeliveryFields are validated by the delivery step, in display order.
var DeliveryFields = []string{FieldPayment, FieldAddress}

// ContactFields are validated by the contacts step, in display order.
var ContactFields = []string{FieldEmail, FieldPhone}

// DefaultOrder returns a fresh draft: card payment, everything else empty.
func DefaultOrder() Order {
	return Order{Payment: PaymentCard, Items: []string{}}
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)
	if o.Items == nil {
		o.Items = []string{}
	}
	return o
}

// OrderResult is the API response to a placed order.
type OrderResult struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
}

// FormErrors maps a field name to a human readable message.
// An empty set means the form may be submitted.
type FormErrors map[string]string

// Empty reports whether there are no errors.
func (e FormErrors) Empty() bool {
	return len(e) == 0
}

// Clone returns an independent copy, never nil.
func (e FormErrors) Clone() FormErrors {
	if e == nil {
		return FormErrors{}
	}
	return maps.Clone(e)
}

// Join returns the messages of the given fields that are set, joined by "; ".
func (e FormErrors) Join(fields ...string) string {
	var parts []string
	for _, f := range fields {
		if msg := e[f]; msg != "" {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Package format renders money amounts for display.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopspring/decimal"
)

// Default display words.
const (
	DefaultUnit      = "synapses"
	DefaultPriceless = "Priceless"
)

// Formatter prints prices with locale digit grouping and a unit word.
type Formatter struct {
	printer   *message.Printer
	unit      string
	priceless string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithLocale sets the locale used for digit grouping. Unparseable tags fall
// back to English.
func WithLocale(tag string) Option {
	return func(f *Formatter) {
		t, err := language.Parse(tag)
		if err != nil {
			t = language.English
		}
		f.printer = message.NewPrinter(t)
	}
}

// WithUnit sets the word printed after amounts.
func WithUnit(unit string) Option {
	return func(f *Formatter) {
		f.unit = unit
	}
}

// WithPriceless sets the text printed for products without a price.
func WithPriceless(text string) Option {
	return func(f *Formatter) {
		f.priceless = text
	}
}

// New creates a Formatter. The zero configuration prints English grouping
// with DefaultUnit and DefaultPriceless.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		printer:   message.NewPrinter(language.English),
		unit:      DefaultUnit,
		priceless: DefaultPriceless,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Number prints d with digit grouping. Fractions keep at most two digits.
func (f *Formatter) Number(d decimal.Decimal) string {
	if d.IsInteger() {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// Amount prints d followed by the unit, e.g. "1,450 synapses".
func (f *Formatter) Amount(d decimal.Decimal) string {
	if f.unit == "" {
		return f.Number(d)
	}
	return f.Number(d) + " " + f.unit
}

// Price prints a product price, or the priceless text when p is null.
func (f *Formatter) Price(p decimal.NullDecimal) string {
	if !p.Valid {
		return f.priceless
	}
	return f.Amount(p.Decimal)
}

// Unit returns the configured unit word.
func (f *Formatter) Unit() string {
	return f.unit
}

package view

import (
	"github.com/shopspring/decimal"

	"github.com/dshills/larek/internal/format"
	"github.com/dshills/larek/internal/model"
)

// Button labels.
const (
	LabelBuy      = "Buy"
	LabelRemove   = "Remove from basket"
	LabelCheckout = "Place order"
	LabelNext     = "Next"
	LabelPay      = "Pay"
	LabelCard     = "Online"
	LabelCash     = "On delivery"
	LabelClose    = "Shop more"
)

// EmptyBasketText is shown instead of the basket list when it has no items.
const EmptyBasketText = "The basket is empty."

// CardView is one catalog card.
type CardView struct {
	ID       string
	Title    string
	Category string
	Price    string
}

// PageView is the page header and catalog.
type PageView struct {
	Counter int
	Cards   []CardView
}

// PreviewView is the product detail card.
type PreviewView struct {
	ID          string
	Title       string
	Category    string
	Description string
	Image       string
	Price       string
	Button      string
	// Disabled greys out the button (priceless products).
	Disabled bool
}

// BasketLine is one numbered basket row.
type BasketLine struct {
	Index int
	ID    string
	Title string
	Price string
}

// BasketView is the basket panel.
type BasketView struct {
	Lines       []BasketLine
	Total       string
	CanCheckout bool
}

// DeliveryView is the delivery form state.
type DeliveryView struct {
	Payment model.PaymentMethod
	Address string
	Valid   bool
	Errors  string
}

// ContactsView is the contacts form state.
type ContactsView struct {
	Email  string
	Phone  string
	Valid  bool
	Errors string
}

// SuccessView is the order confirmation.
type SuccessView struct {
	Total string
}

// CardViewOf builds a catalog card from a product.
func CardViewOf(p model.Product, f *format.Formatter) CardView {
	return CardView{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Price:    f.Price(p.Price),
	}
}

// PageViewOf builds the page view-model from the catalog and basket size.
func PageViewOf(catalog []model.Product, counter int, f *format.Formatter) PageView {
	cards := make([]CardView, 0, len(catalog))
	for _, p := range catalog {
		cards = append(cards, CardViewOf(p, f))
	}
	return PageView{Counter: counter, Cards: cards}
}

// PreviewViewOf builds the detail card. The button offers removal when the
// product is already in the basket and is disabled for priceless products.
func PreviewViewOf(p model.Product, inBasket bool, f *format.Formatter) PreviewView {
	v := PreviewView{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Price:       f.Price(p.Price),
		Button:      LabelBuy,
		Disabled:    p.Priceless(),
	}
	if inBasket {
		v.Button = LabelRemove
	}
	return v
}

// BasketViewOf builds the basket panel from the basket contents.
func BasketViewOf(items []model.Product, total decimal.Decimal, f *format.Formatter) BasketView {
	lines := make([]BasketLine, 0, len(items))
	for i, p := range items {
		lines = append(lines, BasketLine{
			Index: i + 1,
			ID:    p.ID,
			Title: p.Title,
			Price: f.Price(p.Price),
		})
	}
	return BasketView{
		Lines:       lines,
		Total:       f.Amount(total),
		CanCheckout: len(lines) > 0,
	}
}

// SuccessViewOf builds the confirmation from the charged total.
func SuccessViewOf(total decimal.Decimal, f *format.Formatter) SuccessView {
	return SuccessView{Total: f.Amount(total)}
}

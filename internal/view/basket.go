package view

import (
	"context"
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/renderer/backend"
)

// Basket is the basket panel shown in the modal.
type Basket struct {
	pub      *event.Publisher
	theme    Theme
	view     BasketView
	selected int
}

// NewBasket creates the basket panel. It panics if pub is nil.
func NewBasket(pub *event.Publisher) *Basket {
	return &Basket{pub: mustPublisher(pub, "basket"), theme: DefaultTheme()}
}

// Name implements Component.
func (b *Basket) Name() string { return "basket" }

// Update replaces the basket lines and total.
func (b *Basket) Update(v BasketView) {
	b.view = BasketView{
		Lines:       append([]BasketLine(nil), v.Lines...),
		Total:       v.Total,
		CanCheckout: v.CanCheckout && len(v.Lines) > 0,
	}
	if b.selected >= len(b.view.Lines) {
		b.selected = max(len(b.view.Lines)-1, 0)
	}
}

// View returns the current view-model.
func (b *Basket) View() BasketView { return b.view }

// HandleKey moves the selection, publishes product.removed on d/Delete and
// order.opened on Enter when checkout is enabled.
func (b *Basket) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if ev.Type != backend.EventKey {
		return false, nil
	}

	switch {
	case ev.Key == backend.KeyUp:
		if b.selected > 0 {
			b.selected--
		}
	case ev.Key == backend.KeyDown:
		if b.selected < len(b.view.Lines)-1 {
			b.selected++
		}
	case ev.Key == backend.KeyDelete, ev.Key == backend.KeyRune && (ev.Rune == 'd' || ev.Rune == 'D'):
		if len(b.view.Lines) == 0 {
			return true, nil
		}
		line := b.view.Lines[b.selected]
		return true, b.pub.Emit(ctx, events.TopicProductRemoved, events.ProductRemoved{ProductID: line.ID})
	case ev.Key == backend.KeyEnter:
		if !b.view.CanCheckout {
			return true, nil
		}
		return true, b.pub.Emit(ctx, events.TopicOrderOpened, nil)
	default:
		return false, nil
	}
	return true, nil
}

// Draw implements Component.
func (b *Basket) Draw(c *Canvas) {
	t := b.theme
	w := c.Width()
	c.Text(0, 0, "Basket", t.Title)

	if len(b.view.Lines) == 0 {
		for i, line := range Wrap(EmptyBasketText, w) {
			c.Text(2+i, 0, line, t.Muted)
		}
	}

	listRows := max(c.Height()-4, 1)
	first := max(b.selected-listRows+1, 0)
	for i, line := range b.view.Lines {
		row := 2 + i - first
		if row < 2 || row >= 2+listRows {
			continue
		}
		style := t.Text
		if i == b.selected {
			style = t.Selected
		}
		idx := fmt.Sprintf("%2d  ", line.Index)
		price := line.Price
		used := c.Text(row, 0, idx, t.Muted)
		c.Text(row, used, Truncate(line.Title, w-used-uniseg.StringWidth(price)-2), style)
		c.TextRight(row, price, t.Price)
	}

	bottom := c.Height() - 1
	drawButton(c, bottom, 0, LabelCheckout, true, !b.view.CanCheckout, t)
	c.TextRight(bottom, b.view.Total, t.Price)
}

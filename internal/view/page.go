package view

import (
	"context"
	"fmt"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/renderer/backend"
	"github.com/dshills/larek/internal/renderer/core"
)

const (
	cardHeight = 5
	headerRows = 2
	footerRows = 1
)

// PageHelp is shown in the footer while no status message is set.
const PageHelp = "←↑↓→ move  Enter open  b basket  q quit"

// Page is the catalog grid with the basket counter header.
type Page struct {
	pub     *event.Publisher
	theme   Theme
	columns int

	view     PageView
	selected int
	offset   int // first visible card row
	locked   bool
	status   string
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithColumns sets the number of cards per row.
func WithColumns(n int) PageOption {
	return func(p *Page) {
		if n > 0 {
			p.columns = n
		}
	}
}

// WithPageTheme sets the page theme.
func WithPageTheme(t Theme) PageOption {
	return func(p *Page) {
		p.theme = t
	}
}

// NewPage creates the page. It panics if pub is nil.
func NewPage(pub *event.Publisher, opts ...PageOption) *Page {
	p := &Page{
		pub:     mustPublisher(pub, "page"),
		theme:   DefaultTheme(),
		columns: 3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements Component.
func (p *Page) Name() string { return "page" }

// Update replaces the whole page view-model.
func (p *Page) Update(v PageView) {
	p.view = PageView{Counter: v.Counter, Cards: append([]CardView(nil), v.Cards...)}
	p.clampSelection()
}

// SetCounter sets the basket counter in the header.
func (p *Page) SetCounter(n int) {
	p.view.Counter = n
}

// SetCatalog replaces the catalog cards.
func (p *Page) SetCatalog(cards []CardView) {
	p.view.Cards = append([]CardView(nil), cards...)
	p.clampSelection()
}

// SetLocked makes the page ignore keys while the modal is open.
func (p *Page) SetLocked(locked bool) {
	p.locked = locked
}

// SetStatus shows msg in the footer; an empty msg restores the key help.
func (p *Page) SetStatus(msg string) {
	p.status = msg
}

// View returns the current view-model.
func (p *Page) View() PageView { return p.view }

// Locked reports whether the page ignores keys.
func (p *Page) Locked() bool { return p.locked }

// Status returns the footer message.
func (p *Page) Status() string { return p.status }

// Selected returns the selected card, if any.
func (p *Page) Selected() (CardView, bool) {
	if p.selected < 0 || p.selected >= len(p.view.Cards) {
		return CardView{}, false
	}
	return p.view.Cards[p.selected], true
}

func (p *Page) clampSelection() {
	if p.selected >= len(p.view.Cards) {
		p.selected = len(p.view.Cards) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

// HandleKey implements Component.
func (p *Page) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if p.locked || ev.Type != backend.EventKey {
		return false, nil
	}

	n := len(p.view.Cards)
	switch ev.Key {
	case backend.KeyLeft:
		p.move(-1)
	case backend.KeyRight:
		p.move(1)
	case backend.KeyUp:
		p.move(-p.columns)
	case backend.KeyDown:
		p.move(p.columns)
	case backend.KeyHome:
		p.selected = 0
	case backend.KeyEnd:
		p.selected = max(n-1, 0)
	case backend.KeyEnter:
		card, ok := p.Selected()
		if !ok {
			return true, nil
		}
		return true, p.pub.Emit(ctx, events.TopicCardSelected, events.CardSelected{ProductID: card.ID})
	case backend.KeyRune:
		if ev.Rune == 'b' || ev.Rune == 'B' {
			return true, p.pub.Emit(ctx, events.TopicBasketOpened, nil)
		}
		return false, nil
	default:
		return false, nil
	}
	return true, nil
}

func (p *Page) move(delta int) {
	next := p.selected + delta
	if next >= 0 && next < len(p.view.Cards) {
		p.selected = next
	}
}

// Draw implements Component.
func (p *Page) Draw(c *Canvas) {
	t := p.theme
	c.Fill(t.Text)

	c.Text(0, 1, "WEB-LAREK", t.Title)
	c.TextRight(0, fmt.Sprintf("Basket [%d] ", p.view.Counter), t.Selected)
	c.HLine(1, t.Border)

	grid := c.Sub(core.ScreenRect{Top: headerRows, Left: 0, Bottom: c.Height() - footerRows, Right: c.Width()})
	p.drawGrid(grid)

	footer := p.status
	style := t.Status
	if footer == "" {
		footer, style = PageHelp, t.Muted
	}
	c.Text(c.Height()-1, 1, Truncate(footer, c.Width()-2), style)
}

func (p *Page) drawGrid(c *Canvas) {
	t := p.theme
	if len(p.view.Cards) == 0 {
		c.TextCenter(c.Height()/2, "Loading catalog…", t.Muted)
		return
	}

	cols := p.columns
	cardW := c.Width() / cols
	visibleRows := max(c.Height()/cardHeight, 1)

	// Keep the selected row on screen.
	row := p.selected / cols
	if row < p.offset {
		p.offset = row
	}
	if row >= p.offset+visibleRows {
		p.offset = row - visibleRows + 1
	}

	for i, card := range p.view.Cards {
		r := i/cols - p.offset
		if r < 0 || r >= visibleRows {
			continue
		}
		cell := c.Sub(core.RectFromSize(r*cardHeight, (i%cols)*cardW, cardHeight, cardW))
		p.drawCard(cell, card, i == p.selected && !p.locked)
	}
}

func (p *Page) drawCard(c *Canvas, card CardView, selected bool) {
	t := p.theme
	border := t.Border
	if selected {
		border = t.Selected
	}
	inner := c.Box("", border)
	inner.Text(0, 0, Truncate(" "+card.Category+" ", inner.Width()), CategoryStyle(card.Category))
	title := t.Text
	if selected {
		title = t.Selected
	}
	inner.Text(1, 0, Truncate(card.Title, inner.Width()), title)
	inner.TextRight(2, Truncate(card.Price, inner.Width()), t.Price)
}

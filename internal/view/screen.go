package view

import (
	"context"

	"github.com/dshills/larek/internal/renderer/backend"
)

// Screen draws the page with the modal on top and routes keys.
type Screen struct {
	b     backend.Backend
	page  *Page
	modal *Modal
}

// NewScreen composes the page and modal over b. It panics if any argument
// is nil.
func NewScreen(b backend.Backend, page *Page, modal *Modal) *Screen {
	if b == nil {
		panic("view: screen: nil backend")
	}
	if page == nil || modal == nil {
		panic("view: screen: missing page or modal")
	}
	return &Screen{b: b, page: page, modal: modal}
}

// Draw renders a full frame and flushes it.
func (s *Screen) Draw() {
	s.b.HideCursor()
	c := NewCanvas(s.b)
	s.page.Draw(c)
	s.modal.Draw(c)
	s.b.Show()
}

// HandleKey sends the key to the modal when it is open, else to the page.
func (s *Screen) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if s.modal.IsOpen() {
		return s.modal.HandleKey(ctx, ev)
	}
	return s.page.HandleKey(ctx, ev)
}

// Page returns the page.
func (s *Screen) Page() *Page { return s.page }

// Modal returns the modal.
func (s *Screen) Modal() *Modal { return s.modal }

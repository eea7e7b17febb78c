package view

import (
	"context"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/renderer/backend"
)

// Modal hosts one component over the page.
type Modal struct {
	pub     *event.Publisher
	theme   Theme
	content Component
}

// NewModal creates a closed modal. It panics if pub is nil.
func NewModal(pub *event.Publisher) *Modal {
	return &Modal{pub: mustPublisher(pub, "modal"), theme: DefaultTheme()}
}

// Name implements Component.
func (m *Modal) Name() string { return "modal" }

// Open shows content and publishes modal.opened. Opening while open swaps
// the content and publishes again. It panics if content is nil.
func (m *Modal) Open(ctx context.Context, content Component) error {
	if content == nil {
		panic("view: modal opened without content")
	}
	m.content = content
	return m.pub.Emit(ctx, events.TopicModalOpened, events.ModalToggled{Content: content.Name()})
}

// Close hides the content and publishes modal.closed. Closing a closed
// modal does nothing.
func (m *Modal) Close(ctx context.Context) error {
	if m.content == nil {
		return nil
	}
	name := m.content.Name()
	m.content = nil
	return m.pub.Emit(ctx, events.TopicModalClosed, events.ModalToggled{Content: name})
}

// IsOpen reports whether the modal shows anything.
func (m *Modal) IsOpen() bool { return m.content != nil }

// Content returns the hosted component, or nil.
func (m *Modal) Content() Component { return m.content }

// Showing reports whether c is the hosted component.
func (m *Modal) Showing(c Component) bool {
	return m.content != nil && m.content == c
}

// HandleKey closes on Esc and forwards everything else to the content.
func (m *Modal) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if m.content == nil {
		return false, nil
	}
	if ev.Type == backend.EventKey && ev.Key == backend.KeyEscape {
		return true, m.Close(ctx)
	}
	return m.content.HandleKey(ctx, ev)
}

// Draw renders the content in a centered frame.
func (m *Modal) Draw(c *Canvas) {
	if m.content == nil {
		return
	}
	w := min(max(c.Width()*3/4, 40), c.Width())
	h := min(max(c.Height()*3/4, 14), c.Height())
	frame := c.Sub(c.Rect().Center(w, h))
	frame.Fill(m.theme.Text)
	inner := frame.Box("Esc to close", m.theme.Border)
	m.content.Draw(inner.Sub(inner.Rect().Inset(0, 1, 0, 1)))
}

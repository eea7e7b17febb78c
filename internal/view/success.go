package view

import (
	"context"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/renderer/backend"
)

// Success confirms a placed order.
type Success struct {
	pub   *event.Publisher
	theme Theme
	view  SuccessView
}

// NewSuccess creates the confirmation panel. It panics if pub is nil.
func NewSuccess(pub *event.Publisher) *Success {
	return &Success{pub: mustPublisher(pub, "success"), theme: DefaultTheme()}
}

// Name implements Component.
func (s *Success) Name() string { return "success" }

// Update sets the charged total.
func (s *Success) Update(v SuccessView) { s.view = v }

// Message returns the confirmation line, e.g. "Charged 1,450 synapses".
func (s *Success) Message() string {
	return "Charged " + s.view.Total
}

// HandleKey publishes success.closed on Enter.
func (s *Success) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if ev.Type != backend.EventKey || ev.Key != backend.KeyEnter {
		return false, nil
	}
	return true, s.pub.Emit(ctx, events.TopicSuccessClosed, nil)
}

// Draw implements Component.
func (s *Success) Draw(c *Canvas) {
	t := s.theme
	mid := c.Height() / 2
	c.TextCenter(mid-2, "✓", t.Selected)
	c.TextCenter(mid-1, "Order placed", t.Title)
	c.TextCenter(mid, s.Message(), t.Muted)
	w := len("[ " + LabelClose + " ]")
	drawButton(c, c.Height()-1, max((c.Width()-w)/2, 0), LabelClose, true, false, t)
}

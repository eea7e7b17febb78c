package view

import (
	"context"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/event/events"
	"github.com/dshills/larek/internal/renderer/backend"
)

// Preview is the product detail card shown in the modal.
type Preview struct {
	pub   *event.Publisher
	theme Theme
	view  PreviewView
}

// NewPreview creates the detail card. It panics if pub is nil.
func NewPreview(pub *event.Publisher) *Preview {
	return &Preview{pub: mustPublisher(pub, "preview"), theme: DefaultTheme()}
}

// Name implements Component.
func (p *Preview) Name() string { return "preview" }

// Update sets the product shown.
func (p *Preview) Update(v PreviewView) { p.view = v }

// View returns the current view-model.
func (p *Preview) View() PreviewView { return p.view }

// HandleKey publishes preview.toggled on Enter unless the button is disabled.
func (p *Preview) HandleKey(ctx context.Context, ev backend.Event) (bool, error) {
	if ev.Type != backend.EventKey || ev.Key != backend.KeyEnter {
		return false, nil
	}
	if p.view.Disabled || p.view.ID == "" {
		return true, nil
	}
	return true, p.pub.Emit(ctx, events.TopicPreviewToggled, events.PreviewToggled{ProductID: p.view.ID})
}

// Draw implements Component.
func (p *Preview) Draw(c *Canvas) {
	t := p.theme
	w := c.Width()

	c.Text(0, 0, Truncate(" "+p.view.Category+" ", w), CategoryStyle(p.view.Category))
	c.Text(2, 0, Truncate(p.view.Title, w), t.Title)
	c.Text(3, 0, Truncate(p.view.Image, w), t.Muted)

	row := 5
	for _, line := range Wrap(p.view.Description, w) {
		if row >= c.Height()-2 {
			break
		}
		c.Text(row, 0, line, t.Text)
		row++
	}

	bottom := c.Height() - 1
	used := drawButton(c, bottom, 0, p.view.Button, true, p.view.Disabled, t)
	c.Text(bottom, used+2, p.view.Price, t.Price)
}

package view

import (
	"context"

	"github.com/rivo/uniseg"

	"github.com/dshills/larek/internal/event"
	"github.com/dshills/larek/internal/renderer/backend"
)

// Component is a drawable, key-driven piece of the screen.
type Component interface {
	// Name identifies the component in modal events.
	Name() string

	// Draw renders the component onto c.
	Draw(c *Canvas)

	// HandleKey reacts to a key event. It reports whether the key was
	// consumed and returns the errors of any intent it published.
	HandleKey(ctx context.Context, ev backend.Event) (bool, error)
}

func mustPublisher(pub *event.Publisher, component string) *event.Publisher {
	if pub == nil {
		panic("view: " + component + ": nil publisher")
	}
	return pub
}

// TextField is a single-line text input.
type TextField struct {
	Label       string
	Placeholder string
	value       string
}

// Value returns the current text.
func (f *TextField) Value() string { return f.value }

// SetValue replaces the text.
func (f *TextField) SetValue(v string) { f.value = v }

// HandleKey edits the text and reports whether it changed.
func (f *TextField) HandleKey(ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyRune:
		if ev.Rune < ' ' {
			return false
		}
		f.value += string(ev.Rune)
		return true
	case backend.KeyBackspace:
		if f.value == "" {
			return false
		}
		f.value = dropLastGrapheme(f.value)
		return true
	}
	return false
}

// Draw renders the label on row and the input box on row+1.
func (f *TextField) Draw(c *Canvas, row int, focused bool, theme Theme) {
	c.Text(row, 0, f.Label, theme.Muted)

	style := theme.Text.Underline()
	if focused {
		style = theme.Selected.Underline()
	}
	for x := 0; x < c.Width(); x++ {
		c.Set(row+1, x, ' ', style)
	}
	if f.value == "" && !focused {
		c.Text(row+1, 0, Truncate(f.Placeholder, c.Width()), theme.Muted.Underline())
		return
	}

	// Keep the end of long input visible.
	text := f.value
	for uniseg.StringWidth(text) > c.Width()-1 && text != "" {
		text = dropFirstGrapheme(text)
	}
	used := c.Text(row+1, 0, text, style)
	if focused {
		c.ShowCursor(row+1, used)
	}
}

func dropLastGrapheme(s string) string {
	last := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		last, _ = g.Positions()
	}
	return s[:last]
}

func dropFirstGrapheme(s string) string {
	g := uniseg.NewGraphemes(s)
	if !g.Next() {
		return s
	}
	_, end := g.Positions()
	return s[end:]
}

// drawButton renders a button label at (row, col) and returns its width.
func drawButton(c *Canvas, row, col int, label string, focused, disabled bool, theme Theme) int {
	style := theme.Text.Reverse()
	switch {
	case disabled:
		style = theme.Disabled
	case focused:
		style = theme.Button.Bold()
	}
	return c.Text(row, col, "[ "+label+" ]", style)
}

// focusRing moves a focus index through n positions on Tab, Backtab, Up
// and Down. It reports whether the key was a focus key.
func focusRing(focus *int, n int, ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyTab, backend.KeyDown:
		*focus = (*focus + 1) % n
	case backend.KeyBacktab, backend.KeyUp:
		*focus = (*focus + n - 1) % n
	default:
		return false
	}
	return true
}

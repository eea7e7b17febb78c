package view

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/larek/internal/renderer/backend"
	"github.com/dshills/larek/internal/renderer/core"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// Canvas is a clipped drawing region of a backend.
type Canvas struct {
	b      backend.Backend
	bounds core.ScreenRect
}

// NewCanvas returns a canvas covering the whole backend.
// It panics if b is nil.
func NewCanvas(b backend.Backend) *Canvas {
	if b == nil {
		panic("view: nil backend")
	}
	w, h := b.Size()
	return &Canvas{b: b, bounds: core.RectFromSize(0, 0, h, w)}
}

// Sub returns a canvas for rect, given in this canvas' coordinates and
// clipped to its bounds.
func (c *Canvas) Sub(rect core.ScreenRect) *Canvas {
	abs := core.ScreenRect{
		Top:    rect.Top + c.bounds.Top,
		Left:   rect.Left + c.bounds.Left,
		Bottom: rect.Bottom + c.bounds.Top,
		Right:  rect.Right + c.bounds.Left,
	}
	return &Canvas{b: c.b, bounds: c.bounds.Intersection(abs)}
}

// Width returns the canvas width.
func (c *Canvas) Width() int { return c.bounds.Width() }

// Height returns the canvas height.
func (c *Canvas) Height() int { return c.bounds.Height() }

// Rect returns the canvas area in its own coordinates.
func (c *Canvas) Rect() core.ScreenRect {
	return core.RectFromSize(0, 0, c.Height(), c.Width())
}

// Fill paints the whole canvas with blanks in style.
func (c *Canvas) Fill(style core.Style) {
	c.b.Fill(c.bounds, core.NewStyledCell(' ', style))
}

// Set draws a single cell.
func (c *Canvas) Set(row, col int, r rune, style core.Style) {
	if !c.bounds.Contains(row+c.bounds.Top, col+c.bounds.Left) {
		return
	}
	c.b.SetCell(col+c.bounds.Left, row+c.bounds.Top, core.NewStyledCell(r, style))
}

// Text draws s at (row, col), clipped to the canvas, and returns the number
// of columns used. Each grapheme cluster occupies its display width.
func (c *Canvas) Text(row, col int, s string, style core.Style) int {
	if row < 0 || row >= c.Height() {
		return 0
	}
	x := col
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > c.Width() {
			break
		}
		if x >= 0 {
			runes := g.Runes()
			cell := core.Cell{Rune: runes[0], Width: w, Style: style}
			c.b.SetCell(x+c.bounds.Left, row+c.bounds.Top, cell)
			for i := 1; i < w; i++ {
				c.b.SetCell(x+i+c.bounds.Left, row+c.bounds.Top, core.ContinuationCell())
			}
		}
		x += w
	}
	return x - col
}

// TextRight draws s so that it ends at the right edge of row.
func (c *Canvas) TextRight(row int, s string, style core.Style) {
	c.Text(row, max(c.Width()-uniseg.StringWidth(s), 0), s, style)
}

// TextCenter draws s centered on row.
func (c *Canvas) TextCenter(row int, s string, style core.Style) {
	c.Text(row, max((c.Width()-uniseg.StringWidth(s))/2, 0), s, style)
}

// HLine draws a horizontal rule across row.
func (c *Canvas) HLine(row int, style core.Style) {
	for x := 0; x < c.Width(); x++ {
		c.Set(row, x, '─', style)
	}
}

// Box draws a single-line border around the canvas with an optional title
// and returns the canvas inside the border.
func (c *Canvas) Box(title string, style core.Style) *Canvas {
	w, h := c.Width(), c.Height()
	if w < 2 || h < 2 {
		return c.Sub(core.ScreenRect{})
	}
	for x := 1; x < w-1; x++ {
		c.Set(0, x, '─', style)
		c.Set(h-1, x, '─', style)
	}
	for y := 1; y < h-1; y++ {
		c.Set(y, 0, '│', style)
		c.Set(y, w-1, '│', style)
	}
	c.Set(0, 0, '┌', style)
	c.Set(0, w-1, '┐', style)
	c.Set(h-1, 0, '└', style)
	c.Set(h-1, w-1, '┘', style)
	if title != "" && w > 4 {
		c.Text(0, 2, Truncate(" "+title+" ", w-4), style)
	}
	return c.Sub(c.Rect().Inset(1, 1, 1, 1))
}

// ShowCursor places the terminal cursor at (row, col) if it is inside the canvas.
func (c *Canvas) ShowCursor(row, col int) {
	if c.bounds.Contains(row+c.bounds.Top, col+c.bounds.Left) {
		c.b.ShowCursor(col+c.bounds.Left, row+c.bounds.Top)
	}
}

// Truncate shortens s to at most width columns, ending with Ellipsis when
// anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	var sb strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		sb.WriteString(g.Str())
		used += w
	}
	return sb.String() + Ellipsis
}

// Wrap breaks s into lines of at most width columns, splitting at spaces
// where possible. Explicit newlines are kept.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line, lineW := "", 0
		for _, word := range strings.Fields(para) {
			ww := uniseg.StringWidth(word)
			for ww > width {
				// Hard-break words longer than the line.
				if line != "" {
					lines = append(lines, line)
					line, lineW = "", 0
				}
				head, rest := splitAtWidth(word, width)
				lines = append(lines, head)
				word, ww = rest, uniseg.StringWidth(rest)
			}
			switch {
			case line == "":
				line, lineW = word, ww
			case lineW+1+ww <= width:
				line += " " + word
				lineW += 1 + ww
			default:
				lines = append(lines, line)
				line, lineW = word, ww
			}
		}
		if line != "" || len(strings.Fields(para)) == 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitAtWidth splits s after the last grapheme fitting in width columns.
func splitAtWidth(s string, width int) (string, string) {
	used, cut := 0, 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		used += w
		_, cut = g.Positions()
	}
	return s[:cut], s[cut:]
}

package view

import (
	"hash/fnv"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/larek/internal/renderer/core"
)

// Theme holds the styles components draw with.
type Theme struct {
	Text     core.Style
	Muted    core.Style
	Title    core.Style
	Border   core.Style
	Selected core.Style
	Button   core.Style
	Disabled core.Style
	Error    core.Style
	Status   core.Style
	Price    core.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	accent := core.FromColorful(colorful.Hsv(265, 0.55, 0.95))
	return Theme{
		Text:     core.DefaultStyle(),
		Muted:    core.NewStyle(core.ColorGray),
		Title:    core.DefaultStyle().Bold(),
		Border:   core.NewStyle(core.ColorGray),
		Selected: core.NewStyle(accent).Bold(),
		Button:   core.NewStyle(core.ColorBlack).WithBackground(accent),
		Disabled: core.NewStyle(core.ColorGray).Dim(),
		Error:    core.NewStyle(core.ColorRed),
		Status:   core.NewStyle(core.ColorYellow),
		Price:    core.NewStyle(core.ColorWhite).Bold(),
	}
}

// categoryHues pins the known catalog categories to fixed hues.
var categoryHues = map[string]float64{
	"софт-скил":      95,  // soft skill
	"хард-скил":      25,  // hard skill
	"кнопка":         200, // button
	"дополнительное": 280, // additional
	"другое":         45,  // other
	"soft-skill":     95,
	"hard-skill":     25,
	"button":         200,
	"additional":     280,
	"other":          45,
}

// CategoryStyle returns the label style of a product category. Unknown
// categories get a stable hue derived from their name.
func CategoryStyle(category string) core.Style {
	hue, ok := categoryHues[category]
	if !ok {
		h := fnv.New32a()
		_, _ = h.Write([]byte(category))
		hue = float64(h.Sum32() % 360)
	}
	bg := core.FromColorful(colorful.Hsv(hue, 0.5, 0.85))
	return core.NewStyle(core.ColorBlack).WithBackground(bg)
}

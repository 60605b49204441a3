// Package style provides small rendering helpers on top of lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/imgscout/imgscout/key"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/viper"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

func render(s lipgloss.Style, str string) string {
	if !viper.GetBool(key.CliColored) {
		return str
	}
	return s.Render(str)
}

// Fg returns a renderer applying the foreground color.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return render(New().Foreground(c), s) }
}

// Truncate cuts s to max cells, marking the cut with an ellipsis.
func Truncate(max int) func(string) string {
	return func(s string) string { return truncate.StringWithTail(s, uint(max), "…") }
}

var (
	Faint = func(s string) string { return render(New().Faint(true), s) }
	Bold  = func(s string) string { return render(New().Bold(true), s) }
)

// Tag renders s as a padded label.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return render(New().Foreground(fg).Background(bg).Padding(0, 1), s) }
}

package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Detail     lipgloss.Style
	Label      lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Unselected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF0000")),
	Detail: lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7B61FF")),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")),
}

// Color returns a style drawing text in a packed 0xRRGGBBAA color
func Color(rgba uint32) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex(rgba)))
}

func hex(rgba uint32) string {
	const digits = "0123456789ABCDEF"
	rgb := rgba >> 8
	out := []byte("#000000")
	for i := 6; i >= 1; i-- {
		out[i] = digits[rgb&0xF]
		rgb >>= 4
	}
	return string(out)
}

package views

import (
	"fmt"
	"strings"

	"cialist/internal/tui/common"
	"cialist/internal/tui/components"
	"cialist/internal/tui/styles"
)

// RenderMainView draws the header, the rendered list body and the footer
func RenderMainView(m common.ModelReader, body string) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(m))
	sb.WriteString("\n")

	if m.Mode() == common.Detail {
		if slot, ok := m.Selected(); ok {
			sb.WriteString(components.RenderDetails(slot))
		} else {
			sb.WriteString(styles.Theme.Unselected.Render("Nothing selected"))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(body)
	}

	if err := m.Err(); err != nil {
		sb.WriteString("\n" + styles.Theme.Error.Render(err.Error()))
	}

	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp())
	}
	sb.WriteString("\n" + RenderKeyCommands())

	return styles.Theme.App.Render(sb.String())
}

func renderHeader(m common.ModelReader) string {
	dir := m.CurrentDir()
	if dir == "" {
		dir = "/"
	}
	count := fmt.Sprintf("%d entries", len(m.Slots()))
	if m.Loading() {
		count += " (loading)"
	}
	return styles.Theme.Title.Render(dir) + "  " + styles.Theme.Label.Render(count)
}

func RenderKeyCommands() string {
	return styles.Theme.Help.Render(
		"[↑/k] Up  [↓/j] Down  [Enter] Open  [Backspace] Parent  [i] Details  [r] Refresh  [c] Cancel  [q] Quit  [?] Help")
}

func RenderHelp() string {
	return styles.Theme.Help.Render(`
Directories are listed first in the directory color.
Installable packages show their title when metadata is present,
otherwise their title ID. A listing loads in the background and
entries appear as they are read; [c] stops it where it is.
`)
}

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cialist/internal/tui/styles"
)

type StatusBar struct {
	text    string
	isError bool
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{
		style:   styles.Theme.Help,
		spinner: s,
	}
}

// Tick starts the spinner animation
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.isError = false
}

// SetError shows text in the error style
func (s *StatusBar) SetError(text string) {
	s.text = text
	s.isError = true
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	style := s.style
	if s.isError {
		style = styles.Theme.Error
	}
	if s.loading {
		return style.Render(s.spinner.View() + " " + s.text)
	}
	return style.Render(s.text)
}

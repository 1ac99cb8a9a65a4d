package main

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A9"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7B61FF"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#959595"))
)

func successText(s string) string { return successStyle.Render("✓ " + s) }
func errorText(s string) string   { return errorStyle.Render("✗ " + s) }
func infoText(s string) string    { return infoStyle.Render(s) }
func headerText(s string) string  { return headerStyle.Render(s) }
func labelText(s string) string   { return labelStyle.Render(s) }

package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header  lipgloss.Style
	name    lipgloss.Style
	size    lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
	pending lipgloss.Style
	summary lipgloss.Style
	help    lipgloss.Style
}

// newStyles picks a palette for a light or dark terminal background.
func newStyles(light bool) styles {
	fg := func(dark, onLight string) lipgloss.Style {
		if light {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(onLight))
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(dark))
	}
	return styles{
		header:  fg("99", "55").Bold(true),
		name:    fg("252", "236"),
		size:    fg("45", "25"),
		ok:      fg("42", "28").Bold(true),
		failed:  fg("196", "160").Bold(true),
		pending: fg("245", "243"),
		summary: lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.NormalBorder()),
		help:    fg("241", "246"),
	}
}

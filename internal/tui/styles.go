package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// flavour is the subset of a catppuccin flavor the UI needs. Declared
// locally so any flavor value satisfies it structurally.
type flavour interface {
	Base() catppuccin.Color
	Surface0() catppuccin.Color
	Surface1() catppuccin.Color
	Overlay1() catppuccin.Color
	Text() catppuccin.Color
	Subtext0() catppuccin.Color
	Mauve() catppuccin.Color
	Red() catppuccin.Color
	Green() catppuccin.Color
	Peach() catppuccin.Color
	Yellow() catppuccin.Color
	Blue() catppuccin.Color
	Lavender() catppuccin.Color
}

func flavourByName(name string) flavour {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

// Styles bundles every lipgloss style the views use, built from one
// catppuccin flavor so the theme preference restyles the whole UI.
type Styles struct {
	Title           lipgloss.Style
	Status          lipgloss.Style
	Help            lipgloss.Style
	Error           lipgloss.Style
	Success         lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	TabGap      lipgloss.Style

	ColumnHeader lipgloss.Style

	Display lipgloss.Style // big stopwatch readout
	Running lipgloss.Style
	Paused  lipgloss.Style
	Idle    lipgloss.Style

	Selected lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Archived lipgloss.Style
	Badge    lipgloss.Style

	ProjectBar lipgloss.Style
	DateBar    lipgloss.Style

	Prompt lipgloss.Style
	Box    lipgloss.Style
}

// NewStyles builds the style set for a flavor name (latte, frappe,
// macchiato, mocha). Unknown names fall back to mocha.
func NewStyles(theme string) Styles {
	f := flavourByName(theme)

	c := func(col catppuccin.Color) lipgloss.Color {
		return lipgloss.Color(col.Hex)
	}

	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(c(f.Mauve())),
		Status:  lipgloss.NewStyle().Foreground(c(f.Overlay1())),
		Help:    lipgloss.NewStyle().Foreground(c(f.Overlay1())),
		Error:   lipgloss.NewStyle().Foreground(c(f.Red())).Bold(true),
		Success: lipgloss.NewStyle().Foreground(c(f.Green())),

		ActiveTab:   lipgloss.NewStyle().Bold(true).Background(c(f.Mauve())).Foreground(c(f.Base())).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(c(f.Overlay1())).Padding(0, 2),
		TabGap:      lipgloss.NewStyle().Foreground(c(f.Overlay1())),

		ColumnHeader: lipgloss.NewStyle().Bold(true).Foreground(c(f.Subtext0())).Underline(true),

		Display: lipgloss.NewStyle().Bold(true).Foreground(c(f.Lavender())),
		Running: lipgloss.NewStyle().Foreground(c(f.Green())).Bold(true),
		Paused:  lipgloss.NewStyle().Foreground(c(f.Peach())).Bold(true),
		Idle:    lipgloss.NewStyle().Foreground(c(f.Overlay1())),

		Selected: lipgloss.NewStyle().Background(c(f.Surface1())).Foreground(c(f.Text())).Bold(true),
		Normal:   lipgloss.NewStyle().Foreground(c(f.Text())),
		Muted:    lipgloss.NewStyle().Foreground(c(f.Overlay1())),
		Archived: lipgloss.NewStyle().Foreground(c(f.Overlay1())).Strikethrough(true),
		Badge:    lipgloss.NewStyle().Background(c(f.Surface0())).Foreground(c(f.Yellow())).Padding(0, 1),

		ProjectBar: lipgloss.NewStyle().Foreground(c(f.Blue())),
		DateBar:    lipgloss.NewStyle().Foreground(c(f.Green())),

		Prompt: lipgloss.NewStyle().Foreground(c(f.Yellow())).Bold(true),
		Box:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(f.Surface1())).Padding(0, 1),
	}
}

package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the panel
type Styles struct {
	Title         Style
	Prompt        Style
	Dim           Style
	Status        Style
	StatusError   Style
	StatusSuccess Style
	FlagOn        Style
	FlagOff       Style
	Highlight     Style
	PopupBox      Style
	Selected      Style
	HelpKey       Style
	HelpDesc      Style
	HelpSection   Style
}

// Style aliases lipgloss.Style so callers only import this package.
type Style = lipgloss.Style

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Prompt:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		FlagOn:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		FlagOff:       lipgloss.NewStyle().Faint(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		HelpKey:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		HelpDesc:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		HelpSection: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}

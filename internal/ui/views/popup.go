package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers a popup box over dimmed main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	if w := lipgloss.Width(styledPopup); w > width-6 { // keep a small margin
		styledPopup = popupStyle.Width(width - 6).Render(popupContent)
	}

	modalH := lipgloss.Height(styledPopup)
	if modalH > height {
		modalH = height
	}
	y := (height - modalH) / 2

	// Greyscale base so the popup reads as the focused surface
	baseLines := strings.Split(desaturateANSI(mainContent), "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	baseLines = baseLines[:height]

	// Splice: popup lines replace the base lines they cover, centered
	popupLines := strings.Split(styledPopup, "\n")
	for i, line := range popupLines {
		if y+i >= height {
			break
		}
		pad := (width - lipgloss.Width(line)) / 2
		if pad < 0 {
			pad = 0
		}
		baseLines[y+i] = strings.Repeat(" ", pad) + line
	}
	return strings.Join(baseLines, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansiRE.ReplaceAllString(s, "")
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(plain)
}

package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContentPlain generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	// Title
	help.WriteString(titleStyle.Render("ClipScout Help"))
	help.WriteString("\n")

	// Search section
	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s        %s\n", keyStyle.Render("Enter"), descStyle.Render("Find from the top of the list")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+N"), descStyle.Render("Find next match")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+P"), descStyle.Render("Find previous match")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+X"), descStyle.Render("Clear the query and match position")))
	help.WriteString("\n")

	// Column scope section
	help.WriteString(sectionStyle.Render("Column Scope"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("Tab"), descStyle.Render("Next column (All, Name, Start, End, Duration, Notes)")))
	help.WriteString(fmt.Sprintf("  %s    %s\n", keyStyle.Render("Shift+Tab"), descStyle.Render("Previous column")))
	help.WriteString("\n")

	// Toggles section
	help.WriteString(sectionStyle.Render("Toggles"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+T"), descStyle.Render("Match case")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+L"), descStyle.Render("Loop search past the end of the list")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+G"), descStyle.Render("Play after find")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+O"), descStyle.Render("Open project when a project row matches")))
	help.WriteString("\n")

	// History section
	help.WriteString(sectionStyle.Render("History"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("Ctrl+R"), descStyle.Render("Open recent queries")))
	help.WriteString(fmt.Sprintf("  %s        %s\n", keyStyle.Render("↑/↓, j/k"), descStyle.Render("Select a recent query")))
	help.WriteString(fmt.Sprintf("  %s        %s\n", keyStyle.Render("Enter"), descStyle.Render("Reuse the selected query")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("c"), descStyle.Render("Clear history")))
	help.WriteString("\n")

	// Other section
	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s           %s\n", keyStyle.Render("F1"), descStyle.Render("Show this help")))
	help.WriteString(fmt.Sprintf("  %s       %s", keyStyle.Render("Ctrl+C"), descStyle.Render("Quit")))

	return help.String()
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	// Create a reader from the help content string
	reader := strings.NewReader(helpContent)

	// Create oviewer root from the reader
	root, err := oviewer.NewRoot(reader)
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false

	root.SetConfig(config)

	// Run the oviewer (this will take over the terminal)
	return root.Run()
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"clipscout/internal/columns"
	"clipscout/internal/domain"
	"clipscout/internal/eventbus"
	"clipscout/internal/ui/views"
)

// columnCycle is the Tab order for the column scope selector.
var columnCycle = append([]domain.ColumnKey{domain.ColumnAll}, domain.TextColumns...)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// Model represents the search panel state
type Model struct {
	bus      eventbus.EventBus
	events   <-chan eventbus.DomainEvent
	registry *columns.Registry

	styles *views.Styles
	popup  *views.PopupRenderer
	help   *HelpRenderer

	input    textinput.Model
	snapshot domain.SearchSnapshot
	primed   bool // first StateUpdated seeds the input from the store

	width  int
	height int

	status     string
	statusKind statusKind

	showHistory  bool
	historyIndex int

	inPagerMode bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new search panel model. Events forwarded on events drive
// the panel; key presses publish requests back onto the bus.
func NewModel(bus eventbus.EventBus, events <-chan eventbus.DomainEvent, registry *columns.Registry) *Model {
	styles := views.NewStyles()

	input := textinput.New()
	input.Placeholder = "search clips"
	input.Prompt = ""
	input.Focus()

	return &Model{
		bus:      bus,
		events:   events,
		registry: registry,
		styles:   styles,
		popup:    views.NewPopupRenderer(styles),
		help:     NewHelpRenderer(),
		input:    input,
		snapshot: domain.SearchSnapshot{Column: domain.ColumnAll},
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// waitForEvent blocks on the forwarded event channel
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case helpPagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("help pager failed: %v", msg.err), statusError)
		}
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		if m.showHistory {
			return m.handleHistoryKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleEvent folds a domain event into the panel state
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case domain.StateUpdatedEvent:
		m.snapshot = e.State
		if !m.primed {
			// Restore the last session's query into the input once
			m.input.SetValue(m.snapshot.Query)
			m.input.CursorEnd()
			m.primed = true
		}

	case domain.SearchMatchedEvent:
		m.setStatus(fmt.Sprintf("row %d: %s", e.Row.Index, e.Row.Value), statusSuccess)

	case domain.SearchNoMatchEvent:
		m.setStatus(fmt.Sprintf("no match for %q", e.Query), statusInfo)

	case domain.SearchFailedEvent:
		m.setStatus(e.Message, statusError)

	case domain.ErrorEvent:
		m.setStatus(e.Message, statusError)
	}

	return m, m.waitForEvent()
}

// handleKey processes key presses while the panel has focus
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		m.bus.Publish(domain.FindRequestedEvent{Query: m.input.Value(), Column: m.snapshot.Column})
		return m, nil

	case "ctrl+n":
		m.bus.Publish(domain.FindNextRequestedEvent{Query: m.input.Value(), Column: m.snapshot.Column})
		return m, nil

	case "ctrl+p":
		m.bus.Publish(domain.FindPreviousRequestedEvent{Query: m.input.Value(), Column: m.snapshot.Column})
		return m, nil

	case "tab":
		m.cycleColumn(1)
		return m, nil

	case "shift+tab":
		m.cycleColumn(-1)
		return m, nil

	case "ctrl+t":
		m.bus.Publish(domain.FlagToggledEvent{Flag: domain.FlagMatchCase})
		return m, nil

	case "ctrl+l":
		m.bus.Publish(domain.FlagToggledEvent{Flag: domain.FlagLoopSearch})
		return m, nil

	case "ctrl+g":
		m.bus.Publish(domain.FlagToggledEvent{Flag: domain.FlagPlayAfterFind})
		return m, nil

	case "ctrl+o":
		m.bus.Publish(domain.FlagToggledEvent{Flag: domain.FlagOpenProject})
		return m, nil

	case "ctrl+x":
		m.input.SetValue("")
		m.setStatus("", statusInfo)
		m.bus.Publish(domain.ClearRequestedEvent{})
		return m, nil

	case "ctrl+r":
		if len(m.snapshot.History) > 0 {
			m.showHistory = true
			m.historyIndex = len(m.snapshot.History) - 1
		} else {
			m.setStatus("history is empty", statusInfo)
		}
		return m, nil

	case "f1":
		m.inPagerMode = true
		return m, m.showHelpPager()
	}

	// Everything else edits the query
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.bus.Publish(domain.UpdateRequestedEvent{Query: m.input.Value(), Column: m.snapshot.Column})
	}
	return m, cmd
}

// handleHistoryKey processes key presses while the history popup is open
func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.historyIndex > 0 {
			m.historyIndex--
		}

	case "down", "j":
		if m.historyIndex < len(m.snapshot.History)-1 {
			m.historyIndex++
		}

	case "enter":
		if m.historyIndex >= 0 && m.historyIndex < len(m.snapshot.History) {
			entry := m.snapshot.History[m.historyIndex]
			m.input.SetValue(entry)
			m.input.CursorEnd()
			m.bus.Publish(domain.UpdateRequestedEvent{Query: entry, Column: m.snapshot.Column})
		}
		m.showHistory = false

	case "c":
		m.bus.Publish(domain.HistoryClearRequestedEvent{})
		m.showHistory = false

	case "esc", "ctrl+r", "ctrl+c":
		m.showHistory = false
	}

	return m, nil
}

// cycleColumn advances the column scope and persists the edit
func (m *Model) cycleColumn(dir int) {
	idx := 0
	for i, key := range columnCycle {
		if key == m.snapshot.Column {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(columnCycle)) % len(columnCycle)

	// Update locally so the panel reflects the change before the round trip
	m.snapshot.Column = columnCycle[idx]
	m.bus.Publish(domain.UpdateRequestedEvent{Query: m.input.Value(), Column: m.snapshot.Column})
}

// showHelpPager builds the pager command for the help overlay
func (m *Model) showHelpPager() tea.Cmd {
	content := m.help.RenderHelpContentPlain()
	ops := NewHelpOps(m.program)
	return func() tea.Msg {
		return helpPagerMsg{err: ops.ShowHelpInPager(content)}
	}
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

// View implements tea.Model
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("ClipScout"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Prompt.Render("Find: "))
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(m.styles.Dim.Render("Column: "))
	b.WriteString(m.styles.Highlight.Render(m.registry.DisplayLabel(m.snapshot.Column)))
	b.WriteString("\n")

	b.WriteString(m.renderFlags())
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")

	b.WriteString(m.styles.Dim.Render("enter find · ^n next · ^p prev · tab column · ^r history · ^x clear · f1 help"))

	content := b.String()

	if m.showHistory {
		return m.popup.RenderPopupOverlay(content, m.renderHistoryPopup(), m.height, m.width, m.styles.PopupBox)
	}
	return content
}

// renderFlags draws the four search toggles
func (m *Model) renderFlags() string {
	flag := func(label string, on bool) string {
		if on {
			return m.styles.FlagOn.Render("[x] " + label)
		}
		return m.styles.FlagOff.Render("[ ] " + label)
	}

	parts := []string{
		flag("Match case", m.snapshot.MatchCase),
		flag("Loop", m.snapshot.LoopSearch),
		flag("Play", m.snapshot.PlayAfterFind),
		flag("Open project", m.snapshot.OpenProject),
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return m.styles.Status.Render("ready")
	}
	switch m.statusKind {
	case statusError:
		return m.styles.StatusError.Render(m.status)
	case statusSuccess:
		return m.styles.StatusSuccess.Render(m.status)
	default:
		return m.styles.Status.Render(m.status)
	}
}

// renderHistoryPopup lists recent queries, most recent last
func (m *Model) renderHistoryPopup() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Recent Searches"))
	b.WriteString("\n\n")

	for i, entry := range m.snapshot.History {
		line := " " + entry + " "
		if i == m.historyIndex {
			b.WriteString(m.styles.Selected.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("enter reuse · c clear · esc close"))
	return b.String()
}

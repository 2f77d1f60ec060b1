// Package sim is an in-memory media host used by the live panel and the
// integration tests. It implements host.Bridge over a small library of
// projects and clips, including the asynchronous parts of the protocol:
// activation and menu open/close complete only after a configurable number
// of readiness polls.
package sim

import (
	"fmt"
	"sync"

	"clipscout/internal/columns"
	"clipscout/internal/domain"
	"clipscout/internal/host"
)

// Clip is one media clip in the library.
type Clip struct {
	Name     string
	Start    string
	End      string
	Duration string
	Notes    string
}

// Project is a container of clips; its browser row can be collapsed.
type Project struct {
	Name  string
	Clips []Clip
}

// Host simulates the media application's browser.
type Host struct {
	mu sync.Mutex

	projects []Project
	expanded []bool
	visible  map[domain.ColumnKey]bool
	localize columns.Localizer

	frontmost  bool
	activating int // Frontmost polls remaining until activation lands
	listView   bool
	playing    bool
	selected   int
	opened     []string

	menu        *menu
	menuLatency int
}

// New creates a simulated host showing all text columns, frontmost and in
// list view. Projects start collapsed.
func New(projects []Project, localize columns.Localizer) *Host {
	h := &Host{
		projects:  projects,
		expanded:  make([]bool, len(projects)),
		visible:   make(map[domain.ColumnKey]bool),
		localize:  localize,
		frontmost: true,
		listView:  true,
	}
	for _, key := range domain.TextColumns {
		h.visible[key] = true
	}
	h.menu = &menu{host: h}
	return h
}

// DemoLibrary returns the library the live panel starts with.
func DemoLibrary() []Project {
	return []Project{
		{
			Name: "Spring Promo",
			Clips: []Clip{
				{Name: "Clip A", Start: "00:00:00", End: "00:00:12", Duration: "12s", Notes: "opening shot"},
				{Name: "B-roll", Start: "00:00:12", End: "00:01:03", Duration: "51s", Notes: "drone pass"},
				{Name: "Clip C", Start: "00:01:03", End: "00:01:20", Duration: "17s", Notes: ""},
			},
		},
		{
			Name: "Interviews",
			Clips: []Clip{
				{Name: "Interview 1", Start: "00:00:00", End: "00:04:10", Duration: "4m10s", Notes: "needs color"},
				{Name: "Interview 2", Start: "00:04:10", End: "00:09:45", Duration: "5m35s", Notes: "wind noise"},
			},
		},
		{
			Name: "Archive",
			Clips: []Clip{
				{Name: "Parade 1998", Start: "00:00:00", End: "00:02:30", Duration: "2m30s", Notes: "scanned tape"},
			},
		},
	}
}

// Frontmost reports whether the host has focus, advancing any pending
// activation by one poll.
func (h *Host) Frontmost() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.activating > 0 {
		h.activating--
		if h.activating == 0 {
			h.frontmost = true
		}
	}
	return h.frontmost
}

// Activate brings the host frontmost after a couple of polls.
func (h *Host) Activate() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.frontmost {
		h.activating = 2
	}
	return nil
}

// InListView reports the browser presentation.
func (h *Host) InListView() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.listView
}

// Rows returns a fresh flattened snapshot: one row per project, followed by
// its clips when the project is expanded.
func (h *Host) Rows() ([]domain.Row, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var rows []domain.Row
	order := h.visibleOrderLocked()
	for pi, p := range h.projects {
		rows = append(rows, domain.Row{
			Role:     domain.RoleRow,
			Level:    1,
			Expanded: h.expanded[pi],
			Cells:    h.projectCellsLocked(p, order),
		})
		if !h.expanded[pi] {
			continue
		}
		for _, c := range p.Clips {
			rows = append(rows, domain.Row{
				Role:  domain.RoleRow,
				Level: 2,
				Cells: h.clipCellsLocked(c, order),
			})
		}
	}
	return rows, nil
}

// HeaderLabels returns the icon column (unlabeled) followed by the visible
// text column labels.
func (h *Host) HeaderLabels() ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	labels := []string{""}
	for _, key := range h.visibleOrderLocked() {
		labels = append(labels, h.localize(key))
	}
	return labels, nil
}

// ExpandRow discloses the project row at the given 1-based snapshot index.
func (h *Host) ExpandRow(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := 0
	for pi := range h.projects {
		cur++
		if cur == index {
			h.expanded[pi] = true
			return nil
		}
		if h.expanded[pi] {
			cur += len(h.projects[pi].Clips)
			if cur >= index {
				return fmt.Errorf("row %d is not expandable", index)
			}
		}
	}
	return fmt.Errorf("row %d does not exist", index)
}

// SelectRow selects and reveals the row.
func (h *Host) SelectRow(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 1 || index > h.rowCountLocked() {
		return fmt.Errorf("row %d does not exist", index)
	}
	h.selected = index
	return nil
}

// Playing reports playback state.
func (h *Host) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Play starts playback.
func (h *Host) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = true
	return nil
}

// OpenProject opens the project whose row is at the given index.
func (h *Host) OpenProject(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := 0
	for pi, p := range h.projects {
		cur++
		if cur == index {
			h.opened = append(h.opened, p.Name)
			return nil
		}
		if h.expanded[pi] {
			cur += len(p.Clips)
		}
	}
	return fmt.Errorf("row %d is not a project", index)
}

// ColumnMenu returns the column-selector menu handle.
func (h *Host) ColumnMenu() host.Menu {
	return h.menu
}

// Test and demo hooks.

// SetFrontmost forces the focus state.
func (h *Host) SetFrontmost(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frontmost = v
	h.activating = 0
}

// SetListView forces the browser presentation.
func (h *Host) SetListView(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listView = v
}

// SetPlaying forces the playback state.
func (h *Host) SetPlaying(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = v
}

// SetColumnVisible shows or hides a text column directly.
func (h *Host) SetColumnVisible(key domain.ColumnKey, v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible[key] = v
}

// SetMenuLatency makes menu open/close land only after n readiness polls.
func (h *Host) SetMenuLatency(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.menuLatency = n
}

// SelectedRow returns the last selected 1-based row index, 0 if none.
func (h *Host) SelectedRow() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selected
}

// OpenedProjects returns the project names opened so far, in order.
func (h *Host) OpenedProjects() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.opened))
	copy(out, h.opened)
	return out
}

// ProjectExpanded reports whether the given project is disclosed.
func (h *Host) ProjectExpanded(i int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.expanded[i]
}

// Internal helpers; callers hold h.mu.

func (h *Host) visibleOrderLocked() []domain.ColumnKey {
	var order []domain.ColumnKey
	for _, key := range domain.TextColumns {
		if h.visible[key] {
			order = append(order, key)
		}
	}
	return order
}

func (h *Host) rowCountLocked() int {
	n := 0
	for pi, p := range h.projects {
		n++
		if h.expanded[pi] {
			n += len(p.Clips)
		}
	}
	return n
}

func (h *Host) projectCellsLocked(p Project, order []domain.ColumnKey) []domain.Cell {
	cells := []domain.Cell{domain.ImageCell{Description: domain.ProjectMarker}}
	for _, key := range order {
		if key == domain.ColumnName {
			cells = append(cells, domain.TextCell{Value: p.Name})
		} else {
			cells = append(cells, domain.TextCell{Value: ""})
		}
	}
	return cells
}

func (h *Host) clipCellsLocked(c Clip, order []domain.ColumnKey) []domain.Cell {
	cells := []domain.Cell{domain.ImageCell{Description: "Clip"}}
	for _, key := range order {
		var v string
		switch key {
		case domain.ColumnName:
			v = c.Name
		case domain.ColumnStart:
			v = c.Start
		case domain.ColumnEnd:
			v = c.End
		case domain.ColumnDuration:
			v = c.Duration
		case domain.ColumnNotes:
			v = c.Notes
		}
		cells = append(cells, domain.TextCell{Value: v})
	}
	return cells
}

// menu implements the column-selector protocol against the simulated host.
type menu struct {
	host    *Host
	open    bool
	opening int
	closing int
}

func (m *menu) Open() error {
	h := m.host
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.menuLatency == 0 {
		m.open = true
	} else {
		m.opening = h.menuLatency
	}
	return nil
}

// IsOpen advances pending open/close transitions by one poll.
func (m *menu) IsOpen() bool {
	h := m.host
	h.mu.Lock()
	defer h.mu.Unlock()

	if m.opening > 0 {
		m.opening--
		if m.opening == 0 {
			m.open = true
		}
	}
	if m.closing > 0 {
		m.closing--
		if m.closing == 0 {
			m.open = false
		}
	}
	return m.open
}

func (m *menu) Items() ([]string, error) {
	h := m.host
	h.mu.Lock()
	defer h.mu.Unlock()

	var items []string
	for _, key := range domain.TextColumns {
		items = append(items, h.localize(key))
	}
	return items, nil
}

// Choose toggles the column with the given label and starts closing the menu.
func (m *menu) Choose(label string) error {
	h := m.host
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, key := range domain.TextColumns {
		if h.localize(key) == label {
			h.visible[key] = !h.visible[key]
			if h.menuLatency == 0 {
				m.open = false
			} else {
				m.closing = h.menuLatency
			}
			return nil
		}
	}
	return fmt.Errorf("no menu entry %q", label)
}

func (m *menu) Close() error {
	h := m.host
	h.mu.Lock()
	defer h.mu.Unlock()

	m.open = false
	m.opening = 0
	m.closing = 0
	return nil
}

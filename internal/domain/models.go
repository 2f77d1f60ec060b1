package domain

// ColumnKey identifies a logical browser column, decoupled from the
// localized label the host displays for it.
type ColumnKey string

// Known columns. ColumnAll is the sentinel for unscoped searches.
const (
	ColumnAll      ColumnKey = "all"
	ColumnName     ColumnKey = "name"
	ColumnStart    ColumnKey = "start"
	ColumnEnd      ColumnKey = "end"
	ColumnDuration ColumnKey = "duration"
	ColumnNotes    ColumnKey = "notes"
)

// TextColumns lists the searchable columns in display order.
var TextColumns = []ColumnKey{ColumnName, ColumnStart, ColumnEnd, ColumnDuration, ColumnNotes}

// RoleRow is the role tag a browser element must carry to be scanned.
const RoleRow = "row"

// ProjectMarker is the image description the host uses for project rows.
const ProjectMarker = "Project"

// Cell is one element of a browser row.
type Cell interface {
	isCell()
}

// TextCell holds a plain text value.
type TextCell struct {
	Value string
}

// ImageCell holds an icon; its description identifies what the row represents.
type ImageCell struct {
	Description string
}

// MenuButtonCell holds the current value of a pop-up button.
type MenuButtonCell struct {
	Value string
}

func (TextCell) isCell()       {}
func (ImageCell) isCell()      {}
func (MenuButtonCell) isCell() {}

// Row is one element of a browser snapshot. Level and Expanded only matter
// for top-level rows that may need force-expanding before a scoped search.
type Row struct {
	Role     string
	Level    int
	Expanded bool
	Cells    []Cell
}

// RowRef points at a matched row within the snapshot it was found in.
// Index is 1-based and is not stable across snapshots.
type RowRef struct {
	Index   int
	Value   string // text of the matched cell
	Project bool   // row carried the project marker before the matched cell
}

// FlagKey identifies one of the independent search toggles.
type FlagKey string

const (
	FlagMatchCase     FlagKey = "matchCase"
	FlagPlayAfterFind FlagKey = "playAfterFind"
	FlagLoopSearch    FlagKey = "loopSearch"
	FlagOpenProject   FlagKey = "openProject"
)

// SearchSnapshot is the normalized search state the panel renders after any
// state-affecting action.
type SearchSnapshot struct {
	Query         string
	Column        ColumnKey
	LastIndex     int // 1-based; 0 means no match recorded
	MatchCase     bool
	PlayAfterFind bool
	LoopSearch    bool
	OpenProject   bool
	History       []string // most-recent-last
}

// Package host defines the automation bridge to the external media
// application. The browser's contents are only ever read as fresh
// snapshots: the host may mutate between calls, so nothing here is
// cacheable across operations.
package host

import "clipscout/internal/domain"

// Bridge is the full surface the search panel needs from the host.
type Bridge interface {
	// Frontmost reports whether the host application currently has focus.
	Frontmost() bool
	// Activate asks the host application to come frontmost. Callers poll
	// Frontmost afterwards; activation is asynchronous.
	Activate() error

	// InListView reports whether the browser is showing the list (not the
	// filmstrip/grid) presentation.
	InListView() bool

	// Rows returns a fresh snapshot of the browser rows.
	Rows() ([]domain.Row, error)
	// HeaderLabels returns the visible column header button labels in
	// display order, aligned 1:1 with each row's cells.
	HeaderLabels() ([]string, error)
	// ExpandRow discloses the row at the 1-based index of the snapshot the
	// caller most recently fetched.
	ExpandRow(index int) error

	// SelectRow selects and reveals the row at the 1-based index.
	SelectRow(index int) error
	// Playing reports whether the host is currently playing back.
	Playing() bool
	// Play starts playback from the current selection.
	Play() error
	// OpenProject opens the project represented by the row at index.
	OpenProject(index int) error

	// ColumnMenu returns a handle to the browser's column-selector menu,
	// or nil when the menu cannot be reached.
	ColumnMenu() Menu
}

// Menu is the column-selector menu protocol. Open and Choose are
// asynchronous on the host side; callers poll IsOpen to observe the
// transitions.
type Menu interface {
	Open() error
	IsOpen() bool
	Items() ([]string, error)
	// Choose activates the entry with the given label, which also closes
	// the menu.
	Choose(label string) error
	// Close dismisses the menu without choosing.
	Close() error
}

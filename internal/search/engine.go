// Package search holds the panel's durable state and the find/findNext/
// findPrevious algorithm over fresh browser snapshots.
package search

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clipscout/internal/columns"
	"clipscout/internal/domain"
	"clipscout/internal/host"
	"clipscout/internal/readiness"
)

// Engine failures. Visibility errors from the columns package are wrapped
// in ErrColumnNotShown.
var (
	ErrEmptyQuery          = errors.New("search text is empty")
	ErrListViewUnavailable = errors.New("browser is not in list view")
	ErrColumnNotShown      = errors.New("column could not be shown")
	ErrSnapshotUnavailable = errors.New("browser rows could not be read")
)

// Status classifies the outcome of one search invocation.
type Status int

const (
	StatusMatched Status = iota
	StatusNoMatch
	StatusFailed
)

// Outcome is the structured result of a search. No failure escapes the
// engine any other way.
type Outcome struct {
	Status Status
	Row    domain.RowRef
	Err    error
}

func failure(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

type operation int

const (
	opFind operation = iota
	opNext
	opPrev
)

// Engine runs searches against fresh snapshots from the bridge.
type Engine struct {
	log        *zap.Logger
	bridge     host.Bridge
	state      *State
	registry   *columns.Registry
	visibility *columns.VisibilityManager
	waiter     *readiness.Waiter
}

// NewEngine wires the engine to its collaborators.
func NewEngine(bridge host.Bridge, state *State, registry *columns.Registry, visibility *columns.VisibilityManager, waiter *readiness.Waiter, log *zap.Logger) *Engine {
	return &Engine{
		log:        log,
		bridge:     bridge,
		state:      state,
		registry:   registry,
		visibility: visibility,
		waiter:     waiter,
	}
}

// Find starts a fresh search from the top of the browser.
func (e *Engine) Find(query string, column domain.ColumnKey) Outcome {
	return e.run(opFind, query, column)
}

// FindNext continues past the last match, wrapping once when loop search
// is on.
func (e *Engine) FindNext(query string, column domain.ColumnKey) Outcome {
	return e.run(opNext, query, column)
}

// FindPrevious scans backwards from the last match, wrapping once when
// loop search is on.
func (e *Engine) FindPrevious(query string, column domain.ColumnKey) Outcome {
	return e.run(opPrev, query, column)
}

func (e *Engine) run(kind operation, query string, column domain.ColumnKey) Outcome {
	if strings.TrimSpace(query) == "" {
		return failure(ErrEmptyQuery)
	}

	matchCase := e.state.MatchCase()
	needle := query
	if !matchCase {
		needle = strings.ToLower(needle)
	}

	// The history append commits before any readiness check; an aborted
	// search still remembers what was asked for.
	e.state.RememberQuery(query, column)

	if !e.waiter.WaitUntil("browser list view", e.bridge.InListView, readiness.Quick) {
		return failure(ErrListViewUnavailable)
	}

	colIndex := 0
	if column != domain.ColumnAll {
		if err := e.visibility.EnsureVisible(column); err != nil {
			return failure(fmt.Errorf("%w: %v", ErrColumnNotShown, err))
		}
		if kind == opFind {
			if err := e.expandTopLevel(); err != nil {
				return failure(err)
			}
		}
		headers, err := e.bridge.HeaderLabels()
		if err != nil {
			return failure(fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err))
		}
		idx, ok := e.registry.ResolveIndex(column, headers)
		if !ok {
			return failure(ErrColumnNotShown)
		}
		colIndex = idx
	}

	cursor := e.state.LastIndex()
	if kind == opFind {
		cursor = 0
	}

	// At most two passes: the scan from the cursor, then one rescan from
	// the opposite boundary when loop search wraps.
	for attempt := 1; attempt <= 2; attempt++ {
		rows, err := e.bridge.Rows()
		if err != nil {
			return failure(fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err))
		}
		n := len(rows)

		if n > 1 {
			from, to, dir := scanBounds(kind, cursor, n)
			for i := from; (dir > 0 && i <= to) || (dir < 0 && i >= to); i += dir {
				row := rows[i-1]
				if row.Role != domain.RoleRow {
					continue
				}
				value, project, ok := matchRow(row, needle, matchCase, colIndex)
				if !ok {
					continue
				}
				e.state.SetLastIndex(i)
				ref := domain.RowRef{Index: i, Value: value, Project: project}
				e.actuate(ref)
				e.log.Info("search matched",
					zap.String("query", query),
					zap.String("column", string(column)),
					zap.Int("row", i),
					zap.Int("attempt", attempt))
				return Outcome{Status: StatusMatched, Row: ref}
			}
		}

		if kind == opFind || !e.state.LoopSearch() {
			break
		}
		if kind == opNext {
			cursor = 0
		} else {
			cursor = n + 1
		}
	}

	e.log.Info("search found nothing", zap.String("query", query), zap.String("column", string(column)))
	return Outcome{Status: StatusNoMatch}
}

// scanBounds derives the inclusive 1-based scan range. An unknown cursor
// degrades next/previous to a fresh forward scan.
func scanBounds(kind operation, cursor, n int) (from, to, dir int) {
	switch {
	case kind == opFind || cursor == 0:
		return 1, n, 1
	case kind == opNext:
		return cursor + 1, n, 1
	default:
		start := cursor - 1
		if start > n {
			start = n
		}
		return start, 1, -1
	}
}

// matchRow evaluates one row. With colIndex > 0 only the cell at that
// 1-based position is compared; otherwise every cell in stored order, first
// hit wins. The project flag reports whether an image cell carrying the
// project marker precedes the evaluated cell.
func matchRow(row domain.Row, needle string, matchCase bool, colIndex int) (value string, project bool, ok bool) {
	if colIndex > 0 {
		if colIndex > len(row.Cells) {
			return "", false, false
		}
		for _, cell := range row.Cells[:colIndex-1] {
			if img, isImg := cell.(domain.ImageCell); isImg && img.Description == domain.ProjectMarker {
				project = true
			}
		}
		text, hasText := cellText(row.Cells[colIndex-1])
		if hasText && containsFolded(text, needle, matchCase) {
			return text, project, true
		}
		return "", false, false
	}

	for _, cell := range row.Cells {
		if img, isImg := cell.(domain.ImageCell); isImg {
			if img.Description == domain.ProjectMarker {
				project = true
			}
			continue
		}
		text, hasText := cellText(cell)
		if hasText && containsFolded(text, needle, matchCase) {
			return text, project, true
		}
	}
	return "", false, false
}

func cellText(cell domain.Cell) (string, bool) {
	switch c := cell.(type) {
	case domain.TextCell:
		return c.Value, true
	case domain.MenuButtonCell:
		return c.Value, true
	}
	return "", false
}

// containsFolded does literal substring containment; the needle arrives
// already folded when matchCase is off.
func containsFolded(haystack, needle string, matchCase bool) bool {
	if !matchCase {
		haystack = strings.ToLower(haystack)
	}
	return strings.Contains(haystack, needle)
}

// expandTopLevel force-discloses collapsed top-level rows so nested rows
// join the scan. Bottom-up, so indices of rows not yet visited stay valid
// as disclosure inserts rows below each expanded one.
func (e *Engine) expandTopLevel() error {
	rows, err := e.bridge.Rows()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	for i := len(rows); i >= 1; i-- {
		row := rows[i-1]
		if row.Role != domain.RoleRow || row.Level > 1 || row.Expanded {
			continue
		}
		if err := e.bridge.ExpandRow(i); err != nil {
			e.log.Warn("failed to expand row", zap.Int("row", i), zap.Error(err))
		}
	}
	return nil
}

// actuate selects the matched row and fires the post-match behaviors.
// Actuator hiccups are logged, not surfaced: the match itself stands.
func (e *Engine) actuate(ref domain.RowRef) {
	if err := e.bridge.SelectRow(ref.Index); err != nil {
		e.log.Warn("failed to select matched row", zap.Int("row", ref.Index), zap.Error(err))
	}
	if ref.Project && e.state.OpenProject() {
		if err := e.bridge.OpenProject(ref.Index); err != nil {
			e.log.Warn("failed to open project", zap.Int("row", ref.Index), zap.Error(err))
		}
	}
	if e.state.PlayAfterFind() && !e.bridge.Playing() {
		if err := e.bridge.Play(); err != nil {
			e.log.Warn("failed to start playback", zap.Error(err))
		}
	}
}

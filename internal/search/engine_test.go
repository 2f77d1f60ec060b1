package search

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clipscout/internal/columns"
	"clipscout/internal/domain"
	"clipscout/internal/host"
	"clipscout/internal/prefs"
	"clipscout/internal/readiness"
)

// scriptBridge is a scripted in-memory bridge for engine tests. Rows and
// headers are fixed unless rowsFn is set.
type scriptBridge struct {
	rows     []domain.Row
	rowsFn   func(fetch int) []domain.Row
	headers  []string
	listView bool
	playing  bool
	menu     host.Menu

	fetches  int
	selected []int
	expanded []int
	opened   []int
	plays    int
}

func (b *scriptBridge) Frontmost() bool  { return true }
func (b *scriptBridge) Activate() error  { return nil }
func (b *scriptBridge) InListView() bool { return b.listView }

func (b *scriptBridge) Rows() ([]domain.Row, error) {
	b.fetches++
	if b.rowsFn != nil {
		return b.rowsFn(b.fetches), nil
	}
	return b.rows, nil
}

func (b *scriptBridge) HeaderLabels() ([]string, error) { return b.headers, nil }

func (b *scriptBridge) ExpandRow(index int) error {
	b.expanded = append(b.expanded, index)
	return nil
}

func (b *scriptBridge) SelectRow(index int) error {
	b.selected = append(b.selected, index)
	return nil
}

func (b *scriptBridge) Playing() bool { return b.playing }
func (b *scriptBridge) Play() error   { b.plays++; return nil }

func (b *scriptBridge) OpenProject(index int) error {
	b.opened = append(b.opened, index)
	return nil
}

func (b *scriptBridge) ColumnMenu() host.Menu { return b.menu }

// clipRow builds a clip row for headers ["", "Name", "Notes"].
func clipRow(name, notes string) domain.Row {
	return domain.Row{
		Role:  domain.RoleRow,
		Level: 2,
		Cells: []domain.Cell{
			domain.ImageCell{Description: "Clip"},
			domain.TextCell{Value: name},
			domain.TextCell{Value: notes},
		},
	}
}

// projectRow builds a project row (collapsed unless expanded).
func projectRow(name string, expanded bool) domain.Row {
	return domain.Row{
		Role:     domain.RoleRow,
		Level:    1,
		Expanded: expanded,
		Cells: []domain.Cell{
			domain.ImageCell{Description: domain.ProjectMarker},
			domain.TextCell{Value: name},
			domain.TextCell{Value: ""},
		},
	}
}

func newTestEngine(t *testing.T, bridge host.Bridge) (*Engine, *State) {
	t.Helper()
	store, err := prefs.Open(filepath.Join(t.TempDir(), "state.toml"), zap.NewNop())
	require.NoError(t, err)

	state := NewState(store, zap.NewNop())
	registry := columns.NewRegistry(columns.English)
	waiter := readiness.NewWaiterWithSleep(zap.NewNop(), func(time.Duration) {})
	visibility := columns.NewVisibilityManager(bridge, registry, waiter, zap.NewNop())
	return NewEngine(bridge, state, registry, visibility, waiter, zap.NewNop()), state
}

func defaultBridge(rows ...domain.Row) *scriptBridge {
	return &scriptBridge{
		rows:     rows,
		headers:  []string{"", "Name", "Notes"},
		listView: true,
	}
}

func TestFindMatchesFirstRowInScanOrder(t *testing.T) {
	b := defaultBridge(clipRow("Clip A", ""), clipRow("B-roll", ""), clipRow("Clip C", ""))
	e, state := newTestEngine(t, b)

	out := e.Find("clip", domain.ColumnName)

	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 1, out.Row.Index)
	assert.Equal(t, "Clip A", out.Row.Value)
	assert.Equal(t, 1, state.LastIndex())
	assert.Equal(t, []int{1}, b.selected)
}

func TestFindNextAdvancesThenExhausts(t *testing.T) {
	b := defaultBridge(clipRow("Clip A", ""), clipRow("B-roll", ""), clipRow("Clip C", ""))
	e, state := newTestEngine(t, b)

	require.Equal(t, StatusMatched, e.Find("clip", domain.ColumnName).Status)

	out := e.FindNext("clip", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 3, out.Row.Index)
	assert.Equal(t, 3, state.LastIndex())

	// Loop search off: the scan past the end is a plain NoMatch.
	out = e.FindNext("clip", domain.ColumnName)
	assert.Equal(t, StatusNoMatch, out.Status)
	assert.Equal(t, 3, state.LastIndex(), "a NoMatch must not move the recorded position")
}

func TestFindNextWrapsOnceWhenLooping(t *testing.T) {
	rows := []domain.Row{
		clipRow("a", ""), clipRow("b", ""), clipRow("hit one", ""),
		clipRow("c", ""), clipRow("d", ""), clipRow("e", ""),
		clipRow("hit two", ""), clipRow("f", ""),
	}
	b := defaultBridge(rows...)
	e, state := newTestEngine(t, b)
	state.Toggle(domain.FlagLoopSearch)

	require.Equal(t, 3, e.Find("hit", domain.ColumnName).Row.Index)
	require.Equal(t, 7, e.FindNext("hit", domain.ColumnName).Row.Index)

	out := e.FindNext("hit", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 3, out.Row.Index, "wrap must restart from the top")
}

func TestFindPreviousMirrorsAndWrapsToHighest(t *testing.T) {
	rows := []domain.Row{
		clipRow("a", ""), clipRow("b", ""), clipRow("hit one", ""),
		clipRow("c", ""), clipRow("d", ""), clipRow("e", ""),
		clipRow("hit two", ""), clipRow("f", ""),
	}
	b := defaultBridge(rows...)
	e, state := newTestEngine(t, b)
	state.Toggle(domain.FlagLoopSearch)

	require.Equal(t, 3, e.Find("hit", domain.ColumnName).Row.Index)

	// No match before row 3; looping wraps to the highest-index match.
	out := e.FindPrevious("hit", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 7, out.Row.Index)

	out = e.FindPrevious("hit", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 3, out.Row.Index)
}

func TestFindPreviousNoLoopExhausts(t *testing.T) {
	b := defaultBridge(clipRow("a", ""), clipRow("hit", ""), clipRow("b", ""))
	e, _ := newTestEngine(t, b)

	require.Equal(t, 2, e.Find("hit", domain.ColumnName).Row.Index)
	assert.Equal(t, StatusNoMatch, e.FindPrevious("hit", domain.ColumnName).Status)
}

func TestMatchCaseToggle(t *testing.T) {
	b := defaultBridge(clipRow("some foo here", ""))
	b.rows = append(b.rows, clipRow("padding", "")) // need n > 1 to scan
	e, state := newTestEngine(t, b)

	out := e.Find("Foo", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status, "case-insensitive by default")
	assert.Equal(t, 1, out.Row.Index)

	state.Toggle(domain.FlagMatchCase)
	assert.Equal(t, StatusNoMatch, e.Find("Foo", domain.ColumnName).Status)
	assert.Equal(t, StatusMatched, e.Find("foo", domain.ColumnName).Status)
}

func TestColumnScopingDoesNotLeak(t *testing.T) {
	b := defaultBridge(
		clipRow("Clip A", "wind noise"),
		clipRow("Clip B", ""),
	)
	e, _ := newTestEngine(t, b)

	assert.Equal(t, StatusNoMatch, e.Find("wind", domain.ColumnName).Status,
		"a Notes value must not match a Name-scoped search")

	out := e.Find("wind", domain.ColumnNotes)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 1, out.Row.Index)
}

func TestAllColumnsFirstCellWins(t *testing.T) {
	row := domain.Row{
		Role: domain.RoleRow,
		Cells: []domain.Cell{
			domain.ImageCell{Description: "Clip"},
			domain.TextCell{Value: "target alpha"},
			domain.TextCell{Value: "target beta"},
		},
	}
	b := defaultBridge(row, clipRow("padding", ""))
	e, _ := newTestEngine(t, b)

	out := e.Find("target", domain.ColumnAll)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, "target alpha", out.Row.Value, "first cell in stored order wins")
}

func TestMenuButtonCellValueMatches(t *testing.T) {
	row := domain.Row{
		Role: domain.RoleRow,
		Cells: []domain.Cell{
			domain.ImageCell{Description: "Clip"},
			domain.TextCell{Value: "nothing"},
			domain.MenuButtonCell{Value: "stereo pair"},
		},
	}
	b := defaultBridge(row, clipRow("padding", ""))
	e, _ := newTestEngine(t, b)

	out := e.Find("stereo", domain.ColumnAll)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, "stereo pair", out.Row.Value)
}

func TestNonRowRolesAreSkipped(t *testing.T) {
	header := domain.Row{
		Role:  "header",
		Cells: []domain.Cell{domain.TextCell{Value: "hit"}},
	}
	b := defaultBridge(header, clipRow("hit for real", ""))
	e, _ := newTestEngine(t, b)

	out := e.Find("hit", domain.ColumnAll)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 2, out.Row.Index)
}

func TestEmptyQueryRejectedBeforeSideEffects(t *testing.T) {
	b := defaultBridge(clipRow("x", ""), clipRow("y", ""))
	e, state := newTestEngine(t, b)

	for _, q := range []string{"", "   ", "\t"} {
		out := e.Find(q, domain.ColumnAll)
		require.Equal(t, StatusFailed, out.Status)
		assert.ErrorIs(t, out.Err, ErrEmptyQuery)
	}
	assert.Empty(t, state.History(), "a rejected query must not enter history")
	assert.Zero(t, b.fetches)
}

func TestSingleRowSnapshotYieldsNoMatch(t *testing.T) {
	b := defaultBridge(clipRow("would match", ""))
	e, _ := newTestEngine(t, b)

	out := e.Find("match", domain.ColumnName)
	assert.Equal(t, StatusNoMatch, out.Status)
	assert.Empty(t, b.selected)
}

func TestFreshFindIgnoresStaleIndex(t *testing.T) {
	b := defaultBridge(clipRow("hit a", ""), clipRow("hit b", ""), clipRow("hit c", ""))
	e, state := newTestEngine(t, b)

	state.SetLastIndex(42) // stale position from an older, larger snapshot

	out := e.Find("hit", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 1, out.Row.Index)
}

func TestClearThenFindBehavesLikeFreshState(t *testing.T) {
	b := defaultBridge(clipRow("hit a", ""), clipRow("hit b", ""))
	e, state := newTestEngine(t, b)

	require.Equal(t, 1, e.Find("hit", domain.ColumnName).Row.Index)
	require.Equal(t, 2, e.FindNext("hit", domain.ColumnName).Row.Index)

	state.Clear()

	out := e.Find("hit", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 1, out.Row.Index)
}

func TestFindNextWithUnknownIndexScansForward(t *testing.T) {
	b := defaultBridge(clipRow("a", ""), clipRow("hit", ""), clipRow("b", ""))
	e, state := newTestEngine(t, b)

	require.Zero(t, state.LastIndex())
	out := e.FindNext("hit", domain.ColumnName)
	require.Equal(t, StatusMatched, out.Status)
	assert.Equal(t, 2, out.Row.Index)
}

func TestListViewFailureAfterHistoryCommit(t *testing.T) {
	b := defaultBridge(clipRow("hit", ""), clipRow("x", ""))
	b.listView = false
	e, state := newTestEngine(t, b)
	state.SetLastIndex(2)

	out := e.Find("hit", domain.ColumnName)
	require.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrListViewUnavailable)
	assert.Equal(t, []string{"hit"}, state.History(), "history commits before readiness checks")
	assert.Equal(t, 2, state.LastIndex(), "an aborted search must not move the position")
}

func TestHiddenColumnWithoutMenuFails(t *testing.T) {
	b := defaultBridge(clipRow("hit", ""), clipRow("x", ""))
	b.headers = []string{"", "Name"} // Notes hidden, no menu to show it
	e, _ := newTestEngine(t, b)

	out := e.Find("hit", domain.ColumnNotes)
	require.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrColumnNotShown)
}

func TestFreshScopedFindExpandsCollapsedProjects(t *testing.T) {
	b := defaultBridge(
		projectRow("Spring Promo", false),
		projectRow("Interviews", true),
		projectRow("Archive", false),
	)
	e, _ := newTestEngine(t, b)

	e.Find("archive", domain.ColumnName)
	assert.Equal(t, []int{3, 1}, b.expanded, "collapsed top-level rows expand bottom-up")

	b.expanded = nil
	e.FindNext("archive", domain.ColumnName)
	assert.Empty(t, b.expanded, "findNext never force-expands")
}

func TestUnscopedFindDoesNotExpand(t *testing.T) {
	b := defaultBridge(projectRow("Spring Promo", false), clipRow("x", ""))
	e, _ := newTestEngine(t, b)

	e.Find("spring", domain.ColumnAll)
	assert.Empty(t, b.expanded)
}

func TestOpenProjectGatedOnMarkerAndFlag(t *testing.T) {
	b := defaultBridge(projectRow("Spring Promo", true), clipRow("Spring clip", ""))
	e, state := newTestEngine(t, b)

	e.Find("spring", domain.ColumnName)
	assert.Empty(t, b.opened, "flag off: never open")

	state.Toggle(domain.FlagOpenProject)
	out := e.Find("spring", domain.ColumnName)
	require.Equal(t, 1, out.Row.Index)
	assert.True(t, out.Row.Project)
	assert.Equal(t, []int{1}, b.opened)

	b.opened = nil
	out = e.Find("spring clip", domain.ColumnName)
	require.Equal(t, 2, out.Row.Index)
	assert.False(t, out.Row.Project)
	assert.Empty(t, b.opened, "clip rows never trigger project open")
}

func TestPlayAfterFindRespectsPlaybackState(t *testing.T) {
	b := defaultBridge(clipRow("hit", ""), clipRow("x", ""))
	e, state := newTestEngine(t, b)

	e.Find("hit", domain.ColumnName)
	assert.Zero(t, b.plays, "flag off: no playback")

	state.Toggle(domain.FlagPlayAfterFind)
	e.Find("hit", domain.ColumnName)
	assert.Equal(t, 1, b.plays)

	b.playing = true
	e.Find("hit", domain.ColumnName)
	assert.Equal(t, 1, b.plays, "already playing: leave it alone")
}

func TestSnapshotRefetchedPerInvocation(t *testing.T) {
	b := defaultBridge()
	b.rowsFn = func(fetch int) []domain.Row {
		// The source mutates between calls: the match moves.
		if fetch == 1 {
			return []domain.Row{clipRow("hit", ""), clipRow("x", "")}
		}
		return []domain.Row{clipRow("x", ""), clipRow("hit", "")}
	}
	e, _ := newTestEngine(t, b)

	require.Equal(t, 1, e.Find("hit", domain.ColumnName).Row.Index)
	require.Equal(t, 2, e.Find("hit", domain.ColumnName).Row.Index)
	assert.Equal(t, 2, b.fetches)
}

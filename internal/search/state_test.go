package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clipscout/internal/domain"
	"clipscout/internal/prefs"
)

func newTestState(t *testing.T) (*State, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.toml")
	store, err := prefs.Open(path, zap.NewNop())
	require.NoError(t, err)
	return NewState(store, zap.NewNop()), path
}

func reopenState(t *testing.T, path string) *State {
	t.Helper()
	store, err := prefs.Open(path, zap.NewNop())
	require.NoError(t, err)
	return NewState(store, zap.NewNop())
}

func TestStateDefaults(t *testing.T) {
	s, _ := newTestState(t)

	assert.Empty(t, s.Query())
	assert.Zero(t, s.LastIndex())
	assert.Equal(t, domain.ColumnAll, s.Column())
	assert.False(t, s.MatchCase())
	assert.False(t, s.PlayAfterFind())
	assert.False(t, s.LoopSearch())
	assert.False(t, s.OpenProject())
	assert.Empty(t, s.History())
}

func TestStateSurvivesRestart(t *testing.T) {
	s, path := newTestState(t)

	s.RememberQuery("b-roll", domain.ColumnNotes)
	s.SetLastIndex(4)
	s.Toggle(domain.FlagLoopSearch)

	restored := reopenState(t, path)
	assert.Equal(t, "b-roll", restored.Query())
	assert.Equal(t, 4, restored.LastIndex())
	assert.Equal(t, domain.ColumnNotes, restored.Column())
	assert.True(t, restored.LoopSearch())
	assert.Equal(t, []string{"b-roll"}, restored.History())
}

func TestToggleFlips(t *testing.T) {
	s, _ := newTestState(t)

	assert.True(t, s.Toggle(domain.FlagMatchCase))
	assert.True(t, s.MatchCase())
	assert.False(t, s.Toggle(domain.FlagMatchCase))
	assert.False(t, s.MatchCase())
}

func TestRememberQueryDeduplicatesHistory(t *testing.T) {
	s, _ := newTestState(t)

	s.RememberQuery("clip", domain.ColumnAll)
	s.RememberQuery("interview", domain.ColumnAll)
	s.RememberQuery("clip", domain.ColumnAll)

	assert.Equal(t, []string{"clip", "interview"}, s.History())
}

func TestRememberQueryKeepsVerbatimText(t *testing.T) {
	s, _ := newTestState(t)

	s.RememberQuery("  Clip A ", domain.ColumnAll)

	assert.Equal(t, "  Clip A ", s.Query(), "stored text is never folded or trimmed")
	assert.Equal(t, []string{"  Clip A "}, s.History())
}

func TestUnknownStoredColumnFallsBackToAll(t *testing.T) {
	s, path := newTestState(t)
	s.SetColumn(domain.ColumnKey("codec"))

	assert.Equal(t, domain.ColumnAll, s.Column())
	assert.Equal(t, domain.ColumnAll, reopenState(t, path).Column())
}

func TestClearResetsQueryAndPositionOnly(t *testing.T) {
	s, _ := newTestState(t)

	s.RememberQuery("clip", domain.ColumnName)
	s.SetLastIndex(9)
	s.Toggle(domain.FlagMatchCase)

	s.Clear()

	assert.Empty(t, s.Query())
	assert.Zero(t, s.LastIndex())
	assert.True(t, s.MatchCase(), "flags survive a clear")
	assert.Equal(t, []string{"clip"}, s.History(), "history survives a clear")
	assert.Equal(t, domain.ColumnName, s.Column(), "column scope survives a clear")
}

func TestClearHistory(t *testing.T) {
	s, _ := newTestState(t)

	s.RememberQuery("one", domain.ColumnAll)
	s.RememberQuery("two", domain.ColumnAll)
	s.ClearHistory()

	assert.Empty(t, s.History())
}

func TestSnapshotReflectsState(t *testing.T) {
	s, _ := newTestState(t)

	s.RememberQuery("clip", domain.ColumnNotes)
	s.SetLastIndex(2)
	s.Toggle(domain.FlagPlayAfterFind)

	snap := s.Snapshot()
	assert.Equal(t, "clip", snap.Query)
	assert.Equal(t, domain.ColumnNotes, snap.Column)
	assert.Equal(t, 2, snap.LastIndex)
	assert.True(t, snap.PlayAfterFind)
	assert.False(t, snap.MatchCase)
	assert.Equal(t, []string{"clip"}, snap.History)
}

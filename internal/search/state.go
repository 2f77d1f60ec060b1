package search

import (
	"go.uber.org/zap"

	"clipscout/internal/domain"
	"clipscout/internal/prefs"
)

// Persisted keys.
const (
	keyLastValue     = "search.lastValue"
	keyLastIndex     = "search.lastIndex"
	keyLastColumn    = "search.lastColumn"
	keyMatchCase     = "search.matchCase"
	keyPlayAfterFind = "search.playAfterFind"
	keyLoopSearch    = "search.loopSearch"
	keyOpenProject   = "search.openProject"
	keyHistory       = "search.history"
)

// State is the panel session's durable search state. All reads and writes
// go through the prefs store, so a restarted panel resumes where it left
// off. There is a single writer: the action handlers.
type State struct {
	log   *zap.Logger
	store *prefs.Store
}

// NewState binds search state to a store.
func NewState(store *prefs.Store, log *zap.Logger) *State {
	return &State{log: log, store: store}
}

// Query returns the last submitted search text, verbatim.
func (s *State) Query() string {
	return s.store.GetString(keyLastValue, "")
}

// SetQuery persists the query text as typed.
func (s *State) SetQuery(query string) {
	s.set(keyLastValue, query)
}

// LastIndex returns the 1-based row position of the last match, 0 when no
// match has been recorded. The value refers to the snapshot it was found
// in; a fresh find never trusts it.
func (s *State) LastIndex() int {
	return s.store.GetInt(keyLastIndex, 0)
}

// SetLastIndex records the position of a match.
func (s *State) SetLastIndex(index int) {
	s.set(keyLastIndex, index)
}

// Column returns the column scope, ColumnAll when unset or unknown.
func (s *State) Column() domain.ColumnKey {
	stored := domain.ColumnKey(s.store.GetString(keyLastColumn, string(domain.ColumnAll)))
	if stored == domain.ColumnAll {
		return stored
	}
	for _, key := range domain.TextColumns {
		if key == stored {
			return stored
		}
	}
	return domain.ColumnAll
}

// SetColumn persists the column scope.
func (s *State) SetColumn(key domain.ColumnKey) {
	s.set(keyLastColumn, string(key))
}

// MatchCase reports the case-sensitivity toggle.
func (s *State) MatchCase() bool {
	return s.store.GetBool(keyMatchCase, false)
}

// PlayAfterFind reports the playback-on-match toggle.
func (s *State) PlayAfterFind() bool {
	return s.store.GetBool(keyPlayAfterFind, false)
}

// LoopSearch reports the wraparound toggle.
func (s *State) LoopSearch() bool {
	return s.store.GetBool(keyLoopSearch, false)
}

// OpenProject reports the open-project-on-match toggle.
func (s *State) OpenProject() bool {
	return s.store.GetBool(keyOpenProject, false)
}

// Toggle flips a flag and returns its new value.
func (s *State) Toggle(flag domain.FlagKey) bool {
	key := flagKey(flag)
	if key == "" {
		s.log.Warn("unknown search flag", zap.String("flag", string(flag)))
		return false
	}
	next := !s.store.GetBool(key, false)
	s.set(key, next)
	return next
}

// History returns the remembered queries, most-recent-last.
func (s *State) History() []string {
	return s.store.GetStringSlice(keyHistory)
}

// RememberQuery persists the submitted query and column and appends the
// query to the history when it is not already there.
func (s *State) RememberQuery(query string, column domain.ColumnKey) {
	s.SetQuery(query)
	s.SetColumn(column)

	h := NewHistory(s.History())
	if h.Add(query) {
		s.set(keyHistory, h.Entries())
	}
}

// ClearHistory empties the query history.
func (s *State) ClearHistory() {
	s.set(keyHistory, []string{})
}

// Clear resets the query and the recorded match position. Flags and
// history survive a clear.
func (s *State) Clear() {
	s.SetQuery("")
	s.SetLastIndex(0)
}

// Snapshot returns the normalized state for rendering.
func (s *State) Snapshot() domain.SearchSnapshot {
	return domain.SearchSnapshot{
		Query:         s.Query(),
		Column:        s.Column(),
		LastIndex:     s.LastIndex(),
		MatchCase:     s.MatchCase(),
		PlayAfterFind: s.PlayAfterFind(),
		LoopSearch:    s.LoopSearch(),
		OpenProject:   s.OpenProject(),
		History:       s.History(),
	}
}

// set persists one key. A failed write is logged, not fatal: the in-flight
// search should not abort because the state file is unwritable.
func (s *State) set(key string, value any) {
	if err := s.store.Set(key, value); err != nil {
		s.log.Error("failed to persist search state", zap.String("key", key), zap.Error(err))
	}
}

func flagKey(flag domain.FlagKey) string {
	switch flag {
	case domain.FlagMatchCase:
		return keyMatchCase
	case domain.FlagPlayAfterFind:
		return keyPlayAfterFind
	case domain.FlagLoopSearch:
		return keyLoopSearch
	case domain.FlagOpenProject:
		return keyOpenProject
	}
	return ""
}

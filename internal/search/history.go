package search

// historyLimit caps the number of remembered queries.
const historyLimit = 5

// History is a bounded, de-duplicated sequence of past queries,
// most-recent-last. Equality is exact: case and whitespace are preserved.
type History struct {
	entries []string
}

// NewHistory builds a history from stored entries, enforcing the cap and
// uniqueness on the way in.
func NewHistory(entries []string) *History {
	h := &History{}
	for _, e := range entries {
		h.Add(e)
	}
	return h
}

// Add appends query unless it is already present. A present query is left
// where it is (no reordering). Returns true when the history changed.
func (h *History) Add(query string) bool {
	for _, e := range h.entries {
		if e == query {
			return false
		}
	}
	h.entries = append(h.entries, query)
	if len(h.entries) > historyLimit {
		h.entries = h.entries[len(h.entries)-historyLimit:]
	}
	return true
}

// Entries returns the queries most-recent-last.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Clear empties the history unconditionally.
func (h *History) Clear() {
	h.entries = nil
}

// Len returns the number of remembered queries.
func (h *History) Len() int {
	return len(h.entries)
}

// Package columns maps logical column keys to the localized header labels
// the host displays, and keeps a requested column visible by driving the
// browser's column-selector menu.
package columns

import (
	"clipscout/internal/domain"
)

// Localizer supplies the display label for a column key. Labels are
// locale-dependent and owned by an external collaborator; they are stable
// for the duration of one search operation.
type Localizer func(domain.ColumnKey) string

var englishLabels = map[domain.ColumnKey]string{
	domain.ColumnAll:      "All",
	domain.ColumnName:     "Name",
	domain.ColumnStart:    "Start",
	domain.ColumnEnd:      "End",
	domain.ColumnDuration: "Duration",
	domain.ColumnNotes:    "Notes",
}

// English is the built-in localizer.
func English(key domain.ColumnKey) string {
	return englishLabels[key]
}

// Registry resolves column keys against the currently visible headers.
type Registry struct {
	localize Localizer
}

// NewRegistry creates a registry over the given localizer.
func NewRegistry(localize Localizer) *Registry {
	return &Registry{localize: localize}
}

// DisplayLabel returns the localized label for key.
func (r *Registry) DisplayLabel(key domain.ColumnKey) string {
	return r.localize(key)
}

// ActiveColumns returns the set of non-empty header labels.
func (r *Registry) ActiveColumns(headers []string) map[string]struct{} {
	active := make(map[string]struct{}, len(headers))
	for _, label := range headers {
		if label != "" {
			active[label] = struct{}{}
		}
	}
	return active
}

// ResolveIndex returns the 1-based position of the header whose label
// matches key's display label, or false when the column is not shown.
func (r *Registry) ResolveIndex(key domain.ColumnKey, headers []string) (int, bool) {
	label := r.localize(key)
	if label == "" {
		return 0, false
	}
	for i, h := range headers {
		if h == label {
			return i + 1, true
		}
	}
	return 0, false
}

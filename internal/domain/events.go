package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFindRequested         EventType = "FindRequested"
	EventFindNextRequested     EventType = "FindNextRequested"
	EventFindPreviousRequested EventType = "FindPreviousRequested"
	EventClearRequested        EventType = "ClearRequested"
	EventUpdateRequested       EventType = "UpdateRequested"
	EventFlagToggled           EventType = "FlagToggled"
	EventHistoryClearRequested EventType = "HistoryClearRequested"
	EventSearchMatched         EventType = "SearchMatched"
	EventSearchNoMatch         EventType = "SearchNoMatch"
	EventSearchFailed          EventType = "SearchFailed"
	EventStateUpdated          EventType = "StateUpdated"
	EventError                 EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FindRequestedEvent asks the engine for a fresh search.
type FindRequestedEvent struct {
	Query  string
	Column ColumnKey
}

func (e FindRequestedEvent) Type() EventType { return EventFindRequested }

// FindNextRequestedEvent asks for the next match after the last one.
type FindNextRequestedEvent struct {
	Query  string
	Column ColumnKey
}

func (e FindNextRequestedEvent) Type() EventType { return EventFindNextRequested }

// FindPreviousRequestedEvent asks for the match before the last one.
type FindPreviousRequestedEvent struct {
	Query  string
	Column ColumnKey
}

func (e FindPreviousRequestedEvent) Type() EventType { return EventFindPreviousRequested }

// ClearRequestedEvent resets the query and the recorded match position.
type ClearRequestedEvent struct{}

func (e ClearRequestedEvent) Type() EventType { return EventClearRequested }

// UpdateRequestedEvent persists in-progress query/column edits without searching.
type UpdateRequestedEvent struct {
	Query  string
	Column ColumnKey
}

func (e UpdateRequestedEvent) Type() EventType { return EventUpdateRequested }

// FlagToggledEvent flips one of the search toggles.
type FlagToggledEvent struct {
	Flag FlagKey
}

func (e FlagToggledEvent) Type() EventType { return EventFlagToggled }

// HistoryClearRequestedEvent empties the query history.
type HistoryClearRequestedEvent struct{}

func (e HistoryClearRequestedEvent) Type() EventType { return EventHistoryClearRequested }

// SearchMatchedEvent is emitted when a search lands on a row.
type SearchMatchedEvent struct {
	Query string
	Row   RowRef
}

func (e SearchMatchedEvent) Type() EventType { return EventSearchMatched }

// SearchNoMatchEvent is emitted when a search exhausts its range.
type SearchNoMatchEvent struct {
	Query string
}

func (e SearchNoMatchEvent) Type() EventType { return EventSearchNoMatch }

// SearchFailedEvent is emitted when a search aborts before scanning.
type SearchFailedEvent struct {
	Query   string
	Message string
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// StateUpdatedEvent carries the normalized state back to the panel.
type StateUpdatedEvent struct {
	State SearchSnapshot
}

func (e StateUpdatedEvent) Type() EventType { return EventStateUpdated }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

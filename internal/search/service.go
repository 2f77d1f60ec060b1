package search

import (
	"go.uber.org/zap"

	"clipscout/internal/domain"
	"clipscout/internal/eventbus"
)

// Service connects the engine to the event bus: operator action events in,
// outcome and state events out. Handlers run on the bus dispatcher
// goroutine, so actions are processed one at a time.
type Service struct {
	log    *zap.Logger
	bus    eventbus.EventBus
	engine *Engine
	state  *State
}

// NewService creates the service and subscribes it to the action events.
func NewService(bus eventbus.EventBus, engine *Engine, state *State, log *zap.Logger) *Service {
	s := &Service{
		log:    log,
		bus:    bus,
		engine: engine,
		state:  state,
	}
	s.subscribe()
	return s
}

func (s *Service) subscribe() {
	s.bus.Subscribe(domain.EventFindRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.FindRequestedEvent); ok {
			s.runSearch(ev.Query, ev.Column, s.engine.Find)
		}
	})
	s.bus.Subscribe(domain.EventFindNextRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.FindNextRequestedEvent); ok {
			s.runSearch(ev.Query, ev.Column, s.engine.FindNext)
		}
	})
	s.bus.Subscribe(domain.EventFindPreviousRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.FindPreviousRequestedEvent); ok {
			s.runSearch(ev.Query, ev.Column, s.engine.FindPrevious)
		}
	})
	s.bus.Subscribe(domain.EventClearRequested, func(e eventbus.DomainEvent) {
		s.state.Clear()
		s.publishState()
	})
	s.bus.Subscribe(domain.EventUpdateRequested, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.UpdateRequestedEvent); ok {
			s.state.SetQuery(ev.Query)
			s.state.SetColumn(ev.Column)
			s.publishState()
		}
	})
	s.bus.Subscribe(domain.EventFlagToggled, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.FlagToggledEvent); ok {
			value := s.state.Toggle(ev.Flag)
			s.log.Info("search flag toggled", zap.String("flag", string(ev.Flag)), zap.Bool("value", value))
			s.publishState()
		}
	})
	s.bus.Subscribe(domain.EventHistoryClearRequested, func(e eventbus.DomainEvent) {
		s.state.ClearHistory()
		s.publishState()
	})
}

func (s *Service) runSearch(query string, column domain.ColumnKey, fn func(string, domain.ColumnKey) Outcome) {
	outcome := fn(query, column)
	switch outcome.Status {
	case StatusMatched:
		s.bus.Publish(domain.SearchMatchedEvent{Query: query, Row: outcome.Row})
	case StatusNoMatch:
		s.bus.Publish(domain.SearchNoMatchEvent{Query: query})
	case StatusFailed:
		s.log.Warn("search failed", zap.String("query", query), zap.Error(outcome.Err))
		s.bus.Publish(domain.SearchFailedEvent{Query: query, Message: outcome.Err.Error()})
	}
	s.publishState()
}

// publishState renders the normalized state back to the panel after any
// state-affecting action.
func (s *Service) publishState() {
	s.bus.Publish(domain.StateUpdatedEvent{State: s.state.Snapshot()})
}

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"clipscout/internal/columns"
	"clipscout/internal/domain"
	"clipscout/internal/eventbus"
	"clipscout/internal/host/sim"
	"clipscout/internal/logging"
	"clipscout/internal/prefs"
	"clipscout/internal/readiness"
	"clipscout/internal/search"
	"clipscout/internal/ui"
)

func main() {
	var statePath string
	var logPath string
	var debug bool
	flag.StringVar(&statePath, "state", "", "Path to the state file (default: user config dir)")
	flag.StringVar(&logPath, "log", "clipscout.log", "Path to the log file")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if statePath == "" {
		statePath = prefs.DefaultPath()
	}

	log, err := logging.New(logPath, debug)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	bus := eventbus.New(log)
	defer bus.Stop()

	store, err := prefs.Open(statePath, log)
	if err != nil {
		fmt.Printf("Error opening state file: %v\n", err)
		os.Exit(1)
	}
	state := search.NewState(store, log)

	// Simulated media host with a demo library
	bridge := sim.New(sim.DemoLibrary(), columns.English)

	registry := columns.NewRegistry(columns.English)
	waiter := readiness.NewWaiter(log)
	visibility := columns.NewVisibilityManager(bridge, registry, waiter, log)
	engine := search.NewEngine(bridge, state, registry, visibility, waiter, log)
	_ = search.NewService(bus, engine, state, log)

	// Forward result and state events to the UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Warn("UI event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	for _, eventType := range []eventbus.EventType{
		domain.EventSearchMatched,
		domain.EventSearchNoMatch,
		domain.EventSearchFailed,
		domain.EventStateUpdated,
		domain.EventError,
	} {
		bus.Subscribe(eventType, forward)
	}

	uiModel := ui.NewModel(bus, eventChan, registry)
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	// Seed the panel with the persisted state
	bus.Publish(domain.StateUpdatedEvent{State: state.Snapshot()})

	if _, err := p.Run(); err != nil {
		log.Error("program exited with error", zap.Error(err))
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

package columns

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"clipscout/internal/domain"
	"clipscout/internal/host"
	"clipscout/internal/readiness"
)

// Visibility failures. Each maps to one step of the menu protocol.
var (
	ErrAppNotFrontmost = errors.New("host application did not come frontmost")
	ErrMenuOpenFailed  = errors.New("column menu did not open")
	ErrMenuUnavailable = errors.New("column menu is unavailable")
	ErrMenuCloseFailed = errors.New("column menu did not close")
	ErrColumnNotFound  = errors.New("column has no menu entry")
)

// VisibilityManager turns hidden columns on through the column-selector
// menu. It only ever toggles; hiding is the operator's business.
type VisibilityManager struct {
	log      *zap.Logger
	bridge   host.Bridge
	registry *Registry
	waiter   *readiness.Waiter
}

// NewVisibilityManager creates a manager over the given bridge.
func NewVisibilityManager(bridge host.Bridge, registry *Registry, waiter *readiness.Waiter, log *zap.Logger) *VisibilityManager {
	return &VisibilityManager{
		log:      log,
		bridge:   bridge,
		registry: registry,
		waiter:   waiter,
	}
}

// EnsureVisible makes the column shown, toggling it via the menu when it
// is not already among the visible headers.
func (v *VisibilityManager) EnsureVisible(key domain.ColumnKey) error {
	headers, err := v.bridge.HeaderLabels()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMenuUnavailable, err)
	}
	label := v.registry.DisplayLabel(key)
	if _, ok := v.registry.ActiveColumns(headers)[label]; ok {
		return nil
	}

	if err := v.bridge.Activate(); err != nil {
		return fmt.Errorf("%w: %v", ErrAppNotFrontmost, err)
	}
	if !v.waiter.WaitUntil("host frontmost", v.bridge.Frontmost, readiness.AppFocus) {
		return ErrAppNotFrontmost
	}

	menu := v.bridge.ColumnMenu()
	if menu == nil {
		return ErrMenuUnavailable
	}
	if err := menu.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrMenuOpenFailed, err)
	}
	if !v.waiter.WaitUntil("column menu open", menu.IsOpen, readiness.Quick) {
		return ErrMenuOpenFailed
	}

	items, err := menu.Items()
	if err != nil || items == nil {
		return ErrMenuUnavailable
	}

	for _, item := range items {
		if item != label {
			continue
		}
		if err := menu.Choose(item); err != nil {
			return fmt.Errorf("%w: %v", ErrMenuCloseFailed, err)
		}
		if !v.waiter.WaitUntil("column menu closed", func() bool { return !menu.IsOpen() }, readiness.Quick) {
			return ErrMenuCloseFailed
		}
		v.log.Info("column shown", zap.String("column", string(key)))
		return nil
	}

	if err := menu.Close(); err != nil {
		v.log.Warn("failed to close column menu", zap.Error(err))
	}
	return fmt.Errorf("%w: %s", ErrColumnNotFound, label)
}

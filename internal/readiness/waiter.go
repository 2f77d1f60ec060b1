// Package readiness provides bounded predicate polling. Every wait has an
// explicit attempt/interval budget; exhaustion is a reported failure, never
// a hang.
package readiness

import (
	"time"

	"go.uber.org/zap"
)

// Policy is the attempt/interval budget for one wait.
type Policy struct {
	Attempts int
	Interval time.Duration
}

// Default policies. Quick covers UI settling (menus, view switches);
// AppFocus covers bringing the host application frontmost, which can take
// noticeably longer.
var (
	Quick    = Policy{Attempts: 5, Interval: 100 * time.Millisecond}
	AppFocus = Policy{Attempts: 30, Interval: 100 * time.Millisecond}
)

// Waiter polls predicates under a named policy.
type Waiter struct {
	log   *zap.Logger
	sleep func(time.Duration)
}

// NewWaiter creates a waiter that sleeps for real.
func NewWaiter(log *zap.Logger) *Waiter {
	return &Waiter{log: log, sleep: time.Sleep}
}

// NewWaiterWithSleep creates a waiter with an injected sleep function.
func NewWaiterWithSleep(log *zap.Logger, sleep func(time.Duration)) *Waiter {
	return &Waiter{log: log, sleep: sleep}
}

// WaitUntil polls pred at the policy's interval and returns true as soon as
// it observes true. It returns false after exhausting the attempt budget.
func (w *Waiter) WaitUntil(name string, pred func() bool, p Policy) bool {
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if pred() {
			return true
		}
		if attempt < p.Attempts {
			w.sleep(p.Interval)
		}
	}
	w.log.Warn("readiness wait exhausted",
		zap.String("condition", name),
		zap.Int("attempts", p.Attempts),
		zap.Duration("interval", p.Interval))
	return false
}

package wait

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"practice_automation/domain/interfaces"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 250 * time.Millisecond
)

// Waiter blocks until a condition over page state holds.
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
	logger   *logrus.Logger
}

// NewWaiter - zero durations fall back to the defaults
func NewWaiter(timeout, interval time.Duration, logger *logrus.Logger) *Waiter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Waiter{Timeout: timeout, Interval: interval, logger: logger}
}

// WithTimeout returns a copy that waits for d instead.
func (w *Waiter) WithTimeout(d time.Duration) *Waiter {
	cp := *w
	cp.Timeout = d
	return &cp
}

// Until polls cond against s. It returns the element the condition matched,
// which is nil for page-level conditions.
func (w *Waiter) Until(ctx context.Context, s interfaces.Session, cond Condition) (interfaces.Element, error) {
	if w.logger != nil {
		w.logger.WithField("session", s.ID()).Debugf("Waiting up to %s for %s", w.Timeout, cond)
	}

	var matched interfaces.Element
	err := Poll(ctx, w.Timeout, w.Interval, nil, cond.Description, func(ctx context.Context) (bool, string, error) {
		el, ok, observed, err := cond.Check(ctx, s)
		if ok {
			matched = el
		}
		return ok, observed, err
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

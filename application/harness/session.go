package harness

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

// PanicError is a panic recovered inside a scenario or session scope.
type PanicError struct {
	Value interface{}
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// protect runs fn and turns a panic into a *PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return fn()
}

// WithSession opens a session, hands it to fn and closes it on every exit
// path, panics in fn included. Open failures come back as EnvironmentError.
// Close errors are logged and never replace the error from fn.
func WithSession(ctx context.Context, launcher interfaces.Launcher, cfg entities.SessionConfig, logger *logrus.Logger, fn func(interfaces.Session) error) error {
	session, err := launcher.Open(ctx, cfg)
	if err != nil {
		var envErr *entities.EnvironmentError
		if errors.As(err, &envErr) {
			return err
		}
		return entities.NewEnvironmentError(string(cfg.Backend), err)
	}

	if logger != nil {
		logger.WithField("session", session.ID()).Debugf("Session opened (%s/%s)", cfg.Backend, cfg.Browser)
	}

	defer func() {
		if cerr := session.Close(); cerr != nil && logger != nil {
			logger.WithField("session", session.ID()).Warnf("Failed to close session: %v", cerr)
		} else if logger != nil {
			logger.WithField("session", session.ID()).Debug("Session closed")
		}
	}()

	return protect(func() error { return fn(session) })
}

package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEnvironment     = errors.New("browser environment unavailable")
	ErrTimeout         = errors.New("condition not satisfied before timeout")
	ErrNotInteractable = errors.New("element not interactable")
	ErrAssertion       = errors.New("assertion failed")
	ErrNoSuchElement   = errors.New("no such element")
	ErrSessionClosed   = errors.New("browser session closed")
	// ErrScriptUnsupported is returned by backends without a script engine.
	ErrScriptUnsupported = errors.New("script execution not supported")
)

// ErrorKind classifies a failure for reporting.
type ErrorKind string

const (
	KindEnvironment     ErrorKind = "environment"
	KindTimeout         ErrorKind = "timeout"
	KindNotInteractable ErrorKind = "not_interactable"
	KindAssertion       ErrorKind = "assertion"
	KindOther           ErrorKind = "other"
)

// EnvironmentError means the driver or browser could not be started.
// It aborts the whole run.
type EnvironmentError struct {
	Component string
	Err       error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment error [%s]: %v", e.Component, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

func (e *EnvironmentError) Is(target error) bool { return target == ErrEnvironment }

// NewEnvironmentError wraps err as an environment failure of component.
func NewEnvironmentError(component string, err error) *EnvironmentError {
	return &EnvironmentError{Component: component, Err: err}
}

// TimeoutError means a waited-for condition never became true.
type TimeoutError struct {
	Condition    string
	Timeout      time.Duration
	LastObserved string
	Err          error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
	if e.LastObserved != "" {
		msg += fmt.Sprintf(" (last observed: %s)", e.LastObserved)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ElementNotInteractableError means a gesture target was hidden, disabled
// or otherwise not ready.
type ElementNotInteractableError struct {
	Gesture GestureType
	State   ElementState
	Err     error
}

func (e *ElementNotInteractableError) Error() string {
	msg := fmt.Sprintf("cannot %s: element not interactable: %s", e.Gesture, e.State)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ElementNotInteractableError) Unwrap() error { return e.Err }

func (e *ElementNotInteractableError) Is(target error) bool { return target == ErrNotInteractable }

// AssertionError means the observed outcome did not match the expected one.
type AssertionError struct {
	Expectation string
	Expected    string
	Observed    string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %q, observed %q", e.Expectation, e.Expected, e.Observed)
}

func (e *AssertionError) Is(target error) bool { return target == ErrAssertion }

// NewAssertionError builds an assertion failure.
func NewAssertionError(expectation, expected, observed string) *AssertionError {
	return &AssertionError{Expectation: expectation, Expected: expected, Observed: observed}
}

// ClassifyError maps err onto the failure taxonomy.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEnvironment):
		return KindEnvironment
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrNotInteractable):
		return KindNotInteractable
	case errors.Is(err, ErrAssertion):
		return KindAssertion
	default:
		return KindOther
	}
}

// IsFatal reports whether err must abort the remaining run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrEnvironment)
}

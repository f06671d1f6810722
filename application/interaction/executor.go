package interaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

// Executor dispatches single user gestures against located elements.
type Executor struct {
	logger *logrus.Logger
}

// NewExecutor - creates an executor that logs every gesture
func NewExecutor(logger *logrus.Logger) *Executor {
	return &Executor{logger: logger}
}

func (x *Executor) log(gesture entities.GestureType, el interfaces.Element, format string, args ...interface{}) {
	if x.logger == nil {
		return
	}
	x.logger.WithFields(logrus.Fields{
		"gesture":  gesture,
		"selector": el.Selector().String(),
	}).Infof(format, args...)
}

// ready fails with ElementNotInteractableError unless el can take gesture.
// Pointer gestures need a visible and enabled target; the rest only need it
// enabled.
func (x *Executor) ready(ctx context.Context, gesture entities.GestureType, el interfaces.Element) error {
	state, err := el.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read state of %s: %w", el.Selector(), err)
	}
	ok := state.IsEnabled
	if gesture.RequiresPointer() {
		ok = state.Interactable()
	}
	if !ok {
		return &entities.ElementNotInteractableError{Gesture: gesture, State: state}
	}
	return nil
}

// Click - single left click
func (x *Executor) Click(ctx context.Context, el interfaces.Element) error {
	if err := x.ready(ctx, entities.GestureClick, el); err != nil {
		return err
	}
	x.log(entities.GestureClick, el, "Clicking on: %s", el.Selector())
	return el.Click(ctx)
}

// DoubleClick - double left click
func (x *Executor) DoubleClick(ctx context.Context, el interfaces.Element) error {
	if err := x.ready(ctx, entities.GestureDoubleClick, el); err != nil {
		return err
	}
	x.log(entities.GestureDoubleClick, el, "Double-clicking on: %s", el.Selector())
	return el.DoubleClick(ctx)
}

// ContextClick - right click
func (x *Executor) ContextClick(ctx context.Context, el interfaces.Element) error {
	if err := x.ready(ctx, entities.GestureContextClick, el); err != nil {
		return err
	}
	x.log(entities.GestureContextClick, el, "Right-clicking on: %s", el.Selector())
	return el.ContextClick(ctx)
}

// TypeText - clears the field, then types text into it
func (x *Executor) TypeText(ctx context.Context, el interfaces.Element, text string) error {
	if err := x.ready(ctx, entities.GestureTypeText, el); err != nil {
		return err
	}
	x.log(entities.GestureTypeText, el, "Typing text into: %s", el.Selector())
	if err := el.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear %s: %w", el.Selector(), err)
	}
	return el.SendKeys(ctx, text)
}

// SetFileInput - injects path into a file input. Native file choosers are
// not scriptable, so no pointer interaction happens and the input may be
// visually hidden.
func (x *Executor) SetFileInput(ctx context.Context, el interfaces.Element, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot upload %s: %w", path, err)
	}
	if err := x.ready(ctx, entities.GestureSetFile, el); err != nil {
		return err
	}
	x.log(entities.GestureSetFile, el, "Setting file %s on: %s", path, el.Selector())
	return el.SetFiles(ctx, path)
}

// ClearFileInput - empties the value of a file input from a page script.
// Backends without a script engine reset the input natively instead.
func (x *Executor) ClearFileInput(ctx context.Context, s interfaces.Session, el interfaces.Element) error {
	script, err := clearValueScript(el.Selector())
	if err != nil {
		return err
	}
	x.log(entities.GestureClearFile, el, "Clearing file input: %s", el.Selector())

	result, err := s.ExecuteScript(ctx, script)
	if errors.Is(err, entities.ErrScriptUnsupported) {
		return el.SetFiles(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", el.Selector(), err)
	}
	if cleared, _ := result.(bool); !cleared {
		return fmt.Errorf("%w: %s", entities.ErrNoSuchElement, el.Selector())
	}
	return nil
}

// clearValueScript - function body that empties the first element matching
// sel and fires change, returning whether it found one
func clearValueScript(sel entities.Selector) (string, error) {
	var lookup string
	if css, ok := sel.CSSQuery(); ok {
		q, err := json.Marshal(css)
		if err != nil {
			return "", err
		}
		lookup = fmt.Sprintf("document.querySelector(%s)", q)
	} else if sel.By == entities.ByXPath {
		q, err := json.Marshal(sel.Value)
		if err != nil {
			return "", err
		}
		lookup = fmt.Sprintf("document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue", q)
	} else {
		return "", fmt.Errorf("unsupported selector strategy %q", sel.By)
	}
	return "const el = " + lookup + ";\n" +
		"if (!el) return false;\n" +
		"el.value = '';\n" +
		"el.dispatchEvent(new Event('change', { bubbles: true }));\n" +
		"return true;", nil
}

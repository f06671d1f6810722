package wait

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

// Condition is a predicate over page state. When it holds and concerns an
// element, Check returns that element.
type Condition struct {
	Description string
	Check       func(ctx context.Context, s interfaces.Session) (el interfaces.Element, ok bool, observed string, err error)
}

func (c Condition) String() string { return c.Description }

// find treats a missing element as "not yet" instead of an error.
func find(ctx context.Context, s interfaces.Session, sel entities.Selector) (interfaces.Element, string, error) {
	el, err := s.Find(ctx, sel)
	if errors.Is(err, entities.ErrNoSuchElement) {
		return nil, "no element matching " + sel.String(), nil
	}
	if err != nil {
		return nil, "", err
	}
	return el, "", nil
}

// Present holds once an element matching sel is in the DOM.
func Present(sel entities.Selector) Condition {
	return Condition{
		Description: "presence of " + sel.String(),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, bool, string, error) {
			el, observed, err := find(ctx, s, sel)
			if el == nil || err != nil {
				return nil, false, observed, err
			}
			return el, true, "", nil
		},
	}
}

// Clickable holds once an element matching sel is visible and enabled.
func Clickable(sel entities.Selector) Condition {
	return Condition{
		Description: "clickable " + sel.String(),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, bool, string, error) {
			el, observed, err := find(ctx, s, sel)
			if el == nil || err != nil {
				return nil, false, observed, err
			}
			state, err := el.State(ctx)
			if err != nil {
				return nil, false, "", err
			}
			if !state.Interactable() {
				return nil, false, state.String(), nil
			}
			return el, true, "", nil
		},
	}
}

// TextContains holds once the text of the element matching sel contains substr.
func TextContains(sel entities.Selector, substr string) Condition {
	return Condition{
		Description: fmt.Sprintf("text %q in %s", substr, sel),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, bool, string, error) {
			el, observed, err := find(ctx, s, sel)
			if el == nil || err != nil {
				return nil, false, observed, err
			}
			text, err := el.Text(ctx)
			if err != nil {
				return nil, false, "", err
			}
			if !strings.Contains(text, substr) {
				return nil, false, fmt.Sprintf("text %q", text), nil
			}
			return el, true, "", nil
		},
	}
}

// AttributeContains holds once attribute name of the element matching sel contains substr.
func AttributeContains(sel entities.Selector, name, substr string) Condition {
	return Condition{
		Description: fmt.Sprintf("attribute %s containing %q on %s", name, substr, sel),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, bool, string, error) {
			el, observed, err := find(ctx, s, sel)
			if el == nil || err != nil {
				return nil, false, observed, err
			}
			value, err := el.Attribute(ctx, name)
			if err != nil {
				return nil, false, "", err
			}
			if !strings.Contains(value, substr) {
				return nil, false, fmt.Sprintf("%s=%q", name, value), nil
			}
			return el, true, "", nil
		},
	}
}

// TitleContains holds once the page title contains substr.
func TitleContains(substr string) Condition {
	return Condition{
		Description: fmt.Sprintf("title containing %q", substr),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, bool, string, error) {
			title, err := s.Title(ctx)
			if err != nil {
				return nil, false, "", err
			}
			return nil, strings.Contains(title, substr), fmt.Sprintf("title %q", title), nil
		},
	}
}

// URLContains holds once the current URL contains substr.
func URLContains(substr string) Condition {
	return Condition{
		Description: fmt.Sprintf("url containing %q", substr),
		Check: func(ctx context.Context, s interfaces.Session) (interfaces.Element, bool, string, error) {
			url, err := s.CurrentURL(ctx)
			if err != nil {
				return nil, false, "", err
			}
			return nil, strings.Contains(url, substr), fmt.Sprintf("url %q", url), nil
		},
	}
}

package simulated

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

// Element is a node of a simulated document.
type Element struct {
	session    *Session
	node       *html.Node
	generation int
	selector   entities.Selector
}

var _ interfaces.Element = (*Element)(nil)

func (e *Element) Selector() entities.Selector { return e.selector }

// lock acquires the session and checks the element still belongs to the
// loaded document. Callers must unlock on success.
func (e *Element) lock(ctx context.Context) error {
	s := e.session
	s.mu.Lock()
	if err := s.live(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.generation != e.generation {
		s.mu.Unlock()
		return fmt.Errorf("%w: stale element reference %s", entities.ErrNoSuchElement, e.selector)
	}
	return nil
}

func (e *Element) unlock() { e.session.mu.Unlock() }

func (e *Element) sel() *goquery.Selection { return e.session.doc.FindNodes(e.node) }

func (e *Element) isFormControl() bool {
	switch e.node.Data {
	case "input", "textarea", "select", "button":
		return true
	}
	return false
}

func (e *Element) stateLocked() entities.ElementState {
	attrs := make(map[string]string)
	for _, a := range e.node.Attr {
		switch a.Key {
		case "id", "class", "name", "type", "value", "href":
			attrs[a.Key] = a.Val
		}
	}
	text := ""
	if e.node.Data != "input" {
		text = visibleText(e.node)
	}
	return entities.ElementState{
		Selector:   e.selector,
		TagName:    e.node.Data,
		Text:       text,
		Attributes: attrs,
		IsVisible:  !isHidden(e.node),
		IsEnabled:  !(e.isFormControl() && hasAttr(e.node, "disabled")),
	}
}

func (e *Element) requireInteractable(gesture entities.GestureType) error {
	state := e.stateLocked()
	if !state.Interactable() {
		return &entities.ElementNotInteractableError{Gesture: gesture, State: state}
	}
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := e.lock(ctx); err != nil {
		return "", err
	}
	defer e.unlock()
	if e.node.Data == "input" {
		return "", nil
	}
	return visibleText(e.node), nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.lock(ctx); err != nil {
		return "", err
	}
	defer e.unlock()
	switch name {
	case "value":
		return e.value(), nil
	case "checked", "selected", "disabled":
		if hasAttr(e.node, name) {
			return "true", nil
		}
		return "", nil
	}
	return attr(e.node, name), nil
}

func (e *Element) State(ctx context.Context) (entities.ElementState, error) {
	if err := e.lock(ctx); err != nil {
		return entities.ElementState{}, err
	}
	defer e.unlock()
	return e.stateLocked(), nil
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	if err := e.lock(ctx); err != nil {
		return false, err
	}
	defer e.unlock()
	switch e.node.Data {
	case "input":
		return hasAttr(e.node, "checked"), nil
	case "option":
		return hasAttr(e.node, "selected"), nil
	}
	return false, nil
}

// activate applies the default action of a click: radios and checkboxes
// change state, submit controls send their form. It reports whether the
// page was replaced.
func (e *Element) activate() bool {
	s := e.session
	target := e.sel()
	typ := strings.ToLower(attr(e.node, "type"))
	switch {
	case e.node.Data == "input" && typ == "radio":
		if name := attr(e.node, "name"); name != "" {
			s.doc.Find(fmt.Sprintf(`input[type="radio"][name="%s"]`, name)).RemoveAttr("checked")
		}
		target.SetAttr("checked", "")
	case e.node.Data == "input" && typ == "checkbox":
		if hasAttr(e.node, "checked") {
			target.RemoveAttr("checked")
		} else {
			target.SetAttr("checked", "")
		}
	case (e.node.Data == "input" || e.node.Data == "button") && typ == "submit":
		s.dispatch(EventClick, e.node)
		s.submit(e.node)
		return true
	}
	s.dispatch(EventClick, e.node)
	return false
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()
	if err := e.requireInteractable(entities.GestureClick); err != nil {
		return err
	}
	e.activate()
	return nil
}

func (e *Element) DoubleClick(ctx context.Context) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()
	if err := e.requireInteractable(entities.GestureDoubleClick); err != nil {
		return err
	}
	if e.activate() || e.activate() {
		return nil
	}
	e.session.dispatch(EventDoubleClick, e.node)
	return nil
}

func (e *Element) ContextClick(ctx context.Context) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()
	if err := e.requireInteractable(entities.GestureContextClick); err != nil {
		return err
	}
	e.session.dispatch(EventContextMenu, e.node)
	return nil
}

func (e *Element) editable() error {
	switch e.node.Data {
	case "input", "textarea":
		return nil
	}
	return fmt.Errorf("invalid element state: <%s> is not editable", e.node.Data)
}

func (e *Element) Clear(ctx context.Context) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.requireInteractable(entities.GestureTypeText); err != nil {
		return err
	}
	e.setValue("")
	return nil
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()
	if err := e.editable(); err != nil {
		return err
	}
	if strings.EqualFold(attr(e.node, "type"), "file") {
		return e.setFilesLocked([]string{text})
	}
	if err := e.requireInteractable(entities.GestureTypeText); err != nil {
		return err
	}
	e.setValue(e.value() + text)
	return nil
}

func (e *Element) SetFiles(ctx context.Context, paths ...string) error {
	if err := e.lock(ctx); err != nil {
		return err
	}
	defer e.unlock()
	return e.setFilesLocked(paths)
}

func (e *Element) setFilesLocked(paths []string) error {
	if e.node.Data != "input" || !strings.EqualFold(attr(e.node, "type"), "file") {
		return fmt.Errorf("invalid element state: %s is not a file input", e.selector)
	}
	if hasAttr(e.node, "disabled") {
		return &entities.ElementNotInteractableError{Gesture: entities.GestureSetFile, State: e.stateLocked()}
	}
	value := ""
	if len(paths) > 0 {
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				return fmt.Errorf("file not found: %s: %w", p, err)
			}
		}
		// browsers hide the real directory behind a fake path
		value = `C:\fakepath\` + filepath.Base(paths[0])
	}
	e.setValue(value)
	e.session.dispatch(EventChange, e.node)
	return nil
}

func (e *Element) value() string {
	if e.node.Data == "textarea" {
		return e.sel().Text()
	}
	return attr(e.node, "value")
}

func (e *Element) setValue(v string) {
	if e.node.Data == "textarea" {
		e.sel().SetText(v)
		return
	}
	e.sel().SetAttr("value", v)
}

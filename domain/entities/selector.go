package entities

import "fmt"

// By is a strategy for locating elements on a page.
type By string

const (
	ByID      By = "id"
	ByCSS     By = "css selector"
	ByXPath   By = "xpath"
	ByTagName By = "tag name"
)

// Selector locates one or more DOM nodes.
type Selector struct {
	By    By     `json:"by"`
	Value string `json:"value"`
}

func ID(id string) Selector        { return Selector{By: ByID, Value: id} }
func CSS(css string) Selector      { return Selector{By: ByCSS, Value: css} }
func XPath(xpath string) Selector  { return Selector{By: ByXPath, Value: xpath} }
func TagName(name string) Selector { return Selector{By: ByTagName, Value: name} }

func (s Selector) String() string {
	return fmt.Sprintf("%s=%s", s.By, s.Value)
}

// CSSQuery returns the selector expressed as CSS when the strategy allows it.
// XPath selectors report ok=false.
func (s Selector) CSSQuery() (string, bool) {
	switch s.By {
	case ByID:
		return "#" + s.Value, true
	case ByCSS, ByTagName:
		return s.Value, true
	default:
		return "", false
	}
}

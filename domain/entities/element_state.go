package entities

import (
	"fmt"
	"strings"
)

// ElementState is what a located element looked like at one instant.
// It is attached to failures so a report shows what the harness saw.
type ElementState struct {
	Selector   Selector          `json:"selector"`
	TagName    string            `json:"tag_name,omitempty"`
	Text       string            `json:"text,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsVisible  bool              `json:"is_visible"`
	IsEnabled  bool              `json:"is_enabled"`
}

// Interactable reports whether a gesture could target the element.
func (s ElementState) Interactable() bool {
	return s.IsVisible && s.IsEnabled
}

func (s ElementState) String() string {
	parts := []string{s.Selector.String()}
	if s.TagName != "" {
		parts = append(parts, "<"+s.TagName+">")
	}
	parts = append(parts, fmt.Sprintf("visible=%t enabled=%t", s.IsVisible, s.IsEnabled))
	if s.Text != "" {
		parts = append(parts, fmt.Sprintf("text=%q", truncate(s.Text, 80)))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

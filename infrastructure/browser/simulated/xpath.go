package simulated

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// queryXPath evaluates expr over the live document. Page scripts mutate the
// same nodes goquery holds, so the result reflects the current DOM.
// Must be called with s.mu held.
func (s *Session) queryXPath(expr string) (*goquery.Selection, error) {
	nodes, err := htmlquery.QueryAll(s.doc.Nodes[0], expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	elements := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elements = append(elements, n)
		}
	}
	return s.doc.FindNodes(elements...), nil
}

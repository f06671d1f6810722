package simulated

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// isHidden reports whether n or an ancestor is hidden from rendering.
func isHidden(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if hasAttr(cur, "hidden") {
			return true
		}
		style := strings.ReplaceAll(strings.ToLower(attr(cur, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
		if cur.Data == "input" && strings.EqualFold(attr(cur, "type"), "hidden") {
			return true
		}
		if cur.Data == "head" {
			return true
		}
	}
	return false
}

// visibleText is the rendered text of n: hidden descendants are skipped and
// whitespace is collapsed.
func visibleText(n *html.Node) string {
	if isHidden(n) {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.ElementNode && cur != n && isHiddenSelf(cur) {
			return
		}
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteByte(' ')
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return normalizeSpace(b.String())
}

func isHiddenSelf(n *html.Node) bool {
	if hasAttr(n, "hidden") || n.Data == "script" || n.Data == "style" {
		return true
	}
	style := strings.ReplaceAll(strings.ToLower(attr(n, "style")), " ", "")
	return strings.Contains(style, "display:none")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

// show removes inline display:none from the selection.
func show(s *goquery.Selection) {
	s.Each(func(_ int, el *goquery.Selection) {
		style, ok := el.Attr("style")
		if !ok {
			return
		}
		cleaned := strings.ReplaceAll(strings.ReplaceAll(style, "display:none", ""), "display: none", "")
		cleaned = strings.Trim(strings.TrimSpace(cleaned), ";")
		if cleaned == "" {
			el.RemoveAttr("style")
		} else {
			el.SetAttr("style", cleaned)
		}
	})
}

// hide adds inline display:none to the selection.
func hide(s *goquery.Selection) {
	s.Each(func(_ int, el *goquery.Selection) {
		if isHiddenSelf(el.Nodes[0]) {
			return
		}
		style := strings.TrimSpace(el.AttrOr("style", ""))
		if style != "" && !strings.HasSuffix(style, ";") {
			style += ";"
		}
		el.SetAttr("style", style+"display:none")
	})
}

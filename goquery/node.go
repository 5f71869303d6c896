package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/servicedoc"
	"golang.org/x/net/html"
)

var _ servicedoc.Node = (*Node)(nil)

// Node adapts a single-element goquery selection to servicedoc.Node.
type Node struct {
	sel *goquery.Selection
}

// wrap returns nil for an empty selection so callers see an untyped nil.
func wrap(sel *goquery.Selection) servicedoc.Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel.First()}
}

// Tag returns the lower-cased element name. The document root reports
// "#document".
func (n *Node) Tag() string {
	return goquery.NodeName(n.sel)
}

// Text returns the trimmed text content of the element and its descendants.
func (n *Node) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// HasClass reports whether class appears in the element's class list.
func (n *Node) HasClass(class string) bool {
	return n.sel.HasClass(class)
}

// Parent returns the enclosing element. The document node is not an
// element, so the <html> element has no parent.
func (n *Node) Parent() servicedoc.Node {
	node := n.sel.Get(0)
	if node.Parent == nil || node.Parent.Type != html.ElementNode {
		return nil
	}
	return wrap(n.sel.Parent())
}

// NextElementSibling returns the next sibling element, skipping text and
// comments.
func (n *Node) NextElementSibling() servicedoc.Node {
	return wrap(n.sel.Next())
}

// FindClass returns the first descendant with class in document order.
func (n *Node) FindClass(class string) servicedoc.Node {
	return wrap(n.withClass(class).First())
}

// FindAllClass returns every descendant with class in document order.
func (n *Node) FindAllClass(class string) []servicedoc.Node {
	matches := n.withClass(class)
	nodes := make([]servicedoc.Node, 0, matches.Length())
	matches.Each(func(_ int, sel *goquery.Selection) {
		nodes = append(nodes, &Node{sel: sel})
	})
	return nodes
}

// withClass filters descendants by class list membership rather than a CSS
// class selector, so class names never need escaping.
func (n *Node) withClass(class string) *goquery.Selection {
	return n.sel.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return sel.HasClass(class)
	})
}

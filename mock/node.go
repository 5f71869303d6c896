package mock

import (
	"strings"

	"github.com/fwojciec/servicedoc"
)

var _ servicedoc.Node = (*Node)(nil)

// Node is an in-memory element tree implementing servicedoc.Node, for
// exercising extraction logic without an HTML parser.
type Node struct {
	Name     string
	Classes  []string
	Content  string
	Children []*Node

	parent *Node
}

// Element builds an element node. class is a space-separated class list.
// Children are linked to the new node.
func Element(tag, class string, children ...*Node) *Node {
	n := &Node{Name: tag, Classes: strings.Fields(class), Children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// TextElement builds a leaf element holding text.
func TextElement(tag, class, text string) *Node {
	n := Element(tag, class)
	n.Content = text
	return n
}

func (n *Node) Tag() string {
	return n.Name
}

func (n *Node) Text() string {
	return strings.TrimSpace(n.rawText())
}

func (n *Node) rawText() string {
	var sb strings.Builder
	sb.WriteString(n.Content)
	for _, c := range n.Children {
		sb.WriteString(c.rawText())
	}
	return sb.String()
}

func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (n *Node) Parent() servicedoc.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) NextElementSibling() servicedoc.Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.Children
	for i, s := range siblings {
		if s == n && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

func (n *Node) FindClass(class string) servicedoc.Node {
	if found := n.FindAllClass(class); len(found) > 0 {
		return found[0]
	}
	return nil
}

func (n *Node) FindAllClass(class string) []servicedoc.Node {
	var out []servicedoc.Node
	for _, c := range n.Children {
		if c.HasClass(class) {
			out = append(out, c)
		}
		out = append(out, c.FindAllClass(class)...)
	}
	return out
}

var _ servicedoc.HTMLParser = (*HTMLParser)(nil)

// HTMLParser is a mock implementation of servicedoc.HTMLParser.
type HTMLParser struct {
	ParseHTMLFn func(html string) (servicedoc.Node, error)
}

func (p *HTMLParser) ParseHTML(html string) (servicedoc.Node, error) {
	return p.ParseHTMLFn(html)
}

package servicedoc

// Node is the minimal element query capability the extractor needs from a
// parsed HTML document. Implementations must return a nil interface (not a
// typed nil) when a relative does not exist.
type Node interface {
	// Tag returns the lower-cased element name (e.g., "span", "td").
	Tag() string

	// Text returns the element's text content with surrounding whitespace trimmed.
	Text() string

	// HasClass reports whether the element's class attribute contains class.
	HasClass(class string) bool

	// Parent returns the enclosing element, or nil at the top of the tree.
	Parent() Node

	// NextElementSibling returns the next sibling that is an element,
	// skipping text and comment nodes, or nil.
	NextElementSibling() Node

	// FindClass returns the first descendant carrying class in document
	// order, or nil. The node itself is not considered.
	FindClass(class string) Node

	// FindAllClass returns all descendants carrying class in document order.
	FindAllClass(class string) []Node
}

// HTMLParser parses raw markup into a queryable tree.
type HTMLParser interface {
	// ParseHTML parses html and returns the document root.
	// Returns EINVALID if the markup cannot be read.
	ParseHTML(html string) (Node, error)
}

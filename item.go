package servicedoc

import "strings"

// Class markers used by the planning-tool export.
const (
	ClassTitle         = "title"
	ClassHeaderWrapper = "header-wrapper"
	ClassHeader        = "header"
	ClassDescription   = "item--description"
)

// RawItem is one scraped bulletin line, in document order.
type RawItem struct {
	Text        string `json:"text"`
	Description string `json:"description"`

	// Section is the upper-cased label of the most recent section header,
	// or empty before the first header.
	Section string `json:"section,omitempty"`

	// HymnPosition is the 1-based ordinal of this item among hymn items,
	// or 0 when the text does not mention a hymn.
	HymnPosition int `json:"hymnPosition"`
}

// IsHymn reports whether text mentions a hymn.
func IsHymn(text string) bool {
	return strings.Contains(strings.ToLower(text), "hymn")
}

// TitleSpans returns every span element marked as a title, in document order.
func TitleSpans(root Node) []Node {
	if root == nil {
		return nil
	}
	var spans []Node
	for _, n := range root.FindAllClass(ClassTitle) {
		if n.Tag() == "span" {
			spans = append(spans, n)
		}
	}
	return spans
}

// ExtractItems converts title spans into raw bulletin items.
//
// Spans nested in a header wrapper set the current section and are not
// emitted. Spans with empty text are skipped and do not advance the hymn
// counter.
func ExtractItems(spans []Node) []RawItem {
	items := make([]RawItem, 0, len(spans))
	var section string
	hymnCount := 0

	for _, span := range spans {
		text := span.Text()
		if text == "" {
			continue
		}

		if grandparent := grandparentOf(span); grandparent != nil && grandparent.HasClass(ClassHeaderWrapper) {
			if header := findTagWithClass(grandparent, "td", ClassHeader); header != nil {
				section = strings.ToUpper(header.Text())
			}
			continue
		}

		var description string
		if el := findDescription(span.Parent()); el != nil {
			description = el.Text()
		}

		position := 0
		if IsHymn(text) {
			hymnCount++
			position = hymnCount
		}

		items = append(items, RawItem{
			Text:         text,
			Description:  description,
			Section:      section,
			HymnPosition: position,
		})
	}

	return items
}

func grandparentOf(n Node) Node {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	return parent.Parent()
}

// findDescription walks from start through its following element siblings
// and returns the first one that is, or contains, a description element.
func findDescription(start Node) Node {
	for current := start; current != nil; current = current.NextElementSibling() {
		if current.HasClass(ClassDescription) {
			return current
		}
		if child := current.FindClass(ClassDescription); child != nil {
			return child
		}
	}
	return nil
}

func findTagWithClass(n Node, tag, class string) Node {
	for _, candidate := range n.FindAllClass(class) {
		if candidate.Tag() == tag {
			return candidate
		}
	}
	return nil
}

package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/servicedoc"
)

var _ servicedoc.HTMLParser = (*HTMLParser)(nil)

// HTMLParser parses markup with goquery.
type HTMLParser struct{}

// NewHTMLParser creates a new HTMLParser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// ParseHTML parses markup into a document root node. Empty or malformed
// markup still yields a tree, as browsers would build one.
func (p *HTMLParser) ParseHTML(markup string) (servicedoc.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, servicedoc.Errorf(servicedoc.EINVALID, "failed to parse HTML: %v", err)
	}

	return &Node{sel: doc.Selection}, nil
}

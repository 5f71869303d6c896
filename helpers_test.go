package servicedoc_test

import (
	"github.com/fwojciec/servicedoc/mock"
)

// row builds an order-of-service row: a title span with an optional
// description in the same cell.
func row(title, description string) *mock.Node {
	cell := []*mock.Node{mock.TextElement("span", "title", title)}
	if description != "" {
		cell = append(cell, mock.TextElement("div", "item--description", description))
	}
	return mock.Element("tr", "item", mock.Element("td", "", cell...))
}

// header builds a section header row.
func header(label string) *mock.Node {
	return mock.Element("tr", "header-wrapper",
		mock.Element("td", "header", mock.TextElement("span", "title", label)),
	)
}

func table(rows ...*mock.Node) *mock.Node {
	return mock.Element("table", "", rows...)
}

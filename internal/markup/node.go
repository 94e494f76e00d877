// Package markup exposes parsed HTML pages as a small typed tree-query interface
// so extraction code never touches a concrete parsing library.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is a handle on one element (or the document root) of a parsed page.
type Node interface {
	// Find returns every descendant matching the CSS selector, in document order.
	Find(selector string) []Node

	// First returns the first descendant matching the selector.
	First(selector string) (Node, bool)

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Classes returns the tokens of the class attribute.
	Classes() []string

	// Text returns the trimmed text content of the node and its descendants.
	Text() string
}

// Parse parses raw markup into a document node
func Parse(body string) (Node, error) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromDocument(goquery.NewDocumentFromNode(root)), nil
}

// FromDocument wraps an already parsed goquery document
func FromDocument(doc *goquery.Document) Node {
	if doc == nil {
		return selection{sel: &goquery.Selection{}}
	}
	return selection{sel: doc.Selection}
}

type selection struct {
	sel *goquery.Selection
}

func (s selection) Find(selector string) []Node {
	found := s.sel.Find(selector)
	nodes := make([]Node, 0, found.Length())
	found.Each(func(_ int, item *goquery.Selection) {
		nodes = append(nodes, selection{sel: item})
	})
	return nodes
}

func (s selection) First(selector string) (Node, bool) {
	found := s.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{sel: found}, true
}

func (s selection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

func (s selection) Classes() []string {
	class, ok := s.sel.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(class)
}

func (s selection) Text() string {
	return strings.TrimSpace(s.sel.Text())
}

package html

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GoQueryDocument wraps goquery.Document to implement our Document interface
type GoQueryDocument struct {
	doc *goquery.Document
}

// GoQueryNode wraps goquery.Selection to implement our Node interface
type GoQueryNode struct {
	selection *goquery.Selection
}

// GoQueryParser implements our Parser interface using goquery
type GoQueryParser struct{}

// NewParser creates a new GoQuery-based HTML parser
func NewParser() *GoQueryParser {
	return &GoQueryParser{}
}

// documentMarkers identify input that is a whole page rather than a fragment
var documentMarkers = regexp.MustCompile(`(?i)<(!doctype|html|head|body)[\s>]`)

// Parse parses an HTML string. Whole pages are parsed as documents; anything
// else is parsed as a fragment so serialization doesn't wrap it in
// <html><head></head><body>. Fragments use a <template> context, which
// accepts table parts such as <tr> and <td> at the top level.
func (p *GoQueryParser) Parse(htmlStr string) (Document, error) {
	if documentMarkers.MatchString(htmlStr) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		return &GoQueryDocument{doc: doc}, nil
	}

	context := &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
	nodes, err := html.ParseFragment(strings.NewReader(htmlStr), context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	return &GoQueryDocument{doc: goquery.NewDocumentFromNode(root)}, nil
}

// templateSpans matches template expressions in rendered markup
var templateSpans = regexp.MustCompile(`\{\{[^{}]*\}\}|\{%[^{}]*%\}`)

// restoreTemplates undoes the renderer's escaping of apostrophes inside
// template expressions. Attribute values are always double-quoted, and the
// template engine reads the raw markup before entities are decoded.
func restoreTemplates(s string) string {
	return templateSpans.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "&#39;", "'")
	})
}

// Document implementation

// Root returns the document node
func (d *GoQueryDocument) Root() Node {
	return &GoQueryNode{selection: d.doc.Selection}
}

// QuerySelector returns the first element matching the selector
func (d *GoQueryDocument) QuerySelector(selector string) (Node, error) {
	return d.Root().QuerySelector(selector)
}

// QuerySelectorAll returns all elements matching the selector
func (d *GoQueryDocument) QuerySelectorAll(selector string) ([]Node, error) {
	return d.Root().QuerySelectorAll(selector)
}

// HTML returns the complete HTML document as string
func (d *GoQueryDocument) HTML() (string, error) {
	out, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}
	return restoreTemplates(out), nil
}

// Node implementation

// TagName returns the element's tag name
func (n *GoQueryNode) TagName() string {
	if n.selection.Length() == 0 {
		return ""
	}
	return goquery.NodeName(n.selection)
}

// Attr returns an attribute value and whether it is present
func (n *GoQueryNode) Attr(name string) (string, bool) {
	return n.selection.Attr(name)
}

// Text returns the text content
func (n *GoQueryNode) Text() string {
	return n.selection.Text()
}

// OuterHTML renders the element itself and its subtree
func (n *GoQueryNode) OuterHTML() (string, error) {
	if n.selection.Length() == 0 {
		return "", nil
	}
	out, err := goquery.OuterHtml(n.selection)
	if err != nil {
		return "", fmt.Errorf("failed to serialize element: %w", err)
	}
	return restoreTemplates(out), nil
}

// QuerySelector returns the first descendant matching the selector
func (n *GoQueryNode) QuerySelector(selector string) (Node, error) {
	selection := n.selection.Find(selector).First()
	if selection.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	return &GoQueryNode{selection: selection}, nil
}

// QuerySelectorAll returns all descendants matching the selector in document order
func (n *GoQueryNode) QuerySelectorAll(selector string) ([]Node, error) {
	selection := n.selection.Find(selector)
	nodes := make([]Node, selection.Length())

	selection.Each(func(i int, s *goquery.Selection) {
		nodes[i] = &GoQueryNode{selection: s}
	})

	return nodes, nil
}

// SetAttribute sets an attribute on the element
func (n *GoQueryNode) SetAttribute(name, value string) error {
	if n.selection.Length() == 0 {
		return fmt.Errorf("no element to set attribute on")
	}

	n.selection.SetAttr(name, value)
	return nil
}

// SetText replaces the element's children with a single text node.
// Unlike goquery's SetText the content is stored raw, so <style> and
// <script> bodies survive without entity escaping.
func (n *GoQueryNode) SetText(content string) error {
	if n.selection.Length() == 0 {
		return fmt.Errorf("no element to set text on")
	}

	for _, node := range n.selection.Nodes {
		for c := node.FirstChild; c != nil; {
			next := c.NextSibling
			node.RemoveChild(c)
			c = next
		}
		node.AppendChild(&html.Node{Type: html.TextNode, Data: content})
	}
	return nil
}

// Remove detaches the element from the tree
func (n *GoQueryNode) Remove() error {
	if n.selection.Length() == 0 {
		return fmt.Errorf("no element to remove")
	}

	n.selection.Remove()
	return nil
}

// Package html is the mutable document tree the rewriters walk.
package html

import "errors"

// ErrNoMatch is returned by QuerySelector when nothing matches the selector
var ErrNoMatch = errors.New("no element matches selector")

// Node is an element the walkers read references from and write them back to
type Node interface {
	TagName() string
	Attr(name string) (string, bool)

	// Text is the concatenated text content; for <style> this is the raw stylesheet
	Text() string
	OuterHTML() (string, error)

	// Selection is limited to descendants, never the node itself
	QuerySelector(selector string) (Node, error)
	QuerySelectorAll(selector string) ([]Node, error)

	SetAttribute(name, value string) error
	SetText(content string) error
	Remove() error
}

// Document is a parsed page or fragment. Walkers own it exclusively for the
// duration of one rewrite.
type Document interface {
	Root() Node
	QuerySelector(selector string) (Node, error)
	QuerySelectorAll(selector string) ([]Node, error)

	// HTML renders the whole document, or just the fragment when the input had
	// no document structure
	HTML() (string, error)
}

// Parser turns markup into a Document
type Parser interface {
	Parse(html string) (Document, error)
}

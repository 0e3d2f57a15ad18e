// Package srcset parses and reassembles srcset attribute values.
package srcset

import (
	"strings"
	"unicode"
)

// Candidate is one image candidate of a srcset: a URL followed by optional
// width/density descriptors.
type Candidate struct {
	URL         string
	Descriptors []string
}

// Set is an ordered list of candidates.
type Set []Candidate

// Parse splits a srcset value into candidates following the WHATWG parsing
// rules: a URL runs until whitespace, trailing commas end a candidate, and
// descriptors run until a comma outside parentheses.
func Parse(s string) Set {
	type state int
	const (
		stateStart state = iota
		stateURL
		stateDescriptor
		stateParens
	)

	var (
		set   Set
		cur   Candidate
		start int
		st    = stateStart
	)

	flush := func() {
		if cur.URL != "" {
			set = append(set, cur)
		}
		cur = Candidate{}
	}
	setURL := func(end int) {
		cur.URL = strings.TrimRight(s[start:end], ",")
	}
	addDescriptor := func(end int) {
		if start < end {
			cur.Descriptors = append(cur.Descriptors, s[start:end])
		}
	}

	for i, r := range s {
		switch st {
		case stateStart:
			if !unicode.IsSpace(r) && r != ',' {
				start = i
				st = stateURL
			}

		case stateURL:
			if !unicode.IsSpace(r) {
				continue
			}
			setURL(i)
			if s[i-1] == ',' {
				flush()
				st = stateStart
			} else {
				start = i + 1
				st = stateDescriptor
			}

		case stateDescriptor:
			switch {
			case unicode.IsSpace(r):
				addDescriptor(i)
				start = i + 1
			case r == ',':
				addDescriptor(i)
				flush()
				st = stateStart
			case r == '(':
				st = stateParens
			}

		case stateParens:
			if r == ')' {
				st = stateDescriptor
			}
		}
	}

	switch st {
	case stateURL:
		setURL(len(s))
	case stateDescriptor, stateParens:
		addDescriptor(len(s))
	}
	flush()

	return set
}

// String joins the candidates back with ", " separators.
func (s Set) String() string {
	var b strings.Builder

	for i, c := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.URL)
		for _, d := range c.Descriptors {
			b.WriteByte(' ')
			b.WriteString(d)
		}
	}

	return b.String()
}

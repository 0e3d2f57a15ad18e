// Package paths turns raw reference values into canonical absolute paths.
package paths

import (
	"net/url"
	"path"
	"strings"
)

// Normalizer resolves reference paths against a base path and strips an
// optional migration prefix.
type Normalizer struct {
	// Base is the directory relative references are resolved against ("/" when empty).
	Base string

	// Prefix is removed from canonical paths that start with it.
	Prefix string
}

// Normalize resolves raw against base with no prefix stripping.
func Normalize(raw, base string) string {
	return Normalizer{Base: base}.Normalize(raw)
}

// Normalize decodes raw, drops its query and fragment and returns the
// canonical path. It never fails; malformed input degrades to a best-effort path.
func (n Normalizer) Normalize(raw string) string {
	p, _, _ := Split(raw)
	return n.Canonical(p)
}

// Canonical resolves an already split path component.
func (n Normalizer) Canonical(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")

	if !strings.HasPrefix(p, "/") {
		base := n.Base
		if base == "" {
			base = "/"
		}
		p = path.Join("/", base, p)
	}
	p = path.Clean(p)

	if prefix := strings.TrimSuffix(n.Prefix, "/"); prefix != "" {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			p = "/" + strings.TrimPrefix(p, prefix)
		}
	}

	return collapseSlashes(p)
}

// Split separates raw into path, query and fragment and percent-decodes the
// path. The query and fragment stay encoded, without their leading '?' and
// '#', so an escaped '&' or '=' keeps its meaning when they are re-attached.
func Split(raw string) (p, query, fragment string) {
	p = raw
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p, fragment = p[:i], p[i+1:]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p, query = p[:i], p[i+1:]
	}

	return Decode(p), query, fragment
}

// Escape percent-encodes a decoded path for use in markup. It is the inverse
// of the decoding Split applies, so a literal '?' or '#' is escaped too.
func Escape(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// Decode percent-decodes s, returning it untouched when it holds a malformed escape.
func Decode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// Join re-attaches a query and fragment to a path. A path that already
// carries a query gets the extra parameters appended with '&'.
func Join(p, query, fragment string) string {
	if query != "" {
		sep := "?"
		if strings.Contains(p, "?") {
			sep = "&"
		}
		p += sep + query
	}
	if fragment != "" {
		p += "#" + fragment
	}
	return p
}

func collapseSlashes(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

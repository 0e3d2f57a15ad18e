// Package classify decides how a single reference value found in a document
// is rewritten for the target platform.
package classify

import (
	"fmt"
	"net/url"
	"strings"

	"hstools/internal/paths"
	"hstools/internal/resolver"
	"hstools/internal/rules"
)

// Context describes where a value was found.
type Context int

const (
	// ContextLink is an href on <a> or <link>: page links keep their path form.
	ContextLink Context = iota
	// ContextAsset is a src or srcset value.
	ContextAsset
	// ContextCSS is a url() argument inside a stylesheet.
	ContextCSS
)

func (c Context) String() string {
	switch c {
	case ContextLink:
		return "link"
	case ContextAsset:
		return "asset"
	case ContextCSS:
		return "css"
	default:
		return "unknown"
	}
}

// ContextFor maps a tag/attribute pair to its rewrite context.
func ContextFor(tag, attr string) Context {
	if attr == "href" && (tag == "a" || tag == "link") {
		return ContextLink
	}
	return ContextAsset
}

// Kind is the category a value was classified into.
type Kind int

const (
	// Unroutable values are empty, fragments, template expressions or non-HTTP schemes.
	Unroutable Kind = iota
	// ExternalSkip is an absolute URL on a foreign host.
	ExternalSkip
	// Image is an internal image, rewritten to an asset reference.
	Image
	// Asset is an internal non-image, non-page file, rewritten to an asset reference.
	Asset
	// MarkupRewrite is an internal page path rewritten through the profile rules.
	MarkupRewrite
	// GenericSkip is a page-like src value no rule applies to.
	GenericSkip
)

func (k Kind) String() string {
	switch k {
	case Unroutable:
		return "unroutable"
	case ExternalSkip:
		return "external"
	case Image:
		return "image"
	case Asset:
		return "asset"
	case MarkupRewrite:
		return "markup"
	case GenericSkip:
		return "generic"
	default:
		return "unknown"
	}
}

// Options configure a Classifier.
type Options struct {
	// Base is the path relative references resolve against.
	Base string
	// PathPrefix is stripped from canonical paths.
	PathPrefix string
	// TargetHost marks absolute URLs on this host as internal.
	TargetHost string
	// Rules rewrite page paths, first match wins.
	Rules rules.Set
}

// Classifier rewrites individual reference values.
type Classifier struct {
	normalizer paths.Normalizer
	targetHost string
	rules      rules.Set
	resolver   *resolver.Resolver
}

// New creates a classifier producing asset references with res.
func New(res *resolver.Resolver, opts Options) *Classifier {
	return &Classifier{
		normalizer: paths.Normalizer{Base: opts.Base, Prefix: opts.PathPrefix},
		targetHost: strings.TrimSpace(opts.TargetHost),
		rules:      opts.Rules,
		resolver:   res,
	}
}

// Result is the outcome of classifying one value.
type Result struct {
	Kind  Kind
	Value string
	// Internal is set when the value was an absolute URL on the target host.
	Internal bool
}

// Changed reports whether the result differs from the original value.
func (r Result) Changed(original string) bool {
	return r.Value != original
}

// Rewrite classifies raw in the given context and returns its replacement.
// Values that cannot be classified confidently are returned unchanged. The
// only error is a missing theme when an asset reference has to be produced.
func (c *Classifier) Rewrite(raw string, ctx Context) (Result, error) {
	keep := func(k Kind) (Result, error) {
		return Result{Kind: k, Value: raw}, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" || strings.HasPrefix(value, "#") || resolver.IsAssetReference(value) {
		return keep(Unroutable)
	}

	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return keep(Unroutable)
	}

	u, err := url.Parse(value)
	if err != nil {
		return keep(Unroutable)
	}

	internal := false
	switch {
	case u.Scheme == "http" || u.Scheme == "https" || (u.Scheme == "" && u.Host != ""):
		if !c.isTargetHost(u) {
			return keep(ExternalSkip)
		}
		internal = true
		value = stripOrigin(u)

	case u.Scheme != "":
		return keep(Unroutable)
	}

	p, query, fragment := paths.Split(value)
	canonical := c.normalizer.Canonical(p)

	if paths.IsImage(canonical) {
		return c.asset(Image, canonical, internal)
	}
	if ctx == ContextCSS {
		return c.asset(Asset, canonical, internal)
	}

	rewritten, matched := c.rules.Apply(canonical)
	if resolver.IsAssetReference(rewritten) {
		return Result{Kind: MarkupRewrite, Value: rewritten, Internal: internal}, nil
	}
	if !paths.IsPage(rewritten) {
		return c.asset(Asset, rewritten, internal)
	}
	if ctx == ContextAsset && !matched {
		return Result{Kind: GenericSkip, Value: raw, Internal: internal}, nil
	}

	return Result{
		Kind:     MarkupRewrite,
		Value:    paths.Join(escapeRewritten(canonical, rewritten), query, fragment),
		Internal: internal,
	}, nil
}

func (c *Classifier) asset(kind Kind, canonical string, internal bool) (Result, error) {
	ref, err := c.resolver.AssetReference(canonical)
	if err != nil {
		return Result{}, fmt.Errorf("asset reference for %s: %w", canonical, err)
	}
	return Result{Kind: kind, Value: ref, Internal: internal}, nil
}

func (c *Classifier) isTargetHost(u *url.URL) bool {
	if c.targetHost == "" {
		return false
	}
	return strings.EqualFold(u.Host, c.targetHost) || strings.EqualFold(u.Hostname(), c.targetHost)
}

// escapeRewritten re-encodes a rewritten page path. A query or fragment that a
// rule appended is kept as written; one that was already in the decoded path
// is literal text and gets escaped with the rest.
func escapeRewritten(canonical, rewritten string) string {
	if !strings.ContainsAny(canonical, "?#") {
		if i := strings.IndexAny(rewritten, "?#"); i >= 0 {
			return paths.Escape(rewritten[:i]) + rewritten[i:]
		}
	}
	return paths.Escape(rewritten)
}

// stripOrigin drops scheme and host, keeping path, query and fragment.
func stripOrigin(u *url.URL) string {
	ref := u.EscapedPath()
	if u.RawQuery != "" {
		ref += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		ref += "#" + u.EscapedFragment()
	}
	return ref
}

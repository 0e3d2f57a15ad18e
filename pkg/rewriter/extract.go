package rewriter

import (
	"errors"
	"fmt"

	"hstools/internal/html"
)

// ErrSelectorNotFound is returned by Extract when the profile's source
// selector matches nothing. The returned result carries the input unmodified.
var ErrSelectorNotFound = errors.New("extract selector not found")

// Extract keeps the first element matching the profile's source selector,
// removes the first match of each drop selector inside it, rewrites the
// references that remain and returns the element's outer HTML.
func (r *Rewriter) Extract(content string) (*Result, error) {
	unmodified := newResult()
	unmodified.Output = content

	want := r.profile.Extract
	if !want.Enabled() {
		return unmodified, fmt.Errorf("%w: profile has no extract source selector", ErrSelectorNotFound)
	}

	doc, err := r.htmlParser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	src, err := doc.QuerySelector(want.Src)
	if err != nil {
		if errors.Is(err, html.ErrNoMatch) {
			r.log.Warn("extract selector matched nothing", "selector", want.Src)
			return unmodified, fmt.Errorf("%w: %s", ErrSelectorNotFound, want.Src)
		}
		return nil, fmt.Errorf("failed to select %q: %w", want.Src, err)
	}

	for _, drop := range want.Drops {
		node, err := src.QuerySelector(drop)
		if err != nil {
			if errors.Is(err, html.ErrNoMatch) {
				r.log.Debug("drop selector matched nothing", "selector", drop)
				continue
			}
			return nil, fmt.Errorf("failed to select %q: %w", drop, err)
		}
		if err := node.Remove(); err != nil {
			return nil, fmt.Errorf("failed to drop %q: %w", drop, err)
		}
	}

	result := newResult()
	if err := r.walk(src, src, result); err != nil {
		return nil, err
	}

	out, err := src.OuterHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize extracted element: %w", err)
	}

	result.Output = out
	r.log.Info("extracted element", "selector", want.Src, "drops", len(want.Drops), "changes", len(result.Changes))
	return result, nil
}

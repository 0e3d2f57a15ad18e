package rewriter

import (
	"fmt"
	"io"
	"strings"

	"hstools/internal/classify"
	"hstools/internal/css"
)

type cssRewriteFunc func(r io.Reader, w io.Writer, fn css.URLFunc) (int, error)

// RewriteCSS rewrites the url() references of a stylesheet. Every url() in a
// rewritable block becomes an asset reference.
func (r *Rewriter) RewriteCSS(content string) (*Result, error) {
	result := newResult()

	out, err := r.rewriteCSSText(result, "css", "url", content, css.RewriteStylesheet)
	if err != nil {
		return nil, err
	}

	result.Output = out
	r.log.Info("rewrote CSS", "changes", len(result.Changes), "values", result.Stats.ValuesSeen)
	return result, nil
}

func (r *Rewriter) rewriteCSSText(result *Result, tag, attr, content string, rewrite cssRewriteFunc) (string, error) {
	fn := func(raw string) (string, error) {
		return r.rewriteValue(result, tag, attr, raw, classify.ContextCSS)
	}

	var out strings.Builder
	n, err := rewrite(strings.NewReader(content), &out, fn)
	if err != nil {
		return "", fmt.Errorf("failed to rewrite %s CSS: %w", tag, err)
	}
	if n == 0 {
		return content, nil
	}
	return out.String(), nil
}

// Package rewriter rewrites resource references in HTML and CSS documents so
// they resolve under the target platform's asset convention.
package rewriter

import (
	"errors"
	"fmt"

	"hstools/internal/classify"
	"hstools/internal/config"
	"hstools/internal/html"
	"hstools/internal/logger"
	"hstools/internal/profile"
	"hstools/internal/resolver"
)

// Rewriter is the document rewriting engine for one profile and environment
type Rewriter struct {
	config     config.Config
	profile    *profile.Profile
	classifier *classify.Classifier
	htmlParser html.Parser
	log        logger.Logger
}

// New creates a rewriter. A nil profile is the empty profile and a nil logger
// discards diagnostics. The theme is not checked here: a document that never
// needs an asset reference rewrites fine without one.
func New(cfg config.Config, prof *profile.Profile, log logger.Logger) *Rewriter {
	if prof == nil {
		prof = profile.Empty()
	}
	if log == nil {
		log = logger.Noop()
	}

	classifier := classify.New(resolver.New(cfg.Theme), classify.Options{
		Base:       cfg.Base(),
		PathPrefix: prof.PathPrefix,
		TargetHost: cfg.TargetHost,
		Rules:      prof.Rules,
	})

	return &Rewriter{
		config:     cfg,
		profile:    prof,
		classifier: classifier,
		htmlParser: html.NewParser(),
		log:        log,
	}
}

// Result contains the rewritten document and what changed in it
type Result struct {
	Output  string   // Rewritten document
	Changes []Change // One record per rewritten value, in document order
	Stats   Stats
}

// Change records a single rewritten value
type Change struct {
	Tag  string
	Attr string
	From string
	To   string
	Kind classify.Kind
}

func (c Change) String() string {
	return fmt.Sprintf("%s.%s: %s -> %s", c.Tag, c.Attr, c.From, c.To)
}

// Stats counts what the walkers saw
type Stats struct {
	ElementsProcessed int                   // Elements carrying a rewritable attribute
	ValuesSeen        int                   // Values passed to the classifier
	ValuesRewritten   int                   // Values that changed
	TargetHost        int                   // Absolute URLs on the target host treated as internal
	Kinds             map[classify.Kind]int // Classification counts
}

func newResult() *Result {
	return &Result{Stats: Stats{Kinds: map[classify.Kind]int{}}}
}

// rewriteValue classifies one value and records the change when there is one
func (r *Rewriter) rewriteValue(res *Result, tag, attr, value string, ctx classify.Context) (string, error) {
	out, err := r.classifier.Rewrite(value, ctx)
	if err != nil {
		if errors.Is(err, resolver.ErrThemeRequired) {
			return "", &config.ConfigurationError{Key: config.EnvTheme, Err: err}
		}
		return "", fmt.Errorf("failed to rewrite %s.%s %q: %w", tag, attr, value, err)
	}

	res.Stats.ValuesSeen++
	res.Stats.Kinds[out.Kind]++
	if out.Internal {
		res.Stats.TargetHost++
	}

	if !out.Changed(value) {
		r.log.Debug("value kept", "tag", tag, "attr", attr, "value", value, "kind", out.Kind.String())
		return value, nil
	}

	change := Change{Tag: tag, Attr: attr, From: value, To: out.Value, Kind: out.Kind}
	res.Changes = append(res.Changes, change)
	res.Stats.ValuesRewritten++
	r.log.Debug("value rewritten", "tag", tag, "attr", attr, "from", value, "to", out.Value, "kind", out.Kind.String())

	return out.Value, nil
}

package rewriter

import (
	"fmt"
	"strings"

	"hstools/internal/classify"
	"hstools/internal/css"
	"hstools/internal/html"
	"hstools/internal/srcset"
)

// referenceAttrs is the closed table of elements and the attributes on them
// that carry references. <source> inside <audio>/<video> uses src.
var referenceAttrs = map[string][]string{
	"a":      {"href"},
	"link":   {"href"},
	"source": {"srcset", "src"},
	"img":    {"src", "srcset"},
	"script": {"src", "srcset"},
}

const referenceSelector = "a, link, source, img, script"

// scope is a document or subtree the walker can search
type scope interface {
	QuerySelectorAll(selector string) ([]html.Node, error)
}

// RewriteHTML rewrites every reference in an HTML document or fragment
func (r *Rewriter) RewriteHTML(content string) (*Result, error) {
	doc, err := r.htmlParser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := newResult()
	if err := r.walk(doc, nil, result); err != nil {
		return nil, err
	}

	out, err := doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize HTML: %w", err)
	}

	result.Output = out
	r.log.Info("rewrote HTML", "changes", len(result.Changes), "values", result.Stats.ValuesSeen)
	return result, nil
}

// walk rewrites the references under s. self, when set, is the subtree root
// itself, which QuerySelectorAll does not return.
func (r *Rewriter) walk(s scope, self html.Node, result *Result) error {
	elements, err := s.QuerySelectorAll(referenceSelector)
	if err != nil {
		return fmt.Errorf("failed to query reference elements: %w", err)
	}
	if self != nil {
		if _, ok := referenceAttrs[strings.ToLower(self.TagName())]; ok {
			elements = append([]html.Node{self}, elements...)
		}
	}

	for _, element := range elements {
		if err := r.processElement(element, result); err != nil {
			return err
		}
	}

	if !r.config.InlineCSS {
		return nil
	}
	return r.walkInlineCSS(s, self, result)
}

// processElement rewrites the reference attributes of one element
func (r *Rewriter) processElement(element html.Node, result *Result) error {
	tag := strings.ToLower(element.TagName())

	counted := false
	for _, attr := range referenceAttrs[tag] {
		value, ok := element.Attr(attr)
		if !ok {
			continue
		}
		if !counted {
			result.Stats.ElementsProcessed++
			counted = true
		}

		var (
			updated string
			err     error
		)
		if attr == "srcset" {
			updated, err = r.rewriteSrcset(result, tag, value)
		} else {
			updated, err = r.rewriteValue(result, tag, attr, value, classify.ContextFor(tag, attr))
		}
		if err != nil {
			return err
		}

		if updated == value {
			continue
		}
		if err := element.SetAttribute(attr, updated); err != nil {
			return fmt.Errorf("failed to set %s.%s: %w", tag, attr, err)
		}
	}

	return nil
}

// rewriteSrcset rewrites each candidate URL, keeping descriptors and order
func (r *Rewriter) rewriteSrcset(result *Result, tag, value string) (string, error) {
	candidates := srcset.Parse(value)
	if len(candidates) == 0 {
		return value, nil
	}

	changed := false
	for i, c := range candidates {
		updated, err := r.rewriteValue(result, tag, "srcset", c.URL, classify.ContextAsset)
		if err != nil {
			return "", err
		}
		if updated != c.URL {
			candidates[i].URL = updated
			changed = true
		}
	}

	if !changed {
		return value, nil
	}
	return candidates.String(), nil
}

// walkInlineCSS passes <style> bodies and style attributes through the CSS walker
func (r *Rewriter) walkInlineCSS(s scope, self html.Node, result *Result) error {
	styles, err := s.QuerySelectorAll("style")
	if err != nil {
		return fmt.Errorf("failed to query style tags: %w", err)
	}

	for _, style := range styles {
		content := style.Text()
		updated, err := r.rewriteCSSText(result, "style", "url", content, css.RewriteStylesheet)
		if err != nil {
			return err
		}
		if updated == content {
			continue
		}
		if err := style.SetText(updated); err != nil {
			return fmt.Errorf("failed to update style tag: %w", err)
		}
	}

	styled, err := s.QuerySelectorAll("[style]")
	if err != nil {
		return fmt.Errorf("failed to query style attributes: %w", err)
	}
	if self != nil {
		if _, ok := self.Attr("style"); ok {
			styled = append([]html.Node{self}, styled...)
		}
	}

	for _, element := range styled {
		tag := strings.ToLower(element.TagName())
		content, _ := element.Attr("style")
		updated, err := r.rewriteCSSText(result, tag, "style", content, css.RewriteInline)
		if err != nil {
			return err
		}
		if updated == content {
			continue
		}
		if err := element.SetAttribute("style", updated); err != nil {
			return fmt.Errorf("failed to set %s.style: %w", tag, err)
		}
	}

	return nil
}

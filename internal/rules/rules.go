// Package rules applies ordered regular-expression rewrite rules to paths.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one compiled (pattern, replacement) pair.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Set is an ordered list of rules evaluated first-match-wins.
type Set []Rule

// Compile builds a rule from a pattern and a replacement template. Templates
// use re.sub syntax: groups are referenced as \1, \g<1> or \g<name>, and '$'
// is always literal.
func Compile(pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Replacement: translateTemplate(replacement)}, nil
}

// CompilePairs compiles rules given as [pattern, replacement] pairs.
func CompilePairs(pairs [][]string) (Set, error) {
	set := make(Set, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("rule %d: want [pattern, replacement], got %d elements", i, len(pair))
		}
		r, err := Compile(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		set = append(set, r)
	}
	return set, nil
}

// Apply rewrites p with the first matching rule. Only the first occurrence of
// the match is substituted. It reports whether any rule matched.
func (s Set) Apply(p string) (string, bool) {
	for _, r := range s {
		loc := r.Pattern.FindStringSubmatchIndex(p)
		if loc == nil {
			continue
		}
		expanded := r.Pattern.ExpandString(nil, r.Replacement, p, loc)
		return p[:loc[0]] + string(expanded) + p[loc[1]:], true
	}
	return p, false
}

var (
	pyNumberedRef = regexp.MustCompile(`\\(\d{1,2})`)
	pyNamedRef    = regexp.MustCompile(`\\g<(\w+)>`)
)

// translateTemplate converts a re.sub template into a regexp.Expand one
func translateTemplate(tmpl string) string {
	tmpl = strings.ReplaceAll(tmpl, "$", "$$")
	tmpl = pyNamedRef.ReplaceAllString(tmpl, "$${$1}")
	tmpl = pyNumberedRef.ReplaceAllString(tmpl, "$${$1}")
	return tmpl
}

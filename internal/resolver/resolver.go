package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrThemeRequired is returned when an asset reference is requested without a theme.
var ErrThemeRequired = errors.New("theme name is not configured")

// Resolver produces the templating platform's asset references for theme files
type Resolver struct {
	theme string
}

// New creates a resolver for the given theme folder
func New(theme string) *Resolver {
	return &Resolver{theme: strings.Trim(strings.TrimSpace(theme), "/")}
}

// AssetReference renders canonicalPath as a get_asset_url expression.
// The literal shape is consumed by the downstream template engine and must not change.
func (r *Resolver) AssetReference(canonicalPath string) (string, error) {
	if r == nil || r.theme == "" {
		return "", ErrThemeRequired
	}

	if !strings.HasPrefix(canonicalPath, "/") {
		canonicalPath = "/" + canonicalPath
	}

	return fmt.Sprintf("{{get_asset_url('/%s%s')}}", r.theme, canonicalPath), nil
}

var templateExpr = regexp.MustCompile(`\{\{.*\}\}|\{%.*%\}`)

// IsAssetReference reports whether v already carries a template expression
// and therefore must not be rewritten again
func IsAssetReference(v string) bool {
	return templateExpr.MatchString(v)
}

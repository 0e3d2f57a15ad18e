package css

import "strings"

// blockKind classifies a { } block by the rule that opened it
type blockKind int

const (
	blockStyle    blockKind = iota // style rule declarations (rewritten)
	blockFontFace                  // @font-face declarations (rewritten)
	blockGroup                     // conditional group rule holding nested rules
	blockOther                     // @keyframes, @page and unknown at-rules (left alone)
)

// rewritable reports whether url() tokens directly inside the block are rewritten
func (k blockKind) rewritable() bool {
	return k == blockStyle || k == blockFontFace
}

// groupRules contain style rules, so their children are treated like top-level rules
var groupRules = map[string]bool{
	"@media":          true,
	"@supports":       true,
	"@layer":          true,
	"@container":      true,
	"@document":       true,
	"@-moz-document":  true,
	"@scope":          true,
	"@starting-style": true,
}

// kindFor returns the kind of a block opened by a rule with the given
// at-keyword ("" for a qualified rule) inside parent
func kindFor(atKeyword string, parent blockKind, topLevel bool) blockKind {
	atKeyword = strings.ToLower(atKeyword)

	switch {
	case atKeyword == "@font-face":
		return blockFontFace
	case groupRules[atKeyword]:
		return blockGroup
	case atKeyword != "":
		return blockOther
	case topLevel || parent == blockGroup || parent == blockStyle:
		return blockStyle
	default:
		return blockOther
	}
}

// URLFunc rewrites the argument of one url() value. Returning the input
// unchanged leaves the token untouched.
type URLFunc func(raw string) (string, error)

// urlToken is a url() token split into its verbatim parts
type urlToken struct {
	prefix string // "url(" with original casing and any inner leading whitespace
	quote  byte   // '"', '\'' or 0 when unquoted
	value  string
	suffix string // inner trailing whitespace and ")"
}

// parseURLToken splits the text of a URL token. ok is false for text that
// isn't a well formed url() token.
func parseURLToken(tok string) (u urlToken, ok bool) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") || !strings.EqualFold(tok[:open], "url") {
		return u, false
	}

	inner := tok[open+1 : len(tok)-1]
	trimmed := strings.TrimLeft(inner, " \t\n\r\f")
	u.prefix = tok[:open+1] + inner[:len(inner)-len(trimmed)]

	body := strings.TrimRight(trimmed, " \t\n\r\f")
	u.suffix = trimmed[len(body):] + ")"

	if n := len(body); n >= 2 && (body[0] == '"' || body[0] == '\'') && body[n-1] == body[0] {
		u.quote = body[0]
		body = body[1 : n-1]
	}
	u.value = body

	return u, true
}

// String renders the token, picking a quote style that keeps value intact
func (u urlToken) String() string {
	quote := u.quote
	switch {
	case quote == 0 && strings.ContainsAny(u.value, " \t\n'\"()\\"):
		quote = '"'
	case quote != 0 && strings.IndexByte(u.value, quote) >= 0:
		if quote == '"' {
			quote = '\''
		} else {
			quote = '"'
		}
	}

	value := u.value
	if quote != 0 && strings.IndexByte(value, quote) >= 0 {
		value = strings.ReplaceAll(value, string(quote), `\`+string(quote))
	}

	if quote == 0 {
		return u.prefix + value + u.suffix
	}
	return u.prefix + string(quote) + value + string(quote) + u.suffix
}

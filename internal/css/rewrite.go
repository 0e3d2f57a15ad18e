// Package css rewrites url() references in stylesheets while copying every
// other token through byte for byte.
package css

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	csslex "github.com/tdewolff/parse/v2/css"
)

// walker tracks which rule the lexer is inside
type walker struct {
	fn        URLFunc
	stack     []blockKind
	atKeyword string
	sawToken  bool
	rewritten int
}

// RewriteStylesheet copies a stylesheet from r to w, passing url() values
// found in style rules and @font-face rules through fn. It returns the number
// of values that changed.
func RewriteStylesheet(r io.Reader, w io.Writer, fn URLFunc) (int, error) {
	return rewrite(r, w, &walker{fn: fn})
}

// RewriteInline is RewriteStylesheet for the body of a style attribute,
// which is a bare declaration list.
func RewriteInline(r io.Reader, w io.Writer, fn URLFunc) (int, error) {
	return rewrite(r, w, &walker{fn: fn, stack: []blockKind{blockStyle}})
}

func rewrite(r io.Reader, w io.Writer, wk *walker) (int, error) {
	lexer := csslex.NewLexer(parse.NewInput(r))

	var out bytes.Buffer
	for {
		tt, data := lexer.Next()
		if tt == csslex.ErrorToken {
			if err := lexer.Err(); err != io.EOF {
				return 0, fmt.Errorf("failed to tokenize CSS: %w", err)
			}
			break
		}

		if err := wk.token(&out, tt, data); err != nil {
			return 0, err
		}
	}

	if _, err := out.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write CSS: %w", err)
	}
	return wk.rewritten, nil
}

func (wk *walker) token(out *bytes.Buffer, tt csslex.TokenType, data []byte) error {
	switch tt {
	case csslex.WhitespaceToken, csslex.CommentToken, csslex.CDOToken, csslex.CDCToken:
		out.Write(data)
		return nil

	case csslex.AtKeywordToken:
		if !wk.sawToken {
			wk.atKeyword = string(data)
		}

	case csslex.LeftBraceToken:
		wk.push()

	case csslex.RightBraceToken:
		wk.pop()

	case csslex.SemicolonToken:
		wk.reset()

	case csslex.URLToken:
		if wk.inRewritableBlock() {
			wk.sawToken = true
			return wk.url(out, data)
		}
	}

	if tt != csslex.LeftBraceToken && tt != csslex.RightBraceToken && tt != csslex.SemicolonToken {
		wk.sawToken = true
	}
	out.Write(data)
	return nil
}

func (wk *walker) url(out *bytes.Buffer, data []byte) error {
	tok, ok := parseURLToken(string(data))
	if !ok {
		out.Write(data)
		return nil
	}

	replaced, err := wk.fn(tok.value)
	if err != nil {
		return err
	}
	if replaced == tok.value {
		out.Write(data)
		return nil
	}

	tok.value = replaced
	out.WriteString(tok.String())
	wk.rewritten++
	return nil
}

func (wk *walker) push() {
	parent := blockOther
	if n := len(wk.stack); n > 0 {
		parent = wk.stack[n-1]
	}
	wk.stack = append(wk.stack, kindFor(wk.atKeyword, parent, len(wk.stack) == 0))
	wk.reset()
}

func (wk *walker) pop() {
	if n := len(wk.stack); n > 0 {
		wk.stack = wk.stack[:n-1]
	}
	wk.reset()
}

func (wk *walker) reset() {
	wk.atKeyword = ""
	wk.sawToken = false
}

func (wk *walker) inRewritableBlock() bool {
	n := len(wk.stack)
	return n > 0 && wk.stack[n-1].rewritable()
}

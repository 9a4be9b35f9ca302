// Package analyzer implements the §4.6 recursive-descent analyzer: a single
// mutable token buffer and forward index shared by every rule, using a
// mutable-arena-plus-index model rather than an immutable-slice-returning
// cursor, since the copybook expander needs to splice the very buffer the
// analyzer walks.
package analyzer

import (
	"strings"

	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/pkg/token"
)

// Cursor is the forward-only, single-index view over the shared token
// buffer every analyzer rule reads through. It is deliberately a plain
// index into a slice, not an iterator or a copy-on-read cursor, so the
// copybook expander's in-place splices stay visible to the analyzer without
// any synchronization step (§9).
type Cursor struct {
	toks []token.Token
	pos  int
}

// NewCursor constructs a Cursor over toks, starting at index 0.
func NewCursor(toks []token.Token) *Cursor {
	return &Cursor{toks: toks}
}

// Current returns the token at the cursor, or the trailing EOF token if the
// cursor has advanced past the end of the buffer (which should not happen
// in a well-formed stream, since EOF is always the last token, but Current
// never panics on it regardless).
func (c *Cursor) Current() token.Token {
	return c.Lookahead(0)
}

// Lookahead returns the token k positions ahead of the cursor (k may be
// negative to inspect an already-consumed token for diagnostics). It never
// fails on an out-of-range index: it clamps to the first or last token.
func (c *Cursor) Lookahead(k int) token.Token {
	idx := c.pos + k
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.toks) {
		idx = len(c.toks) - 1
	}
	if idx < 0 {
		return token.NewEOF(0)
	}
	return c.toks[idx]
}

// Advance consumes and returns the current token, moving the cursor forward
// by one unless already at EOF.
func (c *Cursor) Advance() token.Token {
	tok := c.Current()
	if !tok.IsEOF() {
		c.pos++
	}
	return tok
}

// AtEOF reports whether the cursor is positioned on the trailing EOF token.
func (c *Cursor) AtEOF() bool {
	return c.Current().IsEOF()
}

// Pos returns the cursor's current index, for callers that need to record
// or restore a position (e.g. a clause's token span for later re-scanning).
func (c *Cursor) Pos() int { return c.pos }

// SeekTo repositions the cursor at an absolute index, used by AnchorPoint
// and by rules resuming after a clause re-scan.
func (c *Cursor) SeekTo(pos int) { c.pos = pos }

// CurrentEquals reports whether the current token's lexeme case-insensitively
// equals any of literals.
func (c *Cursor) CurrentEquals(literals ...string) bool {
	cur := c.Current()
	for _, lit := range literals {
		if cur.EqualLexeme(lit) {
			return true
		}
	}
	return false
}

// CurrentKind reports whether the current token has the given kind.
func (c *Cursor) CurrentKind(kind token.Kind) bool {
	return c.Current().Kind == kind
}

// CurrentContext reports whether the current token carries the given
// context tag.
func (c *Cursor) CurrentContext(ctx token.Context) bool {
	return c.Current().Context == ctx
}

// Optional consumes the current token if its lexeme matches literal,
// otherwise does nothing. Returns whether it consumed.
func (c *Cursor) Optional(literal string) bool {
	if c.CurrentEquals(literal) {
		c.Advance()
		return true
	}
	return false
}

// Expected consumes the current token if its lexeme matches literal. On
// mismatch it reports diag, anchored at whatever token the caller built it
// with, to reporter and does not consume. When diag carries no suggestion of its own
// and the current lexeme is a plausible typo of literal, a "did you mean"
// suggestion is attached before reporting.
func (c *Cursor) Expected(literal string, diag diagnostic.Diagnostic, reporter diagnostic.Reporter) bool {
	if c.CurrentEquals(literal) {
		c.Advance()
		return true
	}
	if diag.Suggestion == "" {
		if suggestion, ok := diagnostic.SuggestName(c.Current().Lexeme, []string{literal}); ok {
			diag.Suggestion = suggestion
		}
	}
	reporter.Report(diag)
	return false
}

// Choice consumes the current token if it matches one of alternatives,
// returning the matched literal and true. On mismatch it reports a
// structured error naming every alternative, with a "did you mean" note
// attached when the current lexeme is a plausible typo of one of them, and
// does not consume.
func (c *Cursor) Choice(alternatives []string, code int, reporter diagnostic.Reporter) (string, bool) {
	cur := c.Current()
	for _, alt := range alternatives {
		if cur.EqualLexeme(alt) {
			c.Advance()
			return alt, true
		}
	}
	builder := diagnostic.New(diagnostic.AnalyzerError, code,
		"expected one of "+strings.Join(alternatives, ", ")+", found "+describeLexeme(cur), c.Lookahead(-1))
	if suggestion, ok := diagnostic.SuggestName(cur.Lexeme, alternatives); ok {
		builder = builder.WithSuggestion(suggestion)
	}
	reporter.Report(builder.Build())
	return "", false
}

// AnchorPoint advances the cursor until the current token's lexeme or
// context matches one of the anchor set, or EOF is reached. It is the
// error-recovery primitive used after a fatal clause error to resume at the
// next plausible clause or statement boundary (§4.6).
func (c *Cursor) AnchorPoint(lexemes []string, contexts []token.Context) {
	for !c.AtEOF() {
		cur := c.Current()
		for _, lex := range lexemes {
			if cur.EqualLexeme(lex) {
				return
			}
		}
		for _, ctx := range contexts {
			if cur.Context == ctx {
				return
			}
		}
		c.Advance()
	}
}

func describeLexeme(t token.Token) string {
	if t.IsEOF() {
		return "end of file"
	}
	return "\"" + t.Lexeme + "\""
}

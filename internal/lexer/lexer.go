// Package lexer turns a normalized line span into classified tokens (§4.4),
// using a rune-scanning cursor over the input, SaveState/RestoreState around
// the speculative numeric-exponent scan, and a rune-level peek(n) for the
// national/boolean/hex literal prefixes. ScanLine tokenizes a whole line at
// once.
package lexer

import (
	"fmt"
	"strings"

	"github.com/coboltools/frontend/internal/vocab"
	"github.com/coboltools/frontend/pkg/token"
)

// Error is a lexical error: an unterminated literal or an unrecognized
// character. The analyzer decides severity; the lexer only reports facts.
type Error struct {
	Line, Column int
	Message      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

const standardSymbols = "+-*=/$,;.()><&_"

// Lexer scans one line's worth of already-normalized bytes into tokens,
// which ScanLine returns as a new slice. A fresh Lexer is cheap; callers
// construct one per line (or reuse ScanLine) rather than holding open state
// across lines, because pending literal continuation across lines is out of
// scope for this dialect's token model.
type Lexer struct {
	file    int
	line    int
	runes   []rune
	pos     int
	savePos int
}

// New constructs a Lexer over one line's text, tagging every token it
// produces with file and line.
func New(text []byte, file, line int) *Lexer {
	return &Lexer{file: file, line: line, runes: []rune(string(text))}
}

// SaveState records the current scan position for a speculative lookahead;
// RestoreState rewinds to it, used here for the optional numeric exponent
// and sign.
func (l *Lexer) SaveState() { l.savePos = l.pos }
func (l *Lexer) RestoreState() { l.pos = l.savePos }

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return 0
	}
	return l.runes[l.pos]
}

func (l *Lexer) peek(n int) rune {
	idx := l.pos + n
	if idx < 0 || idx >= len(l.runes) {
		return 0
	}
	return l.runes[idx]
}

func (l *Lexer) advance() rune {
	r := l.current()
	if l.pos < len(l.runes) {
		l.pos++
	}
	return r
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.runes) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isIdentBody(r rune) bool {
	return isIdentStart(r) || isDigit(r) || r == '-' || r == '_'
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// ScanLine tokenizes the full line, returning the tokens produced (possibly
// none, for a blank line) and every lexical error encountered, if any.
// It does not stop at the first error: scanning resumes after the offending
// character so later tokens on the line are still reported; recovery is the
// analyzer's job, not the lexer's.
func (l *Lexer) ScanLine() ([]token.Token, []error) {
	var toks []token.Token
	var errs []error

	for !l.atEnd() {
		r := l.current()
		switch {
		case isSpace(r):
			l.advance()
		case r == '*' && l.peek(1) == '>':
			// A stray inline-comment marker that survived normalization
			// (e.g. a copybook line normalized independently); treat the
			// remainder of the line as consumed.
			l.pos = len(l.runes)
		case r == '"' || r == '\'':
			tok, err := l.scanQuoted(r, token.String)
			toks = append(toks, tok)
			if err != nil {
				errs = append(errs, err)
			}
		case isDigit(r) || ((r == '+' || r == '-') && isDigit(l.peek(1))):
			toks = append(toks, l.scanNumeric())
		case isIdentStart(r):
			tok, err := l.scanIdentifierOrPrefixedLiteral()
			toks = append(toks, tok)
			if err != nil {
				errs = append(errs, err)
			}
		case strings.ContainsRune(standardSymbols, r) || l.isMultiCharSymbolStart():
			toks = append(toks, l.scanSymbol())
		default:
			errs = append(errs, &Error{Line: l.line, Column: l.pos + 1, Message: fmt.Sprintf("unrecognized character %q", r)})
			l.advance()
		}
	}

	return toks, errs
}

func (l *Lexer) isMultiCharSymbolStart() bool {
	r, n := l.current(), l.peek(1)
	switch {
	case r == '*' && n == '*':
		return true
	case r == '>' && n == '>':
		return true
	case r == '<' && n == '>':
		return true
	case r == '>' && n == '=':
		return true
	case r == '<' && n == '=':
		return true
	case r == ':' && n == ':':
		return true
	}
	return false
}

func (l *Lexer) scanSymbol() token.Token {
	col := l.pos + 1
	start := l.pos
	if l.isMultiCharSymbolStart() {
		l.advance()
		l.advance()
	} else {
		l.advance()
	}
	lexeme := string(l.runes[start:l.pos])
	return token.New(lexeme, token.Symbol, token.IsSymbol, l.line, col, l.file)
}

// scanQuoted consumes a `"`- or `'`-delimited string literal, where the
// opposing quote character may appear unescaped inside the content (§4.4).
// An unterminated literal (no closing quote before end of line) is a lex
// error; the token returned still carries whatever content was scanned.
func (l *Lexer) scanQuoted(quote rune, kind token.Kind) (token.Token, error) {
	col := l.pos + 1
	start := l.pos
	l.advance()
	for !l.atEnd() && l.current() != quote {
		l.advance()
	}
	if l.atEnd() {
		lexeme := string(l.runes[start:l.pos])
		return token.New(lexeme, kind, token.ContextNone, l.line, col, l.file),
			&Error{Line: l.line, Column: col, Message: "unterminated string literal"}
	}
	l.advance() // closing quote
	lexeme := string(l.runes[start:l.pos])
	return token.New(lexeme, kind, token.ContextNone, l.line, col, l.file), nil
}

// scanIdentifierOrPrefixedLiteral scans a letter-led run and disambiguates
// between a national/boolean/hex literal prefix (N/B/X immediately followed
// by a quote) and an ordinary reserved word, intrinsic, figurative literal,
// or identifier, per §4.4's classification order.
func (l *Lexer) scanIdentifierOrPrefixedLiteral() (token.Token, error) {
	col := l.pos + 1
	start := l.pos

	if isSingleLetterLiteralPrefix(l.current()) && (l.peek(1) == '"' || l.peek(1) == '\'') {
		prefix := l.current()
		l.advance()
		quote := l.current()
		lit, err := l.scanQuoted(quote, kindForPrefix(prefix))
		lexeme := string(l.runes[start:l.pos])
		lit.Lexeme = lexeme
		lit.Column = col
		return lit, err
	}

	for !l.atEnd() && isIdentBody(l.current()) {
		l.advance()
	}
	lexeme := string(l.runes[start:l.pos])
	return classify(lexeme, l.line, col, l.file), nil
}

func isSingleLetterLiteralPrefix(r rune) bool {
	switch r {
	case 'N', 'n', 'B', 'b', 'X', 'x':
		return true
	}
	return false
}

func kindForPrefix(prefix rune) token.Kind {
	switch prefix {
	case 'N', 'n':
		return token.National
	case 'B', 'b':
		return token.Boolean
	default:
		return token.HexString
	}
}

// classify resolves an identifier-shaped lexeme to its token kind/context in
// the order §4.4 specifies: reserved set, then context map, then intrinsic
// set, then figurative map, falling back to a plain Identifier.
func classify(lexeme string, line, col, file int) token.Token {
	if vocab.IsReserved(lexeme) {
		ctx, _ := vocab.ContextOf(lexeme)
		return token.New(lexeme, token.Reserved, token.Context(ctx), line, col, file)
	}
	if vocab.IsIntrinsic(lexeme) {
		return token.New(lexeme, token.IntrinsicFunction, token.ContextNone, line, col, file)
	}
	if canon, ok := vocab.FigurativeCanonical(lexeme); ok {
		tok := token.New(canon, token.FigurativeLiteral, token.IsFigurative, line, col, file)
		tok.Lexeme = lexeme
		return tok
	}
	return token.New(lexeme, token.Identifier, token.ContextNone, line, col, file)
}

// scanNumeric consumes an optional sign, digits, an optional decimal point
// and fraction, and an optional E[+-]digits exponent (§4.4). Speculative
// exponent scanning uses SaveState/RestoreState so a bare trailing `E`
// (e.g. the identifier fragment of a following token) is not consumed.
func (l *Lexer) scanNumeric() token.Token {
	col := l.pos + 1
	start := l.pos

	if l.current() == '+' || l.current() == '-' {
		l.advance()
	}
	for isDigit(l.current()) {
		l.advance()
	}
	if l.current() == '.' && isDigit(l.peek(1)) {
		l.advance()
		for isDigit(l.current()) {
			l.advance()
		}
	}

	l.SaveState()
	if l.current() == 'E' || l.current() == 'e' {
		l.advance()
		if l.current() == '+' || l.current() == '-' {
			l.advance()
		}
		if isDigit(l.current()) {
			for isDigit(l.current()) {
				l.advance()
			}
		} else {
			l.RestoreState()
		}
	}

	lexeme := string(l.runes[start:l.pos])
	return token.New(lexeme, token.Numeric, token.ContextNone, l.line, col, l.file)
}

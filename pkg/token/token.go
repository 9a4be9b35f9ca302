// Package token defines the Token record and its classification enums.
//
// A Token is a value type: equality is by lexeme, case-insensitive for
// reserved words and identifiers, case-sensitive for literals (see Equal).
// The ordered token slice produced by the lexer and mutated in place by the
// copybook expander is the canonical intermediate representation consumed by
// the analyzer.
package token

import "strings"

// Kind classifies what a token *is*.
type Kind int

const (
	Reserved Kind = iota
	Identifier
	Numeric
	String
	National
	Boolean
	HexString
	Symbol
	FigurativeLiteral
	IntrinsicFunction
	Device
	EOF
)

var kindNames = [...]string{
	Reserved:          "Reserved",
	Identifier:        "Identifier",
	Numeric:           "Numeric",
	String:            "String",
	National:          "National",
	Boolean:           "Boolean",
	HexString:         "HexString",
	Symbol:            "Symbol",
	FigurativeLiteral: "FigurativeLiteral",
	IntrinsicFunction: "IntrinsicFunction",
	Device:            "Device",
	EOF:               "EOF",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Context classifies the grammatical role a Reserved token plays, as looked
// up from the context map (see vocab.Context). A token that is Reserved but
// absent from the context map carries ContextNone.
type Context int

const (
	ContextNone Context = iota
	IsClause
	IsStatement
	IsDevice
	IsFigurative
	IsSymbol
	IsEOF
)

var contextNames = [...]string{
	ContextNone:  "None",
	IsClause:     "IsClause",
	IsStatement:  "IsStatement",
	IsDevice:     "IsDevice",
	IsFigurative: "IsFigurative",
	IsSymbol:     "IsSymbol",
	IsEOF:        "IsEOF",
}

func (c Context) String() string {
	if c < 0 || int(c) >= len(contextNames) {
		return "Unknown"
	}
	return contextNames[c]
}

// EOFLine and EOFColumn are the sentinel position values NewEOF stamps on
// the single trailing EOF token (§4.4).
const (
	EOFLine   = -5
	EOFColumn = -5
)

// Token is a value record: copying a Token copies its full state, and no
// Token field is ever mutated after the lexer appends it to a token slice.
// The copybook expander replaces *ranges* of a token slice, never fields of
// an individual Token.
type Token struct {
	Lexeme  string
	Kind    Kind
	Context Context
	Line    int
	Column  int
	File    int // index into the compilation's known-file-names list
}

// IsEOF reports whether t is the canonical end-of-stream token.
func (t Token) IsEOF() bool {
	return t.Kind == EOF
}

// Equal compares two tokens by kind and lexeme: case-insensitive for
// reserved words and identifiers, case-sensitive for everything else
// (literals, symbols).
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Reserved, Identifier:
		return strings.EqualFold(t.Lexeme, other.Lexeme)
	default:
		return t.Lexeme == other.Lexeme
	}
}

// EqualLexeme reports whether lexeme equals t's lexeme under the same
// case-folding rule Equal uses for t's kind.
func (t Token) EqualLexeme(lexeme string) bool {
	switch t.Kind {
	case Reserved, Identifier:
		return strings.EqualFold(t.Lexeme, lexeme)
	default:
		return t.Lexeme == lexeme
	}
}

// New constructs a Token, applying no classification: callers that need
// vocabulary-driven classification should go through the lexer.
func New(lexeme string, kind Kind, context Context, line, column, file int) Token {
	return Token{
		Lexeme:  lexeme,
		Kind:    kind,
		Context: context,
		Line:    line,
		Column:  column,
		File:    file,
	}
}

// NewEOF constructs the canonical sentinel EOF token for fileIndex.
func NewEOF(fileIndex int) Token {
	return Token{
		Lexeme:  "",
		Kind:    EOF,
		Context: IsEOF,
		Line:    EOFLine,
		Column:  EOFColumn,
		File:    fileIndex,
	}
}

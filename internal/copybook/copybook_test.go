package copybook

import (
	"errors"
	"testing"

	"github.com/coboltools/frontend/pkg/token"
)

type mapLoader map[string][]token.Token

func (m mapLoader) Load(name string) ([]token.Token, error) {
	toks, ok := m[name]
	if !ok {
		return nil, errors.New("not found: " + name)
	}
	return toks, nil
}

func reserved(lexeme string, line int) token.Token {
	return token.New(lexeme, token.Reserved, token.ContextNone, line, 1, 0)
}

func ident(lexeme string, line int) token.Token {
	return token.New(lexeme, token.Identifier, token.ContextNone, line, 1, 0)
}

func sym(lexeme string, line int) token.Token {
	return token.New(lexeme, token.Symbol, token.IsSymbol, line, 1, 0)
}

func TestExpandSplicesCopybookTokens(t *testing.T) {
	toks := []token.Token{
		reserved("COPY", 1),
		ident("CUSTREC", 1),
		sym(".", 1),
		reserved("PROCEDURE", 2),
	}
	loader := mapLoader{
		"CUSTREC": {
			reserved("01", 10),
			ident("CUST-NAME", 10),
			sym(".", 10),
		},
	}

	out, err := Expand(toks, loader)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"01", "CUST-NAME", ".", "PROCEDURE"}
	if len(out) != len(want) {
		t.Fatalf("out = %+v, want %d tokens", out, len(want))
	}
	for i, w := range want {
		if out[i].Lexeme != w {
			t.Errorf("out[%d].Lexeme = %q, want %q", i, out[i].Lexeme, w)
		}
	}
}

func TestExpandHandlesQuotedCopybookName(t *testing.T) {
	toks := []token.Token{
		reserved("COPY", 1),
		token.New(`"CUSTREC"`, token.String, token.ContextNone, 1, 6, 0),
		sym(".", 1),
	}
	loader := mapLoader{"CUSTREC": {ident("X", 10)}}

	out, err := Expand(toks, loader)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(out) != 1 || out[0].Lexeme != "X" {
		t.Fatalf("out = %+v, want [X]", out)
	}
}

func TestExpandIsIdempotentOnTokensWithoutCopy(t *testing.T) {
	toks := []token.Token{reserved("PROCEDURE", 1), sym(".", 1)}
	out, err := Expand(toks, mapLoader{})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(out) != len(toks) {
		t.Fatalf("out = %+v, want unchanged %+v", out, toks)
	}
}

func TestExpandReexpandsNestedCopy(t *testing.T) {
	toks := []token.Token{
		reserved("COPY", 1),
		ident("OUTER", 1),
		sym(".", 1),
	}
	loader := mapLoader{
		"OUTER": {
			reserved("COPY", 5),
			ident("INNER", 5),
			sym(".", 5),
		},
		"INNER": {
			ident("INNER-FIELD", 9),
		},
	}

	out, err := Expand(toks, loader)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(out) != 1 || out[0].Lexeme != "INNER-FIELD" {
		t.Fatalf("out = %+v, want fully expanded [INNER-FIELD]", out)
	}
}

func TestExpandMissingCopybookIsError(t *testing.T) {
	toks := []token.Token{
		reserved("COPY", 1),
		ident("MISSING", 1),
		sym(".", 1),
	}
	if _, err := Expand(toks, mapLoader{}); err == nil {
		t.Fatal("expected error for unresolved copybook")
	}
}

func TestExpandMissingPeriodIsError(t *testing.T) {
	toks := []token.Token{
		reserved("COPY", 1),
		ident("CUSTREC", 1),
	}
	if _, err := Expand(toks, mapLoader{"CUSTREC": nil}); err == nil {
		t.Fatal("expected error for missing terminating period")
	}
}

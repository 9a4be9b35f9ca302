package lexer

import (
	"testing"

	"github.com/coboltools/frontend/pkg/token"
)

func scan(t *testing.T, text string) []token.Token {
	t.Helper()
	toks, errs := New([]byte(text), 0, 1).ScanLine()
	if len(errs) != 0 {
		t.Fatalf("ScanLine(%q): unexpected errors %v", text, errs)
	}
	return toks
}

func TestScanReservedWordIsCaseInsensitive(t *testing.T) {
	for _, text := range []string{"MOVE", "move", "Move"} {
		toks := scan(t, text)
		if len(toks) != 1 || toks[0].Kind != token.Reserved {
			t.Fatalf("scan(%q) = %+v, want one Reserved token", text, toks)
		}
		if toks[0].Context != token.IsStatement {
			t.Errorf("scan(%q) context = %v, want IsStatement", text, toks[0].Context)
		}
	}
}

func TestScanIdentifierFallback(t *testing.T) {
	toks := scan(t, "CUSTOMER-NAME")
	if len(toks) != 1 || toks[0].Kind != token.Identifier {
		t.Fatalf("scan = %+v, want one Identifier token", toks)
	}
}

func TestScanIntrinsicFunction(t *testing.T) {
	toks := scan(t, "FUNCTION TRIM")
	if len(toks) != 2 {
		t.Fatalf("scan = %+v, want 2 tokens", toks)
	}
	if toks[1].Kind != token.IntrinsicFunction {
		t.Errorf("TRIM kind = %v, want IntrinsicFunction", toks[1].Kind)
	}
}

func TestScanFigurativeLiteralCanonicalization(t *testing.T) {
	toks := scan(t, "ZEROS")
	if len(toks) != 1 || toks[0].Kind != token.FigurativeLiteral {
		t.Fatalf("scan = %+v, want one FigurativeLiteral token", toks)
	}
	if toks[0].Lexeme != "ZEROS" {
		t.Errorf("Lexeme = %q, want original spelling ZEROS", toks[0].Lexeme)
	}
}

func TestScanStringLiteralWithOpposingQuote(t *testing.T) {
	toks := scan(t, `"it's fine"`)
	if len(toks) != 1 || toks[0].Kind != token.String {
		t.Fatalf("scan = %+v, want one String token", toks)
	}
	if toks[0].Lexeme != `"it's fine"` {
		t.Errorf("Lexeme = %q", toks[0].Lexeme)
	}
}

func TestScanUnterminatedStringIsError(t *testing.T) {
	_, errs := New([]byte(`"unterminated`), 0, 1).ScanLine()
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one unterminated-literal error", errs)
	}
}

func TestScanPrefixedLiterals(t *testing.T) {
	cases := map[string]token.Kind{
		`N"national"`: token.National,
		`B"1010"`:     token.Boolean,
		`X"FF"`:       token.HexString,
	}
	for text, want := range cases {
		toks := scan(t, text)
		if len(toks) != 1 || toks[0].Kind != want {
			t.Fatalf("scan(%q) = %+v, want one %v token", text, toks, want)
		}
		if toks[0].Lexeme != text {
			t.Errorf("scan(%q) Lexeme = %q, want full prefixed literal", text, toks[0].Lexeme)
		}
	}
}

func TestScanNumericLiterals(t *testing.T) {
	for _, text := range []string{"123", "-45", "+3.14", "2.5E-10", "6E3"} {
		toks := scan(t, text)
		if len(toks) != 1 || toks[0].Kind != token.Numeric {
			t.Fatalf("scan(%q) = %+v, want one Numeric token", text, toks)
		}
		if toks[0].Lexeme != text {
			t.Errorf("scan(%q) Lexeme = %q, want %q", text, toks[0].Lexeme, text)
		}
	}
}

func TestScanNumericDoesNotConsumeTrailingIdentifier(t *testing.T) {
	toks := scan(t, "5 E-NAME")
	if len(toks) != 2 {
		t.Fatalf("scan = %+v, want 2 tokens (numeric, identifier)", toks)
	}
	if toks[0].Kind != token.Numeric || toks[0].Lexeme != "5" {
		t.Errorf("first token = %+v, want Numeric 5", toks[0])
	}
	if toks[1].Kind != token.Identifier || toks[1].Lexeme != "E-NAME" {
		t.Errorf("second token = %+v, want Identifier E-NAME", toks[1])
	}
}

func TestScanStandardSymbols(t *testing.T) {
	toks := scan(t, "A >= B")
	if len(toks) != 3 {
		t.Fatalf("scan = %+v, want 3 tokens", toks)
	}
	if toks[1].Kind != token.Symbol || toks[1].Lexeme != ">=" || toks[1].Context != token.IsSymbol {
		t.Errorf("middle token = %+v, want Symbol >= with IsSymbol context", toks[1])
	}
}

func TestScanBlankLineProducesNoTokens(t *testing.T) {
	toks := scan(t, "    ")
	if len(toks) != 0 {
		t.Fatalf("scan(blank) = %+v, want no tokens", toks)
	}
}

func TestScanStampsLineAndFile(t *testing.T) {
	toks, _ := New([]byte("MOVE"), 3, 42).ScanLine()
	if toks[0].File != 3 || toks[0].Line != 42 {
		t.Errorf("token = %+v, want File=3 Line=42", toks[0])
	}
}

package analyzer

import (
	"strings"
	"testing"

	"github.com/coboltools/frontend/internal/config"
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/lexer"
	"github.com/coboltools/frontend/pkg/token"
)

// lexProgram tokenizes every line of src with the same per-line lexer the
// preprocessing pipeline feeds the analyzer, appending the canonical
// trailing EOF token.
func lexProgram(t *testing.T, src string) []token.Token {
	t.Helper()
	var toks []token.Token
	for i, line := range strings.Split(src, "\n") {
		lx := lexer.New([]byte(line), 0, i+1)
		lineToks, errs := lx.ScanLine()
		if len(errs) > 0 {
			t.Fatalf("unexpected lex errors on line %d: %v", i+1, errs)
		}
		toks = append(toks, lineToks...)
	}
	toks = append(toks, token.NewEOF(0))
	return toks
}

func TestCursorLookaheadClampsAtBounds(t *testing.T) {
	toks := []token.Token{token.New("A", token.Identifier, token.ContextNone, 1, 1, 0), token.NewEOF(0)}
	c := NewCursor(toks)
	if got := c.Lookahead(-5).Lexeme; got != "A" {
		t.Errorf("Lookahead(-5) = %q, want clamped to first token", got)
	}
	if got := c.Lookahead(50); !got.IsEOF() {
		t.Errorf("Lookahead(50) = %+v, want clamped to EOF", got)
	}
}

func TestCursorOptionalAndExpected(t *testing.T) {
	toks := lexProgram(t, `PROGRAM-ID. FOO.`)
	c := NewCursor(toks)
	if !c.Optional("PROGRAM-ID") {
		t.Fatal("Optional(PROGRAM-ID) = false, want true")
	}
	if !c.Optional(".") {
		t.Fatal("Optional(.) = false, want true")
	}
	if c.Current().Lexeme != "FOO" {
		t.Errorf("Current() = %q, want FOO", c.Current().Lexeme)
	}
	col := diagnostic.NewCollector()
	if c.Expected("PROGRAM-ID", diagnostic.Diagnostic{Headline: "expected PROGRAM-ID"}, col) {
		t.Fatal("Expected(PROGRAM-ID) on FOO = true, want false")
	}
	if c.Current().Lexeme != "FOO" {
		t.Errorf("Current() after failed Expected = %q, want FOO (not consumed)", c.Current().Lexeme)
	}
	if len(col.Diagnostics()) != 1 {
		t.Errorf("failed Expected reported %d diagnostics, want 1", len(col.Diagnostics()))
	}
	if !c.Expected("FOO", diagnostic.Diagnostic{}, col) {
		t.Fatal("Expected(FOO) = false, want true")
	}
	if c.Current().Lexeme != "." {
		t.Errorf("Current() after Expected(FOO) = %q, want .", c.Current().Lexeme)
	}
}

func TestCompileMinimalProgram(t *testing.T) {
	src := "PROGRAM-ID. HELLO.\nPROCEDURE DIVISION.\nEND PROGRAM HELLO."
	toks := lexProgram(t, src)
	_, symbols, diags, err := Compile(toks, config.NewDefault())
	if err != nil {
		t.Fatalf("Compile() error = %v, diagnostics = %+v", err, diags)
	}
	if _, ok := symbols.Global("HELLO"); !ok {
		t.Errorf("expected global unit HELLO to be registered")
	}
}

func TestCompileFunctionRequiresEndMarker(t *testing.T) {
	src := "FUNCTION-ID. ADDER.\nPROCEDURE DIVISION USING A B RETURNING C."
	toks := lexProgram(t, src)
	_, _, diags, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for a FUNCTION-ID unit with no END marker")
	}
	if len(diags) == 0 {
		t.Fatalf("expected a missing-END diagnostic for a function with no END marker")
	}
}

func TestCompileDuplicateProgramIDIsError(t *testing.T) {
	src := "PROGRAM-ID. DUP.\nEND PROGRAM DUP.\nPROGRAM-ID. DUP.\nEND PROGRAM DUP."
	toks := lexProgram(t, src)
	_, _, _, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for a duplicate PROGRAM-ID")
	}
}

func TestCompilePrototypeMutualExclusion(t *testing.T) {
	src := "PROGRAM-ID. P IS PROTOTYPE IS COMMON."
	toks := lexProgram(t, src)
	_, _, diags, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for PROTOTYPE combined with COMMON")
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d.Headline, "incompatible modifiers") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an incompatible-modifiers diagnostic, got %+v", diags)
	}
}

func TestCompileRepositoryAndFileControl(t *testing.T) {
	src := strings.Join([]string{
		"PROGRAM-ID. P.",
		"ENVIRONMENT DIVISION.",
		"CONFIGURATION SECTION.",
		"REPOSITORY.",
		"FUNCTION TRIM.",
		"INPUT-OUTPUT SECTION.",
		"FILE-CONTROL.",
		"SELECT CUSTOMER-FILE ASSIGN TO \"CUST.DAT\" ORGANIZATION IS LINE SEQUENTIAL.",
		"PROCEDURE DIVISION.",
		"END PROGRAM P.",
	}, "\n")
	toks := lexProgram(t, src)
	_, symbols, diags, err := Compile(toks, config.NewDefault())
	if err != nil {
		t.Fatalf("Compile() error = %v, diagnostics = %+v", err, diags)
	}
	sig, ok := symbols.Global("P")
	if !ok {
		t.Fatalf("expected global unit P")
	}
	if _, ok := sig.Files["CUSTOMER-FILE"]; !ok {
		t.Errorf("expected CUSTOMER-FILE registered in sig.Files, got %+v", sig.Files)
	}
}

func TestCompileDuplicateSelectIsError(t *testing.T) {
	src := strings.Join([]string{
		"PROGRAM-ID. P.",
		"ENVIRONMENT DIVISION.",
		"INPUT-OUTPUT SECTION.",
		"FILE-CONTROL.",
		"SELECT F ASSIGN TO \"A.DAT\".",
		"SELECT F ASSIGN TO \"B.DAT\".",
		"PROCEDURE DIVISION.",
		"END PROGRAM P.",
	}, "\n")
	toks := lexProgram(t, src)
	_, _, _, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for a duplicate SELECT file name")
	}
}

func TestCompileDataDivisionLevelStack(t *testing.T) {
	src := strings.Join([]string{
		"PROGRAM-ID. P.",
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01 CUSTOMER-RECORD.",
		"05 CUSTOMER-NAME PIC X(30).",
		"05 CUSTOMER-BALANCE PIC 9(7)V99 USAGE COMP-3.",
		"77 COUNTER PIC 9(4) VALUE ZERO.",
		"PROCEDURE DIVISION.",
		"END PROGRAM P.",
	}, "\n")
	toks := lexProgram(t, src)
	_, symbols, diags, err := Compile(toks, config.NewDefault())
	if err != nil {
		t.Fatalf("Compile() error = %v, diagnostics = %+v", err, diags)
	}
	if !symbols.HasLocal("CUSTOMER-NAME") {
		t.Errorf("expected CUSTOMER-NAME to be registered as a local")
	}
	entry, ok := symbols.FirstLocal("CUSTOMER-RECORD")
	if !ok {
		t.Fatalf("expected CUSTOMER-RECORD to be registered")
	}
	if entry.Level != 1 {
		t.Errorf("CUSTOMER-RECORD level = %d, want 1", entry.Level)
	}
	counter, ok := symbols.FirstLocal("COUNTER")
	if !ok || counter.Level != 77 {
		t.Fatalf("expected COUNTER at level 77, got %+v ok=%v", counter, ok)
	}
}

func TestCompileElementaryItemMissingPictureIsError(t *testing.T) {
	src := strings.Join([]string{
		"PROGRAM-ID. P.",
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01 LONE-FIELD USAGE DISPLAY.",
		"PROCEDURE DIVISION.",
		"END PROGRAM P.",
	}, "\n")
	toks := lexProgram(t, src)
	_, _, _, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for an elementary item with no PICTURE and no literal VALUE")
	}
}

func TestCompileIndexUsageForbidsValue(t *testing.T) {
	src := strings.Join([]string{
		"PROGRAM-ID. P.",
		"DATA DIVISION.",
		"WORKING-STORAGE SECTION.",
		"01 TABLE-INDEX USAGE INDEX VALUE 1.",
		"PROCEDURE DIVISION.",
		"END PROGRAM P.",
	}, "\n")
	toks := lexProgram(t, src)
	_, _, _, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for USAGE INDEX combined with VALUE")
	}
}

func TestCompileUsingAndReturningPopulateSignature(t *testing.T) {
	src := strings.Join([]string{
		"FUNCTION-ID. ADDER.",
		"PROCEDURE DIVISION USING BY VALUE A BY REFERENCE B RETURNING RESULT.",
		"END FUNCTION ADDER.",
	}, "\n")
	toks := lexProgram(t, src)
	_, symbols, diags, err := Compile(toks, config.NewDefault())
	if err != nil {
		t.Fatalf("Compile() error = %v, diagnostics = %+v", err, diags)
	}
	sig, ok := symbols.Global("ADDER")
	if !ok {
		t.Fatalf("expected global unit ADDER")
	}
	if len(sig.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d: %+v", len(sig.Parameters), sig.Parameters)
	}
	if sig.Parameters[0].ByReference {
		t.Errorf("parameter A should be BY VALUE")
	}
	if !sig.Parameters[1].ByReference {
		t.Errorf("parameter B should be BY REFERENCE")
	}
	if sig.Returning != "RESULT" {
		t.Errorf("Returning = %q, want RESULT", sig.Returning)
	}
}

func TestCompileMismatchedEndKindIsError(t *testing.T) {
	src := "PROGRAM-ID. P.\nPROCEDURE DIVISION.\nEND FUNCTION P."
	toks := lexProgram(t, src)
	_, _, diags, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for a mismatched END kind")
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d.Headline, "does not match") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an END-kind-mismatch diagnostic, got %+v", diags)
	}
}

func TestCompileClassWithFactoryObjectAndMethods(t *testing.T) {
	src := strings.Join([]string{
		"CLASS-ID. ACCOUNT.",
		"FACTORY.",
		"METHOD-ID. NEW.",
		"PROCEDURE DIVISION.",
		"END METHOD NEW.",
		"END FACTORY.",
		"OBJECT.",
		"METHOD-ID. BALANCE.",
		"PROCEDURE DIVISION.",
		"END METHOD BALANCE.",
		"END OBJECT.",
		"END CLASS ACCOUNT.",
	}, "\n")
	toks := lexProgram(t, src)
	_, symbols, diags, err := Compile(toks, config.NewDefault())
	if err != nil {
		t.Fatalf("Compile() error = %v, diagnostics = %+v", err, diags)
	}
	if _, ok := symbols.Global("ACCOUNT"); !ok {
		t.Errorf("expected global unit ACCOUNT to be registered")
	}
}

func TestCompileInterfaceMethodIsImplicitPrototype(t *testing.T) {
	src := strings.Join([]string{
		"INTERFACE-ID. DEPOSITABLE.",
		"METHOD-ID. DEPOSIT.",
		"END METHOD DEPOSIT.",
		"END INTERFACE DEPOSITABLE.",
	}, "\n")
	toks := lexProgram(t, src)
	_, _, diags, err := Compile(toks, config.NewDefault())
	if err != nil {
		t.Fatalf("Compile() error = %v, diagnostics = %+v", err, diags)
	}
}

func TestCompileInterfaceMethodWithStatementsIsError(t *testing.T) {
	src := strings.Join([]string{
		"INTERFACE-ID. DEPOSITABLE.",
		"METHOD-ID. DEPOSIT.",
		"PROCEDURE DIVISION.",
		"DISPLAY \"not allowed in a prototype\".",
		"END METHOD DEPOSIT.",
		"END INTERFACE DEPOSITABLE.",
	}, "\n")
	toks := lexProgram(t, src)
	_, _, _, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for statements inside an interface method prototype")
	}
}

func TestCompilePrototypeProgramWithStatementsIsError(t *testing.T) {
	src := strings.Join([]string{
		"PROGRAM-ID. P IS PROTOTYPE.",
		"PROCEDURE DIVISION.",
		"DISPLAY \"not allowed in a prototype\".",
		"END PROGRAM P.",
	}, "\n")
	toks := lexProgram(t, src)
	_, _, _, err := Compile(toks, config.NewDefault())
	if err == nil {
		t.Fatal("expected ErrCompilationFailed for statements inside a prototype program")
	}
}

func TestChoiceMismatchAttachesDidYouMeanSuggestion(t *testing.T) {
	toks := lexProgram(t, `PROGRAM-ID. P.`)
	c := NewCursor(toks)
	collector := diagnostic.NewCollector()
	_, ok := c.Choice([]string{"PROGRAM-IE", "FUNCTION-ID"}, diagnostic.CodeMissingUsingPhraseName, collector)
	if ok {
		t.Fatal("Choice() = true, want false for a non-matching alternative list")
	}
	diags := collector.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", len(diags))
	}
	if diags[0].Suggestion != "PROGRAM-IE" {
		t.Errorf("Suggestion = %q, want %q", diags[0].Suggestion, "PROGRAM-IE")
	}
}

func TestQualifiedUnitNameNestsParentAndChild(t *testing.T) {
	c := &Compiler{unitNames: []string{"ACCOUNT", "DEPOSIT"}}
	if got, want := c.qualifiedUnitName(), "ACCOUNT->DEPOSIT"; got != want {
		t.Errorf("qualifiedUnitName() = %q, want %q", got, want)
	}
}

func TestQualifiedUnitNameTopLevel(t *testing.T) {
	c := &Compiler{unitNames: []string{"ACCOUNT"}}
	if got, want := c.qualifiedUnitName(), "ACCOUNT"; got != want {
		t.Errorf("qualifiedUnitName() = %q, want %q", got, want)
	}
}

package diagnostic

import (
	"strings"
	"testing"

	"github.com/coboltools/frontend/pkg/token"
)

func sampleToken() token.Token {
	return token.New("END-IF", token.Reserved, token.ContextNone, 12, 8, 0)
}

func TestBuilderAssemblesDiagnostic(t *testing.T) {
	d := New(AnalyzerError, CodeMissingSeparatorPeriod, "missing separator period", sampleToken()).
		WithExcerpt("       MOVE A TO B").
		WithNote("every statement ends with a period").
		WithSuggestion("insert a period after B").
		Build()

	if d.Severity != AnalyzerError || d.Code != CodeMissingSeparatorPeriod {
		t.Fatalf("d = %+v", d)
	}
	if !strings.Contains(d.Excerpt, "^") {
		t.Errorf("Excerpt = %q, want a caret", d.Excerpt)
	}
	if len(d.Notes) != 1 || d.Suggestion == "" {
		t.Errorf("d = %+v, want one note and a suggestion", d)
	}
}

func TestExcerptPlacesCaretAtColumn(t *testing.T) {
	got := Excerpt("       MOVE A TO B", 8)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("Excerpt lines = %v, want 2", lines)
	}
	if len(lines[1]) != 8 || lines[1][7] != '^' {
		t.Errorf("caret line = %q, want caret at column 8", lines[1])
	}
}

func TestCollectorCountsErrorsAndWorse(t *testing.T) {
	c := NewCollector()
	c.Report(New(Recovery, 1, "minor", sampleToken()).Build())
	c.Report(New(AnalyzerError, CodeDuplicateRootLevelDefinition, "duplicate", sampleToken()).Build())
	c.Report(New(Fatal, 999, "unreadable file", sampleToken()).Build())

	if c.ErrorCount() != 2 {
		t.Errorf("ErrorCount = %d, want 2", c.ErrorCount())
	}
	if len(c.Diagnostics()) != 3 {
		t.Errorf("Diagnostics = %d, want 3", len(c.Diagnostics()))
	}
}

func TestSuggestNameFindsCloseMatch(t *testing.T) {
	best, ok := SuggestName("CUSTOMR-NAME", []string{"CUSTOMER-NAME", "ACCOUNT-ID"})
	if !ok || best != "CUSTOMER-NAME" {
		t.Fatalf("SuggestName = %q, %v, want CUSTOMER-NAME, true", best, ok)
	}
}

func TestSuggestNameRejectsDistantCandidates(t *testing.T) {
	_, ok := SuggestName("X", []string{"COMPLETELY-UNRELATED-FIELD"})
	if ok {
		t.Fatal("expected no suggestion for an unrelated candidate")
	}
}

func TestExportJSONRoundTripsThroughCodesIn(t *testing.T) {
	diags := []Diagnostic{
		New(AnalyzerError, CodeMissingSeparatorPeriod, "a", sampleToken()).Build(),
		New(AnalyzerError, CodeDuplicateRootLevelDefinition, "b", sampleToken()).Build(),
		New(AnalyzerError, CodeMissingSeparatorPeriod, "c", sampleToken()).Build(),
	}
	doc, err := ExportJSON(diags)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	codes := CodesIn(doc)
	if len(codes) != 2 {
		t.Fatalf("CodesIn = %v, want 2 distinct codes", codes)
	}
}

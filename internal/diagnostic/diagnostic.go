// Package diagnostic implements the structured error factory described in
// §4.7/§7: every diagnostic carries a severity, a numeric code, a one-line
// headline, an anchored source excerpt with a caret, zero or more notes, and
// an optional suggestion. The severity-plus-formatted-excerpt shape is
// generalized from a single error kind to the three-severity taxonomy and
// numeric code table §7 defines. Color and box-drawing stay a reporter
// concern, never the analyzer's, exactly as §4.7 requires.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/coboltools/frontend/pkg/token"
)

// Severity is one of the three levels §7 defines.
type Severity int

const (
	// Recovery: the analyzer consumed or skipped something unexpected but
	// continues normally.
	Recovery Severity = iota
	// AnalyzerError: analysis continues, but the compilation as a whole is
	// unsuccessful.
	AnalyzerError
	// Fatal: the pipeline terminates immediately.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Recovery:
		return "recovery"
	case AnalyzerError:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Numeric diagnostic codes named in §7's examples. Additional codes follow
// the same block-per-phase numbering as the analyzer grows.
const (
	CodeMissingSeparatorPeriod       = 25
	CodeDuplicateRootLevelDefinition = 30
	CodeUnterminatedStringLiteral    = 40
	CodeUnrecognizedCharacter        = 41
	CodeMissingEndMarker             = 90
	CodeMissingUsingPhraseName       = 105
)

// Diagnostic is one structured diagnostic record.
type Diagnostic struct {
	Severity   Severity
	Code       int
	Headline   string
	Token      token.Token
	Excerpt    string
	Notes      []string
	Suggestion string
}

// Format renders one diagnostic as the multi-line, caret-annotated text the
// CLI driver prints. Color is applied by the caller, not here (§4.7).
func (d Diagnostic) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]: %s\n", d.Severity, d.Code, d.Headline)
	fmt.Fprintf(&b, "  --> line %d, column %d\n", d.Token.Line, d.Token.Column)
	if d.Excerpt != "" {
		b.WriteString(d.Excerpt)
		b.WriteByte('\n')
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&b, "  note: %s\n", note)
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&b, "  suggestion: %s\n", d.Suggestion)
	}
	return b.String()
}

// Excerpt renders sourceLine with a caret under column (1-based), the shape
// every Diagnostic.Excerpt is built from.
func Excerpt(sourceLine string, column int) string {
	if column < 1 {
		column = 1
	}
	caret := strings.Repeat(" ", column-1) + "^"
	return sourceLine + "\n" + caret
}

// Builder assembles a Diagnostic fluently: each With* call returns the same
// *Builder so calls chain.
type Builder struct {
	d Diagnostic
}

// New starts a Builder for one diagnostic anchored at tok.
func New(severity Severity, code int, headline string, tok token.Token) *Builder {
	return &Builder{d: Diagnostic{Severity: severity, Code: code, Headline: headline, Token: tok}}
}

func (b *Builder) WithExcerpt(sourceLine string) *Builder {
	b.d.Excerpt = Excerpt(sourceLine, b.d.Token.Column)
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *Builder) WithSuggestion(suggestion string) *Builder {
	b.d.Suggestion = suggestion
	return b
}

// Build returns the assembled Diagnostic.
func (b *Builder) Build() Diagnostic {
	return b.d
}

// Reporter is the interface the analyzer depends on (§4.7): it needs only a
// sink for diagnostics and a running count of terminal (AnalyzerError or
// worse) severities.
type Reporter interface {
	Report(Diagnostic)
	ErrorCount() int
}

// Collector is the default in-memory Reporter: it keeps every diagnostic in
// reporting order and tracks how many reached AnalyzerError or Fatal, which
// is what decides whether the pipeline terminates after the top-level rule
// returns (§7).
type Collector struct {
	diagnostics []Diagnostic
	errorCount  int
}

// NewCollector constructs an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	if d.Severity >= AnalyzerError {
		c.errorCount++
	}
}

func (c *Collector) ErrorCount() int {
	return c.errorCount
}

// Diagnostics returns every diagnostic reported so far, in reporting order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// SuggestName finds the candidate closest to name by Levenshtein distance,
// for a "did you mean" note on an unresolved identifier. It reports ok=false
// when no candidate is close enough to be a plausible typo (distance over
// len(candidate)/3+1, using integer division).
func SuggestName(name string, candidates []string) (best string, ok bool) {
	bestDistance := -1
	for _, c := range candidates {
		d := levenshtein.Distance(strings.ToUpper(name), strings.ToUpper(c), nil)
		threshold := len(c)/3 + 1
		if d > threshold {
			continue
		}
		if bestDistance == -1 || d < bestDistance {
			bestDistance = d
			best = c
		}
	}
	return best, bestDistance != -1
}

// Package directive recognizes and applies the compiler directives the
// preprocessor understands (§4.3), presently the ">>SOURCE" family that
// switches the format normalizer between Fixed and Free mid-file. A
// directive line is recognized cheaply before any COBOL-specific parsing is
// attempted, and an unrecognized directive is left untouched rather than
// rejected.
package directive

import (
	"strings"

	"github.com/coboltools/frontend/internal/config"
)

// Result reports what a Handler did with one line.
type Result struct {
	// Recognized is true when the line was a directive, whether or not it
	// changed anything. Recognized lines never reach the lexer.
	Recognized bool
	// Applied is true when the directive mutated opts.
	Applied bool
}

// Handler applies directive lines to a CompileOptions as the preprocessor
// walks a compilation unit.
type Handler struct {
	opts *config.CompileOptions
}

// NewHandler constructs a Handler that mutates opts in place.
func NewHandler(opts *config.CompileOptions) *Handler {
	return &Handler{opts: opts}
}

// Apply inspects one already-normalized line for a directive and applies it.
// A non-directive line (including ordinary COBOL text and full-line
// comments) returns a zero Result.
func (h *Handler) Apply(line []byte) Result {
	trimmed := strings.TrimSpace(string(line))
	if !strings.HasPrefix(trimmed, ">>") {
		return Result{}
	}

	fields := strings.Fields(trimmed[2:])
	if len(fields) == 0 {
		return Result{Recognized: true}
	}

	switch strings.ToUpper(fields[0]) {
	case "SOURCE":
		return h.applySource(fields[1:])
	default:
		// An unrecognized directive keyword is consumed but ignored; the
		// preprocessor does not fail the compilation over it.
		return Result{Recognized: true}
	}
}

// applySource handles ">>SOURCE [FORMAT] [IS] FREE|FIXED".
func (h *Handler) applySource(args []string) Result {
	for _, a := range args {
		switch strings.ToUpper(a) {
		case "FORMAT", "IS":
			continue
		default:
			if sf, err := config.ParseSourceFormat(a); err == nil {
				h.opts.SourceFormat = sf
				return Result{Recognized: true, Applied: true}
			}
			return Result{Recognized: true}
		}
	}
	return Result{Recognized: true}
}

// Package pipeline wires the preprocessing and analysis stages together in
// this order: source reader, format normalizer, directive handler, lexer,
// copybook expander, analyzer. Nothing here is itself a
// compiler phase; it is the ordering a CLI driver would otherwise have to
// reconstruct by hand, kept in one place so cmd/cobolfront only ever calls
// Tokenize or Compile.
package pipeline

import (
	"github.com/coboltools/frontend/internal/analyzer"
	"github.com/coboltools/frontend/internal/config"
	"github.com/coboltools/frontend/internal/copybook"
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/directive"
	"github.com/coboltools/frontend/internal/lexer"
	"github.com/coboltools/frontend/internal/normalize"
	"github.com/coboltools/frontend/internal/source"
	"github.com/coboltools/frontend/internal/symtab"
	"github.com/coboltools/frontend/pkg/token"
)

// Result is everything one compilation produces.
type Result struct {
	Tokens      []token.Token
	Symbols     *symtab.SymbolTable
	Diagnostics []diagnostic.Diagnostic
}

// Tokenize reads path's entry-point file through reader, followed by each of
// workspaceFiles in the order given (§6 "Workspace enumeration"), applying
// the format normalizer's auto-detection, the directive handler, and the
// lexer to every logical line in turn, and concatenates their tokens into
// one stream with exactly one trailing EOF token (§4.4, §5 ordering
// guarantee: tokens appear in the order they occur in the concatenated
// entry-point-then-other-files stream). Each file keeps its own index on
// every token it produces (token.Token.File), so the analyzer never needs a
// separate file-index pointer of its own: walking the concatenated stream
// past one file's last token and into the next file's first token is
// exactly the "advance the file-index pointer" step §4.6 describes. It does
// not expand copybooks or run the analyzer; it is the stage the lex command
// drives directly.
func Tokenize(reader *source.Reader, path string, workspaceFiles []string, opts *config.CompileOptions) ([]token.Token, error) {
	var toks []token.Token
	lastFile := 0
	for _, p := range append([]string{path}, workspaceFiles...) {
		fileToks, fileIndex, err := tokenizeFile(reader, p, opts)
		if err != nil {
			return nil, err
		}
		toks = append(toks, fileToks...)
		lastFile = fileIndex
	}
	return append(toks, token.NewEOF(lastFile)), nil
}

// tokenizeFile tokenizes exactly one file's logical lines, with no trailing
// EOF of its own: Tokenize appends the single EOF once, after the last file
// in the workspace.
func tokenizeFile(reader *source.Reader, path string, opts *config.CompileOptions) ([]token.Token, int, error) {
	fileIndex := opts.RegisterFile(path)
	handler := directive.NewHandler(opts)
	var toks []token.Token
	detected := config.Auto

	err := reader.ReadLines(path, func(l source.Line) error {
		effective := opts.SourceFormat
		if effective == config.Auto {
			if detected == config.Auto {
				if d, ok := normalize.Detect(l.Bytes); ok {
					detected = d
				}
			}
			effective = detected
			if effective == config.Auto {
				effective = config.Fixed
			}
		}

		normalized := normalize.Normalize(l.Bytes, effective, opts.ColumnLength)

		if res := handler.Apply(normalized); res.Recognized {
			return nil
		}

		lineToks, errs := lexer.New(normalized, fileIndex, l.Number).ScanLine()
		if len(errs) > 0 {
			return errs[0]
		}
		toks = append(toks, lineToks...)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return toks, fileIndex, nil
}

// Compile runs the complete pipeline against path's entry-point file and the
// given workspace files: Tokenize, then copybook expansion, then the
// analyzer. The returned error is analyzer.ErrCompilationFailed whenever
// diagnostics include one at AnalyzerError severity or worse; callers that
// only need the diagnostic list for reporting should inspect
// Result.Diagnostics rather than treat a non-nil error as fatal to the
// pipeline itself.
func Compile(reader *source.Reader, path string, workspaceFiles []string, opts *config.CompileOptions) (*Result, error) {
	return compile(reader, path, workspaceFiles, opts, false)
}

// CompileTraced behaves like Compile but runs the analyzer with tracing
// enabled (internal/analyzer.CompileTraced), for the CLI's --trace flag.
func CompileTraced(reader *source.Reader, path string, workspaceFiles []string, opts *config.CompileOptions) (*Result, error) {
	return compile(reader, path, workspaceFiles, opts, true)
}

func compile(reader *source.Reader, path string, workspaceFiles []string, opts *config.CompileOptions, trace bool) (*Result, error) {
	toks, err := Tokenize(reader, path, workspaceFiles, opts)
	if err != nil {
		return nil, err
	}

	loader := &copybook.SourceLoader{
		Reader:       reader,
		SearchPaths:  opts.CopybookSearchPaths,
		RegisterFile: opts.RegisterFile,
	}
	toks, err = copybook.Expand(toks, loader)
	if err != nil {
		return nil, err
	}

	analyze := analyzer.Compile
	if trace {
		analyze = analyzer.CompileTraced
	}
	resultToks, symbols, diags, compileErr := analyze(toks, opts)
	result := &Result{Tokens: resultToks, Symbols: symbols, Diagnostics: diags}
	if compileErr != nil && compileErr != analyzer.ErrCompilationFailed {
		return result, compileErr
	}
	return result, compileErr
}

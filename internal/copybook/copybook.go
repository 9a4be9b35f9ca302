// Package copybook implements the §4.5 copybook expander: a single in-place
// pass over a token list that splices each COPY statement's token range with
// the tokens lexed from the named copybook file, re-expanding nested COPYs
// by resetting the iteration index after every splice.
package copybook

import (
	"fmt"
	"strings"

	"github.com/coboltools/frontend/internal/lexer"
	"github.com/coboltools/frontend/internal/source"
	"github.com/coboltools/frontend/pkg/ident"
	"github.com/coboltools/frontend/pkg/token"
)

// Loader resolves a copybook name to its token list. A CLI driver supplies
// one backed by internal/source.Reader and a search-path list; tests supply
// an in-memory one.
type Loader interface {
	Load(name string) ([]token.Token, error)
}

// SourceLoader adapts a source.Reader and a file registry into a Loader,
// lexing every line of the resolved copybook file through internal/lexer and
// appending its own trailing EOF-free token run (copybook token lists never
// carry their own EOF; only the entry-point stream does, per §4.4).
type SourceLoader struct {
	Reader       *source.Reader
	SearchPaths  []string
	RegisterFile func(path string) int
}

// Load resolves name against SearchPaths (tried in order, name unmodified as
// a last resort) and lexes the first path that opens successfully.
func (sl *SourceLoader) Load(name string) ([]token.Token, error) {
	candidates := append(append([]string{}, sl.SearchPaths...), "")
	var lastErr error
	for _, dir := range candidates {
		path := name
		if dir != "" {
			path = dir + "/" + name
		}
		toks, err := sl.loadPath(path)
		if err == nil {
			return toks, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("copybook: resolving %q: %w", name, lastErr)
}

func (sl *SourceLoader) loadPath(path string) ([]token.Token, error) {
	fileIndex := sl.RegisterFile(path)
	var toks []token.Token
	err := sl.Reader.ReadLines(path, func(l source.Line) error {
		lineToks, errs := lexer.New(l.Bytes, fileIndex, l.Number).ScanLine()
		if len(errs) > 0 {
			return errs[0]
		}
		toks = append(toks, lineToks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toks, nil
}

// Expand mutates toks in place, replacing every `COPY name.` statement with
// the copybook's token list, and returns the resulting slice (append may
// reallocate, so callers must use the returned value).
func Expand(toks []token.Token, loader Loader) ([]token.Token, error) {
	i := 0
	for i < len(toks) {
		if !isCopyKeyword(toks[i]) {
			i++
			continue
		}

		j := i + 1
		if j >= len(toks) {
			return nil, fmt.Errorf("copybook: COPY at %d:%d has no name", toks[i].Line, toks[i].Column)
		}
		name := stripQuotes(toks[j].Lexeme)
		j++

		for j < len(toks) && !isPeriod(toks[j]) {
			j++
		}
		if j >= len(toks) {
			return nil, fmt.Errorf("copybook: COPY %s is missing its terminating period", name)
		}
		j++ // consume the period

		expansion, err := loader.Load(name)
		if err != nil {
			return nil, err
		}

		toks = spliceTokens(toks, i, j, expansion)
		// Re-enter the loop at i so a COPY at the head of the spliced-in
		// tokens (a nested copybook) is expanded on a later iteration.
	}
	return toks, nil
}

func isCopyKeyword(t token.Token) bool {
	return ident.Equal(t.Lexeme, "COPY")
}

func isPeriod(t token.Token) bool {
	return t.Kind == token.Symbol && t.Lexeme == "."
}

func stripQuotes(lexeme string) string {
	if len(lexeme) >= 2 {
		first, last := lexeme[0], lexeme[len(lexeme)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return lexeme[1 : len(lexeme)-1]
		}
	}
	return strings.TrimSpace(lexeme)
}

// spliceTokens replaces toks[i:j] with replacement inside toks' own backing
// array, which append grows (reallocating) only when its capacity is
// exceeded.
func spliceTokens(toks []token.Token, i, j int, replacement []token.Token) []token.Token {
	tail := append([]token.Token(nil), toks[j:]...)
	toks = append(toks[:i], replacement...)
	return append(toks, tail...)
}

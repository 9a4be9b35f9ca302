package analyzer

import (
	"fmt"

	"github.com/coboltools/frontend/internal/config"
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/symtab"
	"github.com/coboltools/frontend/pkg/ident"
	"github.com/coboltools/frontend/pkg/token"
	"github.com/kr/pretty"
)

// Mode is the resolution-pass flag §4.7 mentions: in ModeResolve the
// analyzer walks the same grammar to validate forward references but skips
// symbol-table mutation, so a second pass never double-registers a unit or
// a data item already recorded by the first.
type Mode int

const (
	ModeAnalyze Mode = iota
	ModeResolve
)

// Scope is the analyzer's current-section tracking enum (§4.6).
type Scope int

const (
	ScopeNone Scope = iota
	ScopeProgramID
	ScopeFunctionID
	ScopeClassID
	ScopeInterfaceID
	ScopeMethodID
	ScopeEnvironmentDivision
	ScopeRepository
	ScopeDataDivision
	ScopeWorkingStorage
	ScopeLocalStorage
	ScopeLinkageSection
	ScopeFileControl
	ScopeProcedureDivision
)

// Compiler holds every piece of mutable state one compilation owns: the
// token cursor, the symbol table, the diagnostic sink, the compile options,
// and the analyzer's own unit/level/scope stacks (§4.6, §5). A Compiler is
// never shared across concurrent compilations; each compilation constructs
// its own.
type Compiler struct {
	cursor   *Cursor
	symbols  *symtab.SymbolTable
	reporter diagnostic.Reporter
	opts     *config.CompileOptions
	mode     Mode

	unitNames []string
	unitKinds []symtab.UnitKind
	levels    []int
	scope     Scope

	// rootNames tracks level-01/77 data-item names seen in the current
	// unit's DATA DIVISION, so a second root-level item reusing a name
	// without REDEFINES is flagged rather than silently shadowing the
	// first (§8 S2).
	rootNames map[string]bool

	// Trace enables a kr/pretty dump of the unit-name stack each time a
	// source unit is entered, for developer debugging only.
	Trace bool
}

// fatalSignal unwinds the analyzer on a Fatal-severity diagnostic (§7):
// every rule is non-failing by contract, so the only way to terminate
// immediately from deep in the recursive descent without threading an error
// return through every rule is to panic with this private type and recover
// it at Compile's boundary.
type fatalSignal struct {
	diag diagnostic.Diagnostic
}

func (c *Compiler) fatal(code int, headline string) {
	d := diagnostic.New(diagnostic.Fatal, code, headline, c.cursor.Current()).Build()
	c.reporter.Report(d)
	panic(fatalSignal{diag: d})
}

// Compile runs the analyzer over toks (already preprocessed: normalized,
// directive-applied, copybook-expanded) and returns the token list
// unchanged, the populated symbol table, every diagnostic raised, and a
// non-nil error only when at least one diagnostic reached AnalyzerError or
// Fatal severity (ErrCompilationFailed), or a Fatal diagnostic forced early
// termination.
func Compile(toks []token.Token, opts *config.CompileOptions) ([]token.Token, *symtab.SymbolTable, []diagnostic.Diagnostic, error) {
	return compile(toks, opts, false)
}

// CompileTraced behaves like Compile but also prints a kr/pretty dump of the
// unit-name stack at every source-unit boundary, for the CLI's --trace flag.
func CompileTraced(toks []token.Token, opts *config.CompileOptions) ([]token.Token, *symtab.SymbolTable, []diagnostic.Diagnostic, error) {
	return compile(toks, opts, true)
}

func compile(toks []token.Token, opts *config.CompileOptions, trace bool) (result []token.Token, symbols *symtab.SymbolTable, diagnostics []diagnostic.Diagnostic, err error) {
	collector := diagnostic.NewCollector()
	c := &Compiler{
		cursor:   NewCursor(toks),
		symbols:  symtab.New(),
		reporter: collector,
		opts:     opts,
		Trace:    trace,
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(fatalSignal); !ok {
					panic(r)
				}
			}
		}()
		c.compileUnits()
	}()

	diags := collector.Diagnostics()
	if collector.ErrorCount() > 0 {
		return toks, c.symbols, diags, ErrCompilationFailed
	}
	return toks, c.symbols, diags, nil
}

// ErrCompilationFailed is returned by Compile whenever any diagnostic
// reached AnalyzerError or Fatal severity; the token list and symbol table
// are still returned, since a caller may want to report diagnostics against
// partial results, but per §7 no downstream consumer should treat the
// compilation as successful.
var ErrCompilationFailed = fmt.Errorf("analyzer: compilation did not complete without error")

// compileUnits is the top-level rule: it iterates source-unit definitions
// until EOF (§4.6).
func (c *Compiler) compileUnits() {
	for !c.cursor.AtEOF() {
		if !c.cursor.CurrentEquals("IDENTIFICATION", "PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID") {
			// Not a recognizable unit boundary; skip forward to the next
			// one rather than looping forever on unrecognized input.
			c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeMissingUsingPhraseName,
				"expected a source unit (PROGRAM-ID, FUNCTION-ID, CLASS-ID, or INTERFACE-ID)", c.cursor.Current()).Build())
			c.cursor.AnchorPoint([]string{"PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID", "IDENTIFICATION"}, nil)
			if c.cursor.AtEOF() {
				return
			}
		}
		c.parseSourceUnit()
	}
}

// parseSourceUnit parses one source unit fully: its IDENTIFICATION
// paragraph, the ENVIRONMENT/DATA divisions every kind shares, and then a
// kind-dependent body. CLASS-ID nests zero or more FACTORY/OBJECT units;
// INTERFACE-ID, FACTORY, and OBJECT each nest zero or more METHOD-ID units;
// every other kind takes a PROCEDURE DIVISION. Nested units are parsed by
// recursing into parseSourceUnit itself, so the unit name/kind stacks push
// and pop together at every nesting depth (§4.6).
func (c *Compiler) parseSourceUnit() {
	sig := c.parseIdentificationDivision()
	if sig == nil {
		return
	}
	if c.Trace {
		pretty.Println("entered unit", sig.Name, "stack", c.unitNames)
	}

	if c.cursor.CurrentEquals("ENVIRONMENT") {
		c.parseEnvironmentDivision(sig)
	}
	if c.cursor.CurrentEquals("DATA") {
		c.parseDataDivision()
	}

	switch sig.Kind {
	case symtab.UnitClass:
		for c.cursor.CurrentEquals("FACTORY", "OBJECT") {
			c.parseSourceUnit()
		}
	case symtab.UnitInterface, symtab.UnitFactory, symtab.UnitObject:
		for c.cursor.CurrentEquals("METHOD-ID") {
			c.parseSourceUnit()
		}
	default:
		if c.cursor.CurrentEquals("PROCEDURE") {
			c.parseProcedureDivision(sig)
		}
	}

	c.parseEndMarker(sig)

	c.unitNames = c.unitNames[:len(c.unitNames)-1]
	c.unitKinds = c.unitKinds[:len(c.unitKinds)-1]
}

// parseIdentificationDivision parses the (optional) IDENTIFICATION DIVISION
// header and the mandatory -ID paragraph, registering a SourceUnitSignature
// and pushing the unit name/kind stacks (§4.6). FACTORY and OBJECT carry no
// name of their own (COBOL writes them as the bare paragraph headers
// `FACTORY.`/`OBJECT.`), so the paragraph keyword itself is pushed as the
// unit name. A METHOD-ID nested directly inside an INTERFACE-ID is a method
// prototype by construction (an interface only ever declares signatures),
// so it is marked Prototype here even without an explicit IS PROTOTYPE.
func (c *Compiler) parseIdentificationDivision() *symtab.SourceUnitSignature {
	if c.cursor.CurrentEquals("IDENTIFICATION") {
		c.cursor.Advance()
		c.cursor.Optional("DIVISION")
		c.cursor.Optional(".")
	}

	kindWord, ok := c.cursor.Choice(
		[]string{"PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID", "METHOD-ID", "FACTORY", "OBJECT"},
		diagnostic.CodeMissingUsingPhraseName, c.reporter)
	if !ok {
		return nil
	}
	c.cursor.Optional(".")

	var name string
	if ident.Equal(kindWord, "FACTORY") || ident.Equal(kindWord, "OBJECT") {
		name = kindWord
	} else {
		name = c.cursor.Current().Lexeme
		c.cursor.Advance()
		c.cursor.Optional(".")
	}

	var parentKind symtab.UnitKind
	if len(c.unitKinds) > 0 {
		parentKind = c.unitKinds[len(c.unitKinds)-1]
	}

	kind := unitKindFor(kindWord)
	c.unitNames = append(c.unitNames, name)
	c.unitKinds = append(c.unitKinds, kind)
	c.scope = scopeFor(kindWord)

	sig := &symtab.SourceUnitSignature{Name: c.qualifiedUnitName(), Kind: kind, Files: map[string]*symtab.FileControlEntry{}}
	if kind == symtab.UnitMethod && parentKind == symtab.UnitInterface {
		sig.Prototype = true
	}

	if c.mode == ModeAnalyze {
		if err := c.symbols.RegisterGlobal(sig); err != nil {
			c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeDuplicateRootLevelDefinition,
				err.Error(), c.cursor.Lookahead(-1)).Build())
		}
	}

	c.parseIdentificationModifiers(sig)
	return sig
}

// qualifiedUnitName fully qualifies a nested unit name as "parent->child"
// (§3: "method names are qualified by parent unit->method").
func (c *Compiler) qualifiedUnitName() string {
	if len(c.unitNames) <= 1 {
		if len(c.unitNames) == 0 {
			return ""
		}
		return c.unitNames[0]
	}
	parent := c.unitNames[len(c.unitNames)-2]
	return parent + "->" + c.unitNames[len(c.unitNames)-1]
}

func unitKindFor(kindWord string) symtab.UnitKind {
	switch {
	case ident.Equal(kindWord, "PROGRAM-ID"):
		return symtab.UnitProgram
	case ident.Equal(kindWord, "FUNCTION-ID"):
		return symtab.UnitFunction
	case ident.Equal(kindWord, "CLASS-ID"):
		return symtab.UnitClass
	case ident.Equal(kindWord, "INTERFACE-ID"):
		return symtab.UnitInterface
	case ident.Equal(kindWord, "METHOD-ID"):
		return symtab.UnitMethod
	case ident.Equal(kindWord, "FACTORY"):
		return symtab.UnitFactory
	case ident.Equal(kindWord, "OBJECT"):
		return symtab.UnitObject
	default:
		return symtab.UnitProgram
	}
}

func scopeFor(kindWord string) Scope {
	switch {
	case ident.Equal(kindWord, "PROGRAM-ID"):
		return ScopeProgramID
	case ident.Equal(kindWord, "FUNCTION-ID"):
		return ScopeFunctionID
	case ident.Equal(kindWord, "CLASS-ID"):
		return ScopeClassID
	case ident.Equal(kindWord, "INTERFACE-ID"):
		return ScopeInterfaceID
	case ident.Equal(kindWord, "METHOD-ID"):
		return ScopeMethodID
	default:
		return ScopeNone
	}
}

// parseIdentificationModifiers parses the optional clauses following an -ID
// paragraph's name: AS "ext", IS PROTOTYPE, IS COMMON/INITIAL/RECURSIVE,
// INHERITS FROM, USING, IS FINAL (§4.6). PROTOTYPE is mutually exclusive
// with COMMON/INITIAL/RECURSIVE; INITIAL and RECURSIVE are mutually
// exclusive. A mismatch emits a diagnostic but analysis continues.
func (c *Compiler) parseIdentificationModifiers(sig *symtab.SourceUnitSignature) {
	for {
		switch {
		case c.cursor.CurrentEquals("AS"):
			c.cursor.Advance()
			c.cursor.Advance() // external-name literal
		case c.cursor.CurrentEquals("IS", "PROTOTYPE", "COMMON", "INITIAL", "RECURSIVE", "FINAL"):
			c.parseIdentificationFlag(sig)
		case c.cursor.CurrentEquals("INHERITS"):
			c.cursor.Advance()
			c.cursor.Optional("FROM")
			sig.Inherits = append(sig.Inherits, c.cursor.Current().Lexeme)
			c.cursor.Advance()
		case c.cursor.CurrentEquals("USING"):
			c.cursor.Advance()
			for !c.cursor.AtEOF() && c.cursor.CurrentKind(token.Identifier) {
				sig.Using = append(sig.Using, c.cursor.Current().Lexeme)
				c.cursor.Advance()
			}
		default:
			c.cursor.Optional(".")
			return
		}
	}
}

func (c *Compiler) parseIdentificationFlag(sig *symtab.SourceUnitSignature) {
	c.cursor.Optional("IS")
	switch {
	case c.cursor.Optional("PROTOTYPE"):
		if sig.Common || sig.Initial || sig.Recursive {
			c.reportIncompatibleFlags(sig, "PROTOTYPE is mutually exclusive with COMMON/INITIAL/RECURSIVE")
		}
		sig.Prototype = true
	case c.cursor.Optional("COMMON"):
		if sig.Prototype {
			c.reportIncompatibleFlags(sig, "PROTOTYPE is mutually exclusive with COMMON/INITIAL/RECURSIVE")
		}
		sig.Common = true
	case c.cursor.Optional("INITIAL"):
		if sig.Prototype {
			c.reportIncompatibleFlags(sig, "PROTOTYPE is mutually exclusive with COMMON/INITIAL/RECURSIVE")
		}
		if sig.Recursive {
			c.reportIncompatibleFlags(sig, "INITIAL and RECURSIVE are mutually exclusive")
		}
		sig.Initial = true
	case c.cursor.Optional("RECURSIVE"):
		if sig.Prototype {
			c.reportIncompatibleFlags(sig, "PROTOTYPE is mutually exclusive with COMMON/INITIAL/RECURSIVE")
		}
		if sig.Initial {
			c.reportIncompatibleFlags(sig, "INITIAL and RECURSIVE are mutually exclusive")
		}
		sig.Recursive = true
	case c.cursor.Optional("FINAL"):
		sig.Final = true
	default:
		c.cursor.Advance()
	}
}

func (c *Compiler) reportIncompatibleFlags(sig *symtab.SourceUnitSignature, note string) {
	c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeDuplicateRootLevelDefinition,
		"incompatible modifiers on "+sig.Name, c.cursor.Lookahead(-1)).WithNote(note).Build())
}

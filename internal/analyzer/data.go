package analyzer

import (
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/symtab"
	"github.com/coboltools/frontend/pkg/ident"
	"github.com/coboltools/frontend/pkg/token"
)

var clauseKeywords = []string{
	"PICTURE", "PIC", "VALUE", "OCCURS", "REDEFINES", "RENAMES", "TYPEDEF",
	"EXTERNAL", "GLOBAL", "DYNAMIC", "BLANK", "JUSTIFIED", "SYNCHRONIZED",
	"ALIGNED", "ANY", "BASED", "GROUP-USAGE", "PROPERTY", "CONSTANT", "SAME",
	"TYPE", "USAGE",
}

// parseDataDivision parses the optional WORKING-STORAGE, LOCAL-STORAGE, and
// LINKAGE sections, each a sequence of level-numbered entries (§4.6).
func (c *Compiler) parseDataDivision() {
	c.cursor.Advance() // DATA
	c.cursor.Optional("DIVISION")
	c.cursor.Optional(".")
	c.scope = ScopeDataDivision
	c.levels = c.levels[:0]
	c.rootNames = make(map[string]bool)

	for {
		switch {
		case c.cursor.CurrentEquals("WORKING-STORAGE"):
			c.cursor.Advance()
			c.cursor.Optional("SECTION")
			c.cursor.Optional(".")
			c.scope = ScopeWorkingStorage
			c.parseDataEntries(symtab.SectionWorkingStorage)
		case c.cursor.CurrentEquals("LOCAL-STORAGE"):
			c.cursor.Advance()
			c.cursor.Optional("SECTION")
			c.cursor.Optional(".")
			c.scope = ScopeLocalStorage
			c.parseDataEntries(symtab.SectionLocalStorage)
		case c.cursor.CurrentEquals("LINKAGE"):
			c.cursor.Advance()
			c.cursor.Optional("SECTION")
			c.cursor.Optional(".")
			c.scope = ScopeLinkageSection
			c.parseDataEntries(symtab.SectionLinkage)
		default:
			return
		}
	}
}

func (c *Compiler) isSectionOrDivisionBoundary() bool {
	return c.cursor.AtEOF() ||
		c.cursor.CurrentEquals("WORKING-STORAGE", "LOCAL-STORAGE", "LINKAGE", "PROCEDURE", "END")
}

// parseDataEntries consumes level-numbered entries until the next section
// or division boundary.
func (c *Compiler) parseDataEntries(section symtab.Section) {
	for !c.isSectionOrDivisionBoundary() && c.cursor.CurrentKind(token.Numeric) {
		c.parseDataEntry(section)
	}
}

// parseDataEntry dispatches one entry by level number: 77 is a standalone
// base entry outside the level stack; 01 followed by CONSTANT two tokens
// ahead is a constant entry; any other 01 opens a record group; every other
// level is a child entry governed by CheckLevelNumber (§4.6).
func (c *Compiler) parseDataEntry(section symtab.Section) {
	levelTok := c.cursor.Current()
	level := parseLevel(levelTok.Lexeme)
	c.cursor.Advance()

	isConstantEntry := level == 1 && c.cursor.Lookahead(1).EqualLexeme("CONSTANT")

	name := c.cursor.Current().Lexeme
	c.cursor.Advance()

	if level != 77 {
		c.checkLevelNumber(level)
	}

	entry := &symtab.DataEntry{Token: levelTok, Name: name, Level: level, Section: section}

	if isConstantEntry {
		entry.IsConstant = true
		c.cursor.Optional("CONSTANT")
		c.consumeConstantEntryTail(entry)
	} else {
		c.parseDataClauses(entry)
	}

	// A group item is recognized structurally, by having a deeper-level
	// child immediately following it, not by the absence of PICTURE: an
	// elementary item that omits PICTURE without one is simply invalid
	// (caught below by validateClauseCombinations), not a group.
	if level != 77 && !entry.IsConstant && c.cursor.CurrentKind(token.Numeric) {
		if next := parseLevel(c.cursor.Current().Lexeme); next <= 49 && next > level {
			entry.IsGroup = true
		}
	}

	if c.mode == ModeAnalyze {
		c.symbols.AddLocal(entry)
		c.checkRootLevelDuplicate(entry)
	}
	c.validateClauseCombinations(entry)
}

// checkRootLevelDuplicate flags a second level-01/77 entry reusing a name
// already seen at the root of this unit's DATA DIVISION, unless it carries
// REDEFINES (a legitimate same-name reuse that does not allocate new
// storage) (§8 S2).
func (c *Compiler) checkRootLevelDuplicate(entry *symtab.DataEntry) {
	if entry.Level != 1 && entry.Level != 77 {
		return
	}
	key := ident.Normalize(entry.Name)
	if c.rootNames[key] && !entry.HasClause(symtab.ClauseRedefines) {
		c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeDuplicateRootLevelDefinition,
			"duplicate root-level data item "+entry.Name, entry.Token).Build())
		return
	}
	c.rootNames[key] = true
}

// checkLevelNumber maintains the level-number stack: 1 clears the stack and
// pushes itself; 66/78/88 are treated as leaf levels that leave the stack
// unchanged; any other level pushes if greater than the top, is a sibling if
// equal, and otherwise pops every deeper level and is an error (after which
// it is pushed) unless the level then on top equals it.
func (c *Compiler) checkLevelNumber(level int) {
	if level == 1 {
		c.levels = c.levels[:0]
		c.levels = append(c.levels, level)
		return
	}
	if level == 66 || level == 78 || level == 88 {
		return
	}
	if len(c.levels) == 0 {
		c.levels = append(c.levels, level)
		return
	}
	top := c.levels[len(c.levels)-1]
	switch {
	case level > top:
		c.levels = append(c.levels, level)
	case level == top:
		// sibling entry at the same depth; stack unchanged
	default:
		for len(c.levels) > 0 && c.levels[len(c.levels)-1] > level {
			c.levels = c.levels[:len(c.levels)-1]
		}
		if len(c.levels) == 0 || c.levels[len(c.levels)-1] != level {
			c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeDuplicateRootLevelDefinition,
				"level number does not match any enclosing group", c.cursor.Lookahead(-1)).Build())
			c.levels = append(c.levels, level)
		}
	}
}

func parseLevel(lexeme string) int {
	n := 0
	for _, r := range lexeme {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// parseDataClauses consumes DATA DIVISION clauses until the terminating
// period, recording each clause's bit and token span on entry (§4.6).
func (c *Compiler) parseDataClauses(entry *symtab.DataEntry) {
	for !c.cursor.AtEOF() && !c.cursor.CurrentEquals(".") && !c.isSectionOrDivisionBoundary() {
		start := c.cursor.Pos()
		switch {
		case c.cursor.CurrentEquals("PICTURE", "PIC"):
			c.cursor.Advance()
			c.cursor.Optional("IS")
			c.consumeUntilClauseBoundary()
			entry.DeclareClause(symtab.ClausePicture, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("USAGE"):
			c.cursor.Advance()
			c.cursor.Optional("IS")
			entry.Usage = usageFor(c.cursor.Current().Lexeme)
			c.cursor.Advance()
		case c.cursor.CurrentEquals("VALUE"):
			c.cursor.Advance()
			c.cursor.Optional("IS")
			c.cursor.Advance()
			entry.DeclareClause(symtab.ClauseValue, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("OCCURS"):
			c.cursor.Advance()
			c.consumeUntilClauseBoundary()
			entry.DeclareClause(symtab.ClauseOccurs, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("REDEFINES"):
			c.cursor.Advance()
			c.cursor.Advance()
			entry.DeclareClause(symtab.ClauseRedefines, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("RENAMES"):
			c.cursor.Advance()
			c.consumeUntilClauseBoundary()
			entry.DeclareClause(symtab.ClauseRenames, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("TYPEDEF"):
			c.cursor.Advance()
			c.cursor.Optional("STRONG")
			entry.DeclareClause(symtab.ClauseTypedef, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("EXTERNAL"):
			c.cursor.Advance()
			if c.cursor.Optional("AS") {
				c.cursor.Advance()
			}
			entry.DeclareClause(symtab.ClauseExternal, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("GLOBAL"):
			c.cursor.Advance()
			entry.DeclareClause(symtab.ClauseGlobal, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("DYNAMIC"):
			c.cursor.Advance()
			c.consumeUntilClauseBoundary()
			entry.DeclareClause(symtab.ClauseDynamic, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("BLANK"):
			c.cursor.Advance()
			c.cursor.Optional("WHEN")
			c.cursor.Optional("ZERO")
			entry.DeclareClause(symtab.ClauseBlank, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("JUSTIFIED"):
			c.cursor.Advance()
			c.cursor.Optional("RIGHT")
			entry.DeclareClause(symtab.ClauseJustified, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("SYNCHRONIZED"):
			c.cursor.Advance()
			c.consumeUntilClauseBoundary()
			entry.DeclareClause(symtab.ClauseSynchronized, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("PROPERTY"):
			c.cursor.Advance()
			c.consumeUntilClauseBoundary()
			entry.DeclareClause(symtab.ClauseProperty, start, c.cursor.Pos())
		case c.cursor.CurrentEquals("ALIGNED", "BASED", "GROUP-USAGE", "SAME", "TYPE", "ANY", "CONSTANT"):
			c.cursor.Advance()
			c.consumeUntilClauseBoundary()
		default:
			c.cursor.Advance()
		}
	}
	c.cursor.Optional(".")
}

// consumeUntilClauseBoundary advances past a clause's trailing operands
// (e.g. a PICTURE string, an OCCURS count and its DEPENDING/KEY phrase)
// until the next recognized clause keyword, a period, or a new entry.
func (c *Compiler) consumeUntilClauseBoundary() {
	for !c.cursor.AtEOF() && !c.cursor.CurrentEquals(".") &&
		!c.cursor.CurrentEquals(clauseKeywords...) && !c.isSectionOrDivisionBoundary() {
		c.cursor.Advance()
	}
}

func (c *Compiler) consumeConstantEntryTail(entry *symtab.DataEntry) {
	if c.cursor.Optional("AS") {
		c.cursor.Advance()
	}
	c.cursor.Optional("IS")
	if c.cursor.Optional("RECORD") {
		// a constant record's member list is skipped generically; the
		// analyzer only needs the entry itself recorded, not its payload.
		c.consumeUntilClauseBoundary()
	} else {
		c.cursor.Advance() // the literal value
	}
	entry.IsConstant = true
}

func usageFor(lexeme string) symtab.Usage {
	switch {
	case ident.Equal(lexeme, "DISPLAY-1"):
		return symtab.UsageDisplay1
	case ident.Equal(lexeme, "BINARY"):
		return symtab.UsageBinary
	case ident.Equal(lexeme, "BINARY-CHAR"):
		return symtab.UsageBinaryChar
	case ident.Equal(lexeme, "BINARY-SHORT"):
		return symtab.UsageBinaryShort
	case ident.Equal(lexeme, "BINARY-LONG"):
		return symtab.UsageBinaryLong
	case ident.Equal(lexeme, "BINARY-DOUBLE"):
		return symtab.UsageBinaryDouble
	case ident.Equal(lexeme, "COMP"):
		return symtab.UsageComp
	case ident.Equal(lexeme, "COMP-1"):
		return symtab.UsageComp1
	case ident.Equal(lexeme, "COMP-2"):
		return symtab.UsageComp2
	case ident.Equal(lexeme, "COMP-3"):
		return symtab.UsageComp3
	case ident.Equal(lexeme, "COMP-4"):
		return symtab.UsageComp4
	case ident.Equal(lexeme, "COMP-5"):
		return symtab.UsageComp5
	case ident.Equal(lexeme, "COMPUTATIONAL"):
		return symtab.UsageComputational
	case ident.Equal(lexeme, "PACKED-DECIMAL"):
		return symtab.UsagePackedDecimal
	case ident.Equal(lexeme, "POINTER"):
		return symtab.UsagePointer
	case ident.Equal(lexeme, "PROGRAM-POINTER"):
		return symtab.UsageProgramPointer
	case ident.Equal(lexeme, "FUNCTION-POINTER"):
		return symtab.UsageFunctionPointer
	case ident.Equal(lexeme, "OBJECT"):
		return symtab.UsageObject
	case ident.Equal(lexeme, "INDEX"):
		return symtab.UsageIndex
	case ident.Equal(lexeme, "MESSAGE-TAG"):
		return symtab.UsageMessageTag
	case ident.Equal(lexeme, "FLOAT-SHORT"):
		return symtab.UsageFloatShort
	case ident.Equal(lexeme, "FLOAT-LONG"):
		return symtab.UsageFloatLong
	case ident.Equal(lexeme, "FLOAT-EXTENDED"):
		return symtab.UsageFloatExtended
	default:
		return symtab.UsageDisplay
	}
}

// pointerLikeUsages are the USAGE variants that forbid VALUE (§4.6's
// clause-combination table); every one of them also forbids PICTURE (see
// pictureForbiddenUsages).
var pointerLikeUsages = map[symtab.Usage]bool{
	symtab.UsageIndex:           true,
	symtab.UsageMessageTag:      true,
	symtab.UsageObject:          true,
	symtab.UsagePointer:         true,
	symtab.UsageFunctionPointer: true,
	symtab.UsageProgramPointer:  true,
}

var pictureForbiddenUsages = map[symtab.Usage]bool{
	symtab.UsageIndex:           true,
	symtab.UsageMessageTag:      true,
	symtab.UsageObject:          true,
	symtab.UsagePointer:         true,
	symtab.UsageFunctionPointer: true,
	symtab.UsageProgramPointer:  true,
	symtab.UsageBinaryChar:      true,
	symtab.UsageBinaryShort:     true,
	symtab.UsageBinaryLong:      true,
	symtab.UsageBinaryDouble:    true,
	symtab.UsageFloatShort:      true,
	symtab.UsageFloatLong:       true,
	symtab.UsageFloatExtended:   true,
}

// validateClauseCombinations applies §4.6's clause-combination rules after
// an entry closes.
func (c *Compiler) validateClauseCombinations(entry *symtab.DataEntry) {
	hasPicture := entry.HasClause(symtab.ClausePicture)
	hasValue := entry.HasClause(symtab.ClauseValue)

	if pictureForbiddenUsages[entry.Usage] && hasPicture {
		c.reportClauseConflict(entry, "PICTURE is forbidden for this USAGE")
	}
	if entry.IsGroup && hasPicture {
		c.reportClauseConflict(entry, "PICTURE is forbidden on a group item")
	}
	if entry.HasClause(symtab.ClauseRenames) && hasPicture {
		c.reportClauseConflict(entry, "PICTURE is forbidden with RENAMES")
	}
	if !pictureForbiddenUsages[entry.Usage] && !entry.IsGroup && !hasPicture && !hasValue && !entry.IsConstant {
		c.reportClauseConflict(entry, "PICTURE is required on an elementary item without a literal VALUE")
	}
	if pointerLikeUsages[entry.Usage] && hasValue {
		c.reportClauseConflict(entry, "VALUE is forbidden for this USAGE")
	}
}

func (c *Compiler) reportClauseConflict(entry *symtab.DataEntry, note string) {
	c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeDuplicateRootLevelDefinition,
		"invalid clause combination on "+entry.Name, entry.Token).WithNote(note).Build())
}

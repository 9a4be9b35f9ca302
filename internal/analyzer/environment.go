package analyzer

import (
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/symtab"
)

// parseEnvironmentDivision parses the optional CONFIGURATION SECTION ->
// REPOSITORY paragraph and INPUT-OUTPUT SECTION -> FILE-CONTROL SELECT
// entries (§4.6), registering each SELECT into sig's Files map.
func (c *Compiler) parseEnvironmentDivision(sig *symtab.SourceUnitSignature) {
	c.cursor.Advance() // ENVIRONMENT
	c.cursor.Optional("DIVISION")
	c.cursor.Optional(".")
	c.scope = ScopeEnvironmentDivision

	for {
		switch {
		case c.cursor.CurrentEquals("CONFIGURATION"):
			c.parseConfigurationSection(sig)
		case c.cursor.CurrentEquals("INPUT-OUTPUT"):
			c.parseInputOutputSection(sig)
		default:
			return
		}
	}
}

func (c *Compiler) parseConfigurationSection(sig *symtab.SourceUnitSignature) {
	c.cursor.Advance() // CONFIGURATION
	c.cursor.Optional("SECTION")
	c.cursor.Optional(".")

	if c.cursor.CurrentEquals("REPOSITORY") {
		c.scope = ScopeRepository
		c.cursor.Advance()
		c.cursor.Optional(".")
		c.parseRepositoryEntries()
	}
}

// parseRepositoryEntries consumes a sequence of CLASS/INTERFACE/FUNCTION/
// PROGRAM/PROPERTY names with optional AS "extern" and EXPANDS ... USING ...
// clauses, until a section/division boundary.
func (c *Compiler) parseRepositoryEntries() {
	for c.cursor.CurrentEquals("CLASS", "INTERFACE", "FUNCTION", "PROGRAM", "PROPERTY") {
		c.cursor.Advance()
		c.cursor.Advance() // the referenced name
		if c.cursor.Optional("AS") {
			c.cursor.Advance() // external-name literal
		}
		if c.cursor.Optional("EXPANDS") {
			c.cursor.Advance() // generic class name
			if c.cursor.Optional("USING") {
				for !c.cursor.AtEOF() && !c.cursor.CurrentEquals(".") &&
					!c.cursor.CurrentEquals("CLASS", "INTERFACE", "FUNCTION", "PROGRAM", "PROPERTY") {
					c.cursor.Advance()
				}
			}
		}
		c.cursor.Optional(".")
	}
}

func (c *Compiler) parseInputOutputSection(sig *symtab.SourceUnitSignature) {
	c.cursor.Advance() // INPUT-OUTPUT
	c.cursor.Optional("SECTION")
	c.cursor.Optional(".")

	if c.cursor.CurrentEquals("FILE-CONTROL") {
		c.scope = ScopeFileControl
		c.cursor.Advance()
		c.cursor.Optional(".")
		c.parseFileControlEntries(sig)
	}

	if c.cursor.Optional("I-O-CONTROL") {
		c.cursor.Optional(".")
		c.cursor.AnchorPoint([]string{"DATA", "PROCEDURE", "END"}, nil)
	}
}

// parseFileControlEntries consumes one or more SELECT entries, each
// registering a FileControlEntry in sig.Files. A duplicate file name inside
// one unit is an error (§4.6).
func (c *Compiler) parseFileControlEntries(sig *symtab.SourceUnitSignature) {
	for c.cursor.CurrentEquals("SELECT") {
		c.cursor.Advance()
		c.cursor.Optional("OPTIONAL")
		name := c.cursor.Current().Lexeme
		c.cursor.Advance()

		entry := &symtab.FileControlEntry{Name: name}
		for !c.cursor.AtEOF() && !c.cursor.CurrentEquals(".") && !c.cursor.CurrentEquals("SELECT") {
			switch {
			case c.cursor.Optional("ASSIGN"):
				c.cursor.Optional("TO")
				entry.AssignTo = c.cursor.Current().Lexeme
				c.cursor.Advance()
			case c.cursor.Optional("ORGANIZATION"):
				c.cursor.Optional("IS")
				entry.Organization = c.cursor.Current().Lexeme
				c.cursor.Advance()
			case c.cursor.Optional("ACCESS"):
				c.cursor.Optional("MODE")
				c.cursor.Optional("IS")
				entry.AccessMode = c.cursor.Current().Lexeme
				c.cursor.Advance()
			case c.cursor.Optional("STATUS"):
				c.cursor.Optional("IS")
				entry.StatusField = c.cursor.Current().Lexeme
				c.cursor.Advance()
			default:
				c.cursor.Advance()
			}
		}
		c.cursor.Optional(".")

		if c.mode == ModeAnalyze {
			if _, dup := sig.Files[entry.Name]; dup {
				c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeDuplicateRootLevelDefinition,
					"duplicate SELECT for file "+entry.Name, c.cursor.Lookahead(-1)).Build())
			} else {
				sig.Files[entry.Name] = entry
			}
		}
	}
}

package analyzer

import (
	"github.com/coboltools/frontend/internal/diagnostic"
	"github.com/coboltools/frontend/internal/symtab"
	"github.com/coboltools/frontend/pkg/token"
)

// parseProcedureDivision parses the PROCEDURE DIVISION header (an optional
// USING phrase alternating BY REFERENCE/BY VALUE parameter groups and an
// optional RETURNING clause), then the statement body (§4.6). A prototype
// unit must have an empty body; any statement, section, or paragraph found
// there is an error and is skipped to the END marker.
func (c *Compiler) parseProcedureDivision(sig *symtab.SourceUnitSignature) {
	c.cursor.Advance() // PROCEDURE
	c.cursor.Optional("DIVISION")
	c.scope = ScopeProcedureDivision

	if c.cursor.CurrentEquals("USING") {
		c.parseUsingPhrase(sig)
	}
	if c.cursor.CurrentEquals("RETURNING") {
		c.cursor.Advance()
		sig.Returning = c.cursor.Current().Lexeme
		c.cursor.Advance()
	}
	if sig.Kind == symtab.UnitFunction && sig.Returning == "" {
		c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeMissingUsingPhraseName,
			"FUNCTION-ID "+sig.Name+" has no RETURNING phrase", c.cursor.Current()).Build())
	}
	c.cursor.Optional(".")

	if sig.Prototype {
		if !c.cursor.CurrentEquals("END") && !c.cursor.AtEOF() {
			c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeMissingEndMarker,
				"a prototype's PROCEDURE DIVISION must contain no statements", c.cursor.Current()).Build())
			c.cursor.AnchorPoint([]string{"END"}, nil)
		}
		return
	}

	if c.cursor.CurrentEquals("DECLARATIVES") {
		c.parseDeclaratives()
	}
	c.parseStatementBody()
}

// parseUsingPhrase consumes USING followed by one or more BY REFERENCE/BY
// VALUE groups, each introducing one or more parameter names, any of which
// may carry OPTIONAL. Parameters accumulate onto sig.Parameters in written
// order (§4.6).
func (c *Compiler) parseUsingPhrase(sig *symtab.SourceUnitSignature) {
	c.cursor.Advance() // USING
	byReference := true
	for {
		switch {
		case c.cursor.CurrentEquals("BY"):
			c.cursor.Advance()
			switch {
			case c.cursor.Optional("REFERENCE"):
				byReference = true
			case c.cursor.Optional("VALUE"):
				byReference = false
			}
		case c.cursor.CurrentKind(token.Identifier):
			optional := c.cursor.Optional("OPTIONAL")
			name := c.cursor.Current().Lexeme
			c.cursor.Advance()
			sig.Parameters = append(sig.Parameters, symtab.Parameter{Name: name, ByReference: byReference, Optional: optional})
		case c.cursor.CurrentEquals("OPTIONAL"):
			c.cursor.Advance()
			name := c.cursor.Current().Lexeme
			c.cursor.Advance()
			sig.Parameters = append(sig.Parameters, symtab.Parameter{Name: name, ByReference: byReference, Optional: true})
		default:
			return
		}
	}
}

// parseDeclaratives skips a DECLARATIVES ... END DECLARATIVES block
// generically: its section bodies follow the same statement grammar as the
// rest of the procedure division, which is out of scope here (§4.6 notes
// per-verb grammar is omitted for brevity).
func (c *Compiler) parseDeclaratives() {
	c.cursor.Advance() // DECLARATIVES
	c.cursor.Optional(".")
	for !c.cursor.AtEOF() && !c.cursor.CurrentEquals("END") {
		c.cursor.Advance()
	}
	if c.cursor.Optional("END") {
		c.cursor.Optional("DECLARATIVES")
		c.cursor.Optional(".")
	}
}

// parseStatementBody consumes the remaining procedure-division body by
// skipping tokens one at a time, stopping at the unit's END marker or the
// next source unit. Statements, sections, and paragraphs are not parsed.
func (c *Compiler) parseStatementBody() {
	for !c.cursor.AtEOF() &&
		!c.cursor.CurrentEquals("END", "PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID", "METHOD-ID", "FACTORY", "OBJECT", "IDENTIFICATION") {
		c.cursor.Advance()
	}
}

// parseEndMarker consumes the unit's terminating `END <KIND> <name>.`, or
// treats EOF as an accepted terminator for an outermost program (§4.6). A
// missing or mismatched END emits one diagnostic and still pops the unit.
func (c *Compiler) parseEndMarker(sig *symtab.SourceUnitSignature) {
	if c.cursor.AtEOF() {
		// END PROGRAM may be omitted for the last (or only) program in a
		// source, relying on end-of-file as the implicit terminator; every
		// other unit kind, and any program nested inside another unit, must
		// close with an explicit END marker.
		outermostProgram := sig.Kind == symtab.UnitProgram && len(c.unitNames) == 1
		if !outermostProgram {
			c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeMissingEndMarker,
				"missing END marker for "+sig.Name, c.cursor.Current()).Build())
		}
		return
	}
	if !c.cursor.Optional("END") {
		c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeMissingEndMarker,
			"expected END marker for "+sig.Name, c.cursor.Current()).Build())
		c.cursor.AnchorPoint([]string{"PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID", "METHOD-ID", "FACTORY", "OBJECT", "IDENTIFICATION"}, nil)
		return
	}

	kindWord, ok := c.cursor.Choice([]string{"PROGRAM", "FUNCTION", "CLASS", "INTERFACE", "METHOD", "FACTORY", "OBJECT"},
		diagnostic.CodeMissingEndMarker, c.reporter)
	if !ok {
		return
	}
	if !endKindMatches(sig.Kind, kindWord) {
		c.reporter.Report(diagnostic.New(diagnostic.AnalyzerError, diagnostic.CodeMissingEndMarker,
			"END "+kindWord+" does not match the opening unit kind for "+sig.Name, c.cursor.Lookahead(-1)).Build())
	}
	if c.cursor.CurrentKind(token.Identifier) {
		c.cursor.Advance() // the repeated unit name
	}
	c.cursor.Optional(".")
}

// endKindMatches checks the kind named in an END marker against the unit's
// actual kind; Prototype-ness plays no part here since a prototype closes
// with the same END <KIND> as its non-prototype counterpart (e.g. both
// `END PROGRAM` and a prototype PROGRAM-ID end the same way).
func endKindMatches(kind symtab.UnitKind, kindWord string) bool {
	switch kind {
	case symtab.UnitProgram:
		return kindWord == "PROGRAM"
	case symtab.UnitFunction:
		return kindWord == "FUNCTION"
	case symtab.UnitClass:
		return kindWord == "CLASS"
	case symtab.UnitInterface:
		return kindWord == "INTERFACE"
	case symtab.UnitMethod:
		return kindWord == "METHOD"
	case symtab.UnitFactory:
		return kindWord == "FACTORY"
	case symtab.UnitObject:
		return kindWord == "OBJECT"
	default:
		return true
	}
}

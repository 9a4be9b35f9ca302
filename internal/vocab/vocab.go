// Package vocab holds the process-wide, read-only COBOL vocabulary tables:
// reserved words, their grammatical context, intrinsic function names, and
// figurative literals. All four tables are built once in init() and never
// mutated afterward; lookups key on a case-folded view of the lexeme so
// callers never need to normalize case themselves (see pkg/ident).
package vocab

import "github.com/coboltools/frontend/pkg/ident"

// Context mirrors token.Context without importing pkg/token, so this package
// has no dependency on the token model — only the lexer needs to translate
// a vocab.Context into a token.Context when it stamps a classified token.
type Context int

const (
	ContextNone Context = iota
	IsClause
	IsStatement
	IsDevice
	IsFigurative
	IsSymbol
)

var reserved = map[string]struct{}{}

var context = map[string]Context{}

var intrinsic = map[string]struct{}{}

// figurative maps a figurative-literal lexeme to its canonical spelling.
var figurative = map[string]string{}

func addReserved(words ...string) {
	for _, w := range words {
		reserved[ident.Normalize(w)] = struct{}{}
	}
}

func addContext(ctx Context, words ...string) {
	for _, w := range words {
		reserved[ident.Normalize(w)] = struct{}{}
		context[ident.Normalize(w)] = ctx
	}
}

func addIntrinsic(names ...string) {
	for _, n := range names {
		intrinsic[ident.Normalize(n)] = struct{}{}
	}
}

func addFigurative(canonical string, aliases ...string) {
	figurative[ident.Normalize(canonical)] = canonical
	for _, a := range aliases {
		figurative[ident.Normalize(a)] = canonical
	}
}

// IsReserved reports whether lexeme is a member of the reserved-word set,
// case-insensitively.
func IsReserved(lexeme string) bool {
	_, ok := reserved[ident.Normalize(lexeme)]
	return ok
}

// ContextOf returns the context tag for lexeme and whether it is present in
// the context map at all. Reserved words absent from the context map return
// (ContextNone, false).
func ContextOf(lexeme string) (Context, bool) {
	c, ok := context[ident.Normalize(lexeme)]
	return c, ok
}

// IsIntrinsic reports whether lexeme names an intrinsic function.
func IsIntrinsic(lexeme string) bool {
	_, ok := intrinsic[ident.Normalize(lexeme)]
	return ok
}

// FigurativeCanonical returns the canonical spelling of a figurative literal
// lexeme (e.g. "ZEROS" -> "ZERO") and whether lexeme names one at all.
func FigurativeCanonical(lexeme string) (string, bool) {
	c, ok := figurative[ident.Normalize(lexeme)]
	return c, ok
}

func init() {
	initDivisionsAndSections()
	initIdentificationClauses()
	initEnvironmentClauses()
	initDataClauses()
	initUsageKeywords()
	initStatements()
	initSymbolsAndPunctuation()
	initIntrinsics()
	initFigurativeLiterals()
}

func initDivisionsAndSections() {
	addReserved(
		"IDENTIFICATION", "ENVIRONMENT", "DATA", "PROCEDURE", "DIVISION",
		"CONFIGURATION", "SECTION", "INPUT-OUTPUT", "FILE-CONTROL", "I-O-CONTROL",
		"WORKING-STORAGE", "LOCAL-STORAGE", "LINKAGE", "FILE", "REPORT", "SCREEN",
		"DECLARATIVES", "END", "PROGRAM", "FUNCTION", "CLASS", "INTERFACE",
		"METHOD", "OBJECT", "FACTORY",
	)
	addContext(IsClause,
		"PROGRAM-ID", "FUNCTION-ID", "CLASS-ID", "INTERFACE-ID", "METHOD-ID",
	)
}

func initIdentificationClauses() {
	addContext(IsClause,
		"AS", "IS", "PROTOTYPE", "COMMON", "INITIAL", "RECURSIVE", "FINAL",
		"INHERITS", "FROM", "USING",
	)
}

func initEnvironmentClauses() {
	addContext(IsClause,
		"REPOSITORY", "SELECT", "ASSIGN", "EXPANDS", "ORGANIZATION", "ACCESS",
		"MODE", "STATUS", "RESERVE", "OPTIONAL-FILE", "PADDING", "RECORD",
		"DELIMITER", "COPY", "REPLACING", "SUPPRESS",
	)
	addReserved("OPTIONAL")
}

func initDataClauses() {
	addContext(IsClause,
		"PICTURE", "PIC", "VALUE", "OCCURS", "REDEFINES", "RENAMES", "TYPEDEF",
		"EXTERNAL", "GLOBAL", "DYNAMIC", "LENGTH", "LIMIT", "BLANK", "ZERO",
		"JUSTIFIED", "SYNCHRONIZED", "ALIGNED", "ANY", "BASED", "GROUP-USAGE",
		"BIT", "NATIONAL", "PROPERTY", "NO", "GET", "SET", "CONSTANT", "SAME",
		"TYPE", "STRONG", "WHEN", "DEPENDING", "ASCENDING", "DESCENDING", "KEY",
		"INDEXED", "TIMES",
	)
}

func initUsageKeywords() {
	addContext(IsClause,
		"USAGE", "DISPLAY-1", "BINARY", "BINARY-CHAR", "BINARY-SHORT",
		"BINARY-LONG", "BINARY-DOUBLE", "COMP", "COMP-1", "COMP-2", "COMP-3",
		"COMP-4", "COMP-5", "COMPUTATIONAL", "PACKED-DECIMAL", "POINTER",
		"PROGRAM-POINTER", "FUNCTION-POINTER", "OBJECT", "INDEX", "MESSAGE-TAG",
		"FLOAT-SHORT", "FLOAT-LONG", "FLOAT-EXTENDED",
	)
}

func initStatements() {
	addContext(IsStatement,
		"ACCEPT", "ADD", "ALTER", "CALL", "CANCEL", "CLOSE", "COMPUTE",
		"CONTINUE", "DELETE", "DISPLAY", "DIVIDE", "ENTRY", "EVALUATE", "EXIT",
		"GO", "GOBACK", "IF", "INITIALIZE", "INSPECT", "INVOKE", "MERGE",
		"MOVE", "MULTIPLY", "OPEN", "PERFORM", "READ", "RELEASE", "RETURN",
		"REWRITE", "SEARCH", "SET", "SORT", "START", "STOP", "STRING",
		"SUBTRACT", "UNSTRING", "VALIDATE", "WRITE", "RAISE", "RESUME",
		"RETURNING",
	)
	addContext(IsClause,
		"THEN", "ELSE", "UNTIL", "VARYING", "GIVING", "INTO", "TO", "BEFORE",
		"AFTER", "WITH", "NOT", "AND", "OR", "NOT-FLAG", "ON", "SIZE", "ERROR",
		"OVERFLOW", "INVALID", "AT", "END-OF-PAGE", "EOP", "NEXT", "UPON",
		"REFERENCE", "CONTENT", "COUNT", "DELIMITED", "POINTER",
	)
	addReserved(
		"END-ACCEPT", "END-ADD", "END-CALL", "END-COMPUTE", "END-DELETE",
		"END-DISPLAY", "END-DIVIDE", "END-EVALUATE", "END-IF", "END-INVOKE",
		"END-MULTIPLY", "END-PERFORM", "END-READ", "END-RETURN", "END-REWRITE",
		"END-SEARCH", "END-START", "END-STRING", "END-SUBTRACT", "END-UNSTRING",
		"END-WRITE", "RUN",
	)
}

func initSymbolsAndPunctuation() {
	addContext(IsSymbol,
		"+", "-", "**", "*", "=", "/", "$", ",", ";", "::", ".", "(", ")",
		">>", "<>", ">=", "<=", ">", "<", "&", "_",
	)
}

func initIntrinsics() {
	addIntrinsic(
		"ABS", "ACOS", "ANNUITY", "ASIN", "ATAN", "BOOLEAN-OF-INTEGER",
		"BYTE-LENGTH", "CHAR", "COMBINED-DATETIME", "CONCATENATE", "COS",
		"CURRENT-DATE", "DATE-OF-INTEGER", "DATE-TO-YYYYMMDD", "DAY-OF-INTEGER",
		"DAY-TO-YYYYDDD", "EXCEPTION-FILE", "EXCEPTION-LOCATION",
		"EXCEPTION-STATEMENT", "EXCEPTION-STATUS", "EXP", "EXP10", "FACTORIAL",
		"FORMATTED-CURRENT-DATE", "FORMATTED-DATE", "FORMATTED-DATETIME",
		"FORMATTED-TIME", "HIGHEST-ALGEBRAIC", "INTEGER", "INTEGER-OF-BOOLEAN",
		"INTEGER-OF-DATE", "INTEGER-OF-DAY", "INTEGER-PART", "LENGTH",
		"LOCALE-DATE", "LOCALE-TIME", "LOG", "LOG10", "LOWER-CASE",
		"LOWEST-ALGEBRAIC", "MAX", "MEAN", "MEDIAN", "MIDRANGE", "MIN", "MOD",
		"NUMVAL", "NUMVAL-C", "ORD", "ORD-MAX", "ORD-MIN", "PRESENT-VALUE",
		"RANDOM", "RANGE", "REM", "REVERSE", "SECONDS-FROM-FORMATTED-TIME",
		"SECONDS-PAST-MIDNIGHT", "SIGN", "SIN", "SQRT", "STANDARD-DEVIATION",
		"SUBSTITUTE", "SUM", "TAN", "TEST-DATE-YYYYMMDD", "TEST-DAY-YYYYDDD",
		"TRIM", "UPPER-CASE", "VARIANCE", "WHEN-COMPILED", "YEAR-TO-YYYY",
	)
}

func initFigurativeLiterals() {
	addFigurative("ZERO", "ZEROS", "ZEROES")
	addFigurative("SPACE", "SPACES")
	addFigurative("HIGH-VALUE", "HIGH-VALUES")
	addFigurative("LOW-VALUE", "LOW-VALUES")
	addFigurative("QUOTE", "QUOTES")
	addFigurative("ALL")
	addFigurative("NULL", "NULLS")
}

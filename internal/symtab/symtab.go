// Package symtab holds the two cooperating symbol structures described in
// §3: Globals (one SourceUnitSignature per fully-qualified unit name,
// uniqueness enforced) and Locals (an ordered list of DataEntry references
// per simple name, since COBOL permits several same-named items disambiguated
// later by `OF`-qualification). Keys are case-folded via pkg/ident while the
// original spelling is preserved on the stored value: a
// case-insensitive-key/case-preserved-value pattern.
package symtab

import (
	"fmt"

	"github.com/coboltools/frontend/pkg/ident"
	"github.com/coboltools/frontend/pkg/token"
)

// ClauseBit identifies one DATA DIVISION clause in a DataEntry's bitset.
// Each clause owns exactly one bit; the set fits in 64 bits (§3).
type ClauseBit uint64

const (
	ClauseRedefines ClauseBit = 1 << iota
	ClauseRenames
	ClauseTypedef
	ClauseValue
	ClauseOccurs
	ClausePicture
	ClauseBlank
	ClauseSynchronized
	ClauseJustified
	ClauseGlobal
	ClauseExternal
	ClauseDynamic
	ClauseProperty
)

// ClauseDeclaration records where in the original token stream one clause of
// a data-item declaration was written, so the analyzer can re-scan its
// payload lazily (e.g. to tell TYPEDEF STRONG from a plain TYPEDEF) without
// eagerly parsing every clause up front.
type ClauseDeclaration struct {
	Clause     ClauseBit
	Start, End int // token index range, [Start, End)
}

// Section is the DATA DIVISION section a DataEntry belongs to.
type Section int

const (
	SectionNone Section = iota
	SectionWorkingStorage
	SectionLocalStorage
	SectionLinkage
	SectionFile
	SectionReport
	SectionScreen
)

// Usage is a data item's USAGE clause, defaulting to Display when no USAGE
// clause is present.
type Usage int

const (
	UsageDisplay Usage = iota
	UsageDisplay1
	UsageBinary
	UsageBinaryChar
	UsageBinaryShort
	UsageBinaryLong
	UsageBinaryDouble
	UsageComp
	UsageComp1
	UsageComp2
	UsageComp3
	UsageComp4
	UsageComp5
	UsageComputational
	UsagePackedDecimal
	UsagePointer
	UsageProgramPointer
	UsageFunctionPointer
	UsageObject
	UsageIndex
	UsageMessageTag
	UsageFloatShort
	UsageFloatLong
	UsageFloatExtended
)

// DataEntry is one DATA DIVISION symbol-table record (§3).
type DataEntry struct {
	Token        token.Token
	Name         string
	ExternalName string
	Level        int
	Section      Section
	Usage        Usage
	IsGroup      bool
	IsConstant   bool
	// Parent is a non-owning back-reference to the enclosing group item;
	// the symbol table holds the owning reference via Locals, not here.
	Parent *DataEntry

	clauses      ClauseBit
	declarations []ClauseDeclaration
}

// HasClause reports whether bit was declared on this entry.
func (d *DataEntry) HasClause(bit ClauseBit) bool {
	return d.clauses&bit != 0
}

// DeclareClause records that bit was written as tokens [start, end) of the
// original declaration, marking the bit present in the clause set.
func (d *DataEntry) DeclareClause(bit ClauseBit, start, end int) {
	d.clauses |= bit
	d.declarations = append(d.declarations, ClauseDeclaration{Clause: bit, Start: start, End: end})
}

// ClauseSpan returns the token range recorded for bit and whether it was
// declared at all. If a clause were somehow declared twice (not legal COBOL,
// but not rejected at this layer), the first declaration wins.
func (d *DataEntry) ClauseSpan(bit ClauseBit) (start, end int, ok bool) {
	for _, decl := range d.declarations {
		if decl.Clause == bit {
			return decl.Start, decl.End, true
		}
	}
	return 0, 0, false
}

// UnitKind is the kind of source unit a SourceUnitSignature describes.
// Prototype-ness is not a distinct kind: it is the orthogonal
// SourceUnitSignature.Prototype flag, since a PROGRAM-ID, FUNCTION-ID, or
// METHOD-ID paragraph carries the same kind whether or not it is declared
// IS PROTOTYPE.
type UnitKind int

const (
	UnitProgram UnitKind = iota
	UnitFunction
	UnitClass
	UnitInterface
	UnitFactory
	UnitObject
	UnitMethod
)

// Parameter is one entry of a SourceUnitSignature's USING phrase.
type Parameter struct {
	Name        string
	ByReference bool
	Optional    bool
}

// FileControlEntry is one FILE-CONTROL SELECT clause's recorded
// configuration, keyed by file name in a SourceUnitSignature.
type FileControlEntry struct {
	Name         string
	AssignTo     string
	Organization string
	AccessMode   string
	StatusField  string
}

// SourceUnitSignature describes one compilation unit (program, function,
// class, interface, method, or one of their prototypes) (§3).
type SourceUnitSignature struct {
	Name       string
	Kind       UnitKind
	Parameters []Parameter
	Returning  string

	Common    bool
	Initial   bool
	Recursive bool
	Final     bool
	Prototype bool

	Inherits []string
	Using    []string
	Files    map[string]*FileControlEntry
}

// SymbolTable is the shared, mutable symbol store the analyzer populates
// (§3). It is owned by exactly one compilation (§5); concurrent compilations
// each construct their own.
type SymbolTable struct {
	globals map[string]*SourceUnitSignature
	locals  map[string][]*DataEntry
}

// New constructs an empty SymbolTable.
func New() *SymbolTable {
	return &SymbolTable{
		globals: make(map[string]*SourceUnitSignature),
		locals:  make(map[string][]*DataEntry),
	}
}

// RegisterGlobal adds sig under its fully-qualified Name. A duplicate
// registration is an error, never a silent overwrite (§3 invariant).
func (st *SymbolTable) RegisterGlobal(sig *SourceUnitSignature) error {
	key := ident.Normalize(sig.Name)
	if existing, ok := st.globals[key]; ok {
		return fmt.Errorf("symtab: duplicate unit %q (first declared as %v)", sig.Name, existing.Kind)
	}
	st.globals[key] = sig
	return nil
}

// Global looks up a fully-qualified unit name.
func (st *SymbolTable) Global(name string) (*SourceUnitSignature, bool) {
	sig, ok := st.globals[ident.Normalize(name)]
	return sig, ok
}

// GlobalNames returns every registered global name, in no particular order.
func (st *SymbolTable) GlobalNames() []string {
	names := make([]string, 0, len(st.globals))
	for _, sig := range st.globals {
		names = append(names, sig.Name)
	}
	return names
}

// AddLocal appends entry to the ordered list of references under its simple
// name. COBOL allows several same-named data items (disambiguated later by
// `OF`-qualification), so this never rejects a duplicate name the way
// RegisterGlobal does.
func (st *SymbolTable) AddLocal(entry *DataEntry) {
	key := ident.Normalize(entry.Name)
	st.locals[key] = append(st.locals[key], entry)
}

// HasLocal reports whether any entry is registered under name.
func (st *SymbolTable) HasLocal(name string) bool {
	return len(st.locals[ident.Normalize(name)]) > 0
}

// IsUniqueLocal reports whether exactly one entry is registered under name.
func (st *SymbolTable) IsUniqueLocal(name string) bool {
	return len(st.locals[ident.Normalize(name)]) == 1
}

// FirstLocal returns the first-registered entry under name.
func (st *SymbolTable) FirstLocal(name string) (*DataEntry, bool) {
	entries := st.locals[ident.Normalize(name)]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0], true
}

// AllLocals returns every entry registered under name, in registration
// order.
func (st *SymbolTable) AllLocals(name string) []*DataEntry {
	return st.locals[ident.Normalize(name)]
}

// Clear empties both Globals and Locals, leaving the SymbolTable ready for
// reuse by a fresh compilation unit.
func (st *SymbolTable) Clear() {
	st.globals = make(map[string]*SourceUnitSignature)
	st.locals = make(map[string][]*DataEntry)
}

// Package module defines the external interfaces the core elaborator
// consumes from the lowerer and exposes to the backend (spec.md §6). The
// module loader itself — file sources, the dependency DAG, caching — is
// out of scope; this package only gives those boundaries a concrete Go
// shape plus, for demos and tests, a way to read a fixture describing one
// already-lowered module from YAML instead of hand-building the AST.
package module

import (
	"fmt"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
)

// SymbolKind records what an identifier bound at module scope denotes
// (spec.md §6.1).
type SymbolKind int

const (
	SymData SymbolKind = iota
	SymCodata
	SymCtor
	SymDtor
	SymDef
	SymCodef
	SymLet
)

// Symbol is one entry of the lowerer's symbol table.
type Symbol struct {
	Kind SymbolKind
	// Arity is the number of declared parameters, meaningful for
	// SymData/SymCodata/SymDef/SymCodef/SymLet.
	Arity int
	// Parent is the enclosing data/codata name, meaningful for
	// SymCtor/SymDtor.
	Parent string
}

// SymbolTable maps identifiers to what they denote (spec.md §6.1).
type SymbolTable map[string]Symbol

// Program is the lowered module's declaration set plus the lookups the
// elaborator and normalizer need: constructors/destructors of a data/codata
// type, a def's cases, a codef's cases, a let's body. It plays the role of
// the "well-formed program P" threaded through the judgments in spec.md
// §4.6.
type Program struct {
	URI     string
	Decls   []ast.Decl
	Symbols SymbolTable

	datas   map[string]*ast.Data
	codatas map[string]*ast.Codata
	defs    map[string]*ast.Def
	codefs  map[string]*ast.Codef
	lets    map[string]*ast.Let
}

// NewProgram indexes decls for lookup. The symbol table is expected to
// already be populated by the lowerer (spec.md §6.1); NewProgram does not
// rebuild it, only the internal decl indices used by Program's own lookup
// methods.
func NewProgram(uri string, decls []ast.Decl, symbols SymbolTable) *Program {
	p := &Program{
		URI: uri, Decls: decls, Symbols: symbols,
		datas: map[string]*ast.Data{}, codatas: map[string]*ast.Codata{},
		defs: map[string]*ast.Def{}, codefs: map[string]*ast.Codef{}, lets: map[string]*ast.Let{},
	}
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.Data:
			p.datas[n.NameStr] = n
		case *ast.Codata:
			p.codatas[n.NameStr] = n
		case *ast.Def:
			p.defs[n.NameStr] = n
		case *ast.Codef:
			p.codefs[n.NameStr] = n
		case *ast.Let:
			p.lets[n.NameStr] = n
		}
	}
	return p
}

func (p *Program) Data(name string) (*ast.Data, bool)     { d, ok := p.datas[name]; return d, ok }
func (p *Program) Codata(name string) (*ast.Codata, bool) { d, ok := p.codatas[name]; return d, ok }
func (p *Program) DefByName(name string) (*ast.Def, bool) { d, ok := p.defs[name]; return d, ok }
func (p *Program) CodefByName(name string) (*ast.Codef, bool) {
	d, ok := p.codefs[name]
	return d, ok
}
func (p *Program) LetByName(name string) (*ast.Let, bool) { d, ok := p.lets[name]; return d, ok }

// Ctor looks up a constructor by name across all data declarations.
func (p *Program) Ctor(name string) (*ast.CtorSig, *ast.Data, bool) {
	for _, d := range p.datas {
		for i := range d.Ctors {
			if d.Ctors[i].Name == name {
				return &d.Ctors[i], d, true
			}
		}
	}
	return nil, nil, false
}

// Dtor looks up a destructor by name across all codata declarations.
func (p *Program) Dtor(name string) (*ast.DtorSig, *ast.Codata, bool) {
	for _, d := range p.codatas {
		for i := range d.Dtors {
			if d.Dtors[i].Name == name {
				return &d.Dtors[i], d, true
			}
		}
	}
	return nil, nil, false
}

// Main returns the module's entry point, if it declares one (spec.md §3.3).
func (p *Program) Main() (*ast.Let, bool) {
	l, ok := p.lets["main"]
	if ok && l.IsMain() {
		return l, true
	}
	return nil, false
}

func (p *Program) String() string {
	return fmt.Sprintf("module %s (%d decls)", p.URI, len(p.Decls))
}

// LoweredModule is the interface consumed from the lowerer (spec.md §6.1):
// a URI, declarations in source order, a symbol table, and a metavariable
// store pre-populated with every Inserted hole the lowerer generated for
// omitted implicit arguments.
type LoweredModule struct {
	URI     string
	Decls   []ast.Decl
	Symbols SymbolTable
	Store   *meta.Store
}

// TypedModule is the interface exposed to the backend (spec.md §6.2): the
// same declaration shape, fully annotated and zonked.
type TypedModule struct {
	URI   string
	Decls []ast.Decl
	Store *meta.Store
}

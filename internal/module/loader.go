package module

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
)

// LoadLoweredModule reads a YAML fixture describing an already-lowered
// module (spec.md §6.1's input contract) and builds a LoweredModule from
// it: declarations carry de Bruijn indices directly, exactly as a real
// lowerer would hand them to the elaborator, so this loader performs no
// name resolution of its own — only a data-shape decode. It exists so
// this repo's tests and cmd/elaborate can exercise the checker against
// hand-written fixtures instead of constructing *ast.Decl trees in Go.
func LoadLoweredModule(path string) (*LoweredModule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("module: read %s: %w", path, err)
	}
	var raw rawModule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("module: parse %s: %w", path, err)
	}

	store := meta.NewStore()
	for _, h := range raw.Holes {
		ctx := h.Ctx.toContext()
		id := store.Fresh(ctx, h.Kind.toHoleKind())
		if int(id) != h.ID {
			return nil, fmt.Errorf("module: %s: hole id %d out of sequence (store assigned %d) — holes must be listed in ascending allocation order", path, h.ID, id)
		}
	}

	decls := make([]ast.Decl, len(raw.Decls))
	symbols := SymbolTable{}
	for i, d := range raw.Decls {
		decl, sym, name := d.toDecl()
		decls[i] = decl
		symbols[name] = sym
		registerNestedSymbols(symbols, decl)
	}

	return &LoweredModule{URI: raw.URI, Decls: decls, Symbols: symbols, Store: store}, nil
}

// ---- raw YAML shapes -------------------------------------------------

type rawModule struct {
	URI   string     `yaml:"uri"`
	Decls []rawDecl  `yaml:"decls"`
	Holes []rawHole  `yaml:"holes"`
}

type rawHole struct {
	ID   int         `yaml:"id"`
	Kind rawHoleKind `yaml:"kind"`
	Ctx  rawCtx      `yaml:"ctx"`
}

type rawHoleKind string

func (k rawHoleKind) toHoleKind() ast.HoleKind {
	switch k {
	case "canSolve":
		return ast.CanSolve
	case "inserted":
		return ast.Inserted
	default:
		return ast.MustSolve
	}
}

// rawCtx is a fixture's coarse description of a hole's enclosing context:
// one entry per telescope giving only its size. The actual binder
// names/types are not reconstructed — only the shape, which bounds which
// levels are in scope, is kept, not what they denote — so this is an
// approximation accepted for fixture/demo tooling, not for the checker's
// own correctness (the checker never calls this loader).
type rawCtx []int

func (c rawCtx) toContext() ast.Context {
	ctx := ast.Context{}
	for _, n := range c {
		ctx = ctx.PushTelescope()
		for i := 0; i < n; i++ {
			ctx = ctx.PushBinder(ast.Binder{Name: fmt.Sprintf("_ctx%d", i), Type: &ast.TypeUniv{}})
		}
	}
	return ctx
}

type rawIdx struct {
	Fst int `yaml:"fst"`
	Snd int `yaml:"snd"`
}

func (i rawIdx) toIdx() ast.Idx { return ast.Idx{Fst: i.Fst, Snd: i.Snd} }

type rawBinder struct {
	Name     string   `yaml:"name"`
	Type     exprYAML `yaml:"type"`
	Implicit bool     `yaml:"implicit"`
}

type rawTelescope []rawBinder

func (t rawTelescope) toTelescope() ast.Telescope {
	out := make(ast.Telescope, len(t))
	for i, b := range t {
		out[i] = ast.Binder{Name: b.Name, Type: b.Type.Expr, Implicit: b.Implicit}
	}
	return out
}

type rawArg struct {
	Name     string   `yaml:"name"`
	Value    exprYAML `yaml:"value"`
	Implicit bool     `yaml:"implicit"`
}

func toArgs(rs []rawArg) []ast.Arg {
	out := make([]ast.Arg, len(rs))
	for i, r := range rs {
		out[i] = ast.Arg{Name: r.Name, Value: r.Value.Expr, Implicit: r.Implicit}
	}
	return out
}

func toExprs(rs []exprYAML) []ast.Expr {
	out := make([]ast.Expr, len(rs))
	for i, r := range rs {
		out[i] = r.Expr
	}
	return out
}

// ---- expressions, dispatched by a "kind" discriminator -------------------

type exprYAML struct{ Expr ast.Expr }

func (e *exprYAML) UnmarshalYAML(node *yaml.Node) error {
	var probe struct {
		Kind string `yaml:"kind"`
	}
	if err := node.Decode(&probe); err != nil {
		return err
	}
	switch probe.Kind {
	case "var":
		var r struct {
			Idx  rawIdx `yaml:"idx"`
			Name string `yaml:"name"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		e.Expr = &ast.Variable{Idx: r.Idx.toIdx(), Name: r.Name}
	case "typeuniv":
		e.Expr = &ast.TypeUniv{}
	case "typctor":
		var r struct {
			Name string     `yaml:"name"`
			Args []exprYAML `yaml:"args"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		e.Expr = &ast.TypCtor{Name: r.Name, Args: toExprs(r.Args)}
	case "call":
		var r struct {
			CallKind string   `yaml:"callKind"`
			Name     string   `yaml:"name"`
			Args     []rawArg `yaml:"args"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		e.Expr = &ast.Call{Kind: toCallKind(r.CallKind), Name: r.Name, Args: toArgs(r.Args)}
	case "dotcall":
		var r struct {
			DotKind string   `yaml:"dotKind"`
			Exp     exprYAML `yaml:"exp"`
			Name    string   `yaml:"name"`
			Args    []rawArg `yaml:"args"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		kind := ast.DotDtor
		if r.DotKind == "def" {
			kind = ast.DotDef
		}
		e.Expr = &ast.DotCall{Kind: kind, Exp: r.Exp.Expr, Name: r.Name, Args: toArgs(r.Args)}
	case "anno":
		var r struct {
			Exp exprYAML `yaml:"exp"`
			Typ exprYAML `yaml:"typ"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		e.Expr = &ast.Anno{Exp: r.Exp.Expr, Typ: r.Typ.Expr}
	case "hole":
		var r struct {
			HoleKind string       `yaml:"holeKind"`
			MetaVar  uint64       `yaml:"metaVar"`
			Args     [][]exprYAML `yaml:"args"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		args := make([][]ast.Expr, len(r.Args))
		for i, row := range r.Args {
			args[i] = toExprs(row)
		}
		e.Expr = &ast.Hole{Kind: rawHoleKind(r.HoleKind).toHoleKind(), MetaVar: r.MetaVar, Args: args}
	case "match":
		var r struct {
			Scrutinee exprYAML   `yaml:"scrutinee"`
			Motive    *rawMotive `yaml:"motive"`
			Cases     []rawCase  `yaml:"cases"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		cases := make([]ast.Case, len(r.Cases))
		for i, c := range r.Cases {
			cases[i] = c.toCase()
		}
		var motive *ast.Motive
		if r.Motive != nil {
			motive = &ast.Motive{SelfName: r.Motive.SelfName, SelfType: r.Motive.SelfType.Expr, Body: r.Motive.Body.Expr}
		}
		e.Expr = &ast.LocalMatch{Scrutinee: r.Scrutinee.Expr, Motive: motive, Cases: cases}
	case "comatch":
		var r struct {
			Cases         []rawCocase `yaml:"cases"`
			IsLambdaSugar bool        `yaml:"isLambdaSugar"`
		}
		if err := node.Decode(&r); err != nil {
			return err
		}
		cases := make([]ast.Cocase, len(r.Cases))
		for i, c := range r.Cases {
			cases[i] = c.toCocase()
		}
		e.Expr = &ast.LocalComatch{Cases: cases, IsLambdaSugar: r.IsLambdaSugar}
	default:
		return fmt.Errorf("module: unknown expression kind %q", probe.Kind)
	}
	return nil
}

// registerNestedSymbols fills in the SymCtor/SymDtor entries a lowerer's
// symbol table also carries (spec.md §6.1), which a data/codata's own
// top-level entry above doesn't capture.
func registerNestedSymbols(symbols SymbolTable, decl ast.Decl) {
	switch n := decl.(type) {
	case *ast.Data:
		for _, c := range n.Ctors {
			symbols[c.Name] = Symbol{Kind: SymCtor, Arity: len(c.Params), Parent: n.NameStr}
		}
	case *ast.Codata:
		for _, d := range n.Dtors {
			symbols[d.Name] = Symbol{Kind: SymDtor, Arity: len(d.Params), Parent: n.NameStr}
		}
	}
}

func toCallKind(s string) ast.CallKind {
	switch s {
	case "codef":
		return ast.CallCodef
	case "let":
		return ast.CallLet
	case "extern":
		return ast.CallExtern
	default:
		return ast.CallCtor
	}
}

type rawMotive struct {
	SelfName string   `yaml:"selfName"`
	SelfType exprYAML `yaml:"selfType"`
	Body     exprYAML `yaml:"body"`
}

type rawCase struct {
	CtorName string       `yaml:"ctorName"`
	Params   rawTelescope `yaml:"params"`
	Absurd   bool         `yaml:"absurd"`
	Body     *exprYAML    `yaml:"body"`
}

func (c rawCase) toCase() ast.Case {
	out := ast.Case{CtorName: c.CtorName, Params: c.Params.toTelescope(), Absurd: c.Absurd}
	if c.Body != nil {
		out.Body = c.Body.Expr
	}
	return out
}

type rawCocase struct {
	DtorName string       `yaml:"dtorName"`
	Params   rawTelescope `yaml:"params"`
	Body     exprYAML     `yaml:"body"`
}

func (c rawCocase) toCocase() ast.Cocase {
	return ast.Cocase{DtorName: c.DtorName, Params: c.Params.toTelescope(), Body: c.Body.Expr}
}

// ---- declarations, dispatched by a "kind" discriminator ------------------

type rawDecl struct {
	Kind string `yaml:"kind"`

	// data / codata
	Name   string          `yaml:"name"`
	Params rawTelescope    `yaml:"params"`
	Ctors  []rawCtorSig    `yaml:"ctors"`
	Dtors  []rawDtorSig    `yaml:"dtors"`

	// def
	SelfParam *rawBinder `yaml:"selfParam"`
	ReturnTyp *exprYAML  `yaml:"returnType"`
	Cases     []rawCase  `yaml:"cases"`

	// codef
	ReturnTypCtor *rawTypCtorRef `yaml:"returnTypeCtor"`
	Cocases       []rawCocase    `yaml:"cocases"`

	// let
	Type *exprYAML `yaml:"type"`
	Body *exprYAML `yaml:"body"`
}

type rawTypCtorRef struct {
	Name string     `yaml:"name"`
	Args []exprYAML `yaml:"args"`
}

func (r rawTypCtorRef) toTypCtor() *ast.TypCtor {
	return &ast.TypCtor{Name: r.Name, Args: toExprs(r.Args)}
}

type rawCtorSig struct {
	Name       string         `yaml:"name"`
	Params     rawTelescope   `yaml:"params"`
	ReturnType rawTypCtorRef  `yaml:"returnType"`
}

type rawDtorSig struct {
	Name       string        `yaml:"name"`
	Params     rawTelescope  `yaml:"params"`
	SelfParam  rawBinder     `yaml:"selfParam"`
	ReturnType exprYAML      `yaml:"returnType"`
}

func (d rawDecl) toDecl() (ast.Decl, Symbol, string) {
	switch d.Kind {
	case "data":
		ctors := make([]ast.CtorSig, len(d.Ctors))
		for i, c := range d.Ctors {
			ctors[i] = ast.CtorSig{Name: c.Name, Params: c.Params.toTelescope(), ReturnType: c.ReturnType.toTypCtor()}
		}
		decl := &ast.Data{NameStr: d.Name, Params: d.Params.toTelescope(), Ctors: ctors}
		return decl, Symbol{Kind: SymData, Arity: len(d.Params)}, d.Name
	case "codata":
		dtors := make([]ast.DtorSig, len(d.Dtors))
		for i, dt := range d.Dtors {
			dtors[i] = ast.DtorSig{
				Name: dt.Name, Params: dt.Params.toTelescope(),
				SelfParam:  ast.Binder{Name: dt.SelfParam.Name, Type: dt.SelfParam.Type.Expr, Implicit: dt.SelfParam.Implicit},
				ReturnType: dt.ReturnType.Expr,
			}
		}
		decl := &ast.Codata{NameStr: d.Name, Params: d.Params.toTelescope(), Dtors: dtors}
		return decl, Symbol{Kind: SymCodata, Arity: len(d.Params)}, d.Name
	case "def":
		cases := make([]ast.Case, len(d.Cases))
		for i, c := range d.Cases {
			cases[i] = c.toCase()
		}
		decl := &ast.Def{
			NameStr: d.Name, Params: d.Params.toTelescope(),
			SelfParam:  ast.Binder{Name: d.SelfParam.Name, Type: d.SelfParam.Type.Expr, Implicit: d.SelfParam.Implicit},
			ReturnType: d.ReturnTyp.Expr, Cases: cases,
		}
		return decl, Symbol{Kind: SymDef, Arity: len(d.Params)}, d.Name
	case "codef":
		cases := make([]ast.Cocase, len(d.Cocases))
		for i, c := range d.Cocases {
			cases[i] = c.toCocase()
		}
		decl := &ast.Codef{NameStr: d.Name, Params: d.Params.toTelescope(), ReturnType: d.ReturnTypCtor.toTypCtor(), Cases: cases}
		return decl, Symbol{Kind: SymCodef, Arity: len(d.Params)}, d.Name
	case "let":
		decl := &ast.Let{NameStr: d.Name, Params: d.Params.toTelescope(), Type: d.Type.Expr, Body: d.Body.Expr}
		return decl, Symbol{Kind: SymLet, Arity: len(d.Params)}, d.Name
	default:
		panic(fmt.Sprintf("module: unknown declaration kind %q", d.Kind))
	}
}

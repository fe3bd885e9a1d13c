package ast

import (
	"fmt"
	"strings"
)

// Expr is the interface every expression form implements (spec.md §3.2).
type Expr interface {
	isExpr()
	Span() Span
	InferredType() Expr
	SetType(t Expr)
	shiftExpr(s Shift, depth int) Expr
	String() string
}

// Base is embedded by every expression node. Typ is the inferred_type slot:
// nil until elaboration fills it in, and cleared by Shift/Subst because both
// invalidate any cached type (spec.md §9 design note).
type Base struct {
	Sp  Span
	Typ Expr
}

func (b *Base) Span() Span         { return b.Sp }
func (b *Base) InferredType() Expr { return b.Typ }
func (b *Base) SetType(t Expr)     { b.Typ = t }

// cleared returns a Base with the same span but no cached type, used by every
// node's shiftExpr implementation.
func (b Base) cleared() Base { return Base{Sp: b.Sp} }

// ---- Variable --------------------------------------------------------

// Variable is a bound occurrence; Name is advisory only (spec.md §3.2.1).
type Variable struct {
	Base
	Idx  Idx
	Name string
}

func (v *Variable) isExpr() {}
func (v *Variable) String() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Idx.String()
}
func (v *Variable) shiftExpr(s Shift, depth int) Expr {
	return &Variable{Base: v.Base.cleared(), Idx: s.Apply(v.Idx, depth), Name: v.Name}
}

// ---- TypCtor ----------------------------------------------------------

// TypCtor is a fully applied type constructor (spec.md §3.2.2).
type TypCtor struct {
	Base
	Name string
	Args []Expr
}

func (t *TypCtor) isExpr() {}
func (t *TypCtor) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s(%s)", t.Name, joinExpr(t.Args))
}
func (t *TypCtor) shiftExpr(s Shift, depth int) Expr {
	return &TypCtor{Base: t.Base.cleared(), Name: t.Name, Args: shiftExprs(t.Args, s, depth)}
}

// ---- Call ---------------------------------------------------------------

// CallKind distinguishes the four forms of top-level invocation a Call node
// can denote.
type CallKind int

const (
	CallCtor CallKind = iota
	CallCodef
	CallLet
	CallExtern
)

func (k CallKind) String() string {
	switch k {
	case CallCtor:
		return "ctor"
	case CallCodef:
		return "codef"
	case CallLet:
		return "let"
	case CallExtern:
		return "extern"
	default:
		return "?"
	}
}

// Call invokes a constructor, codefinition, top-level let, or extern
// (spec.md §3.2.3).
type Call struct {
	Base
	Kind CallKind
	Name string
	Args []Arg
}

func (c *Call) isExpr() {}
func (c *Call) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, joinArgs(c.Args))
}
func (c *Call) shiftExpr(s Shift, depth int) Expr {
	return &Call{Base: c.Base.cleared(), Kind: c.Kind, Name: c.Name, Args: shiftArgs(c.Args, s, depth)}
}

// ---- DotCall ------------------------------------------------------------

// DotCallKind distinguishes destructor application from def application.
type DotCallKind int

const (
	DotDtor DotCallKind = iota
	DotDef
)

func (k DotCallKind) String() string {
	if k == DotDtor {
		return "dtor"
	}
	return "def"
}

// DotCall is a destructor or def application e.d(args) (spec.md §3.2.4).
type DotCall struct {
	Base
	Kind DotCallKind
	Exp  Expr
	Name string
	Args []Arg
}

func (d *DotCall) isExpr() {}
func (d *DotCall) String() string {
	return fmt.Sprintf("%s.%s(%s)", d.Exp, d.Name, joinArgs(d.Args))
}
func (d *DotCall) shiftExpr(s Shift, depth int) Expr {
	return &DotCall{
		Base: d.Base.cleared(), Kind: d.Kind, Exp: ShiftExpr(d.Exp, s, depth),
		Name: d.Name, Args: shiftArgs(d.Args, s, depth),
	}
}

// ---- Anno -----------------------------------------------------------------

// Anno is a type ascription e : typ (spec.md §3.2.5). NormalizedType is
// filled in by Check once typ has been normalized.
type Anno struct {
	Base
	Exp            Expr
	Typ            Expr
	NormalizedType Expr
}

func (a *Anno) isExpr() {}
func (a *Anno) String() string { return fmt.Sprintf("(%s : %s)", a.Exp, a.Typ) }
func (a *Anno) shiftExpr(s Shift, depth int) Expr {
	var nt Expr
	if a.NormalizedType != nil {
		nt = ShiftExpr(a.NormalizedType, s, depth)
	}
	return &Anno{
		Base: a.Base.cleared(), Exp: ShiftExpr(a.Exp, s, depth),
		Typ: ShiftExpr(a.Typ, s, depth), NormalizedType: nt,
	}
}

// ---- TypeUniv -------------------------------------------------------------

// TypeUniv is the sole universe (spec.md §1: Type : Type, no hierarchy).
type TypeUniv struct{ Base }

func (t *TypeUniv) isExpr()          {}
func (t *TypeUniv) String() string   { return "Type" }
func (t *TypeUniv) shiftExpr(s Shift, depth int) Expr {
	return &TypeUniv{Base: t.Base.cleared()}
}

// ---- LocalMatch -----------------------------------------------------------

// Motive is the optional dependent return-type function of a LocalMatch
// (spec.md §4.6.1): "(s' : D(a...)). M".
type Motive struct {
	SelfName string
	SelfType Expr // TypCtor of the scrutinee's data type
	Body     Expr // M, checked under Γ, s' : SelfType
}

// Case is one arm Kᵢ(x̄) => body of a LocalMatch, or an absurd arm
// Kᵢ(x̄) => <absurd> when Body is nil.
type Case struct {
	CtorName string
	Params   Telescope
	Absurd   bool
	Body     Expr // nil iff Absurd
}

// LocalMatch is a local pattern match on a data-typed scrutinee
// (spec.md §3.2.7).
type LocalMatch struct {
	Base
	Scrutinee  Expr
	Motive     *Motive
	Cases      []Case
	ReturnType Expr // T, the expected type this match was checked against
}

func (m *LocalMatch) isExpr() {}
func (m *LocalMatch) String() string {
	arms := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		if c.Absurd {
			arms[i] = fmt.Sprintf("%s(%s) => <absurd>", c.CtorName, telescopeString(c.Params))
		} else {
			arms[i] = fmt.Sprintf("%s(%s) => %s", c.CtorName, telescopeString(c.Params), c.Body)
		}
	}
	return fmt.Sprintf("%s.match { %s }", m.Scrutinee, strings.Join(arms, "; "))
}
func (m *LocalMatch) shiftExpr(s Shift, depth int) Expr {
	var mot *Motive
	if m.Motive != nil {
		mot = &Motive{
			SelfName: m.Motive.SelfName,
			SelfType: ShiftExpr(m.Motive.SelfType, s, depth),
			Body:     ShiftExpr(m.Motive.Body, s, depth+1),
		}
	}
	cases := make([]Case, len(m.Cases))
	for i, c := range m.Cases {
		cases[i] = Case{
			CtorName: c.CtorName,
			Params:   shiftTelescope(c.Params, s, depth),
			Absurd:   c.Absurd,
		}
		if !c.Absurd {
			cases[i].Body = ShiftExpr(c.Body, s, depth+1)
		}
	}
	var rt Expr
	if m.ReturnType != nil {
		rt = ShiftExpr(m.ReturnType, s, depth)
	}
	return &LocalMatch{
		Base: m.Base.cleared(), Scrutinee: ShiftExpr(m.Scrutinee, s, depth),
		Motive: mot, Cases: cases, ReturnType: rt,
	}
}

// ---- LocalComatch ---------------------------------------------------------

// Cocase is one arm .d(x̄) => body of a LocalComatch.
type Cocase struct {
	DtorName string
	Params   Telescope
	Body     Expr
}

// LocalComatch is a local copattern match producing a codata value
// (spec.md §3.2.8).
type LocalComatch struct {
	Base
	Cases        []Cocase
	IsLambdaSugar bool
}

func (m *LocalComatch) isExpr() {}
func (m *LocalComatch) String() string {
	arms := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		arms[i] = fmt.Sprintf(".%s(%s) => %s", c.DtorName, telescopeString(c.Params), c.Body)
	}
	return fmt.Sprintf("comatch { %s }", strings.Join(arms, "; "))
}
func (m *LocalComatch) shiftExpr(s Shift, depth int) Expr {
	cases := make([]Cocase, len(m.Cases))
	for i, c := range m.Cases {
		cases[i] = Cocase{
			DtorName: c.DtorName,
			Params:   shiftTelescope(c.Params, s, depth),
			Body:     ShiftExpr(c.Body, s, depth+1),
		}
	}
	return &LocalComatch{Base: m.Base.cleared(), Cases: cases, IsLambdaSugar: m.IsLambdaSugar}
}

// ---- Hole -------------------------------------------------------------

// HoleKind distinguishes the three metavariable disciplines (spec.md §3.4).
type HoleKind int

const (
	MustSolve HoleKind = iota
	CanSolve
	Inserted
)

func (k HoleKind) String() string {
	switch k {
	case MustSolve:
		return "_"
	case CanSolve:
		return "?"
	case Inserted:
		return "<inserted>"
	default:
		return "?hole"
	}
}

// Hole is a placeholder metavariable occurrence. Args is the closure
// substitution: the identity substitution of the local context at the hole
// site, shaped like the telescope structure of that context (spec.md
// §3.2.9, §9).
type Hole struct {
	Base
	Kind     HoleKind
	MetaVar  uint64
	Args     [][]Expr
	Solution Expr // non-nil once zonked from a solved metavariable
}

func (h *Hole) isExpr() {}
func (h *Hole) String() string {
	if h.Solution != nil {
		return h.Solution.String()
	}
	return fmt.Sprintf("?m%d%s", h.MetaVar, h.Kind)
}
func (h *Hole) shiftExpr(s Shift, depth int) Expr {
	args := make([][]Expr, len(h.Args))
	for i, row := range h.Args {
		args[i] = shiftExprs(row, s, depth)
	}
	var sol Expr
	if h.Solution != nil {
		sol = ShiftExpr(h.Solution, s, depth)
	}
	return &Hole{Base: h.Base.cleared(), Kind: h.Kind, MetaVar: h.MetaVar, Args: args, Solution: sol}
}

// ---- Arg ------------------------------------------------------------------

// Arg is one element of an argument list; Name is empty for positional
// arguments (spec.md §4.8).
type Arg struct {
	Name     string
	Value    Expr
	Implicit bool
}

func (a Arg) String() string {
	if a.Name != "" {
		return fmt.Sprintf("%s = %s", a.Name, a.Value)
	}
	return a.Value.String()
}

// ---- shared helpers ---------------------------------------------------

func shiftExprs(es []Expr, s Shift, depth int) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = ShiftExpr(e, s, depth)
	}
	return out
}

func shiftArgs(as []Arg, s Shift, depth int) []Arg {
	if as == nil {
		return nil
	}
	out := make([]Arg, len(as))
	for i, a := range as {
		out[i] = Arg{Name: a.Name, Implicit: a.Implicit, Value: ShiftExpr(a.Value, s, depth)}
	}
	return out
}

// shiftTelescope shifts a telescope's binder types. The first binder's type
// is closed under depth telescopes already entered; each subsequent binder
// adds one more binder (not telescope) to the cutoff, so only depth changes
// (a telescope is one frame), not +1 per binder — binders within one
// telescope share a single context frame in this representation's Shift
// model, as the telescope itself is what Context.PushTelescope introduces.
func shiftTelescope(t Telescope, s Shift, depth int) Telescope {
	if t == nil {
		return nil
	}
	out := make(Telescope, len(t))
	for i, b := range t {
		out[i] = Binder{Name: b.Name, Type: ShiftExpr(b.Type, s, depth), Implicit: b.Implicit}
	}
	return out
}

func joinExpr(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func joinArgs(as []Arg) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func telescopeString(t Telescope) string {
	parts := make([]string, len(t))
	for i, b := range t {
		parts[i] = b.Name
	}
	return strings.Join(parts, ", ")
}

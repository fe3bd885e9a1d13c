// Package subst implements the level-indexed substitutions used by
// coverage reasoning and the unifiers (spec.md §4.2): a partial map from
// levels to terms, plus capture-avoiding application of that map to any
// AST node.
package subst

import "github.com/duotype/duo/internal/ast"

// Substitution is a partial map from levels (in a fixed context) to terms.
// A term it returns is understood to be closed under the context prefix up
// to that level (spec.md §4.2).
type Substitution interface {
	GetSubst(ctx ast.Context, l ast.Lvl) (ast.Expr, bool)
}

// IdentitySwap swaps the two named telescopes of the context, used by
// coverage reasoning to align definition parameters with pattern parameters
// (spec.md §4.2).
type IdentitySwap struct {
	Fst1, Fst2 int
}

func (s IdentitySwap) GetSubst(ctx ast.Context, l ast.Lvl) (ast.Expr, bool) {
	var target int
	switch l.Fst {
	case s.Fst1:
		target = s.Fst2
	case s.Fst2:
		target = s.Fst1
	default:
		return nil, false
	}
	idx := ctx.LvlToIdx(ast.Lvl{Fst: target, Snd: l.Snd})
	b, _ := ctx.LookupLvl(l)
	return &ast.Variable{Idx: idx, Name: b.Name}, true
}

// Single maps exactly one level to one term, used by the metavariable and
// index unifiers to record an assignment (spec.md §4.2).
type Single struct {
	At   ast.Lvl
	Term ast.Expr
}

func (s Single) GetSubst(ctx ast.Context, l ast.Lvl) (ast.Expr, bool) {
	if l == s.At {
		return s.Term, true
	}
	return nil, false
}

// Chain tries each substitution in order, returning the first hit — used to
// combine a case's unifier (a set of Single assignments) into one
// Substitution value.
type Chain []Substitution

func (c Chain) GetSubst(ctx ast.Context, l ast.Lvl) (ast.Expr, bool) {
	for _, s := range c {
		if e, ok := s.GetSubst(ctx, l); ok {
			return e, true
		}
	}
	return nil, false
}

// weaken shifts a substituted term from the (shorter) context prefix it was
// closed under, up to the full context ctx it is now being placed into.
func weaken(ctx ast.Context, fromFst int, e ast.Expr) ast.Expr {
	delta := len(ctx) - fromFst - 1
	if delta <= 0 {
		return e
	}
	return ast.ShiftExpr(e, ast.ShiftTelescope(delta), 0)
}

// Weaken shifts e, a term closed under the prefix of ctx ending at telescope
// fromFst (inclusive), up to the full ctx. The elaborator uses this to bring
// a binder's recorded type (closed under its defining prefix, spec.md §3.1)
// up to whatever deeper context the variable occurrence is actually found in.
func Weaken(ctx ast.Context, fromFst int, e ast.Expr) ast.Expr {
	return weaken(ctx, fromFst, e)
}

// Subst applies s to e, where ctx is the full context e lives in. Subst
// recurses structurally, extending ctx by one telescope for every new
// telescope it descends under (spec.md §4.2: "shifting the substitution by
// (1,0) when descending under a new telescope, and by (0,1) per added
// binder"). Every resulting node has its cached inferred type cleared,
// because substitution — like shift — invalidates it (spec.md §9).
func Subst(ctx ast.Context, e ast.Expr, s Substitution) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Variable:
		lvl := ctx.IdxToLvl(n.Idx)
		if t, ok := s.GetSubst(ctx, lvl); ok {
			return weaken(ctx, lvl.Fst, t)
		}
		return &ast.Variable{Idx: n.Idx, Name: n.Name}
	case *ast.TypeUniv:
		return &ast.TypeUniv{}
	case *ast.TypCtor:
		return &ast.TypCtor{Name: n.Name, Args: substAll(ctx, n.Args, s)}
	case *ast.Call:
		return &ast.Call{Kind: n.Kind, Name: n.Name, Args: substArgs(ctx, n.Args, s)}
	case *ast.DotCall:
		return &ast.DotCall{Kind: n.Kind, Exp: Subst(ctx, n.Exp, s), Name: n.Name, Args: substArgs(ctx, n.Args, s)}
	case *ast.Anno:
		out := &ast.Anno{Exp: Subst(ctx, n.Exp, s), Typ: Subst(ctx, n.Typ, s)}
		if n.NormalizedType != nil {
			out.NormalizedType = Subst(ctx, n.NormalizedType, s)
		}
		return out
	case *ast.Hole:
		args := make([][]ast.Expr, len(n.Args))
		for i, row := range n.Args {
			args[i] = substAll(ctx, row, s)
		}
		return &ast.Hole{Kind: n.Kind, MetaVar: n.MetaVar, Args: args}
	case *ast.LocalMatch:
		out := &ast.LocalMatch{Scrutinee: Subst(ctx, n.Scrutinee, s)}
		inner := ctx.PushTelescope()
		if n.Motive != nil {
			out.Motive = &ast.Motive{
				SelfName: n.Motive.SelfName,
				SelfType: Subst(ctx, n.Motive.SelfType, s),
				Body:     Subst(inner.PushBinder(ast.Binder{Name: n.Motive.SelfName}), n.Motive.Body, s),
			}
		}
		if n.ReturnType != nil {
			out.ReturnType = Subst(ctx, n.ReturnType, s)
		}
		out.Cases = make([]ast.Case, len(n.Cases))
		for i, c := range n.Cases {
			caseCtx := pushTelescope(ctx, c.Params)
			out.Cases[i] = ast.Case{CtorName: c.CtorName, Params: substTelescope(ctx, c.Params, s), Absurd: c.Absurd}
			if !c.Absurd {
				out.Cases[i].Body = Subst(caseCtx, c.Body, s)
			}
		}
		return out
	case *ast.LocalComatch:
		out := &ast.LocalComatch{IsLambdaSugar: n.IsLambdaSugar}
		out.Cases = make([]ast.Cocase, len(n.Cases))
		for i, c := range n.Cases {
			caseCtx := pushTelescope(ctx, c.Params)
			out.Cases[i] = ast.Cocase{DtorName: c.DtorName, Params: substTelescope(ctx, c.Params, s), Body: Subst(caseCtx, c.Body, s)}
		}
		return out
	default:
		return e
	}
}

func pushTelescope(ctx ast.Context, t ast.Telescope) ast.Context {
	next := ctx.PushTelescope()
	for _, b := range t {
		next = next.PushBinder(b)
	}
	return next
}

func substAll(ctx ast.Context, es []ast.Expr, s Substitution) []ast.Expr {
	if es == nil {
		return nil
	}
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = Subst(ctx, e, s)
	}
	return out
}

func substArgs(ctx ast.Context, as []ast.Arg, s Substitution) []ast.Arg {
	if as == nil {
		return nil
	}
	out := make([]ast.Arg, len(as))
	for i, a := range as {
		out[i] = ast.Arg{Name: a.Name, Implicit: a.Implicit, Value: Subst(ctx, a.Value, s)}
	}
	return out
}

func substTelescope(ctx ast.Context, t ast.Telescope, s Substitution) ast.Telescope {
	if t == nil {
		return nil
	}
	out := make(ast.Telescope, len(t))
	cur := ctx.PushTelescope()
	for i, b := range t {
		out[i] = ast.Binder{Name: b.Name, Type: Subst(cur, b.Type, s), Implicit: b.Implicit}
		cur = cur.PushBinder(b)
	}
	return out
}

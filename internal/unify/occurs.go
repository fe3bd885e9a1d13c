package unify

import "github.com/duotype/duo/internal/ast"

// occursLvl reports whether the variable at lvl occurs free in e, where ctx
// is the context e lives in. It mirrors subst.Subst's traversal, extending
// ctx by one telescope for every new telescope descended into, so that
// bound occurrences introduced along the way are never mistaken for lvl
// (spec.md §4.4 rule 2's occurs check).
func occursLvl(ctx ast.Context, lvl ast.Lvl, e ast.Expr) bool {
	if e == nil {
		return false
	}
	switch n := e.(type) {
	case *ast.Variable:
		return ctx.IdxToLvl(n.Idx) == lvl
	case *ast.TypeUniv:
		return false
	case *ast.TypCtor:
		return occursAll(ctx, lvl, n.Args)
	case *ast.Call:
		return occursArgs(ctx, lvl, n.Args)
	case *ast.DotCall:
		return occursLvl(ctx, lvl, n.Exp) || occursArgs(ctx, lvl, n.Args)
	case *ast.Anno:
		return occursLvl(ctx, lvl, n.Exp) || occursLvl(ctx, lvl, n.Typ)
	case *ast.Hole:
		for _, row := range n.Args {
			if occursAll(ctx, lvl, row) {
				return true
			}
		}
		return false
	case *ast.LocalMatch:
		if occursLvl(ctx, lvl, n.Scrutinee) {
			return true
		}
		inner := ctx.PushTelescope()
		if n.Motive != nil {
			if occursLvl(ctx, lvl, n.Motive.SelfType) {
				return true
			}
			if occursLvl(inner.PushBinder(ast.Binder{Name: n.Motive.SelfName}), lvl, n.Motive.Body) {
				return true
			}
		}
		if n.ReturnType != nil && occursLvl(ctx, lvl, n.ReturnType) {
			return true
		}
		for _, c := range n.Cases {
			if c.Absurd {
				continue
			}
			if occursLvl(pushTelescope(ctx, c.Params), lvl, c.Body) {
				return true
			}
		}
		return false
	case *ast.LocalComatch:
		for _, c := range n.Cases {
			if occursLvl(pushTelescope(ctx, c.Params), lvl, c.Body) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func pushTelescope(ctx ast.Context, t ast.Telescope) ast.Context {
	next := ctx.PushTelescope()
	for _, b := range t {
		next = next.PushBinder(b)
	}
	return next
}

func occursAll(ctx ast.Context, lvl ast.Lvl, es []ast.Expr) bool {
	for _, e := range es {
		if occursLvl(ctx, lvl, e) {
			return true
		}
	}
	return false
}

func occursArgs(ctx ast.Context, lvl ast.Lvl, as []ast.Arg) bool {
	for _, a := range as {
		if occursLvl(ctx, lvl, a.Value) {
			return true
		}
	}
	return false
}

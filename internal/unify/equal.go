package unify

import "github.com/duotype/duo/internal/ast"

// exprEqual is syntactic equality up to binder names and cached types —
// rule 1 of spec.md §4.4's work-list (and the base case other rules bottom
// out at once arguments have been zipped down to variables or leaves).
func exprEqual(a, b ast.Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *ast.Variable:
		y, ok := b.(*ast.Variable)
		return ok && x.Idx == y.Idx
	case *ast.TypeUniv:
		_, ok := b.(*ast.TypeUniv)
		return ok
	case *ast.TypCtor:
		y, ok := b.(*ast.TypCtor)
		return ok && x.Name == y.Name && exprsEqual(x.Args, y.Args)
	case *ast.Call:
		y, ok := b.(*ast.Call)
		return ok && x.Kind == y.Kind && x.Name == y.Name && argsEqual(x.Args, y.Args)
	case *ast.DotCall:
		y, ok := b.(*ast.DotCall)
		return ok && x.Kind == y.Kind && x.Name == y.Name && exprEqual(x.Exp, y.Exp) && argsEqual(x.Args, y.Args)
	case *ast.Anno:
		y, ok := b.(*ast.Anno)
		return ok && exprEqual(x.Exp, y.Exp) && exprEqual(x.Typ, y.Typ)
	case *ast.Hole:
		y, ok := b.(*ast.Hole)
		return ok && x.MetaVar == y.MetaVar
	default:
		return false
	}
}

func exprsEqual(as, bs []ast.Expr) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !exprEqual(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func argsEqual(as, bs []ast.Arg) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !exprEqual(as[i].Value, bs[i].Value) {
			return false
		}
	}
	return true
}

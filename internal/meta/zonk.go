package meta

import "github.com/duotype/duo/internal/ast"

// Zonk rebuilds e so that every solved Hole reachable from it carries its
// solution, itself zonked recursively, in the Hole's Solution field
// (spec.md §6.2: "Every hole is either Solved ... or CanSolve-unsolved").
// Every hole stays a Hole node whatever its kind (solved CanSolve holes
// keep their solution, SPEC_FULL.md §4); unsolved holes are returned
// unchanged. The solution is attached as the store records it: it is not
// evaluated or rewritten under the hole's closure args.
func Zonk(s *Store, e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Variable, *ast.TypeUniv:
		return e
	case *ast.TypCtor:
		return &ast.TypCtor{Base: n.Base, Name: n.Name, Args: zonkAll(s, n.Args)}
	case *ast.Call:
		return &ast.Call{Base: n.Base, Kind: n.Kind, Name: n.Name, Args: zonkArgs(s, n.Args)}
	case *ast.DotCall:
		return &ast.DotCall{Base: n.Base, Kind: n.Kind, Exp: Zonk(s, n.Exp), Name: n.Name, Args: zonkArgs(s, n.Args)}
	case *ast.Anno:
		out := &ast.Anno{Base: n.Base, Exp: Zonk(s, n.Exp), Typ: Zonk(s, n.Typ)}
		if n.NormalizedType != nil {
			out.NormalizedType = Zonk(s, n.NormalizedType)
		}
		return out
	case *ast.LocalMatch:
		out := &ast.LocalMatch{Base: n.Base, Scrutinee: Zonk(s, n.Scrutinee)}
		if n.Motive != nil {
			out.Motive = &ast.Motive{SelfName: n.Motive.SelfName, SelfType: Zonk(s, n.Motive.SelfType), Body: Zonk(s, n.Motive.Body)}
		}
		if n.ReturnType != nil {
			out.ReturnType = Zonk(s, n.ReturnType)
		}
		out.Cases = make([]ast.Case, len(n.Cases))
		for i, c := range n.Cases {
			out.Cases[i] = ast.Case{CtorName: c.CtorName, Params: zonkTelescope(s, c.Params), Absurd: c.Absurd}
			if !c.Absurd {
				out.Cases[i].Body = Zonk(s, c.Body)
			}
		}
		return out
	case *ast.LocalComatch:
		out := &ast.LocalComatch{Base: n.Base, IsLambdaSugar: n.IsLambdaSugar}
		out.Cases = make([]ast.Cocase, len(n.Cases))
		for i, c := range n.Cases {
			out.Cases[i] = ast.Cocase{DtorName: c.DtorName, Params: zonkTelescope(s, c.Params), Body: Zonk(s, c.Body)}
		}
		return out
	case *ast.Hole:
		entry, ok := s.Get(Id(n.MetaVar))
		if !ok || !entry.Solved() {
			return n
		}
		// The solution is attached without rewriting: the closure args are
		// always identity-shaped Variable lists (spec.md §9), so the
		// solution — already closed under the hole's own Ctx — reads back
		// unchanged under the hole's original site.
		zonkedSolution := Zonk(s, entry.Solution)
		return &ast.Hole{Base: n.Base, Kind: n.Kind, MetaVar: n.MetaVar, Args: n.Args, Solution: zonkedSolution}
	default:
		return e
	}
}

func zonkAll(s *Store, es []ast.Expr) []ast.Expr {
	if es == nil {
		return nil
	}
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = Zonk(s, e)
	}
	return out
}

func zonkArgs(s *Store, as []ast.Arg) []ast.Arg {
	if as == nil {
		return nil
	}
	out := make([]ast.Arg, len(as))
	for i, a := range as {
		out[i] = ast.Arg{Name: a.Name, Implicit: a.Implicit, Value: Zonk(s, a.Value)}
	}
	return out
}

func zonkTelescope(s *Store, t ast.Telescope) ast.Telescope {
	if t == nil {
		return nil
	}
	out := make(ast.Telescope, len(t))
	for i, b := range t {
		out[i] = ast.Binder{Name: b.Name, Type: Zonk(s, b.Type), Implicit: b.Implicit}
	}
	return out
}

// ZonkStore re-zonks every solved entry's own solution against the current
// store (spec.md §4.5 step 5 and §3.4's invariant: "after zonking, every
// Solved metavariable's solution contains no references to other Solved
// metavariables"). Call this immediately after every Solve.
func ZonkStore(s *Store) {
	for _, id := range s.order {
		e := s.entries[id]
		if e.Solved() {
			e.Solution = Zonk(s, e.Solution)
		}
	}
}

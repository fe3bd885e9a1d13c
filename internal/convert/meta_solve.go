package convert

import (
	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/value"
)

// convertHole handles the "Hole vs anything" cases of spec.md §4.5.
func (c *Checker) convertHole(ctx ast.Context, h value.VHole, other value.Value) error {
	id := meta.Id(h.MetaVar)
	entry := c.Store.MustGet(id)

	if entry.Solved() {
		substituted, err := c.Eval.Eval(entry.Solution, value.Env(h.Args))
		if err != nil {
			return err
		}
		return c.convert(ctx, substituted, other, false)
	}

	lvls, reason := patternFragmentLvls(h.Args)
	if reason != "" {
		return &Error{Reason: reason, Lhs: h, Rhs: other}
	}
	return c.solve(ctx, id, entry.Ctx, lvls, other)
}

// patternFragmentLvls checks that a hole's evaluated closure args are all
// distinct bound-variable occurrences (spec.md §4.5: Miller's pattern
// fragment). On success it returns their levels in the hole's own telescope
// order and an empty reason; otherwise it names which check failed.
func patternFragmentLvls(args [][]value.Value) ([]ast.Lvl, Reason) {
	seen := map[ast.Lvl]bool{}
	var out []ast.Lvl
	for _, row := range args {
		for _, v := range row {
			n, ok := v.(value.Neutral)
			if !ok || len(n.Spine) != 0 {
				return nil, ReasonMetaArgNotVariable
			}
			if seen[n.Head] {
				return nil, ReasonMetaArgNotDistinct
			}
			seen[n.Head] = true
			out = append(out, n.Head)
		}
	}
	return out, ""
}

// flattenCtxLvls enumerates ctx's levels in exactly the order
// ast.Context.IdentityArgs builds its closure args, so it lines up
// positionally with patternFragmentLvls's output for the same hole.
func flattenCtxLvls(ctx ast.Context) []ast.Lvl {
	var out []ast.Lvl
	for fst, tele := range ctx {
		for snd := range tele {
			out = append(out, ast.Lvl{Fst: fst, Snd: snd})
		}
	}
	return out
}

// solve implements spec.md §4.5's metavariable-solving algorithm: rename the
// other side's quoted form from the ambient context's coordinates into the
// metavariable's own context, rejecting any free variable that is not one
// of the hole's (distinct) closure args, then record the solution and
// re-zonk the store.
func (c *Checker) solve(ctx ast.Context, id meta.Id, holeCtx ast.Context, argLvls []ast.Lvl, other value.Value) error {
	quoted := value.Quote(ctx, other)

	paramLvls := flattenCtxLvls(holeCtx)
	if len(paramLvls) != len(argLvls) {
		// The hole's arg count must match its own recorded context shape by
		// construction (IdentityArgs built both); a mismatch is a bug, not
		// a user error.
		panic("convert: internal error: hole closure arg count does not match its recorded context shape")
	}
	mapping := make(map[ast.Lvl]ast.Lvl, len(argLvls))
	for i, l := range argLvls {
		mapping[l] = paramLvls[i]
	}

	renamed, err := renameInto(ctx, holeCtx, len(ctx), len(holeCtx), mapping, quoted)
	if err != nil {
		return err
	}

	if c.Store.Occurs(id, renamed) {
		return &Error{Reason: ReasonMetaOccursCheckFailed}
	}

	if err := c.Store.Solve(id, renamed); err != nil {
		return err
	}
	meta.ZonkStore(c.Store)
	return nil
}

// renameInto rewrites e, a term valid under ctx, into a term valid under
// holeCtx by replacing every free variable of e that corresponds (via
// mapping) to one of the hole's closure args with the matching variable of
// holeCtx. Locally-bound variables introduced by e itself (LocalMatch/
// LocalComatch params, the match motive's self binder) are identified by
// having been pushed after ctx0Len/holeCtx0Len and are carried over
// unchanged, since both contexts grow by the same new telescope shape in
// lockstep as this function recurses.
func renameInto(ctx, holeCtx ast.Context, ctx0Len, holeCtx0Len int, mapping map[ast.Lvl]ast.Lvl, e ast.Expr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch n := e.(type) {
	case *ast.Variable:
		lvl := ctx.IdxToLvl(n.Idx)
		if lvl.Fst >= ctx0Len {
			local := ast.Lvl{Fst: lvl.Fst - ctx0Len + holeCtx0Len, Snd: lvl.Snd}
			return &ast.Variable{Idx: holeCtx.LvlToIdx(local), Name: n.Name}, nil
		}
		target, ok := mapping[lvl]
		if !ok {
			return nil, &Error{Reason: ReasonMetaEquatedToOutOfScope}
		}
		return &ast.Variable{Idx: holeCtx.LvlToIdx(target), Name: n.Name}, nil

	case *ast.TypeUniv:
		return &ast.TypeUniv{}, nil

	case *ast.TypCtor:
		args, err := renameAll(ctx, holeCtx, ctx0Len, holeCtx0Len, mapping, n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.TypCtor{Name: n.Name, Args: args}, nil

	case *ast.Call:
		args, err := renameArgs(ctx, holeCtx, ctx0Len, holeCtx0Len, mapping, n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.Call{Kind: n.Kind, Name: n.Name, Args: args}, nil

	case *ast.DotCall:
		exp, err := renameInto(ctx, holeCtx, ctx0Len, holeCtx0Len, mapping, n.Exp)
		if err != nil {
			return nil, err
		}
		args, err := renameArgs(ctx, holeCtx, ctx0Len, holeCtx0Len, mapping, n.Args)
		if err != nil {
			return nil, err
		}
		return &ast.DotCall{Kind: n.Kind, Exp: exp, Name: n.Name, Args: args}, nil

	case *ast.Hole:
		rows := make([][]ast.Expr, len(n.Args))
		for i, row := range n.Args {
			r, err := renameAll(ctx, holeCtx, ctx0Len, holeCtx0Len, mapping, row)
			if err != nil {
				return nil, err
			}
			rows[i] = r
		}
		return &ast.Hole{Kind: n.Kind, MetaVar: n.MetaVar, Args: rows}, nil

	case *ast.LocalComatch:
		innerCtx := ctx.PushTelescope()
		innerHole := holeCtx.PushTelescope()
		cases := make([]ast.Cocase, len(n.Cases))
		for i, cc := range n.Cases {
			caseCtx, caseHole := innerCtx, innerHole
			for _, b := range cc.Params {
				caseCtx = caseCtx.PushBinder(b)
				caseHole = caseHole.PushBinder(b)
			}
			body, err := renameInto(caseCtx, caseHole, ctx0Len, holeCtx0Len, mapping, cc.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = ast.Cocase{DtorName: cc.DtorName, Params: cc.Params, Body: body}
		}
		return &ast.LocalComatch{Cases: cases, IsLambdaSugar: n.IsLambdaSugar}, nil

	default:
		// LocalMatch and Anno (and anything else NbE never produces inside
		// a quoted value) do not currently arise here: Quote only ever
		// emits Variable/TypCtor/Call/DotCall/LocalComatch chains, so a
		// fuller traversal isn't exercised in practice. Treat conservatively
		// as not renameable rather than silently miscompiling a solution.
		return nil, &Error{Reason: ReasonCannotDecide}
	}
}

func renameAll(ctx, holeCtx ast.Context, ctx0, hole0 int, mapping map[ast.Lvl]ast.Lvl, es []ast.Expr) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		r, err := renameInto(ctx, holeCtx, ctx0, hole0, mapping, e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func renameArgs(ctx, holeCtx ast.Context, ctx0, hole0 int, mapping map[ast.Lvl]ast.Lvl, as []ast.Arg) ([]ast.Arg, error) {
	out := make([]ast.Arg, len(as))
	for i, a := range as {
		r, err := renameInto(ctx, holeCtx, ctx0, hole0, mapping, a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = ast.Arg{Name: a.Name, Implicit: a.Implicit, Value: r}
	}
	return out, nil
}

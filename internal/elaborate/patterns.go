package elaborate

import (
	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/subst"
	"github.com/duotype/duo/internal/unify"
	"github.com/duotype/duo/internal/value"
)

// freshNeutrals builds the Values standing for a freshly-pushed telescope of
// n binders at context depth fst: exactly the shape Eval needs for a params
// telescope whose own binder types may reference earlier siblings, and the
// shape Quote needs to read a derived value back as a term valid in the
// context that telescope was pushed onto (spec.md §3.1's level-stability
// invariant).
func freshNeutrals(fst, n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.Neutral{Head: ast.Lvl{Fst: fst, Snd: i}}
	}
	return out
}

func quoteAll(ctx ast.Context, vs []value.Value) []ast.Expr {
	out := make([]ast.Expr, len(vs))
	for i, v := range vs {
		out[i] = value.Quote(ctx, v)
	}
	return out
}

func zipEquations(lhs, rhs []ast.Expr) []unify.Equation {
	out := make([]unify.Equation, len(lhs))
	for i := range lhs {
		out[i] = unify.Equation{Lhs: lhs[i], Rhs: rhs[i]}
	}
	return out
}

// checkLocalMatch implements spec.md §4.6.1.
func (e *Elaborator) checkLocalMatch(ctx ast.Context, n *ast.LocalMatch, expected value.Value) (ast.Expr, error) {
	scrutExpr, scrutTyp, err := e.Infer(ctx, n.Scrutinee)
	if err != nil {
		return nil, err
	}
	headTyp, ok := scrutTyp.(value.VTypCtor)
	if !ok {
		return nil, report(errors.TExpectedTypApp, n.Scrutinee.Span(), "match scrutinee must have a fully applied data type", nil)
	}
	data, ok := e.Program.Data(headTyp.Name)
	if !ok {
		if _, isCodata := e.Program.Codata(headTyp.Name); isCodata {
			return nil, report(errors.TMatchOnCodata, n.Scrutinee.Span(), "cannot match on a codata-typed scrutinee", map[string]any{"type": headTyp.Name})
		}
		return nil, report(errors.TNotInType, n.Scrutinee.Span(), "unknown data type "+headTyp.Name, nil)
	}
	if err := checkMatchCoverage(data.Ctors, n.Cases, n.Span()); err != nil {
		return nil, err
	}

	scrutVal, err := e.evalInCtx(ctx, scrutExpr)
	if err != nil {
		return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
	}

	var motiveOut *ast.Motive
	var motiveBodyExpr ast.Expr
	if n.Motive != nil {
		selfTypExpr, err := e.Check(ctx, n.Motive.SelfType, value.VTypeUniv{})
		if err != nil {
			return nil, err
		}
		selfTypVal, err := e.evalInCtx(ctx, selfTypExpr)
		if err != nil {
			return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
		}
		if cerr := e.Conv.Convert(ctx, selfTypVal, headTyp); cerr != nil {
			return nil, convertErrorToReport(n.Motive.SelfType.Span(), cerr)
		}
		selfCtx := ctx.PushTelescope().PushBinder(ast.Binder{Name: n.Motive.SelfName, Type: value.Quote(ctx, headTyp)})
		motiveBodyExpr, err = e.Check(selfCtx, n.Motive.Body, value.VTypeUniv{})
		if err != nil {
			return nil, err
		}
		motiveAtScrutinee, err := e.Eval.Eval(motiveBodyExpr, value.NeutralEnv(ctx).Extend([]value.Value{scrutVal}))
		if err != nil {
			return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
		}
		if cerr := e.Conv.Convert(ctx, motiveAtScrutinee, expected); cerr != nil {
			return nil, convertErrorToReport(n.Span(), cerr)
		}
		motiveOut = &ast.Motive{SelfName: n.Motive.SelfName, SelfType: selfTypExpr, Body: motiveBodyExpr}
	}

	outCases := make([]ast.Case, len(n.Cases))
	for i, c := range n.Cases {
		ctorSig, _ := findCtorSig(data, c.CtorName)
		caseCtx, elaboratedParams, err := e.checkTelescope(ctx, ctorSig.Params, c.Params, n.Span())
		if err != nil {
			return nil, err
		}
		fst := len(ctx)
		caseParamVals := freshNeutrals(fst, len(ctorSig.Params))

		retArgVals, err := e.evalAll(ctorSig.ReturnType.Args, value.Env{caseParamVals})
		if err != nil {
			return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
		}
		lhs := quoteAll(caseCtx, retArgVals)
		rhs := quoteAll(caseCtx, headTyp.Args)
		result, err := unify.Unify(caseCtx, zipEquations(lhs, rhs))
		if err != nil {
			return nil, unifyErrorToReport(n.Span(), err)
		}

		switch {
		case !result.Ok && !c.Absurd:
			return nil, report(errors.TPatternIsAbsurd, n.Span(), "case "+c.CtorName+" is absurd but was given a body", map[string]any{"ctor": c.CtorName})
		case result.Ok && c.Absurd:
			return nil, report(errors.TPatternIsNotAbsurd, n.Span(), "case "+c.CtorName+" was declared absurd but its indices are consistent", map[string]any{"ctor": c.CtorName})
		case !result.Ok && c.Absurd:
			outCases[i] = ast.Case{CtorName: c.CtorName, Params: elaboratedParams, Absurd: true}
		default:
			var bodyExpected value.Value = expected
			if motiveOut != nil {
				caseSelfVal := value.VCall{Kind: ast.CallCtor, Name: c.CtorName, Args: caseParamVals}
				bodyExpected, err = e.Eval.Eval(motiveBodyExpr, value.NeutralEnv(ctx).Extend([]value.Value{caseSelfVal}))
				if err != nil {
					return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
				}
			}
			refinedExpr := subst.Subst(caseCtx, value.Quote(caseCtx, bodyExpected), result.Unifier)
			refinedVal, err := e.evalInCtx(caseCtx, refinedExpr)
			if err != nil {
				return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
			}
			bodyElab, err := e.Check(caseCtx, c.Body, refinedVal)
			if err != nil {
				return nil, err
			}
			outCases[i] = ast.Case{CtorName: c.CtorName, Params: elaboratedParams, Body: bodyElab}
		}
	}

	out := &ast.LocalMatch{
		Base: ast.Base{Sp: n.Span()}, Scrutinee: scrutExpr, Motive: motiveOut,
		Cases: outCases, ReturnType: value.Quote(ctx, expected),
	}
	out.SetType(value.Quote(ctx, expected))
	return out, nil
}

// isTrivialSelf reports whether a destructor's self parameter is exactly
// C applied to its own declared parameters in order, with no further
// refinement (spec.md §4.6.2 step 1's "non-trivial self-parameter" gate).
func isTrivialSelf(codata *ast.Codata, d *ast.DtorSig) bool {
	selfTyp, ok := d.SelfParam.Type.(*ast.TypCtor)
	if !ok || selfTyp.Name != codata.NameStr || len(selfTyp.Args) != len(codata.Params) {
		return false
	}
	for i, a := range selfTyp.Args {
		v, ok := a.(*ast.Variable)
		if !ok {
			return false
		}
		// selfTyp.Args is closed under Context{d.Params} (a single
		// telescope); the i-th leading parameter has Snd = len(d.Params)-1-i
		// within that telescope.
		if v.Idx != (ast.Idx{Fst: 0, Snd: len(d.Params) - 1 - i}) {
			return false
		}
	}
	return true
}

// checkLocalComatch implements spec.md §4.6.2.
func (e *Elaborator) checkLocalComatch(ctx ast.Context, n *ast.LocalComatch, expected value.Value) (ast.Expr, error) {
	targetTyp, ok := expected.(value.VTypCtor)
	if !ok {
		return nil, report(errors.TExpectedTypApp, n.Span(), "comatch must be checked against a fully applied codata type", nil)
	}
	codata, ok := e.Program.Codata(targetTyp.Name)
	if !ok {
		if _, isData := e.Program.Data(targetTyp.Name); isData {
			return nil, report(errors.TComatchOnData, n.Span(), "cannot comatch against a data-typed expectation", map[string]any{"type": targetTyp.Name})
		}
		return nil, report(errors.TNotInType, n.Span(), "unknown codata type "+targetTyp.Name, nil)
	}
	for _, d := range codata.Dtors {
		if !isTrivialSelf(codata, &d) {
			return nil, report(errors.TLocalComatchWithSelf, n.Span(), "destructor "+d.Name+" has a non-trivial self parameter; produce this codata with a top-level codef instead", map[string]any{"dtor": d.Name})
		}
	}
	if err := checkComatchCoverage(codata.Dtors, n.Cases, n.Span()); err != nil {
		return nil, err
	}

	outCases := make([]ast.Cocase, len(n.Cases))
	for i, c := range n.Cases {
		dtor, _ := findDtorSig(codata, c.DtorName)
		caseCtx, elaboratedParams, err := e.checkTelescope(ctx, dtor.Params, c.Params, n.Span())
		if err != nil {
			return nil, err
		}
		fst := len(ctx)
		caseParamVals := freshNeutrals(fst, len(dtor.Params))

		selfTyp := dtor.SelfParam.Type.(*ast.TypCtor)
		selfArgVals, err := e.evalAll(selfTyp.Args, value.Env{caseParamVals})
		if err != nil {
			return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
		}
		lhs := quoteAll(caseCtx, selfArgVals)
		rhs := quoteAll(caseCtx, targetTyp.Args)
		result, err := unify.Unify(caseCtx, zipEquations(lhs, rhs))
		if err != nil {
			return nil, unifyErrorToReport(n.Span(), err)
		}
		if !result.Ok {
			return nil, report(errors.TCannotDecide, n.Span(), "destructor "+c.DtorName+"'s self-type indices are inconsistent with the expected codata type", map[string]any{"dtor": c.DtorName})
		}

		// The self parameter is never exposed as a term inside a
		// LocalComatch's own cocases (unlike a top-level codef, which binds
		// it explicitly); a destructor whose return type nonetheless
		// mentions self gets this stand-in, well-typed but not a genuine
		// runtime value — acceptable because isTrivialSelf above already
		// rejects the destructors that would make this observable.
		selfPlaceholder := value.VTypCtor{Name: codata.NameStr, Args: targetTyp.Args}
		retEnv := value.Env{}.Extend(caseParamVals).Extend([]value.Value{selfPlaceholder})
		bodyExpected, err := e.Eval.Eval(dtor.ReturnType, retEnv)
		if err != nil {
			return nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
		}
		bodyElab, err := e.Check(caseCtx, c.Body, bodyExpected)
		if err != nil {
			return nil, err
		}
		outCases[i] = ast.Cocase{DtorName: c.DtorName, Params: elaboratedParams, Body: bodyElab}
	}

	out := &ast.LocalComatch{Base: ast.Base{Sp: n.Span()}, Cases: outCases, IsLambdaSugar: n.IsLambdaSugar}
	out.SetType(value.Quote(ctx, expected))
	return out, nil
}

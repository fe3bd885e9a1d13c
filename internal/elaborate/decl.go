package elaborate

import (
	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/unify"
	"github.com/duotype/duo/internal/value"
)

// CheckModule runs the single-threaded sweep of spec.md §5 over every
// declaration of e.Program in source order, then zonks the result and
// reports any metavariable that must have been solved by module end but
// was not (spec.md §5, §6.2).
func (e *Elaborator) CheckModule() ([]ast.Decl, error) {
	out := make([]ast.Decl, len(e.Program.Decls))
	for i, d := range e.Program.Decls {
		e.trace(TraceEvent{Step: "decl:enter", Name: d.DeclName()})
		checked, err := e.CheckDecl(d)
		if err != nil {
			return nil, err
		}
		out[i] = checked
		e.trace(TraceEvent{Step: "decl:exit", Name: d.DeclName()})
	}
	meta.ZonkStore(e.Store)
	e.trace(TraceEvent{Step: "zonk"})
	zonked := make([]ast.Decl, len(out))
	for i, d := range out {
		zonked[i] = zonkDecl(e.Store, d)
	}
	if err := e.checkUnsolved(); err != nil {
		return zonked, err
	}
	return zonked, nil
}

// checkUnsolved implements spec.md §5's module-end invariant: every
// MustSolve or Inserted metavariable must be Solved; a remaining unsolved
// CanSolve hole is an acknowledged gap, not an error (spec.md §4 Open
// Question resolution in SPEC_FULL.md).
func (e *Elaborator) checkUnsolved() error {
	for _, id := range e.Store.Unsolved() {
		entry := e.Store.MustGet(id)
		if entry.Kind == ast.MustSolve || entry.Kind == ast.Inserted {
			return report(errors.TUnresolvedMeta, ast.Span{}, "metavariable remained unsolved at module end", map[string]any{"id": uint64(id), "kind": entry.Kind.String()})
		}
	}
	return nil
}

// CheckDecl dispatches to the per-kind declaration checker of spec.md
// §4.6.3.
func (e *Elaborator) CheckDecl(d ast.Decl) (ast.Decl, error) {
	switch n := d.(type) {
	case *ast.Data:
		return e.checkData(n)
	case *ast.Codata:
		return e.checkCodata(n)
	case *ast.Def:
		return e.checkDef(n)
	case *ast.Codef:
		return e.checkCodef(n)
	case *ast.Let:
		return e.checkLet(n)
	default:
		return nil, report(errors.TImpossible, d.Span(), "unhandled declaration kind", nil)
	}
}

// checkData implements spec.md §4.6.3's Data rule: the parameter telescope
// must be well-formed, and each constructor's return type must target the
// enclosing data type, checked against that telescope.
func (e *Elaborator) checkData(n *ast.Data) (ast.Decl, error) {
	_, elaboratedParams, err := e.inferTelescope(ast.Context{}, n.Params)
	if err != nil {
		return nil, err
	}
	ctors := make([]ast.CtorSig, len(n.Ctors))
	for i, c := range n.Ctors {
		ctorCtx, elaboratedCtorParams, err := e.inferTelescope(ast.Context{}, c.Params)
		if err != nil {
			return nil, err
		}
		if c.ReturnType.Name != n.NameStr {
			return nil, report(errors.TNotInType, n.Sp, "constructor "+c.Name+"'s return type does not target "+n.NameStr, map[string]any{"ctor": c.Name, "target": c.ReturnType.Name})
		}
		retArgs, _, err := e.checkExprsAgainstTelescope(ctorCtx, elaboratedParams, c.ReturnType.Args, n.Sp)
		if err != nil {
			return nil, err
		}
		ctors[i] = ast.CtorSig{Name: c.Name, Params: elaboratedCtorParams, ReturnType: &ast.TypCtor{Name: n.NameStr, Args: retArgs}}
	}
	return &ast.Data{NameStr: n.NameStr, Params: elaboratedParams, Ctors: ctors, Sp: n.Sp}, nil
}

// checkCodata implements spec.md §4.6.3's Codata rule, the dual of
// checkData: each destructor's self parameter must target the enclosing
// codata type, and its own return type is checked under Params then self.
func (e *Elaborator) checkCodata(n *ast.Codata) (ast.Decl, error) {
	_, elaboratedParams, err := e.inferTelescope(ast.Context{}, n.Params)
	if err != nil {
		return nil, err
	}
	dtors := make([]ast.DtorSig, len(n.Dtors))
	for i, d := range n.Dtors {
		dtorCtx, elaboratedDtorParams, err := e.inferTelescope(ast.Context{}, d.Params)
		if err != nil {
			return nil, err
		}
		selfTyp, ok := d.SelfParam.Type.(*ast.TypCtor)
		if !ok || selfTyp.Name != n.NameStr {
			return nil, report(errors.TNotInType, n.Sp, "destructor "+d.Name+"'s self parameter does not target "+n.NameStr, map[string]any{"dtor": d.Name})
		}
		selfArgs, _, err := e.checkExprsAgainstTelescope(dtorCtx, elaboratedParams, selfTyp.Args, n.Sp)
		if err != nil {
			return nil, err
		}
		elaboratedSelfType := &ast.TypCtor{Name: n.NameStr, Args: selfArgs}
		selfCtx := dtorCtx.PushTelescope().PushBinder(ast.Binder{Name: d.SelfParam.Name, Type: elaboratedSelfType})
		retExpr, err := e.Check(selfCtx, d.ReturnType, value.VTypeUniv{})
		if err != nil {
			return nil, err
		}
		dtors[i] = ast.DtorSig{
			Name: d.Name, Params: elaboratedDtorParams,
			SelfParam:  ast.Binder{Name: d.SelfParam.Name, Type: elaboratedSelfType},
			ReturnType: retExpr,
		}
	}
	return &ast.Codata{NameStr: n.NameStr, Params: elaboratedParams, Dtors: dtors, Sp: n.Sp}, nil
}

// checkDef implements spec.md §4.6.3's Def rule: under the def's parameters
// and self-parameter, check the return type lies in Type, then check each
// case as a data elimination of self, with self in the return type
// instantiated to the case's constructor applied to its pattern parameters.
func (e *Elaborator) checkDef(n *ast.Def) (ast.Decl, error) {
	paramsCtx, elaboratedParams, err := e.inferTelescope(ast.Context{}, n.Params)
	if err != nil {
		return nil, err
	}
	selfTypExpr, err := e.Check(paramsCtx, n.SelfParam.Type, value.VTypeUniv{})
	if err != nil {
		return nil, err
	}
	selfTypVal, err := e.evalInCtx(paramsCtx, selfTypExpr)
	if err != nil {
		return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
	}
	headTyp, ok := selfTypVal.(value.VTypCtor)
	if !ok {
		return nil, report(errors.TExpectedTypApp, n.Sp, "def self parameter must have a fully applied data type", nil)
	}
	data, ok := e.Program.Data(headTyp.Name)
	if !ok {
		if _, isCodata := e.Program.Codata(headTyp.Name); isCodata {
			return nil, report(errors.TMatchOnCodata, n.Sp, "def cannot eliminate a codata-typed self parameter", map[string]any{"type": headTyp.Name})
		}
		return nil, report(errors.TNotInType, n.Sp, "unknown data type "+headTyp.Name, nil)
	}
	selfCtx := paramsCtx.PushTelescope().PushBinder(ast.Binder{Name: n.SelfParam.Name, Type: selfTypExpr})
	retExpr, err := e.Check(selfCtx, n.ReturnType, value.VTypeUniv{})
	if err != nil {
		return nil, err
	}
	if err := checkMatchCoverage(data.Ctors, n.Cases, n.Sp); err != nil {
		return nil, err
	}

	paramVals := freshNeutrals(0, len(n.Params))
	cases := make([]ast.Case, len(n.Cases))
	for i, c := range n.Cases {
		ctorSig, _ := findCtorSig(data, c.CtorName)
		caseCtx, elaboratedCaseParams, err := e.checkTelescope(selfCtx, ctorSig.Params, c.Params, n.Sp)
		if err != nil {
			return nil, err
		}
		fst := len(selfCtx)
		caseParamVals := freshNeutrals(fst, len(ctorSig.Params))

		retArgVals, err := e.evalAll(ctorSig.ReturnType.Args, value.Env{caseParamVals})
		if err != nil {
			return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
		}
		lhs := quoteAll(caseCtx, retArgVals)
		rhs := quoteAll(caseCtx, headTyp.Args)
		result, err := unify.Unify(caseCtx, zipEquations(lhs, rhs))
		if err != nil {
			return nil, unifyErrorToReport(n.Sp, err)
		}

		switch {
		case !result.Ok && !c.Absurd:
			return nil, report(errors.TPatternIsAbsurd, n.Sp, "case "+c.CtorName+" is absurd but was given a body", map[string]any{"ctor": c.CtorName})
		case result.Ok && c.Absurd:
			return nil, report(errors.TPatternIsNotAbsurd, n.Sp, "case "+c.CtorName+" was declared absurd but its indices are consistent", map[string]any{"ctor": c.CtorName})
		case !result.Ok && c.Absurd:
			cases[i] = ast.Case{CtorName: c.CtorName, Params: elaboratedCaseParams, Absurd: true}
		default:
			caseSelfVal := value.VCall{Kind: ast.CallCtor, Name: c.CtorName, Args: caseParamVals}
			retEnv := value.Env{}.Extend(paramVals).Extend([]value.Value{caseSelfVal})
			bodyExpected, err := e.Eval.Eval(retExpr, retEnv)
			if err != nil {
				return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
			}
			bodyElab, err := e.Check(caseCtx, c.Body, bodyExpected)
			if err != nil {
				return nil, err
			}
			cases[i] = ast.Case{CtorName: c.CtorName, Params: elaboratedCaseParams, Body: bodyElab}
		}
	}
	return &ast.Def{
		NameStr: n.NameStr, Params: elaboratedParams,
		SelfParam: ast.Binder{Name: n.SelfParam.Name, Type: selfTypExpr}, ReturnType: retExpr,
		Cases: cases, Sp: n.Sp,
	}, nil
}

// checkCodef implements spec.md §4.6.3's Codef rule: the codef's own name
// (applied to its parameters) serves as the value each cocase's body is
// constructed on behalf of, in place of the anonymous self a LocalComatch
// would otherwise need to stand in for.
func (e *Elaborator) checkCodef(n *ast.Codef) (ast.Decl, error) {
	paramsCtx, elaboratedParams, err := e.inferTelescope(ast.Context{}, n.Params)
	if err != nil {
		return nil, err
	}
	retArgs, retArgVals, err := e.checkExprsAgainstTelescope(paramsCtx, elaboratedParams, n.ReturnType.Args, n.Sp)
	_ = retArgVals
	if err != nil {
		return nil, err
	}
	targetTyp, ok := e.Program.Codata(n.ReturnType.Name)
	if !ok {
		return nil, report(errors.TNotInType, n.Sp, "unknown codata type "+n.ReturnType.Name, nil)
	}
	if err := checkComatchCoverage(targetTyp.Dtors, n.Cases, n.Sp); err != nil {
		return nil, err
	}

	paramVals := freshNeutrals(0, len(n.Params))
	targetArgVals, err := e.evalAll(retArgs, value.Env{paramVals})
	if err != nil {
		return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
	}
	selfVal := value.VCall{Kind: ast.CallCodef, Name: n.NameStr, Args: paramVals}

	cases := make([]ast.Cocase, len(n.Cases))
	for i, c := range n.Cases {
		dtor, _ := findDtorSig(targetTyp, c.DtorName)
		caseCtx, elaboratedCaseParams, err := e.checkTelescope(paramsCtx, dtor.Params, c.Params, n.Sp)
		if err != nil {
			return nil, err
		}
		fst := len(paramsCtx)
		caseParamVals := freshNeutrals(fst, len(dtor.Params))

		selfTyp := dtor.SelfParam.Type.(*ast.TypCtor)
		selfArgVals, err := e.evalAll(selfTyp.Args, value.Env{caseParamVals})
		if err != nil {
			return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
		}
		lhs := quoteAll(caseCtx, selfArgVals)
		rhs := quoteAll(caseCtx, targetArgVals)
		result, err := unify.Unify(caseCtx, zipEquations(lhs, rhs))
		if err != nil {
			return nil, unifyErrorToReport(n.Sp, err)
		}
		if !result.Ok {
			return nil, report(errors.TCannotDecide, n.Sp, "destructor "+c.DtorName+"'s self-type indices are inconsistent with "+n.NameStr+"'s declared return type", map[string]any{"dtor": c.DtorName})
		}

		retEnv := value.Env{}.Extend(caseParamVals).Extend([]value.Value{selfVal})
		bodyExpected, err := e.Eval.Eval(dtor.ReturnType, retEnv)
		if err != nil {
			return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
		}
		bodyElab, err := e.Check(caseCtx, c.Body, bodyExpected)
		if err != nil {
			return nil, err
		}
		cases[i] = ast.Cocase{DtorName: c.DtorName, Params: elaboratedCaseParams, Body: bodyElab}
	}
	return &ast.Codef{
		NameStr: n.NameStr, Params: elaboratedParams,
		ReturnType: &ast.TypCtor{Name: n.ReturnType.Name, Args: retArgs}, Cases: cases, Sp: n.Sp,
	}, nil
}

// checkLet implements spec.md §4.6.3's Let rule.
func (e *Elaborator) checkLet(n *ast.Let) (ast.Decl, error) {
	paramsCtx, elaboratedParams, err := e.inferTelescope(ast.Context{}, n.Params)
	if err != nil {
		return nil, err
	}
	typExpr, err := e.Check(paramsCtx, n.Type, value.VTypeUniv{})
	if err != nil {
		return nil, err
	}
	typVal, err := e.evalInCtx(paramsCtx, typExpr)
	if err != nil {
		return nil, report(errors.TImpossible, n.Sp, err.Error(), nil)
	}
	bodyExpr, err := e.Check(paramsCtx, n.Body, typVal)
	if err != nil {
		return nil, err
	}
	return &ast.Let{NameStr: n.NameStr, Params: elaboratedParams, Type: typExpr, Body: bodyExpr, Sp: n.Sp}, nil
}

// ---- zonking a declaration tree ------------------------------------------

func zonkDecl(s *meta.Store, d ast.Decl) ast.Decl {
	switch n := d.(type) {
	case *ast.Data:
		ctors := make([]ast.CtorSig, len(n.Ctors))
		for i, c := range n.Ctors {
			rt := meta.Zonk(s, c.ReturnType).(*ast.TypCtor)
			ctors[i] = ast.CtorSig{Name: c.Name, Params: zonkTelescopeLocal(s, c.Params), ReturnType: rt}
		}
		return &ast.Data{NameStr: n.NameStr, Params: zonkTelescopeLocal(s, n.Params), Ctors: ctors, Sp: n.Sp}
	case *ast.Codata:
		dtors := make([]ast.DtorSig, len(n.Dtors))
		for i, d := range n.Dtors {
			dtors[i] = ast.DtorSig{
				Name: d.Name, Params: zonkTelescopeLocal(s, d.Params),
				SelfParam:  ast.Binder{Name: d.SelfParam.Name, Type: meta.Zonk(s, d.SelfParam.Type)},
				ReturnType: meta.Zonk(s, d.ReturnType),
			}
		}
		return &ast.Codata{NameStr: n.NameStr, Params: zonkTelescopeLocal(s, n.Params), Dtors: dtors, Sp: n.Sp}
	case *ast.Def:
		cases := make([]ast.Case, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = ast.Case{CtorName: c.CtorName, Params: zonkTelescopeLocal(s, c.Params), Absurd: c.Absurd}
			if !c.Absurd {
				cases[i].Body = meta.Zonk(s, c.Body)
			}
		}
		return &ast.Def{
			NameStr: n.NameStr, Params: zonkTelescopeLocal(s, n.Params),
			SelfParam:  ast.Binder{Name: n.SelfParam.Name, Type: meta.Zonk(s, n.SelfParam.Type)},
			ReturnType: meta.Zonk(s, n.ReturnType), Cases: cases, Sp: n.Sp,
		}
	case *ast.Codef:
		cases := make([]ast.Cocase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = ast.Cocase{DtorName: c.DtorName, Params: zonkTelescopeLocal(s, c.Params), Body: meta.Zonk(s, c.Body)}
		}
		rt := meta.Zonk(s, n.ReturnType).(*ast.TypCtor)
		return &ast.Codef{NameStr: n.NameStr, Params: zonkTelescopeLocal(s, n.Params), ReturnType: rt, Cases: cases, Sp: n.Sp}
	case *ast.Let:
		return &ast.Let{NameStr: n.NameStr, Params: zonkTelescopeLocal(s, n.Params), Type: meta.Zonk(s, n.Type), Body: meta.Zonk(s, n.Body), Sp: n.Sp}
	default:
		return d
	}
}

func zonkTelescopeLocal(s *meta.Store, t ast.Telescope) ast.Telescope {
	if t == nil {
		return nil
	}
	out := make(ast.Telescope, len(t))
	for i, b := range t {
		out[i] = ast.Binder{Name: b.Name, Type: meta.Zonk(s, b.Type), Implicit: b.Implicit}
	}
	return out
}

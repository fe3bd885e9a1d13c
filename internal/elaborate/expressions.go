package elaborate

import (
	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/value"
)

// inferVariable looks up the binder an occurrence refers to and returns its
// type, weakened from the prefix it is closed under up to ctx (spec.md
// §4.6's Variable row, §3.1).
func (e *Elaborator) inferVariable(ctx ast.Context, n *ast.Variable) (ast.Expr, value.Value, error) {
	lvl := ctx.IdxToLvl(n.Idx)
	binder := ctx.MustLookupIdx(n.Idx)
	typVal, err := e.binderTypeValue(ctx, lvl, binder.Type)
	if err != nil {
		return nil, nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
	}
	out := &ast.Variable{Base: ast.Base{Sp: n.Span()}, Idx: n.Idx, Name: n.Name}
	out.SetType(value.Quote(ctx, typVal))
	return out, typVal, nil
}

// inferTypeUniv: Type : Type, the sole universe (spec.md §1, §4.6).
func (e *Elaborator) inferTypeUniv(ctx ast.Context, n *ast.TypeUniv) (ast.Expr, value.Value, error) {
	out := &ast.TypeUniv{Base: ast.Base{Sp: n.Span()}}
	out.SetType(value.Quote(ctx, value.VTypeUniv{}))
	return out, value.VTypeUniv{}, nil
}

// inferTypCtor checks a fully applied type constructor's arguments against
// the declared data/codata parameter telescope and returns TypeUniv
// (spec.md §4.6's TypCtor row).
func (e *Elaborator) inferTypCtor(ctx ast.Context, n *ast.TypCtor) (ast.Expr, value.Value, error) {
	params, err := e.lookupTypeParams(n.Name, n.Span())
	if err != nil {
		return nil, nil, err
	}
	args, _, err := e.checkExprsAgainstTelescope(ctx, params, n.Args, n.Span())
	if err != nil {
		return nil, nil, err
	}
	out := &ast.TypCtor{Base: ast.Base{Sp: n.Span()}, Name: n.Name, Args: args}
	out.SetType(value.Quote(ctx, value.VTypeUniv{}))
	return out, value.VTypeUniv{}, nil
}

func (e *Elaborator) lookupTypeParams(name string, sp ast.Span) (ast.Telescope, error) {
	if d, ok := e.Program.Data(name); ok {
		return d.Params, nil
	}
	if c, ok := e.Program.Codata(name); ok {
		return c.Params, nil
	}
	return nil, report(errors.TNotInType, sp, "unknown type constructor "+name, nil)
}

// inferCall elaborates a Ctor/Codef/Let/Extern invocation (spec.md §4.6's
// Call row): look up the callee's parameter telescope and return type,
// check the arguments against it, then instantiate the return type with the
// evaluated arguments.
func (e *Elaborator) inferCall(ctx ast.Context, n *ast.Call) (ast.Expr, value.Value, error) {
	switch n.Kind {
	case ast.CallCtor:
		ctor, _, ok := e.Program.Ctor(n.Name)
		if !ok {
			return nil, nil, report(errors.TNotInType, n.Span(), "unknown constructor "+n.Name, nil)
		}
		return e.inferCallLike(ctx, n, ctor.Params, ctor.ReturnType)
	case ast.CallCodef:
		codef, ok := e.Program.CodefByName(n.Name)
		if !ok {
			return nil, nil, report(errors.TNotInType, n.Span(), "unknown codef "+n.Name, nil)
		}
		return e.inferCallLike(ctx, n, codef.Params, codef.ReturnType)
	case ast.CallLet:
		let, ok := e.Program.LetByName(n.Name)
		if !ok {
			return nil, nil, report(errors.TNotInType, n.Span(), "unknown let "+n.Name, nil)
		}
		return e.inferCallLike(ctx, n, let.Params, let.Type)
	case ast.CallExtern:
		// Externs are an interface boundary the core trusts: there is no
		// declaration to check their arguments against, so each argument is
		// inferred on its own, and the return type is the one already
		// recorded on the node (set by whatever populated it), or Type when
		// none was recorded.
		args := make([]ast.Arg, len(n.Args))
		for i, a := range n.Args {
			elaborated, _, err := e.Infer(ctx, a.Value)
			if err != nil {
				return nil, nil, err
			}
			args[i] = ast.Arg{Name: a.Name, Implicit: a.Implicit, Value: elaborated}
		}
		out := &ast.Call{Base: ast.Base{Sp: n.Span()}, Kind: ast.CallExtern, Name: n.Name, Args: args}
		var typVal value.Value = value.VTypeUniv{}
		if recorded := n.InferredType(); recorded != nil {
			v, err := e.evalInCtx(ctx, recorded)
			if err != nil {
				return nil, nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
			}
			typVal = v
		}
		out.SetType(value.Quote(ctx, typVal))
		return out, typVal, nil
	}
	return nil, nil, report(errors.TImpossible, n.Span(), "unknown call kind", nil)
}

func (e *Elaborator) inferCallLike(ctx ast.Context, n *ast.Call, params ast.Telescope, returnType ast.Expr) (ast.Expr, value.Value, error) {
	args, vals, err := e.checkArgsAgainstTelescope(ctx, params, n.Args, n.Span())
	if err != nil {
		return nil, nil, err
	}
	retVal, err := e.Eval.Eval(returnType, value.Env{}.Extend(vals))
	if err != nil {
		return nil, nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
	}
	out := &ast.Call{Base: ast.Base{Sp: n.Span()}, Kind: n.Kind, Name: n.Name, Args: args}
	out.SetType(value.Quote(ctx, retVal))
	return out, retVal, nil
}

// inferDotCall elaborates a destructor or def application e.name(args)
// (spec.md §4.6's DotCall row): infer the scrutinee, check it targets the
// right self type, check the call's own arguments, and instantiate the
// return type with both the scrutinee and the arguments substituted in.
func (e *Elaborator) inferDotCall(ctx ast.Context, n *ast.DotCall) (ast.Expr, value.Value, error) {
	headExpr, headVal, err := e.Infer(ctx, n.Exp)
	if err != nil {
		return nil, nil, err
	}
	headTyp, ok := headVal.(value.VTypCtor)
	if !ok {
		return nil, nil, report(errors.TExpectedTypApp, n.Exp.Span(), "expected a fully applied type constructor", nil)
	}

	switch n.Kind {
	case ast.DotDtor:
		dtor, codata, ok := e.Program.Dtor(n.Name)
		if !ok {
			return nil, nil, report(errors.TNotInType, n.Span(), "unknown destructor "+n.Name, nil)
		}
		if headTyp.Name != codata.NameStr {
			return nil, nil, report(errors.TExpectedTypApp, n.Exp.Span(),
				"scrutinee has type "+headTyp.Name+", expected "+codata.NameStr, nil)
		}
		return e.inferDotCallLike(ctx, n, headExpr, dtor.Params, dtor.ReturnType)
	case ast.DotDef:
		def, ok := e.Program.DefByName(n.Name)
		if !ok {
			return nil, nil, report(errors.TNotInType, n.Span(), "unknown def "+n.Name, nil)
		}
		selfTyp, ok := def.SelfParam.Type.(*ast.TypCtor)
		if !ok || headTyp.Name != selfTyp.Name {
			selfName := "<unknown>"
			if ok {
				selfName = selfTyp.Name
			}
			return nil, nil, report(errors.TExpectedTypApp, n.Exp.Span(),
				"scrutinee has type "+headTyp.Name+", expected "+selfName, nil)
		}
		return e.inferDotCallLike(ctx, n, headExpr, def.Params, def.ReturnType)
	}
	return nil, nil, report(errors.TImpossible, n.Span(), "unknown dotcall kind", nil)
}

func (e *Elaborator) inferDotCallLike(ctx ast.Context, n *ast.DotCall, headExpr ast.Expr, params ast.Telescope, returnType ast.Expr) (ast.Expr, value.Value, error) {
	args, argVals, err := e.checkArgsAgainstTelescope(ctx, params, n.Args, n.Span())
	if err != nil {
		return nil, nil, err
	}
	headVal, err := e.evalInCtx(ctx, headExpr)
	if err != nil {
		return nil, nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
	}
	// returnType is closed under a context of two telescopes: params, then
	// [self] (this module's chosen resolution of the spec's ambiguity over
	// how a dtor/def's own parameter telescope nests with its self
	// parameter — see DESIGN.md).
	retEnv := value.Env{}.Extend(argVals).Extend([]value.Value{headVal})
	retVal, err := e.Eval.Eval(returnType, retEnv)
	if err != nil {
		return nil, nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
	}
	out := &ast.DotCall{Base: ast.Base{Sp: n.Span()}, Kind: n.Kind, Exp: headExpr, Name: n.Name, Args: args}
	out.SetType(value.Quote(ctx, retVal))
	return out, retVal, nil
}

// inferAnno implements spec.md §4.6's Anno row: check the ascription against
// Type, normalize it, check the inner expression against the normal form,
// and return that normal form as the ascription's own type.
func (e *Elaborator) inferAnno(ctx ast.Context, n *ast.Anno) (ast.Expr, value.Value, error) {
	typExpr, err := e.Check(ctx, n.Typ, value.VTypeUniv{})
	if err != nil {
		return nil, nil, err
	}
	typVal, err := e.evalInCtx(ctx, typExpr)
	if err != nil {
		return nil, nil, report(errors.TImpossible, n.Span(), err.Error(), nil)
	}
	normalizedType := value.Quote(ctx, typVal)
	expExpr, err := e.Check(ctx, n.Exp, typVal)
	if err != nil {
		return nil, nil, err
	}
	out := &ast.Anno{Base: ast.Base{Sp: n.Span()}, Exp: expExpr, Typ: typExpr, NormalizedType: normalizedType}
	out.SetType(normalizedType)
	return out, typVal, nil
}

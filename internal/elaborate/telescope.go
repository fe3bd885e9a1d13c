package elaborate

import (
	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/value"
)

// lowerArgs implements spec.md §4.8's argument-list lowering against a
// declared telescope: positional and named arguments are matched left to
// right against params, implicit parameters lacking a matching named
// argument get a fresh Inserted hole, and any length mismatch becomes
// TooManyArgs/MissingArgForParam. The result is one ast.Expr per parameter,
// in declaration order, ready to be checked/evaluated under a one-telescope
// frame shaped like params.
func (e *Elaborator) lowerArgs(ctx ast.Context, params ast.Telescope, args []ast.Arg, sp ast.Span) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(params))
	given := 0
	for _, b := range params {
		if given < len(args) && args[given].Name == "" {
			out = append(out, args[given].Value)
			given++
			continue
		}
		if b.Name == "" {
			// A wildcard-named parameter has no name a caller could ever
			// address; a named argument still sitting at this position
			// can never be matched, so reject it here instead of letting
			// it float unconsumed to a confusing end-of-list TooManyArgs.
			if given < len(args) {
				return nil, report(errors.TMissingArgForParam, sp, "parameter has no name and cannot take a named argument", map[string]any{"given_name": args[given].Name})
			}
			if b.Implicit {
				out = append(out, e.freshHole(ctx, ast.Inserted, sp))
				continue
			}
			return nil, report(errors.TMissingArgForParam, sp, "missing argument for an unnamed parameter", nil)
		}
		if named, idx, ok := findNamed(args, given, b.Name); ok {
			out = append(out, named.Value)
			args = removeArg(args, idx)
			continue
		}
		if b.Implicit {
			out = append(out, e.freshHole(ctx, ast.Inserted, sp))
			continue
		}
		return nil, report(errors.TMissingArgForParam, sp, "missing argument for parameter "+b.Name, map[string]any{"param": b.Name})
	}
	if given < len(args) {
		return nil, report(errors.TTooManyArgs, sp, "too many arguments given", map[string]any{"extra": len(args) - given})
	}
	return out, nil
}

func findNamed(args []ast.Arg, from int, name string) (ast.Arg, int, bool) {
	for i := from; i < len(args); i++ {
		if args[i].Name == name {
			return args[i], i, true
		}
	}
	return ast.Arg{}, -1, false
}

func removeArg(args []ast.Arg, idx int) []ast.Arg {
	out := make([]ast.Arg, 0, len(args)-1)
	out = append(out, args[:idx]...)
	out = append(out, args[idx+1:]...)
	return out
}

// checkArgsAgainstTelescope lowers args against params (spec.md §4.8), then
// checks each lowered expression in turn under a growing one-telescope
// env/context built from the telescope's own binders (spec.md §4.7): each
// parameter's declared type is evaluated under the arguments already
// checked, so later parameters can depend on earlier ones. Returns the
// elaborated Arg list (in telescope order) and the evaluated argument
// values, ready to instantiate a return type.
func (e *Elaborator) checkArgsAgainstTelescope(ctx ast.Context, params ast.Telescope, args []ast.Arg, sp ast.Span) ([]ast.Arg, []value.Value, error) {
	lowered, err := e.lowerArgs(ctx, params, args, sp)
	if err != nil {
		return nil, nil, err
	}
	elaborated := make([]ast.Expr, len(params))
	vals := make([]value.Value, len(params))
	frame := value.Env{}
	for i, b := range params {
		typVal, err := e.Eval.Eval(b.Type, frame)
		if err != nil {
			return nil, nil, report(errors.TImpossible, sp, err.Error(), nil)
		}
		checked, err := e.Check(ctx, lowered[i], typVal)
		if err != nil {
			return nil, nil, err
		}
		elaborated[i] = checked
		v, err := e.evalInCtx(ctx, checked)
		if err != nil {
			return nil, nil, report(errors.TImpossible, sp, err.Error(), nil)
		}
		vals[i] = v
		frame = value.Env{vals[:i+1]}
	}
	out := make([]ast.Arg, len(params))
	for i, b := range params {
		out[i] = ast.Arg{Name: b.Name, Implicit: b.Implicit, Value: elaborated[i]}
	}
	return out, vals, nil
}

// checkExprsAgainstTelescope is checkArgsAgainstTelescope's counterpart for
// TypCtor's bare, always-positional []ast.Expr argument list (spec.md
// §4.6's TypCtor row never mentions named/implicit args — type constructor
// applications are always fully explicit).
func (e *Elaborator) checkExprsAgainstTelescope(ctx ast.Context, params ast.Telescope, exprs []ast.Expr, sp ast.Span) ([]ast.Expr, []value.Value, error) {
	if len(exprs) != len(params) {
		return nil, nil, report(errors.TArgLenMismatch, sp, "argument count does not match declared parameters", map[string]any{"expected": len(params), "given": len(exprs)})
	}
	elaborated := make([]ast.Expr, len(params))
	vals := make([]value.Value, len(params))
	frame := value.Env{}
	for i, b := range params {
		typVal, err := e.Eval.Eval(b.Type, frame)
		if err != nil {
			return nil, nil, report(errors.TImpossible, sp, err.Error(), nil)
		}
		checked, err := e.Check(ctx, exprs[i], typVal)
		if err != nil {
			return nil, nil, err
		}
		elaborated[i] = checked
		v, err := e.evalInCtx(ctx, checked)
		if err != nil {
			return nil, nil, report(errors.TImpossible, sp, err.Error(), nil)
		}
		vals[i] = v
		frame = value.Env{vals[:i+1]}
	}
	return elaborated, vals, nil
}

// inferTelescope implements spec.md §4.7's infer_telescope: pure synthesis
// of a fresh telescope's binder types, left to right, each checked in Type
// under the prefix already pushed.
func (e *Elaborator) inferTelescope(ctx ast.Context, decl ast.Telescope) (ast.Context, ast.Telescope, error) {
	out := make(ast.Telescope, len(decl))
	next := ctx.PushTelescope()
	for i, b := range decl {
		typExpr, err := e.Check(next, b.Type, value.VTypeUniv{})
		if err != nil {
			return ctx, nil, err
		}
		out[i] = ast.Binder{Name: b.Name, Type: typExpr, Implicit: b.Implicit}
		next = next.PushBinder(out[i])
	}
	return next, out, nil
}

// checkTelescope implements spec.md §4.7's check_telescope: a (co)pattern's
// parameter names are checked against a declared telescope's types,
// emitting ArgLenMismatch on a length disagreement.
func (e *Elaborator) checkTelescope(ctx ast.Context, declared ast.Telescope, pattern ast.Telescope, sp ast.Span) (ast.Context, ast.Telescope, error) {
	if len(declared) != len(pattern) {
		return ctx, nil, report(errors.TArgLenMismatch, sp, "pattern parameter count does not match declared telescope", map[string]any{"expected": len(declared), "given": len(pattern)})
	}
	out := make(ast.Telescope, len(declared))
	next := ctx.PushTelescope()
	fst := next.Len() - 1
	row := make([]value.Value, 0, len(declared))
	for i, d := range declared {
		typVal, err := e.Eval.Eval(d.Type, value.Env{row})
		if err != nil {
			return ctx, nil, report(errors.TImpossible, sp, err.Error(), nil)
		}
		typExpr := value.Quote(next, typVal)
		name := pattern[i].Name
		out[i] = ast.Binder{Name: name, Type: typExpr, Implicit: d.Implicit}
		next = next.PushBinder(out[i])
		row = append(row, value.Neutral{Head: ast.Lvl{Fst: fst, Snd: i}})
	}
	return next, out, nil
}

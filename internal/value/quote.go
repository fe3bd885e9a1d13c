package value

import "github.com/duotype/duo/internal/ast"

// Quote reads a value back into a term valid under ctx (spec.md §4.3 design
// note: "readback is not a separate phase" for *comparison*, but the
// elaborator still needs it to record a normalized form on Anno.
// NormalizedType and LocalMatch/LocalComatch's snapshot type, spec.md §6.2).
func Quote(ctx ast.Context, v Value) ast.Expr {
	switch x := v.(type) {
	case VTypeUniv:
		return &ast.TypeUniv{}
	case VTypCtor:
		return &ast.TypCtor{Name: x.Name, Args: quoteAll(ctx, x.Args)}
	case VCall:
		return &ast.Call{Kind: x.Kind, Name: x.Name, Args: quoteAsArgs(ctx, x.Args)}
	case VComatch:
		cases := make([]ast.Cocase, len(x.Cases))
		copy(cases, x.Cases)
		return &ast.LocalComatch{Cases: cases}
	case Neutral:
		return quoteNeutral(ctx, x)
	case VHole:
		rows := make([][]ast.Expr, len(x.Args))
		for i, row := range x.Args {
			rows[i] = quoteAll(ctx, row)
		}
		return &ast.Hole{Kind: ast.Inserted, MetaVar: x.MetaVar, Args: rows}
	default:
		panic("value: internal error: Quote: unhandled value kind")
	}
}

func quoteNeutral(ctx ast.Context, n Neutral) ast.Expr {
	var head ast.Expr = &ast.Variable{Idx: ctx.LvlToIdx(n.Head)}
	for _, el := range n.Spine {
		switch e := el.(type) {
		case ElimDotCall:
			head = &ast.DotCall{Kind: e.Kind, Exp: head, Name: e.Name, Args: quoteAsArgs(ctx, e.Args)}
		case ElimMatch:
			head = &ast.LocalMatch{Scrutinee: head, Motive: e.Motive, Cases: e.Cases, ReturnType: e.ReturnType}
		}
	}
	return head
}

func quoteAll(ctx ast.Context, vs []Value) []ast.Expr {
	out := make([]ast.Expr, len(vs))
	for i, v := range vs {
		out[i] = Quote(ctx, v)
	}
	return out
}

func quoteAsArgs(ctx ast.Context, vs []Value) []ast.Arg {
	out := make([]ast.Arg, len(vs))
	for i, v := range vs {
		out[i] = ast.Arg{Value: Quote(ctx, v)}
	}
	return out
}

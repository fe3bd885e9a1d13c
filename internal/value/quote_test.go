package value

import (
	"testing"

	"github.com/duotype/duo/internal/ast"
)

func TestQuoteCanonicalCtor(t *testing.T) {
	ev := newEval(natData())
	one := &ast.Call{Kind: ast.CallCtor, Name: "S", Args: []ast.Arg{{Value: &ast.Call{Kind: ast.CallCtor, Name: "Z"}}}}
	v, err := ev.Eval(one, Env{})
	if err != nil {
		t.Fatal(err)
	}
	back := Quote(ast.Context{}, v)
	c, ok := back.(*ast.Call)
	if !ok || c.Name != "S" {
		t.Fatalf("expected quoted S(...), got %v", back)
	}
	innerCall, ok := c.Args[0].Value.(*ast.Call)
	if !ok || innerCall.Name != "Z" {
		t.Fatalf("expected quoted inner Z, got %v", c.Args[0].Value)
	}
}

func TestQuoteNeutralPreservesSpine(t *testing.T) {
	ctx := ast.Context{}.PushTelescope().PushBinder(ast.Binder{Name: "x", Type: &ast.TypCtor{Name: "Nat"}})
	n := Neutral{
		Head:  ast.Lvl{Fst: 0, Snd: 0},
		Spine: []Elim{ElimDotCall{Kind: ast.DotDtor, Name: "head", Args: nil}},
	}
	back := Quote(ctx, n)
	dc, ok := back.(*ast.DotCall)
	if !ok || dc.Name != "head" {
		t.Fatalf("expected quoted .head() dotcall, got %v", back)
	}
	v, ok := dc.Exp.(*ast.Variable)
	if !ok {
		t.Fatalf("expected variable head under dotcall, got %T", dc.Exp)
	}
	gotLvl := ctx.IdxToLvl(v.Idx)
	if gotLvl != n.Head {
		t.Fatalf("quoted neutral head: got level %v, want %v", gotLvl, n.Head)
	}
}

func TestEvalThenQuoteRoundTripsOnNeutral(t *testing.T) {
	ev := newEval(boolData())
	ctx := ast.Context{}.PushTelescope().PushBinder(ast.Binder{Name: "x", Type: &ast.TypCtor{Name: "Bool"}})
	env := NeutralEnv(ctx)
	varX := &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "x"}
	v, err := ev.Eval(varX, env)
	if err != nil {
		t.Fatal(err)
	}
	back := Quote(ctx, v)
	bv, ok := back.(*ast.Variable)
	if !ok || bv.Idx != varX.Idx {
		t.Fatalf("round trip failed: got %v, want %v", back, varX)
	}
}

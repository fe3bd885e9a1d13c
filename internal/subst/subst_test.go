package subst

import (
	"testing"

	"github.com/duotype/duo/internal/ast"
)

// ctx with two telescopes: [a], [b]; level (0,0) is a, level (1,0) is b.
func twoBinderCtx() ast.Context {
	c := ast.Context{}
	c = c.PushTelescope().PushBinder(ast.Binder{Name: "a"})
	c = c.PushTelescope().PushBinder(ast.Binder{Name: "b"})
	return c
}

func TestSingleSubstitutesTargetedVariable(t *testing.T) {
	ctx := twoBinderCtx()
	// idx (1,0) under ctx refers to level (0,0), i.e. "a".
	idxA := ctx.LvlToIdx(ast.Lvl{Fst: 0, Snd: 0})
	e := &ast.Variable{Idx: idxA, Name: "a"}

	replacement := &ast.TypCtor{Name: "Nat"}
	s := Single{At: ast.Lvl{Fst: 0, Snd: 0}, Term: replacement}

	out := Subst(ctx, e, s)
	tc, ok := out.(*ast.TypCtor)
	if !ok || tc.Name != "Nat" {
		t.Fatalf("expected substitution to replace variable with Nat, got %v", out)
	}
}

func TestSubstLeavesOtherVariablesAlone(t *testing.T) {
	ctx := twoBinderCtx()
	idxB := ctx.LvlToIdx(ast.Lvl{Fst: 1, Snd: 0})
	e := &ast.Variable{Idx: idxB, Name: "b"}

	s := Single{At: ast.Lvl{Fst: 0, Snd: 0}, Term: &ast.TypCtor{Name: "Nat"}}
	out := Subst(ctx, e, s)
	v, ok := out.(*ast.Variable)
	if !ok || v.Idx != idxB {
		t.Fatalf("expected variable b untouched, got %v", out)
	}
}

func TestSubstRecursesIntoTypCtorArgs(t *testing.T) {
	ctx := twoBinderCtx()
	idxA := ctx.LvlToIdx(ast.Lvl{Fst: 0, Snd: 0})
	e := &ast.TypCtor{Name: "List", Args: []ast.Expr{&ast.Variable{Idx: idxA, Name: "a"}}}

	s := Single{At: ast.Lvl{Fst: 0, Snd: 0}, Term: &ast.TypCtor{Name: "Nat"}}
	out := Subst(ctx, e, s).(*ast.TypCtor)
	inner, ok := out.Args[0].(*ast.TypCtor)
	if !ok || inner.Name != "Nat" {
		t.Fatalf("expected recursive substitution into args, got %v", out.Args[0])
	}
}

func TestSubstClearsInferredType(t *testing.T) {
	ctx := twoBinderCtx()
	idxA := ctx.LvlToIdx(ast.Lvl{Fst: 0, Snd: 0})
	e := &ast.Variable{Base: ast.Base{Typ: &ast.TypeUniv{}}, Idx: idxA, Name: "a"}
	out := Subst(ctx, e, Single{At: ast.Lvl{Fst: 99, Snd: 0}, Term: &ast.TypeUniv{}})
	if out.InferredType() != nil {
		t.Fatalf("expected Subst to clear inferred type, got %v", out.InferredType())
	}
}

func TestIdentitySwapSwapsTelescopes(t *testing.T) {
	ctx := twoBinderCtx()
	idxA := ctx.LvlToIdx(ast.Lvl{Fst: 0, Snd: 0})
	e := &ast.Variable{Idx: idxA, Name: "a"}

	s := IdentitySwap{Fst1: 0, Fst2: 1}
	out := Subst(ctx, e, s).(*ast.Variable)
	// "a" (level (0,0)) should now be rewritten to refer to level (1,0),
	// i.e. the idx computed for "b"'s position.
	wantIdx := ctx.LvlToIdx(ast.Lvl{Fst: 1, Snd: 0})
	if out.Idx != wantIdx {
		t.Fatalf("IdentitySwap: got idx %v, want %v", out.Idx, wantIdx)
	}
}

func TestChainTriesInOrder(t *testing.T) {
	ctx := twoBinderCtx()
	idxA := ctx.LvlToIdx(ast.Lvl{Fst: 0, Snd: 0})
	e := &ast.Variable{Idx: idxA, Name: "a"}

	first := Single{At: ast.Lvl{Fst: 0, Snd: 0}, Term: &ast.TypCtor{Name: "First"}}
	second := Single{At: ast.Lvl{Fst: 0, Snd: 0}, Term: &ast.TypCtor{Name: "Second"}}
	out := Subst(ctx, e, Chain{first, second}).(*ast.TypCtor)
	if out.Name != "First" {
		t.Fatalf("expected Chain to use first match, got %s", out.Name)
	}
}

package unify

import (
	"testing"

	"github.com/duotype/duo/internal/ast"
)

// varAt builds a Variable referring to the single binder at the given depth
// from the end of a one-telescope-per-binder context, the shape every test
// here uses.
func varAt(idx0 int) *ast.Variable {
	return &ast.Variable{Idx: ast.Idx{Fst: idx0, Snd: 0}}
}

func oneVarPerTelescopeCtx(n int) ast.Context {
	ctx := ast.Context{}
	for i := 0; i < n; i++ {
		ctx = ctx.PushTelescope().PushBinder(ast.Binder{Name: "x", Type: &ast.TypeUniv{}})
	}
	return ctx
}

func TestUnifyReflexivity(t *testing.T) {
	ctx := oneVarPerTelescopeCtx(1)
	res, err := Unify(ctx, []Equation{{Lhs: varAt(0), Rhs: varAt(0)}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok {
		t.Fatalf("expected Yes, got No")
	}
}

func TestUnifyVariableAssignment(t *testing.T) {
	// ctx: x : Type, y : Type — unify x ≟ Nat() should assign x.
	ctx := oneVarPerTelescopeCtx(1)
	rhs := &ast.TypCtor{Name: "Nat"}
	res, err := Unify(ctx, []Equation{{Lhs: varAt(0), Rhs: rhs}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok {
		t.Fatalf("expected Yes")
	}
	if len(res.Unifier) != 1 {
		t.Fatalf("expected exactly one assignment, got %d", len(res.Unifier))
	}
}

func TestUnifySameHeadDecomposes(t *testing.T) {
	ctx := oneVarPerTelescopeCtx(1)
	lhs := &ast.TypCtor{Name: "Pair", Args: []ast.Expr{varAt(0), &ast.TypCtor{Name: "Nat"}}}
	rhs := &ast.TypCtor{Name: "Pair", Args: []ast.Expr{&ast.TypCtor{Name: "Bool"}, &ast.TypCtor{Name: "Nat"}}}
	res, err := Unify(ctx, []Equation{{Lhs: lhs, Rhs: rhs}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok {
		t.Fatalf("expected Yes")
	}
}

func TestUnifyDifferentHeadsFail(t *testing.T) {
	ctx := ast.Context{}
	lhs := &ast.TypCtor{Name: "Nat"}
	rhs := &ast.TypCtor{Name: "Bool"}
	res, err := Unify(ctx, []Equation{{Lhs: lhs, Rhs: rhs}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ok {
		t.Fatalf("expected No for mismatched constructor heads")
	}
}

func TestUnifyOccursCheckFails(t *testing.T) {
	ctx := oneVarPerTelescopeCtx(1)
	lhs := varAt(0)
	rhs := &ast.TypCtor{Name: "List", Args: []ast.Expr{varAt(0)}}
	_, err := Unify(ctx, []Equation{{Lhs: lhs, Rhs: rhs}})
	if err == nil {
		t.Fatalf("expected an occurs-check error")
	}
}

func TestUnifyAnnotationIsUndecidable(t *testing.T) {
	ctx := ast.Context{}
	lhs := &ast.Anno{Exp: &ast.TypCtor{Name: "Nat"}, Typ: &ast.TypeUniv{}}
	rhs := &ast.TypCtor{Name: "Nat"}
	_, err := Unify(ctx, []Equation{{Lhs: lhs, Rhs: rhs}})
	uerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if uerr.Reason != ReasonUnsupportedAnnotation {
		t.Fatalf("expected %s, got %s", ReasonUnsupportedAnnotation, uerr.Reason)
	}
}

func TestUnifyComatchZipsByLabel(t *testing.T) {
	ctx := ast.Context{}
	lhs := &ast.LocalComatch{Cases: []ast.Cocase{
		{DtorName: "head", Body: &ast.TypCtor{Name: "Nat"}},
		{DtorName: "tail", Body: &ast.TypCtor{Name: "Nil"}},
	}}
	rhs := &ast.LocalComatch{Cases: []ast.Cocase{
		{DtorName: "tail", Body: &ast.TypCtor{Name: "Nil"}},
		{DtorName: "head", Body: &ast.TypCtor{Name: "Nat"}},
	}}
	res, err := Unify(ctx, []Equation{{Lhs: lhs, Rhs: rhs}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Ok {
		t.Fatalf("expected Yes for matching labels in different order")
	}
}

func TestUnifyCannotDecideOnMixedForms(t *testing.T) {
	ctx := ast.Context{}
	lhs := &ast.Call{Kind: ast.CallCtor, Name: "zero"}
	rhs := &ast.TypCtor{Name: "Nat"}
	_, err := Unify(ctx, []Equation{{Lhs: lhs, Rhs: rhs}})
	uerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if uerr.Reason != ReasonCannotDecide {
		t.Fatalf("expected %s, got %s", ReasonCannotDecide, uerr.Reason)
	}
}

package elaborate

import (
	"testing"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/value"
)

// n.match { Z => F, S(_) => T } checked against Bool, no motive.
func TestCheckLocalMatchSimpleCoverage(t *testing.T) {
	e := newElab(boolData(), natData())
	ctx := ast.Context{}.PushTelescope().PushBinder(ast.Binder{Name: "n", Type: &ast.TypCtor{Name: "Nat"}})
	scrutinee := &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "n"}
	match := &ast.LocalMatch{
		Scrutinee: scrutinee,
		Cases: []ast.Case{
			{CtorName: "Z", Body: &ast.Call{Kind: ast.CallCtor, Name: "F"}},
			{CtorName: "S", Params: ast.Telescope{{Name: "_", Type: &ast.TypCtor{Name: "Nat"}}},
				Body: &ast.Call{Kind: ast.CallCtor, Name: "T"}},
		},
	}
	out, err := e.checkLocalMatch(ctx, match, value.VTypCtor{Name: "Bool"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lm := out.(*ast.LocalMatch)
	if len(lm.Cases) != 2 {
		t.Fatalf("expected 2 checked cases, got %d", len(lm.Cases))
	}
}

// Matching on a codata-typed scrutinee is rejected outright.
func TestCheckLocalMatchOnCodataScrutineeFails(t *testing.T) {
	e := newElab(natData(), funCodata())
	ctx := ast.Context{}.PushTelescope().PushBinder(ast.Binder{Name: "f", Type: &ast.TypCtor{Name: "Fun"}})
	scrutinee := &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "f"}
	match := &ast.LocalMatch{Scrutinee: scrutinee, Cases: nil}
	_, err := e.checkLocalMatch(ctx, match, value.VTypCtor{Name: "Nat"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := reportCode(t, err); code != errors.TMatchOnCodata {
		t.Fatalf("expected %s, got %s", errors.TMatchOnCodata, code)
	}
}

// A motive (s : Nat). Bool refines every case's expected type through the
// motive rather than the match's own ReturnType field.
func TestCheckLocalMatchWithMotive(t *testing.T) {
	e := newElab(boolData(), natData())
	ctx := ast.Context{}.PushTelescope().PushBinder(ast.Binder{Name: "n", Type: &ast.TypCtor{Name: "Nat"}})
	scrutinee := &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "n"}
	match := &ast.LocalMatch{
		Scrutinee: scrutinee,
		Motive:    &ast.Motive{SelfName: "s", SelfType: &ast.TypCtor{Name: "Nat"}, Body: &ast.TypCtor{Name: "Bool"}},
		Cases: []ast.Case{
			{CtorName: "Z", Body: &ast.Call{Kind: ast.CallCtor, Name: "F"}},
			{CtorName: "S", Params: ast.Telescope{{Name: "_", Type: &ast.TypCtor{Name: "Nat"}}},
				Body: &ast.Call{Kind: ast.CallCtor, Name: "T"}},
		},
	}
	out, err := e.checkLocalMatch(ctx, match, value.VTypCtor{Name: "Bool"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lm := out.(*ast.LocalMatch)
	if lm.Motive == nil {
		t.Fatal("expected the checked match to retain its motive")
	}
}

// A lambda-style comatch against Fun's single, trivial-self destructor.
func TestCheckLocalComatchTrivialSelf(t *testing.T) {
	e := newElab(natData(), funCodata())
	comatch := &ast.LocalComatch{
		Cases: []ast.Cocase{
			{DtorName: "ap", Params: ast.Telescope{{Name: "x", Type: &ast.TypCtor{Name: "Nat"}}},
				Body: &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "x"}},
		},
		IsLambdaSugar: true,
	}
	out, err := e.checkLocalComatch(ast.Context{}, comatch, value.VTypCtor{Name: "Fun"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lc := out.(*ast.LocalComatch)
	if len(lc.Cases) != 1 || lc.Cases[0].DtorName != "ap" {
		t.Fatalf("expected one checked ap case, got %v", lc.Cases)
	}
}

// data Void {}; e.match {} on an e : Void elaborates with zero cases and
// zero missing constructors (spec.md §8.2 scenario 3).
func TestCheckLocalMatchOnVoidAcceptsZeroCases(t *testing.T) {
	voidData := &ast.Data{NameStr: "Void"}
	e := newElab(boolData(), voidData)
	ctx := ast.Context{}.PushTelescope().PushBinder(ast.Binder{Name: "v", Type: &ast.TypCtor{Name: "Void"}})
	scrutinee := &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "v"}
	match := &ast.LocalMatch{Scrutinee: scrutinee, Cases: nil}
	out, err := e.checkLocalMatch(ctx, match, value.VTypCtor{Name: "Bool"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lm := out.(*ast.LocalMatch)
	if len(lm.Cases) != 0 {
		t.Fatalf("expected zero checked cases, got %d", len(lm.Cases))
	}
}

// A codata whose destructor has a non-trivial self parameter cannot be
// produced by a LocalComatch at all — a top-level codef is required.
func TestCheckLocalComatchRejectsNonTrivialSelf(t *testing.T) {
	nonTrivial := &ast.Codata{
		NameStr: "Box",
		Dtors: []ast.DtorSig{
			{
				Name:       "get",
				SelfParam:  ast.Binder{Name: "self", Type: &ast.TypCtor{Name: "Box", Args: []ast.Expr{nil}}},
				ReturnType: &ast.TypCtor{Name: "Nat"},
			},
		},
	}
	e := newElab(natData(), nonTrivial)
	comatch := &ast.LocalComatch{Cases: nil}
	_, err := e.checkLocalComatch(ast.Context{}, comatch, value.VTypCtor{Name: "Box"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := reportCode(t, err); code != errors.TLocalComatchWithSelf {
		t.Fatalf("expected %s, got %s", errors.TLocalComatchWithSelf, code)
	}
}

package ast

import "testing"

func v(fst, snd int) *Variable { return &Variable{Idx: Idx{Fst: fst, Snd: snd}} }

func TestShiftZeroIsIdentity(t *testing.T) {
	e := v(2, 1)
	shifted := ShiftExpr(e, Shift{Lo: 0, Hi: maxTelescopes, DFst: 0, DSnd: 0}, 0).(*Variable)
	if shifted.Idx != e.Idx {
		t.Fatalf("shift by (0,0) changed index: got %v, want %v", shifted.Idx, e.Idx)
	}
}

func TestShiftTelescopeThenInverse(t *testing.T) {
	e := v(2, 1)
	up := ShiftExpr(e, ShiftTelescope(3), 0).(*Variable)
	if up.Idx != (Idx{Fst: 5, Snd: 1}) {
		t.Fatalf("shift up: got %v", up.Idx)
	}
	down := ShiftExpr(up, ShiftTelescope(-3), 0).(*Variable)
	if down.Idx != e.Idx {
		t.Fatalf("shift up then down should be identity: got %v, want %v", down.Idx, e.Idx)
	}
}

func TestShiftBoundVariableUntouched(t *testing.T) {
	// A variable whose Fst is below the recursion depth refers to a binder
	// introduced during the descent itself and must never be shifted
	// (spec.md §4.1).
	e := v(0, 0)
	shifted := ShiftExpr(e, ShiftTelescope(5), 1).(*Variable)
	if shifted.Idx != e.Idx {
		t.Fatalf("bound variable was shifted: got %v, want %v", shifted.Idx, e.Idx)
	}
}

func TestShiftBinderOnlyAtBoundary(t *testing.T) {
	// ShiftBinder only ever touches Snd at the Lo boundary (rel == 0); a
	// variable from an outer telescope (rel >= Hi) is untouched.
	inner := v(0, 2)
	shiftedInner := ShiftExpr(inner, ShiftBinder(1), 0).(*Variable)
	if shiftedInner.Idx != (Idx{Fst: 0, Snd: 3}) {
		t.Fatalf("innermost telescope variable: got %v", shiftedInner.Idx)
	}

	outer := v(1, 2)
	shiftedOuter := ShiftExpr(outer, ShiftBinder(1), 0).(*Variable)
	if shiftedOuter.Idx != outer.Idx {
		t.Fatalf("outer telescope variable should be untouched: got %v, want %v", shiftedOuter.Idx, outer.Idx)
	}
}

func TestShiftClearsInferredType(t *testing.T) {
	e := &Variable{Base: Base{Typ: &TypeUniv{}}, Idx: Idx{Fst: 0, Snd: 0}}
	shifted := ShiftExpr(e, ShiftTelescope(1), 0)
	if shifted.InferredType() != nil {
		t.Fatalf("shift should clear cached inferred type, got %v", shifted.InferredType())
	}
}

func TestShiftTypCtorRecursesIntoArgs(t *testing.T) {
	e := &TypCtor{Name: "List", Args: []Expr{v(0, 0), v(1, 0)}}
	shifted := ShiftExpr(e, ShiftTelescope(2), 0).(*TypCtor)
	want := []Idx{{Fst: 2, Snd: 0}, {Fst: 3, Snd: 0}}
	for i, a := range shifted.Args {
		if a.(*Variable).Idx != want[i] {
			t.Fatalf("arg %d: got %v, want %v", i, a.(*Variable).Idx, want[i])
		}
	}
}

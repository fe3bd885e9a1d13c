package meta

import (
	"testing"

	"github.com/duotype/duo/internal/ast"
)

func TestFreshAllocatesMonotonicIds(t *testing.T) {
	s := NewStore()
	a := s.Fresh(ast.Context{}, ast.MustSolve)
	b := s.Fresh(ast.Context{}, ast.CanSolve)
	if b <= a {
		t.Fatalf("expected monotonic ids, got a=%d b=%d", a, b)
	}
}

func TestSolveThenSolveAgainFails(t *testing.T) {
	s := NewStore()
	id := s.Fresh(ast.Context{}, ast.MustSolve)
	if err := s.Solve(id, &ast.TypeUniv{}); err != nil {
		t.Fatal(err)
	}
	if err := s.Solve(id, &ast.TypeUniv{}); err == nil {
		t.Fatal("expected solving an already-solved metavariable to fail")
	}
}

func TestUnsolvedIsSortedByCreationOrder(t *testing.T) {
	s := NewStore()
	ids := make([]Id, 5)
	for i := range ids {
		ids[i] = s.Fresh(ast.Context{}, ast.CanSolve)
	}
	// Solve the middle one; the rest remain, still creation-ordered.
	if err := s.Solve(ids[2], &ast.TypeUniv{}); err != nil {
		t.Fatal(err)
	}
	got := s.Unsolved()
	want := []Id{ids[0], ids[1], ids[3], ids[4]}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Unsolved not in creation order: got %v want %v", got, want)
		}
	}
}

func TestOccursSimple(t *testing.T) {
	s := NewStore()
	id := s.Fresh(ast.Context{}, ast.MustSolve)
	self := &ast.Hole{Kind: ast.MustSolve, MetaVar: uint64(id)}
	if !s.Occurs(id, self) {
		t.Fatal("expected m to occur in itself")
	}
	other := s.Fresh(ast.Context{}, ast.MustSolve)
	if s.Occurs(other, &ast.TypeUniv{}) {
		t.Fatal("expected no occurrence in an unrelated term")
	}
}

func TestOccursThroughSolvedIndirection(t *testing.T) {
	s := NewStore()
	inner := s.Fresh(ast.Context{}, ast.MustSolve)
	outer := s.Fresh(ast.Context{}, ast.MustSolve)
	// outer := TypCtor("Wrap", [?inner])
	wrapped := &ast.TypCtor{Name: "Wrap", Args: []ast.Expr{&ast.Hole{Kind: ast.MustSolve, MetaVar: uint64(inner)}}}
	if err := s.Solve(outer, wrapped); err != nil {
		t.Fatal(err)
	}
	// Now check whether `inner` occurs in a reference to `outer`.
	ref := &ast.Hole{Kind: ast.MustSolve, MetaVar: uint64(outer)}
	if !s.Occurs(inner, ref) {
		t.Fatal("expected occurs check to see through a solved indirection")
	}
}

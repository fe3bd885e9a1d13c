package value

import (
	"testing"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/module"
)

func boolData() *ast.Data {
	return &ast.Data{
		NameStr: "Bool",
		Ctors: []ast.CtorSig{
			{Name: "T", ReturnType: &ast.TypCtor{Name: "Bool"}},
			{Name: "F", ReturnType: &ast.TypCtor{Name: "Bool"}},
		},
	}
}

func natData() *ast.Data {
	return &ast.Data{
		NameStr: "Nat",
		Ctors: []ast.CtorSig{
			{Name: "Z", ReturnType: &ast.TypCtor{Name: "Nat"}},
			{Name: "S", Params: ast.Telescope{{Name: "pred", Type: &ast.TypCtor{Name: "Nat"}}}, ReturnType: &ast.TypCtor{Name: "Nat"}},
		},
	}
}

func newEval(decls ...ast.Decl) *Evaluator {
	prog := module.NewProgram("test", decls, module.SymbolTable{})
	return NewEvaluator(prog, meta.NewStore())
}

// spec.md §8.2 scenario 1: `data Bool { T, F }; let main: Bool { T }`.
func TestEvalMinimalDataCtor(t *testing.T) {
	ev := newEval(boolData())
	v, err := ev.Eval(&ast.Call{Kind: ast.CallCtor, Name: "T"}, Env{})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(VCall)
	if !ok || c.Name != "T" || len(c.Args) != 0 {
		t.Fatalf("expected VCall{T}, got %v", v)
	}
}

func TestEvalNestedCtor(t *testing.T) {
	ev := newEval(natData())
	// S(Z)
	zero := &ast.Call{Kind: ast.CallCtor, Name: "Z"}
	one := &ast.Call{Kind: ast.CallCtor, Name: "S", Args: []ast.Arg{{Value: zero}}}
	v, err := ev.Eval(one, Env{})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(VCall)
	if !ok || c.Name != "S" || len(c.Args) != 1 {
		t.Fatalf("expected S(Z), got %v", v)
	}
	inner, ok := c.Args[0].(VCall)
	if !ok || inner.Name != "Z" {
		t.Fatalf("expected inner Z, got %v", c.Args[0])
	}
}

func TestEvalDefDotCallSelectsMatchingCase(t *testing.T) {
	// def pred(n: Nat): Nat { Z => Z, S(m) => m }
	def := &ast.Def{
		NameStr: "pred",
		SelfParam: ast.Binder{Name: "n", Type: &ast.TypCtor{Name: "Nat"}},
		ReturnType: &ast.TypCtor{Name: "Nat"},
		Cases: []ast.Case{
			{CtorName: "Z", Body: &ast.Call{Kind: ast.CallCtor, Name: "Z"}},
			{CtorName: "S", Params: ast.Telescope{{Name: "m", Type: &ast.TypCtor{Name: "Nat"}}},
				Body: &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "m"}},
		},
	}
	ev := newEval(natData(), def)

	two := &ast.Call{Kind: ast.CallCtor, Name: "S", Args: []ast.Arg{{Value: &ast.Call{Kind: ast.CallCtor, Name: "S", Args: []ast.Arg{{Value: &ast.Call{Kind: ast.CallCtor, Name: "Z"}}}}}}}
	call := &ast.DotCall{Kind: ast.DotDef, Exp: two, Name: "pred"}
	v, err := ev.Eval(call, Env{})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := v.(VCall)
	if !ok || c.Name != "S" {
		t.Fatalf("pred(2) should reduce to S(Z) (i.e. 1), got %v", v)
	}
}

func TestEvalLocalMatchOnNeutralIsStuck(t *testing.T) {
	ev := newEval(boolData())
	scrutineeVar := &ast.Variable{Idx: ast.Idx{Fst: 0, Snd: 0}, Name: "x"}
	match := &ast.LocalMatch{
		Scrutinee: scrutineeVar,
		Cases: []ast.Case{
			{CtorName: "T", Body: &ast.Call{Kind: ast.CallCtor, Name: "F"}},
			{CtorName: "F", Body: &ast.Call{Kind: ast.CallCtor, Name: "T"}},
		},
	}
	env := Env{{Neutral{Head: ast.Lvl{Fst: 0, Snd: 0}}}}
	v, err := ev.Eval(match, env)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := v.(Neutral)
	if !ok || len(n.Spine) != 1 {
		t.Fatalf("expected a stuck neutral carrying the match frame, got %v", v)
	}
	if _, ok := n.Spine[0].(ElimMatch); !ok {
		t.Fatalf("expected ElimMatch frame, got %T", n.Spine[0])
	}
}

func TestEvalMatchOnAbsurdCasePanicsAsInternalError(t *testing.T) {
	ev := newEval(boolData())
	match := &ast.LocalMatch{
		Scrutinee: &ast.Call{Kind: ast.CallCtor, Name: "T"},
		Cases: []ast.Case{
			{CtorName: "T", Absurd: true},
			{CtorName: "F", Body: &ast.Call{Kind: ast.CallCtor, Name: "T"}},
		},
	}
	_, err := ev.Eval(match, Env{})
	if err == nil {
		t.Fatal("expected MissingCaseError for an absurd case actually reached at runtime")
	}
	if _, ok := err.(*MissingCaseError); !ok {
		t.Fatalf("expected *MissingCaseError, got %T: %v", err, err)
	}
}

func TestEvalHoleWithSolutionEvaluatesSolution(t *testing.T) {
	ev := newEval(boolData())
	id := ev.Store.Fresh(ast.Context{}, ast.MustSolve)
	if err := ev.Store.Solve(id, &ast.Call{Kind: ast.CallCtor, Name: "T"}); err != nil {
		t.Fatal(err)
	}
	hole := &ast.Hole{Kind: ast.MustSolve, MetaVar: uint64(id)}
	v, err := ev.Eval(hole, Env{})
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := v.(VCall); !ok || c.Name != "T" {
		t.Fatalf("expected solved hole to evaluate to T, got %v", v)
	}
}

func TestEvalUnsolvedHoleIsVHole(t *testing.T) {
	ev := newEval(boolData())
	id := ev.Store.Fresh(ast.Context{}, ast.CanSolve)
	hole := &ast.Hole{Kind: ast.CanSolve, MetaVar: uint64(id)}
	v, err := ev.Eval(hole, Env{})
	if err != nil {
		t.Fatal(err)
	}
	vh, ok := v.(VHole)
	if !ok || vh.MetaVar != uint64(id) {
		t.Fatalf("expected VHole, got %v", v)
	}
}

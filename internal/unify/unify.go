// Package unify implements the first-order index unifier used by coverage
// reasoning (spec.md §4.4): given a set of term equations over a fixed
// level context, it decides whether some substitution makes every left side
// syntactically equal to its right side, proves the equations inconsistent
// (absurd), or gives up as undecidable.
//
// This shares its work-list skeleton with internal/convert, but treats every
// variable as flexible — here, unification derives absurdity for coverage,
// where convert's pattern unifier only ever solves metavariables and leaves
// ordinary variables rigid (spec.md §9).
package unify

import (
	"fmt"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/subst"
)

// Equation is one `lhs ≟ rhs` constraint over terms closed in a fixed
// context.
type Equation struct {
	Lhs, Rhs ast.Expr
}

// Result is the outcome of a successful run: Ok reports Yes (true, with
// Unifier the resulting triangular substitution) or No (false, meaning the
// equations are inconsistent — absurd in a coverage context).
type Result struct {
	Ok      bool
	Unifier subst.Chain
}

// Reason names why an equation set could not be decided (spec.md §4.4's
// `Err` outcome).
type Reason string

const (
	ReasonUnsupportedAnnotation Reason = "unsupported_annotation"
	ReasonCannotDecide          Reason = "cannot_decide"
	ReasonOccursCheckFailed     Reason = "occurs_check_failed"
)

// Error is returned when the algorithm cannot decide an equation.
type Error struct {
	Reason Reason
	Lhs, Rhs ast.Expr
}

func (e *Error) Error() string {
	return fmt.Sprintf("duo: index unifier: %s: %s ≟ %s", e.Reason, e.Lhs, e.Rhs)
}

// Unify runs the work-list algorithm of spec.md §4.4 over ctx, eqs.
func Unify(ctx ast.Context, eqs []Equation) (Result, error) {
	var unifier subst.Chain
	queue := append([]Equation{}, eqs...)

	for len(queue) > 0 {
		eq := queue[0]
		queue = queue[1:]

		lhs := subst.Subst(ctx, eq.Lhs, unifier)
		rhs := subst.Subst(ctx, eq.Rhs, unifier)

		more, assign, ok, err := step(ctx, lhs, rhs)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Ok: false}, nil
		}
		if assign != nil {
			// Every later equation must see this assignment too, so fold it
			// into the accumulated unifier before continuing (spec.md §4.4:
			// "each assignment substitutes into the accumulated unifier
			// before insertion to keep it in a triangular form").
			unifier = append(unifier, *assign)
		}
		queue = append(queue, more...)
	}
	return Result{Ok: true, Unifier: unifier}, nil
}

// step applies one round of rules (spec.md §4.4, tried in order) to a single
// equation, already normalized against the unifier accumulated so far.
func step(ctx ast.Context, lhs, rhs ast.Expr) (more []Equation, assign *subst.Single, ok bool, err error) {
	// Rule 1: syntactically identical already.
	if exprEqual(lhs, rhs) {
		return nil, nil, true, nil
	}

	// Rule 2: a bare variable on either side is assigned, with occurs check.
	if lv, isVar := lhs.(*ast.Variable); isVar {
		return assignVariable(ctx, lv, rhs)
	}
	if rv, isVar := rhs.(*ast.Variable); isVar {
		return assignVariable(ctx, rv, lhs)
	}

	// Rule 5: annotations are undecidable for this algorithm.
	if _, isAnno := lhs.(*ast.Anno); isAnno {
		return nil, nil, false, &Error{Reason: ReasonUnsupportedAnnotation, Lhs: lhs, Rhs: rhs}
	}
	if _, isAnno := rhs.(*ast.Anno); isAnno {
		return nil, nil, false, &Error{Reason: ReasonUnsupportedAnnotation, Lhs: lhs, Rhs: rhs}
	}

	// Rule 3/4: same-head decomposition, or different heads fail. A right
	// side of a different node kind falls through to rule 7.
	switch l := lhs.(type) {
	case *ast.TypCtor:
		r, same := rhs.(*ast.TypCtor)
		if !same {
			break
		}
		if l.Name != r.Name || len(l.Args) != len(r.Args) {
			return nil, nil, false, nil
		}
		return zipExprs(l.Args, r.Args), nil, true, nil

	case *ast.Call:
		r, same := rhs.(*ast.Call)
		if !same {
			break
		}
		if l.Kind != r.Kind || l.Name != r.Name || len(l.Args) != len(r.Args) {
			return nil, nil, false, nil
		}
		return zipArgs(l.Args, r.Args), nil, true, nil

	case *ast.DotCall:
		r, same := rhs.(*ast.DotCall)
		if !same {
			break
		}
		if l.Kind != r.Kind || l.Name != r.Name || len(l.Args) != len(r.Args) {
			return nil, nil, false, nil
		}
		eqs := append([]Equation{{Lhs: l.Exp, Rhs: r.Exp}}, zipArgs(l.Args, r.Args)...)
		return eqs, nil, true, nil

	case *ast.TypeUniv:
		if _, same := rhs.(*ast.TypeUniv); same {
			return nil, nil, true, nil
		}

	case *ast.LocalComatch:
		// Rule 6: two comatches with the same set of destructor labels zip
		// by name; anything else about LocalComatch is undecidable here.
		r, same := rhs.(*ast.LocalComatch)
		if !same {
			break
		}
		if more, _, ok, _ := zipComatchCases(l.Cases, r.Cases); ok {
			return more, nil, true, nil
		}
	}

	// Rule 7: everything else (Call vs TypCtor, holes, matches, ...).
	return nil, nil, false, &Error{Reason: ReasonCannotDecide, Lhs: lhs, Rhs: rhs}
}

func assignVariable(ctx ast.Context, v *ast.Variable, t ast.Expr) ([]Equation, *subst.Single, bool, error) {
	lvl := ctx.IdxToLvl(v.Idx)
	if ov, isVar := t.(*ast.Variable); isVar && ctx.IdxToLvl(ov.Idx) == lvl {
		// Same variable on both sides: rule 1 already caught the common
		// case, but the names may legitimately differ.
		return nil, nil, true, nil
	}
	if occursLvl(ctx, lvl, t) {
		return nil, nil, false, &Error{Reason: ReasonOccursCheckFailed, Lhs: v, Rhs: t}
	}
	return nil, &subst.Single{At: lvl, Term: t}, true, nil
}

func zipExprs(ls, rs []ast.Expr) []Equation {
	out := make([]Equation, len(ls))
	for i := range ls {
		out[i] = Equation{Lhs: ls[i], Rhs: rs[i]}
	}
	return out
}

func zipArgs(ls, rs []ast.Arg) []Equation {
	out := make([]Equation, len(ls))
	for i := range ls {
		out[i] = Equation{Lhs: ls[i].Value, Rhs: rs[i].Value}
	}
	return out
}

func zipComatchCases(ls, rs []ast.Cocase) ([]Equation, *subst.Single, bool, error) {
	if len(ls) != len(rs) {
		return nil, nil, false, nil
	}
	byName := make(map[string]ast.Cocase, len(rs))
	for _, c := range rs {
		byName[c.DtorName] = c
	}
	var eqs []Equation
	for _, l := range ls {
		r, found := byName[l.DtorName]
		if !found {
			return nil, nil, false, nil
		}
		eqs = append(eqs, Equation{Lhs: l.Body, Rhs: r.Body})
	}
	return eqs, nil, true, nil
}

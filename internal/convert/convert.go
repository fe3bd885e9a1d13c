// Package convert implements the conversion checker and Miller-pattern
// metavariable unifier used by the elaborator to decide `expected_type ≡
// inferred_type` (spec.md §4.5). It shares its work-list shape with
// internal/unify but treats ordinary variables as rigid — "equal" only
// because they are literally the same occurrence — and solves only
// metavariables, and only when they sit in Miller's pattern fragment
// (spec.md §9).
package convert

import (
	"fmt"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/value"
)

// Reason names why two values failed to convert, or why a metavariable
// solution was rejected (spec.md §4.5's error taxonomy).
type Reason string

const (
	ReasonNotEq                   Reason = "not_eq"
	ReasonNotEqDetailed           Reason = "not_eq_detailed"
	ReasonCannotDecide            Reason = "cannot_decide"
	ReasonMetaArgNotDistinct      Reason = "meta_arg_not_distinct"
	ReasonMetaArgNotVariable      Reason = "meta_arg_not_variable"
	ReasonMetaEquatedToOutOfScope Reason = "meta_equated_to_out_of_scope"
	ReasonMetaOccursCheckFailed   Reason = "meta_occurs_check_failed"
)

// Error is returned for every failed or undecidable conversion.
type Error struct {
	Reason Reason
	Lhs, Rhs           value.Value // the values compared at this level
	InnerLhs, InnerRhs value.Value // set only for ReasonNotEqDetailed
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonNotEqDetailed:
		return fmt.Sprintf("duo: %s ≇ %s (constructors agree, but %s ≇ %s)", e.Lhs, e.Rhs, e.InnerLhs, e.InnerRhs)
	default:
		return fmt.Sprintf("duo: %s: %s ≇ %s", e.Reason, e.Lhs, e.Rhs)
	}
}

// Checker holds the evaluator and metavariable store a conversion check
// needs: the evaluator to reduce a solved hole's solution and the store to
// read and update metavariable entries while solving (spec.md §4.5).
type Checker struct {
	Eval  *value.Evaluator
	Store *meta.Store
}

// NewChecker builds a Checker over ev and store.
func NewChecker(ev *value.Evaluator, store *meta.Store) *Checker {
	return &Checker{Eval: ev, Store: store}
}

// Convert checks lhs ≡ rhs, both already weak-head-normal values (spec.md
// §4.5). Returns nil on success, or an *Error describing why conversion
// failed or could not be decided.
func (c *Checker) Convert(ctx ast.Context, lhs, rhs value.Value) error {
	return c.convert(ctx, lhs, rhs, false)
}

// inDecomposition is true once convert is called recursively on a
// constructor's arguments, so a bare NotEq at that depth can be promoted to
// NotEqDetailed carrying the outer pair that invoked it.
func (c *Checker) convert(ctx ast.Context, lhs, rhs value.Value, inDecomposition bool) error {
	if h, ok := lhs.(value.VHole); ok {
		return c.convertHole(ctx, h, rhs)
	}
	if h, ok := rhs.(value.VHole); ok {
		return c.convertHole(ctx, h, lhs)
	}

	switch l := lhs.(type) {
	case value.VTypeUniv:
		if _, ok := rhs.(value.VTypeUniv); ok {
			return nil
		}
		return &Error{Reason: ReasonNotEq, Lhs: lhs, Rhs: rhs}

	case value.VTypCtor:
		r, ok := rhs.(value.VTypCtor)
		if !ok || l.Name != r.Name || len(l.Args) != len(r.Args) {
			return &Error{Reason: ReasonNotEq, Lhs: lhs, Rhs: rhs}
		}
		return c.convertArgsWrapped(ctx, lhs, rhs, l.Args, r.Args)

	case value.VCall:
		r, ok := rhs.(value.VCall)
		if !ok || l.Kind != r.Kind || l.Name != r.Name || len(l.Args) != len(r.Args) {
			return &Error{Reason: ReasonNotEq, Lhs: lhs, Rhs: rhs}
		}
		return c.convertArgsWrapped(ctx, lhs, rhs, l.Args, r.Args)

	case value.VComatch:
		r, ok := rhs.(value.VComatch)
		if !ok {
			return &Error{Reason: ReasonNotEq, Lhs: lhs, Rhs: rhs}
		}
		return c.convertComatch(ctx, lhs, rhs, l, r)

	case value.Neutral:
		r, ok := rhs.(value.Neutral)
		if !ok || l.Head != r.Head || len(l.Spine) != len(r.Spine) {
			return &Error{Reason: ReasonNotEq, Lhs: lhs, Rhs: rhs}
		}
		return c.convertSpineWrapped(ctx, lhs, rhs, l.Spine, r.Spine)

	default:
		return &Error{Reason: ReasonCannotDecide, Lhs: lhs, Rhs: rhs}
	}
}

func (c *Checker) convertArgsWrapped(ctx ast.Context, outerL, outerR value.Value, ls, rs []value.Value) error {
	for i := range ls {
		if err := c.convert(ctx, ls[i], rs[i], true); err != nil {
			return wrapDetail(outerL, outerR, err)
		}
	}
	return nil
}

func (c *Checker) convertComatch(ctx ast.Context, outerL, outerR value.Value, l, r value.VComatch) error {
	if len(l.Cases) != len(r.Cases) {
		return &Error{Reason: ReasonNotEq, Lhs: outerL, Rhs: outerR}
	}
	byName := make(map[string]ast.Cocase, len(r.Cases))
	for _, cc := range r.Cases {
		byName[cc.DtorName] = cc
	}
	for _, lc := range l.Cases {
		rc, found := byName[lc.DtorName]
		if !found {
			return &Error{Reason: ReasonNotEq, Lhs: outerL, Rhs: outerR}
		}
		if len(lc.Params) != 0 || len(rc.Params) != 0 {
			// Comparing destructors that take arguments would need
			// eta-expansion with fresh neutral placeholders; punt rather
			// than risk a false equality.
			return &Error{Reason: ReasonCannotDecide, Lhs: outerL, Rhs: outerR}
		}
		lv, err := c.Eval.Eval(lc.Body, l.Env.Extend(nil))
		if err != nil {
			return err
		}
		rv, err := c.Eval.Eval(rc.Body, r.Env.Extend(nil))
		if err != nil {
			return err
		}
		if err := c.convert(ctx, lv, rv, true); err != nil {
			return wrapDetail(outerL, outerR, err)
		}
	}
	return nil
}

// convertSpineWrapped compares two neutral spines of equal length and head.
// Per spec.md §4.5 this package only details eliminations that carry plain
// value arguments (DotCall); a match/comatch frame on a stuck scrutinee
// compares as CannotDecide, since its cases close over a full environment
// rather than a handful of values and the specification does not give a
// rule for that shape.
func (c *Checker) convertSpineWrapped(ctx ast.Context, outerL, outerR value.Value, ls, rs []value.Elim) error {
	for i := range ls {
		ld, lok := ls[i].(value.ElimDotCall)
		rd, rok := rs[i].(value.ElimDotCall)
		if !lok || !rok {
			return &Error{Reason: ReasonCannotDecide, Lhs: outerL, Rhs: outerR}
		}
		if ld.Kind != rd.Kind || ld.Name != rd.Name || len(ld.Args) != len(rd.Args) {
			return wrapDetail(outerL, outerR, &Error{Reason: ReasonNotEq, Lhs: outerL, Rhs: outerR})
		}
		if err := c.convertArgsWrapped(ctx, outerL, outerR, ld.Args, rd.Args); err != nil {
			return err
		}
	}
	return nil
}

func wrapDetail(outerL, outerR value.Value, err error) error {
	ce, ok := err.(*Error)
	if !ok {
		return err
	}
	if ce.Reason == ReasonNotEqDetailed {
		return ce
	}
	return &Error{Reason: ReasonNotEqDetailed, Lhs: outerL, Rhs: outerR, InnerLhs: ce.Lhs, InnerRhs: ce.Rhs}
}

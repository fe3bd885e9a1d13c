// Package elaborate implements the bidirectional type checker (spec.md
// §4.6): the Check/Infer judgment pair, telescope and argument-list
// checking, (co)pattern coverage, and the top-level declaration checker.
// It drives internal/value for normalization and internal/convert for
// type equality and metavariable solving, threading the same
// internal/meta.Store throughout a module's elaboration (spec.md §5).
package elaborate

import (
	"fmt"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/convert"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/module"
	"github.com/duotype/duo/internal/value"
)

// TraceEvent is reported through Elaborator.Trace at the points spec.md §5's
// single-threaded sweep passes through: declaration entry/exit, metavariable
// creation, and zonking passes. Metavariable solves happen inside the
// conversion checker and are not reported.
type TraceEvent struct {
	Step   string // "decl:enter", "decl:exit", "meta:fresh", "zonk"
	Name   string // declaration name, for decl:* events
	MetaID uint64 // metavariable id, for meta:* events
	Detail string
}

// Elaborator holds everything the bidirectional judgments need: the
// well-formed program P (for declaration lookups), the metavariable store M,
// an Evaluator for NbE, and a Checker for conversion/pattern unification
// (spec.md §4.6's "P; Γ; M ⊢ ..." judgments).
type Elaborator struct {
	Program *module.Program
	Store   *meta.Store
	Eval    *value.Evaluator
	Conv    *convert.Checker

	// Trace, if set, receives every TraceEvent as elaboration proceeds. Nil
	// by default — a zero-cost check at each call site.
	Trace func(TraceEvent)
}

// New builds an Elaborator over prog, sharing store with the evaluator and
// conversion checker it constructs.
func New(prog *module.Program, store *meta.Store) *Elaborator {
	ev := value.NewEvaluator(prog, store)
	return &Elaborator{
		Program: prog,
		Store:   store,
		Eval:    ev,
		Conv:    convert.NewChecker(ev, store),
	}
}

func (e *Elaborator) trace(ev TraceEvent) {
	if e.Trace != nil {
		e.Trace(ev)
	}
}

// evalInCtx evaluates ex to a value under ctx's own neutral environment
// (value.NeutralEnv): the standard way an elaborator reads the semantic
// value of an open term in the context it was checked in (spec.md §4.3,
// §9 design note on holes carrying their closure).
func (e *Elaborator) evalInCtx(ctx ast.Context, ex ast.Expr) (value.Value, error) {
	return e.Eval.Eval(ex, value.NeutralEnv(ctx))
}

// binderTypeValue evaluates a binder's recorded type (closed under the
// context prefix ending at lvl, spec.md §3.1) to a value usable anywhere in
// the larger ctx: levels are stable under extension to the right, so the
// neutral environment of the shorter prefix lines up exactly with ctx's own
// coordinates (spec.md §3.1).
func (e *Elaborator) binderTypeValue(ctx ast.Context, lvl ast.Lvl, typ ast.Expr) (value.Value, error) {
	prefix := ctx[:lvl.Fst+1]
	return e.Eval.Eval(typ, value.NeutralEnv(prefix))
}

// evalAll evaluates each of es under env, in order, short-circuiting on the
// first error (internal/value.Evaluator keeps the equivalent helper
// unexported since only Eval itself needs it there).
func (e *Elaborator) evalAll(es []ast.Expr, env value.Env) ([]value.Value, error) {
	out := make([]value.Value, len(es))
	for i, ex := range es {
		v, err := e.Eval.Eval(ex, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// freshHole allocates a metavariable of kind in ctx and returns the Hole
// expression recording it, with the identity closure substitution of ctx
// (spec.md §3.2.9, §4.6's Hole check rule).
func (e *Elaborator) freshHole(ctx ast.Context, kind ast.HoleKind, sp ast.Span) *ast.Hole {
	id := e.Store.Fresh(ctx, kind)
	e.trace(TraceEvent{Step: "meta:fresh", MetaID: uint64(id), Detail: kind.String()})
	return &ast.Hole{Base: ast.Base{Sp: sp}, Kind: kind, MetaVar: uint64(id), Args: ctx.IdentityArgs()}
}

// Infer implements the "P; Γ; M ⊢ e ⇒ τ" judgment (spec.md §4.6): every
// expression form has a dedicated rule except Hole/LocalMatch/LocalComatch,
// which have no inference rule and fail with a mode error.
func (e *Elaborator) Infer(ctx ast.Context, ex ast.Expr) (ast.Expr, value.Value, error) {
	switch n := ex.(type) {
	case *ast.Variable:
		return e.inferVariable(ctx, n)
	case *ast.TypCtor:
		return e.inferTypCtor(ctx, n)
	case *ast.Call:
		return e.inferCall(ctx, n)
	case *ast.DotCall:
		return e.inferDotCall(ctx, n)
	case *ast.Anno:
		return e.inferAnno(ctx, n)
	case *ast.TypeUniv:
		return e.inferTypeUniv(ctx, n)
	case *ast.Hole:
		return nil, nil, cannotInferReport(errors.TCannotInferHole, n.Span(), "hole")
	case *ast.LocalMatch:
		return nil, nil, cannotInferReport(errors.TCannotInferMatch, n.Span(), "match")
	case *ast.LocalComatch:
		return nil, nil, cannotInferReport(errors.TCannotInferComatch, n.Span(), "comatch")
	default:
		panic(fmt.Sprintf("elaborate: internal error: Infer: unhandled expression %T", ex))
	}
}

// Check implements the "P; Γ; M ⊢ e ⇐ τ" judgment. Hole, LocalMatch, and
// LocalComatch have dedicated check rules (spec.md §4.6, §4.6.1, §4.6.2);
// every other form falls back to infer-then-convert, per the table in
// spec.md §4.6 ("default: infer then convert").
func (e *Elaborator) Check(ctx ast.Context, ex ast.Expr, expected value.Value) (ast.Expr, error) {
	switch n := ex.(type) {
	case *ast.Hole:
		return e.checkHole(ctx, n, expected), nil
	case *ast.LocalMatch:
		return e.checkLocalMatch(ctx, n, expected)
	case *ast.LocalComatch:
		return e.checkLocalComatch(ctx, n, expected)
	default:
		elaborated, inferred, err := e.Infer(ctx, ex)
		if err != nil {
			return nil, err
		}
		if cerr := e.Conv.Convert(ctx, inferred, expected); cerr != nil {
			return nil, convertErrorToReport(ex.Span(), cerr)
		}
		elaborated.SetType(value.Quote(ctx, expected))
		return elaborated, nil
	}
}

// checkHole implements spec.md §4.6's Hole check rule. A Hole node already
// carrying a nonzero MetaVar was pre-seeded by the lowerer (spec.md §6.1:
// "a pre-populated metavariable store seeded with every Inserted hole
// produced during lowering") and its entry is reused as-is; any other Hole
// literal in the input tree (the surface `_`/`?` a user actually wrote) is
// allocated fresh here, the first and only time it is checked. Either way
// the hole's own inferred_type is set to expected so later readers of the
// typed tree see it directly (spec.md §6.2).
func (e *Elaborator) checkHole(ctx ast.Context, n *ast.Hole, expected value.Value) ast.Expr {
	var h *ast.Hole
	if n.MetaVar != 0 {
		e.Store.MustGet(meta.Id(n.MetaVar)) // panics if the lowerer's promise was broken
		h = &ast.Hole{Base: ast.Base{Sp: n.Span()}, Kind: n.Kind, MetaVar: n.MetaVar, Args: n.Args}
	} else {
		h = e.freshHole(ctx, n.Kind, n.Span())
	}
	h.SetType(value.Quote(ctx, expected))
	return h
}

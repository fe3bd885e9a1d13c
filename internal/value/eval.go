package value

import (
	"fmt"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/meta"
	"github.com/duotype/duo/internal/module"
)

// Evaluator evaluates terms to values against a fixed program (for
// declaration lookups) and metavariable store (for solved holes). It holds
// no other state: evaluation is a pure function of (term, env) given those
// two (spec.md §4.3, §5: single-threaded, no suspension).
type Evaluator struct {
	Program *module.Program
	Store   *meta.Store
}

// NewEvaluator builds an Evaluator over prog and store.
func NewEvaluator(prog *module.Program, store *meta.Store) *Evaluator {
	return &Evaluator{Program: prog, Store: store}
}

// MissingCaseError is raised if a match/comatch has no arm for a runtime
// value — an internal invariant violation, since the declaration checker
// guarantees exhaustiveness before any term is ever evaluated (spec.md
// §4.3, §7: "MissingCase/MissingCocase ... is a bug report, not a user
// error").
type MissingCaseError struct {
	Kind string // "case" or "cocase"
	Name string
}

func (e *MissingCaseError) Error() string {
	return fmt.Sprintf("duo: internal error: missing %s for %q (coverage should have rejected this)", e.Kind, e.Name)
}

// Eval evaluates e under env to a value (spec.md §4.3).
func (ev *Evaluator) Eval(e ast.Expr, env Env) (Value, error) {
	switch n := e.(type) {
	case *ast.Variable:
		v, ok := env.Lookup(env0Lvl(n, env))
		if !ok {
			return nil, fmt.Errorf("duo: internal error: variable %s not bound in evaluation environment", n)
		}
		return v, nil

	case *ast.TypeUniv:
		return VTypeUniv{}, nil

	case *ast.TypCtor:
		args, err := ev.evalAll(n.Args, env)
		if err != nil {
			return nil, err
		}
		return VTypCtor{Name: n.Name, Args: args}, nil

	case *ast.Call:
		switch n.Kind {
		case ast.CallCtor, ast.CallExtern:
			args, err := ev.evalArgs(n.Args, env)
			if err != nil {
				return nil, err
			}
			return VCall{Kind: n.Kind, Name: n.Name, Args: args}, nil
		case ast.CallCodef:
			args, err := ev.evalArgs(n.Args, env)
			if err != nil {
				return nil, err
			}
			return VCall{Kind: ast.CallCodef, Name: n.Name, Args: args}, nil
		case ast.CallLet:
			let, ok := ev.Program.LetByName(n.Name)
			if !ok {
				return nil, fmt.Errorf("duo: internal error: let %q not found", n.Name)
			}
			args, err := ev.evalArgs(n.Args, env)
			if err != nil {
				return nil, err
			}
			bodyEnv := Env{}.Extend(args)
			return ev.Eval(let.Body, bodyEnv)
		}
		return nil, fmt.Errorf("duo: internal error: unknown call kind %v", n.Kind)

	case *ast.DotCall:
		head, err := ev.Eval(n.Exp, env)
		if err != nil {
			return nil, err
		}
		args, err := ev.evalArgs(n.Args, env)
		if err != nil {
			return nil, err
		}
		return ev.applyDotCall(n.Kind, n.Name, head, args)

	case *ast.Anno:
		return ev.Eval(n.Exp, env)

	case *ast.LocalMatch:
		scrutinee, err := ev.Eval(n.Scrutinee, env)
		if err != nil {
			return nil, err
		}
		return ev.applyMatch(n, scrutinee, env)

	case *ast.LocalComatch:
		return VComatch{Cases: n.Cases, Env: env}, nil

	case *ast.Hole:
		argVals, err := ev.evalHoleArgs(n.Args, env)
		if err != nil {
			return nil, err
		}
		entry, ok := ev.Store.Get(meta.Id(n.MetaVar))
		if ok && entry.Solved() {
			return ev.Eval(entry.Solution, Env(argVals))
		}
		return VHole{MetaVar: n.MetaVar, Args: argVals}, nil

	default:
		return nil, fmt.Errorf("duo: internal error: eval: unhandled expression %T", e)
	}
}

// NeutralEnv builds the environment that maps every binder of ctx to a fresh
// Neutral headed at its own level — the environment the elaborator evaluates
// a context's own binder types under, so the values it gets back reference
// other binders of the same context as plain Neutrals (exactly the shape
// Miller's pattern fragment check in internal/convert expects of a hole's
// closure args).
func NeutralEnv(ctx ast.Context) Env {
	env := make(Env, len(ctx))
	for fst, tele := range ctx {
		row := make([]Value, len(tele))
		for snd := range tele {
			row[snd] = Neutral{Head: ast.Lvl{Fst: fst, Snd: snd}}
		}
		env[fst] = row
	}
	return env
}

// env0Lvl converts a Variable's index to a level using an implicit context
// whose shape is exactly env's (Eval never needs the binder names, only the
// shape, which env mirrors one-to-one — spec.md §3.5).
func env0Lvl(v *ast.Variable, env Env) ast.Lvl {
	fst := len(env) - 1 - v.Idx.Fst
	row := env[fst]
	snd := len(row) - 1 - v.Idx.Snd
	return ast.Lvl{Fst: fst, Snd: snd}
}

func (ev *Evaluator) evalAll(es []ast.Expr, env Env) ([]Value, error) {
	out := make([]Value, len(es))
	for i, e := range es {
		v, err := ev.Eval(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev *Evaluator) evalArgs(as []ast.Arg, env Env) ([]Value, error) {
	out := make([]Value, len(as))
	for i, a := range as {
		v, err := ev.Eval(a.Value, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (ev *Evaluator) evalHoleArgs(rows [][]ast.Expr, env Env) (Env, error) {
	out := make(Env, len(rows))
	for i, row := range rows {
		vs, err := ev.evalAll(row, env)
		if err != nil {
			return nil, err
		}
		out[i] = vs
	}
	return out, nil
}

// applyDotCall implements the three DotCall cases of spec.md §4.3.
func (ev *Evaluator) applyDotCall(kind ast.DotCallKind, name string, head Value, args []Value) (Value, error) {
	switch h := head.(type) {
	case VCall:
		if kind == ast.DotDef && h.Kind == ast.CallCtor {
			def, ok := ev.Program.DefByName(name)
			if !ok {
				return nil, fmt.Errorf("duo: internal error: def %q not found", name)
			}
			for _, c := range def.Cases {
				if c.CtorName == h.Name {
					if c.Absurd {
						return nil, &MissingCaseError{Kind: "case", Name: h.Name}
					}
					// caseCtx in checkDef nests def params, then self, then
					// the ctor's pattern params innermost; mirror that frame
					// order here so an Idx recorded under that context
					// resolves to the same value at eval time.
					bodyEnv := Env{}.Extend(args).Extend([]Value{h}).Extend(h.Args)
					return ev.Eval(c.Body, bodyEnv)
				}
			}
			return nil, &MissingCaseError{Kind: "case", Name: h.Name}
		}
	case VComatch:
		if kind == ast.DotDtor {
			for _, c := range h.Cases {
				if c.DtorName == name {
					bodyEnv := h.Env.Extend(args)
					return ev.Eval(c.Body, bodyEnv)
				}
			}
			return nil, &MissingCaseError{Kind: "cocase", Name: name}
		}
	case Neutral:
		spine := append(append([]Elim{}, h.Spine...), ElimDotCall{Kind: kind, Name: name, Args: args})
		return Neutral{Head: h.Head, Spine: spine}, nil
	}
	return nil, fmt.Errorf("duo: internal error: dotcall %q applied to non-matching value %s", name, head)
}

// applyMatch implements the LocalMatch case of spec.md §4.3.
func (ev *Evaluator) applyMatch(n *ast.LocalMatch, scrutinee Value, env Env) (Value, error) {
	switch s := scrutinee.(type) {
	case VCall:
		for _, c := range n.Cases {
			if c.CtorName == s.Name {
				if c.Absurd {
					return nil, &MissingCaseError{Kind: "case", Name: s.Name}
				}
				bodyEnv := env.Extend(s.Args)
				return ev.Eval(c.Body, bodyEnv)
			}
		}
		return nil, &MissingCaseError{Kind: "case", Name: s.Name}
	case Neutral:
		spine := append(append([]Elim{}, s.Spine...), ElimMatch{Motive: n.Motive, Cases: n.Cases, ReturnType: n.ReturnType, Env: env})
		return Neutral{Head: s.Head, Spine: spine}, nil
	default:
		return nil, fmt.Errorf("duo: internal error: match scrutinee evaluated to non-data value %s", scrutinee)
	}
}

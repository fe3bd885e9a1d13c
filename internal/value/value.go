// Package value implements the normalization-by-evaluation algebra: values
// (weak-head normal forms), environments, and the evaluator used by the
// conversion checker for type equality (spec.md §3.5, §4.3).
package value

import (
	"fmt"
	"strings"

	"github.com/duotype/duo/internal/ast"
)

// Value is the interface every canonical form or neutral implements.
type Value interface {
	isValue()
	String() string
}

// Env is a list of lists of values mirroring the telescope structure of the
// context a closure's body was originally typed in (spec.md §3.5).
type Env [][]Value

// Lookup returns the value a level refers to.
func (e Env) Lookup(l ast.Lvl) (Value, bool) {
	if l.Fst < 0 || l.Fst >= len(e) {
		return nil, false
	}
	row := e[l.Fst]
	if l.Snd < 0 || l.Snd >= len(row) {
		return nil, false
	}
	return row[l.Snd], true
}

// Extend returns a new Env with a fresh innermost telescope frame containing
// vals, mirroring Context.PushTelescope followed by len(vals) PushBinders.
func (e Env) Extend(vals []Value) Env {
	next := make(Env, len(e)+1)
	copy(next, e)
	next[len(e)] = vals
	return next
}

// ---- canonical forms -------------------------------------------------

// VTypeUniv is the value of the sole universe.
type VTypeUniv struct{}

func (VTypeUniv) isValue()        {}
func (VTypeUniv) String() string  { return "Type" }

// VTypCtor is a fully applied type constructor value.
type VTypCtor struct {
	Name string
	Args []Value
}

func (VTypCtor) isValue() {}
func (v VTypCtor) String() string {
	if len(v.Args) == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s(%s)", v.Name, joinValues(v.Args))
}

// VCall is a canonical Ctor-call or Codef-call value (spec.md §3.5: "Call
// of a Ctor" / "Codef-value (as a Call)").
type VCall struct {
	Kind ast.CallKind
	Name string
	Args []Value
}

func (VCall) isValue() {}
func (v VCall) String() string {
	if len(v.Args) == 0 {
		return v.Name
	}
	return fmt.Sprintf("%s(%s)", v.Name, joinValues(v.Args))
}

// Closure captures an environment and an unevaluated body, ready to be
// applied or matched against later (spec.md §3.5).
type Closure struct {
	Env  Env
	Body ast.Expr
}

// VComatch is a copattern-match value: a closure over its cocases, matched
// against a destructor name when eliminated (spec.md §3.5).
type VComatch struct {
	Cases []ast.Cocase
	Env   Env
}

func (VComatch) isValue() {}
func (v VComatch) String() string {
	names := make([]string, len(v.Cases))
	for i, c := range v.Cases {
		names[i] = "." + c.DtorName
	}
	return fmt.Sprintf("comatch{%s}", strings.Join(names, ", "))
}

// VHole is an unsolved metavariable occurrence, carrying its evaluated
// closure arguments (spec.md §4.5: the pattern unifier inspects these to
// decide whether the occurrence lies in Miller's pattern fragment).
type VHole struct {
	MetaVar uint64
	Args    [][]Value
}

func (VHole) isValue() {}
func (v VHole) String() string { return fmt.Sprintf("?%d", v.MetaVar) }

// ---- neutrals -----------------------------------------------------------

// Neutral is a value stuck on a variable head with zero or more
// eliminations applied (spec.md §3.5). Neutrals preserve enough structure
// (Head plus an ordered Spine) to be read back into terms by Quote.
type Neutral struct {
	Head  ast.Lvl
	Spine []Elim
}

func (Neutral) isValue() {}
func (n Neutral) String() string {
	var b strings.Builder
	b.WriteString(n.Head.String())
	for _, e := range n.Spine {
		b.WriteString(e.String())
	}
	return b.String()
}

// Elim is one elimination frame in a neutral's spine.
type Elim interface {
	isElim()
	String() string
}

// ElimDotCall is a stuck e.name(args) where e is neutral (dtor or def).
type ElimDotCall struct {
	Kind ast.DotCallKind
	Name string
	Args []Value
}

func (ElimDotCall) isElim() {}
func (e ElimDotCall) String() string {
	return fmt.Sprintf(".%s(%s)", e.Name, joinValues(e.Args))
}

// ElimMatch is a stuck match/comatch frame carrying its cases and defining
// environment, needed to read the neutral back into a LocalMatch term.
type ElimMatch struct {
	Motive     *ast.Motive
	Cases      []ast.Case
	ReturnType ast.Expr
	Env        Env
}

func (ElimMatch) isElim() {}
func (e ElimMatch) String() string { return ".match{...}" }

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

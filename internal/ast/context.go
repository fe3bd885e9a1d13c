package ast

import "fmt"

// Binder is one entry of a Telescope: an advisory name and a type closed
// under the context prefix that ends at this binder. Implicit marks a
// parameter that argument-list lowering may fill with an inserted hole
// rather than requiring an explicit argument (spec.md §4.8).
type Binder struct {
	Name     string
	Type     Expr
	Implicit bool
}

// Telescope is an ordered sequence of dependent binders — one telescope per
// source-level parameter group or per (co)pattern's constructor arguments.
type Telescope []Binder

// Context is an ordered sequence of telescopes (spec.md §3.1): the
// two-level shape mirrors one telescope per enclosing parameter group or
// pattern. Context is a stack of stacks — every push_telescope/push_binder
// has a matching pop on every exit path, including error propagation.
type Context []Telescope

// Len returns the number of telescopes.
func (c Context) Len() int { return len(c) }

// PushTelescope starts a new, empty innermost telescope. Per spec.md
// §4.1 this conceptually shifts all existing indices by (1,0); because
// indices are computed relative to the *current* context length at use
// sites (see Shift), no eager rewrite of existing nodes is needed here.
func (c Context) PushTelescope() Context {
	next := make(Context, len(c)+1)
	copy(next, c)
	next[len(c)] = nil
	return next
}

// PopTelescope removes the innermost telescope.
func (c Context) PopTelescope() Context {
	if len(c) == 0 {
		panic("ast: PopTelescope on empty context")
	}
	return c[:len(c)-1]
}

// PushBinder adds a binder to the innermost telescope.
func (c Context) PushBinder(b Binder) Context {
	if len(c) == 0 {
		panic("ast: PushBinder with no open telescope")
	}
	next := make(Context, len(c))
	copy(next, c)
	last := make(Telescope, len(c[len(c)-1])+1)
	copy(last, c[len(c)-1])
	last[len(last)-1] = b
	next[len(c)-1] = last
	return next
}

// PopBinder removes the last binder of the innermost telescope.
func (c Context) PopBinder() Context {
	if len(c) == 0 || len(c[len(c)-1]) == 0 {
		panic("ast: PopBinder on empty telescope")
	}
	next := make(Context, len(c))
	copy(next, c)
	last := c[len(c)-1]
	next[len(c)-1] = last[:len(last)-1]
	return next
}

// IdxToLvl converts an index to a level under c (spec.md §3.1).
func (c Context) IdxToLvl(i Idx) Lvl {
	fst := len(c) - 1 - i.Fst
	if fst < 0 || fst >= len(c) {
		panic(fmt.Sprintf("ast: index %v out of range in context of depth %d", i, len(c)))
	}
	snd := len(c[fst]) - 1 - i.Snd
	return Lvl{Fst: fst, Snd: snd}
}

// LvlToIdx converts a level to an index under c.
func (c Context) LvlToIdx(l Lvl) Idx {
	if l.Fst < 0 || l.Fst >= len(c) {
		panic(fmt.Sprintf("ast: level %v out of range in context of depth %d", l, len(c)))
	}
	fst := len(c) - 1 - l.Fst
	snd := len(c[l.Fst]) - 1 - l.Snd
	return Idx{Fst: fst, Snd: snd}
}

// LookupIdx returns the binder an index refers to, or false if the variable
// is not in scope.
func (c Context) LookupIdx(i Idx) (Binder, bool) {
	if i.Fst < 0 || i.Fst >= len(c) {
		return Binder{}, false
	}
	tele := c[len(c)-1-i.Fst]
	if i.Snd < 0 || i.Snd >= len(tele) {
		return Binder{}, false
	}
	return tele[len(tele)-1-i.Snd], true
}

// LookupLvl returns the binder a level refers to, or false if out of range.
func (c Context) LookupLvl(l Lvl) (Binder, bool) {
	if l.Fst < 0 || l.Fst >= len(c) {
		return Binder{}, false
	}
	tele := c[l.Fst]
	if l.Snd < 0 || l.Snd >= len(tele) {
		return Binder{}, false
	}
	return tele[l.Snd], true
}

// MustLookupIdx is LookupIdx but panics on an out-of-scope variable — per
// spec.md §4.1 this signals an internal invariant violation, not a user
// error: every bound occurrence is guaranteed to reference an existing
// binder by construction.
func (c Context) MustLookupIdx(i Idx) Binder {
	b, ok := c.LookupIdx(i)
	if !ok {
		panic(fmt.Sprintf("ast: internal error: %v not in scope (context depth %d)", i, len(c)))
	}
	return b
}

// IdentityArgs builds the closure substitution recorded on a hole created in
// c: a nested list of Variable expressions, one per binder, matching the
// telescope structure of c exactly (spec.md §3.2, Hole.args).
func (c Context) IdentityArgs() [][]Expr {
	out := make([][]Expr, len(c))
	for fst, tele := range c {
		row := make([]Expr, len(tele))
		for sndFromStart := range tele {
			idx := c.LvlToIdx(Lvl{Fst: fst, Snd: sndFromStart})
			row[sndFromStart] = &Variable{Idx: idx, Name: tele[sndFromStart].Name}
		}
		out[fst] = row
	}
	return out
}

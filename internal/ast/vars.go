package ast

import "fmt"

// Idx is a de Bruijn index (spec.md §3.1): Fst counts telescopes from the
// innermost outward, Snd counts binders from the end of that telescope.
// Indices are stable under extension of the context to the right and shift
// under weakening to the left.
type Idx struct {
	Fst, Snd int
}

func (i Idx) String() string { return fmt.Sprintf("#%d.%d", i.Fst, i.Snd) }

// Lvl is a de Bruijn level: Fst counts telescopes from the root, Snd counts
// binders from the start of that telescope. Levels are stable under
// extension to the right.
type Lvl struct {
	Fst, Snd int
}

func (l Lvl) String() string { return fmt.Sprintf("@%d.%d", l.Fst, l.Snd) }

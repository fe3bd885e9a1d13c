// Package meta implements the metavariable store shared by the conversion
// checker, the bidirectional elaborator, and the zonking pass (spec.md
// §3.4, §5).
package meta

import (
	"fmt"
	"sort"

	"github.com/duotype/duo/internal/ast"
)

// Id identifies a metavariable. Numbering is monotonic and deterministic
// given the elaborator's declaration-then-left-to-right-parameter-then-body
// traversal order (spec.md §5).
type Id uint64

// Entry is one metavariable's record in the store (spec.md §3.4).
//   - Unsolved: Solution is nil; Ctx is the level context the hole was
//     created in and never changes afterward.
//   - Solved: Solution is a term closed under Ctx.
type Entry struct {
	Ctx      ast.Context
	Kind     ast.HoleKind
	Solution ast.Expr
}

// Solved reports whether e currently carries a solution.
func (e *Entry) Solved() bool { return e.Solution != nil }

// Store is the flat, monotonically growing map from Id to Entry
// (spec.md §3.4, §5: "grows monotonically; solutions may be added but never
// removed").
type Store struct {
	entries map[Id]*Entry
	order   []Id
	next    Id
}

// NewStore creates an empty metavariable store.
func NewStore() *Store {
	return &Store{entries: make(map[Id]*Entry)}
}

// Fresh allocates a new unsolved metavariable recorded in ctx.
func (s *Store) Fresh(ctx ast.Context, kind ast.HoleKind) Id {
	s.next++
	id := s.next
	s.entries[id] = &Entry{Ctx: ctx, Kind: kind}
	s.order = append(s.order, id)
	return id
}

// Get returns the entry for id, if it exists.
func (s *Store) Get(id Id) (*Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// MustGet returns the entry for id, panicking if absent — a missing entry
// for an id that appears in the typed tree is an internal invariant
// violation (spec.md §7, the T-XXX family), never a user error.
func (s *Store) MustGet(id Id) *Entry {
	e, ok := s.entries[id]
	if !ok {
		panic(fmt.Sprintf("meta: internal error: metavariable m%d has no store entry", id))
	}
	return e
}

// Occurs reports whether id occurs, transitively through other solved
// metavariables, in t. Used by the occurs check before recording a new
// solution (spec.md §4.5 step 3, §9).
func (s *Store) Occurs(id Id, t ast.Expr) bool {
	return occursExpr(s, id, t)
}

// Solve records id as solved with solution, without touching any other
// entry. Callers are responsible for the re-zonk pass described in
// spec.md §4.5 step 5 (see ZonkStore in this package); Solve itself only
// enforces that id exists and is not already solved.
func (s *Store) Solve(id Id, solution ast.Expr) error {
	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("meta: internal error: solving unknown metavariable m%d", id)
	}
	if e.Solved() {
		return fmt.Errorf("meta: internal error: metavariable m%d solved twice", id)
	}
	e.Solution = solution
	return nil
}

// setSolution overwrites an existing solution in place. Nothing calls it:
// the re-zonk pass, ZonkStore, assigns each solved entry's Solution
// directly.
func (s *Store) setSolution(id Id, solution ast.Expr) {
	s.entries[id].Solution = solution
}

// All returns every metavariable id in creation order.
func (s *Store) All() []Id {
	out := make([]Id, len(s.order))
	copy(out, s.order)
	return out
}

// Unsolved returns the ids of every currently-unsolved metavariable, sorted
// by creation id ascending — the deterministic reporting order this
// implementation picked for spec.md §9's first Open Question.
func (s *Store) Unsolved() []Id {
	var out []Id
	for _, id := range s.order {
		if !s.entries[id].Solved() {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UnsolvedOfKind filters Unsolved by hole kind.
func (s *Store) UnsolvedOfKind(kind ast.HoleKind) []Id {
	var out []Id
	for _, id := range s.Unsolved() {
		if s.entries[id].Kind == kind {
			out = append(out, id)
		}
	}
	return out
}

func occursExpr(s *Store, id Id, e ast.Expr) bool {
	if e == nil {
		return false
	}
	switch n := e.(type) {
	case *ast.Variable, *ast.TypeUniv:
		return false
	case *ast.TypCtor:
		return occursAny(s, id, n.Args)
	case *ast.Call:
		return occursArgs(s, id, n.Args)
	case *ast.DotCall:
		return occursExpr(s, id, n.Exp) || occursArgs(s, id, n.Args)
	case *ast.Anno:
		return occursExpr(s, id, n.Exp) || occursExpr(s, id, n.Typ)
	case *ast.LocalMatch:
		if occursExpr(s, id, n.Scrutinee) {
			return true
		}
		if n.Motive != nil && (occursExpr(s, id, n.Motive.SelfType) || occursExpr(s, id, n.Motive.Body)) {
			return true
		}
		for _, c := range n.Cases {
			if !c.Absurd && occursExpr(s, id, c.Body) {
				return true
			}
		}
		return false
	case *ast.LocalComatch:
		for _, c := range n.Cases {
			if occursExpr(s, id, c.Body) {
				return true
			}
		}
		return false
	case *ast.Hole:
		if Id(n.MetaVar) == id {
			return true
		}
		entry, ok := s.Get(Id(n.MetaVar))
		if ok && entry.Solved() {
			return occursExpr(s, id, entry.Solution)
		}
		for _, row := range n.Args {
			if occursAny(s, id, row) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func occursAny(s *Store, id Id, es []ast.Expr) bool {
	for _, e := range es {
		if occursExpr(s, id, e) {
			return true
		}
	}
	return false
}

func occursArgs(s *Store, id Id, as []ast.Arg) bool {
	for _, a := range as {
		if occursExpr(s, id, a.Value) {
			return true
		}
	}
	return false
}

package elaborate

import (
	"sort"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/errors"
)

// checkMatchCoverage implements spec.md §4.6.1 step 3: the set of case names
// must equal the data type's constructor names exactly (absurd cases count
// as covered); duplicates and undeclared names are both rejected.
func checkMatchCoverage(ctors []ast.CtorSig, cases []ast.Case, sp ast.Span) error {
	declared := map[string]bool{}
	for _, c := range ctors {
		declared[c.Name] = true
	}
	seen := map[string]bool{}
	var duplicate, undeclared []string
	for _, c := range cases {
		if !declared[c.CtorName] {
			undeclared = append(undeclared, c.CtorName)
			continue
		}
		if seen[c.CtorName] {
			duplicate = append(duplicate, c.CtorName)
			continue
		}
		seen[c.CtorName] = true
	}
	var missing []string
	for _, c := range ctors {
		if !seen[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(duplicate) == 0 && len(undeclared) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(duplicate)
	sort.Strings(undeclared)
	sort.Strings(missing)
	return report(errors.TInvalidMatch, sp, "match does not exhaustively and uniquely cover the data type's constructors", map[string]any{
		"missing": missing, "undeclared": undeclared, "duplicate": duplicate,
	})
}

// checkComatchCoverage is checkMatchCoverage's dual for LocalComatch over a
// codata type's destructors (spec.md §4.6.2 step 2).
func checkComatchCoverage(dtors []ast.DtorSig, cases []ast.Cocase, sp ast.Span) error {
	declared := map[string]bool{}
	for _, d := range dtors {
		declared[d.Name] = true
	}
	seen := map[string]bool{}
	var duplicate, undeclared []string
	for _, c := range cases {
		if !declared[c.DtorName] {
			undeclared = append(undeclared, c.DtorName)
			continue
		}
		if seen[c.DtorName] {
			duplicate = append(duplicate, c.DtorName)
			continue
		}
		seen[c.DtorName] = true
	}
	var missing []string
	for _, d := range dtors {
		if !seen[d.Name] {
			missing = append(missing, d.Name)
		}
	}
	if len(duplicate) == 0 && len(undeclared) == 0 && len(missing) == 0 {
		return nil
	}
	sort.Strings(duplicate)
	sort.Strings(undeclared)
	sort.Strings(missing)
	return report(errors.TInvalidMatch, sp, "comatch does not exhaustively and uniquely cover the codata type's destructors", map[string]any{
		"missing": missing, "undeclared": undeclared, "duplicate": duplicate,
	})
}

func findCtorSig(d *ast.Data, name string) (*ast.CtorSig, bool) {
	for i := range d.Ctors {
		if d.Ctors[i].Name == name {
			return &d.Ctors[i], true
		}
	}
	return nil, false
}

func findDtorSig(c *ast.Codata, name string) (*ast.DtorSig, bool) {
	for i := range c.Dtors {
		if c.Dtors[i].Name == name {
			return &c.Dtors[i], true
		}
	}
	return nil, false
}

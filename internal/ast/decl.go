package ast

import "fmt"

// Decl is the interface every top-level declaration kind implements
// (spec.md §3.3).
type Decl interface {
	isDecl()
	DeclName() string
	Span() Span
}

// CtorSig is one constructor of a Data declaration. ReturnType must target
// the enclosing data name (checked by the declaration checker).
type CtorSig struct {
	Name       string
	Params     Telescope
	ReturnType *TypCtor
}

// Data is an algebraic data declaration (spec.md §3.3).
type Data struct {
	NameStr string
	Params  Telescope
	Ctors   []CtorSig
	Sp      Span
}

func (d *Data) isDecl()          {}
func (d *Data) DeclName() string { return d.NameStr }
func (d *Data) Span() Span       { return d.Sp }
func (d *Data) String() string   { return fmt.Sprintf("data %s", d.NameStr) }

// SelfParam is the binder a destructor's self parameter introduces; its
// Type must be a TypCtor of the enclosing codata name.
type SelfParam = Binder

// DtorSig is one destructor of a Codata declaration.
type DtorSig struct {
	Name       string
	Params     Telescope
	SelfParam  SelfParam
	ReturnType Expr
}

// Codata is a coalgebraic codata declaration (spec.md §3.3).
type Codata struct {
	NameStr string
	Params  Telescope
	Dtors   []DtorSig
	Sp      Span
}

func (c *Codata) isDecl()          {}
func (c *Codata) DeclName() string { return c.NameStr }
func (c *Codata) Span() Span       { return c.Sp }
func (c *Codata) String() string   { return fmt.Sprintf("codata %s", c.NameStr) }

// Def is a top-level destructor-like pattern match taking a self parameter
// (spec.md §3.3).
type Def struct {
	NameStr    string
	Params     Telescope
	SelfParam  SelfParam
	ReturnType Expr
	Cases      []Case
	Sp         Span
}

func (d *Def) isDecl()          {}
func (d *Def) DeclName() string { return d.NameStr }
func (d *Def) Span() Span       { return d.Sp }
func (d *Def) String() string   { return fmt.Sprintf("def %s", d.NameStr) }

// Codef is a top-level copattern match producing a codata value
// (spec.md §3.3).
type Codef struct {
	NameStr    string
	Params     Telescope
	ReturnType *TypCtor
	Cases      []Cocase
	Sp         Span
}

func (c *Codef) isDecl()          {}
func (c *Codef) DeclName() string { return c.NameStr }
func (c *Codef) Span() Span       { return c.Sp }
func (c *Codef) String() string   { return fmt.Sprintf("codef %s", c.NameStr) }

// Let is a top-level definition; a parameter-less Let named "main" is the
// module's entry point (spec.md §3.3).
type Let struct {
	NameStr string
	Params  Telescope
	Type    Expr
	Body    Expr
	Sp      Span
}

func (l *Let) isDecl()          {}
func (l *Let) DeclName() string { return l.NameStr }
func (l *Let) Span() Span       { return l.Sp }
func (l *Let) String() string   { return fmt.Sprintf("let %s", l.NameStr) }

// IsMain reports whether l is the module's entry point.
func (l *Let) IsMain() bool { return l.NameStr == "main" && len(l.Params) == 0 }

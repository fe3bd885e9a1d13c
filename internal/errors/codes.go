// Package errors provides the core elaborator's structured error type and
// its stable code taxonomy (spec.md §6.3, §7).
package errors

// Error codes follow spec.md §6.3: T-001…T-023 for the named error kinds
// of §7, T-XXX for internal invariant violations (bugs, never user
// errors).
const (
	// Structural (spec.md §7)
	TArgLenMismatch = "T-001" // ArgLenMismatch
	TNotInType      = "T-002" // NotInType
	TExpectedTypApp = "T-003" // ExpectedTypApp

	// Mode failures
	TCannotInferMatch   = "T-004" // CannotInferMatch
	TCannotInferComatch = "T-005" // CannotInferComatch
	TCannotInferHole    = "T-006" // CannotInferHole

	// Equality
	TNotEq         = "T-007" // NotEq
	TNotEqDetailed = "T-008" // NotEqDetailed
	TCannotDecide  = "T-009" // CannotDecide

	// Coverage
	TInvalidMatch        = "T-010" // InvalidMatch
	TPatternIsAbsurd     = "T-011" // PatternIsAbsurd
	TPatternIsNotAbsurd  = "T-012" // PatternIsNotAbsurd
	TMatchOnCodata       = "T-013" // MatchOnCodata
	TComatchOnData       = "T-014" // ComatchOnData
	TLocalComatchWithSelf = "T-015" // LocalComatchWithSelf

	// Metavariable
	TUnresolvedMeta            = "T-016" // UnresolvedMeta
	TOccursCheckFailed         = "T-017" // OccursCheckFailed
	TMetaArgNotDistinct        = "T-018" // MetaArgNotDistinct
	TMetaArgNotVariable        = "T-019" // MetaArgNotVariable
	TMetaEquatedToOutOfScope   = "T-020" // MetaEquatedToOutOfScope
	TMetaOccursCheckFailed     = "T-021" // MetaOccursCheckFailed

	// Argument lowering (spec.md §4.8 — not separately enumerated in §7 but
	// part of the same structural family)
	TTooManyArgs      = "T-022" // TooManyArgs
	TMissingArgForParam = "T-023" // MissingArgForParam

	// Internal invariant violations — never a user error (spec.md §7).
	TImpossible = "T-XXX"
)

// Phase names used in Report.Phase.
const (
	PhaseElaborate  = "elaborate"
	PhaseDecl       = "declcheck"
	PhaseConvert    = "convert"
	PhaseUnify      = "unify"
	PhaseNormalize  = "normalize"
	PhaseInternal   = "internal"
)

// Info describes one error code for documentation/tooling purposes.
type Info struct {
	Code        string
	Phase       string
	Description string
}

// Registry maps every code this package defines to its Info.
var Registry = map[string]Info{
	TArgLenMismatch:        {TArgLenMismatch, PhaseElaborate, "Argument/parameter telescope length mismatch"},
	TNotInType:             {TNotInType, PhaseElaborate, "Expression checked against a non-universe expected type"},
	TExpectedTypApp:        {TExpectedTypApp, PhaseElaborate, "Expected a fully applied type constructor"},
	TCannotInferMatch:      {TCannotInferMatch, PhaseElaborate, "LocalMatch has no inference rule; an expected type is required"},
	TCannotInferComatch:    {TCannotInferComatch, PhaseElaborate, "LocalComatch has no inference rule; an expected type is required"},
	TCannotInferHole:       {TCannotInferHole, PhaseElaborate, "Hole has no inference rule; an expected type is required"},
	TNotEq:                 {TNotEq, PhaseConvert, "Outer constructors of the two sides disagree"},
	TNotEqDetailed:         {TNotEqDetailed, PhaseConvert, "Outer constructors agree but a deeper subterm differs"},
	TCannotDecide:          {TCannotDecide, PhaseConvert, "Conversion is undecidable for this equation shape"},
	TInvalidMatch:          {TInvalidMatch, PhaseDecl, "Match/comatch coverage is not exhaustive or has duplicate/undeclared cases"},
	TPatternIsAbsurd:       {TPatternIsAbsurd, PhaseDecl, "Case was declared with a body but unification proved it absurd"},
	TPatternIsNotAbsurd:    {TPatternIsNotAbsurd, PhaseDecl, "Case was declared absurd but unification succeeded"},
	TMatchOnCodata:         {TMatchOnCodata, PhaseDecl, "LocalMatch scrutinee has a codata type"},
	TComatchOnData:         {TComatchOnData, PhaseDecl, "LocalComatch checked against a data type"},
	TLocalComatchWithSelf:  {TLocalComatchWithSelf, PhaseDecl, "LocalComatch used against codata with a non-trivial self parameter"},
	TUnresolvedMeta:        {TUnresolvedMeta, PhaseInternal, "A MustSolve or Inserted metavariable remained unsolved at module end"},
	TOccursCheckFailed:     {TOccursCheckFailed, PhaseUnify, "Index unifier occurs check failed"},
	TMetaArgNotDistinct:    {TMetaArgNotDistinct, PhaseConvert, "Hole's closure args repeat a variable"},
	TMetaArgNotVariable:    {TMetaArgNotVariable, PhaseConvert, "Hole's closure args contain a non-variable term"},
	TMetaEquatedToOutOfScope: {TMetaEquatedToOutOfScope, PhaseConvert, "Metavariable solution mentions a variable outside its context"},
	TMetaOccursCheckFailed: {TMetaOccursCheckFailed, PhaseConvert, "Metavariable solution mentions the metavariable itself"},
	TTooManyArgs:           {TTooManyArgs, PhaseElaborate, "More arguments given than the callee's telescope declares"},
	TMissingArgForParam:    {TMissingArgForParam, PhaseElaborate, "A required parameter has no corresponding argument"},
	TImpossible:            {TImpossible, PhaseInternal, "Internal invariant violation"},
}

// IsInternal reports whether code denotes a bug report rather than a user
// error (spec.md §7: Impossible, MissingCase/MissingCocase).
func IsInternal(code string) bool { return code == TImpossible }

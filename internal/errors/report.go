package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/duotype/duo/internal/ast"
)

// Report is the canonical structured error type for the elaborator.
// All error builders return *Report, which call sites wrap as ReportError.
type Report struct {
	Schema  string         `json:"schema"` // always "duo.error/v1"
	Code    string         `json:"code"`   // one of the T-### codes in codes.go
	Phase   string         `json:"phase"`  // "elaborate", "convert", "unify", ...
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is a suggested remedy attached to a Report, shown alongside the
// message when one is known (e.g. inserting a missing case).
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// ReportError wraps a Report as an error so structured reports survive
// errors.As() unwrapping through ordinary Go error plumbing.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as a ReportError. Call sites return
// errors.WrapReport(report) to preserve structure through the error chain.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r as JSON. encoding/json already sorts map[string]any keys,
// so Data serializes deterministically without a dedicated schema package.
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(r)
		return string(data), err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

// Pretty renders r for a terminal: code and phase in bold, the message,
// the span if known, and the fix suggestion if one was attached.
func (r *Report) Pretty() string {
	var b strings.Builder
	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(&b, "%s %s\n", red.Sprint(r.Code), bold.Sprintf("[%s]", r.Phase))
	fmt.Fprintf(&b, "  %s\n", r.Message)
	if r.Span != nil && !r.Span.IsZero() {
		fmt.Fprintf(&b, "  at %s\n", r.Span.Start)
	}
	if r.Fix != nil {
		green := color.New(color.FgGreen)
		fmt.Fprintf(&b, "  %s %s\n", green.Sprint("fix:"), r.Fix.Suggestion)
	}
	return b.String()
}

// NewGeneric wraps a plain Go error as a Report for a phase that has no
// dedicated error code of its own.
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  "duo.error/v1",
		Code:    TImpossible,
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}

package elaborate

import (
	"fmt"

	"github.com/duotype/duo/internal/ast"
	"github.com/duotype/duo/internal/convert"
	"github.com/duotype/duo/internal/errors"
	"github.com/duotype/duo/internal/unify"
)

func report(code string, sp ast.Span, msg string, data map[string]any) error {
	s := sp
	return errors.WrapReport(&errors.Report{
		Schema:  "duo.error/v1",
		Code:    code,
		Phase:   errors.PhaseElaborate,
		Message: msg,
		Span:    &s,
		Data:    data,
	})
}

func cannotInferReport(code string, sp ast.Span, form string) error {
	return report(code, sp, fmt.Sprintf("cannot infer the type of this %s; an expected type is required", form), nil)
}

// convertErrorToReport repackages a *convert.Error into the elaborator's own
// report taxonomy (spec.md §4.5/§7): NotEq/NotEqDetailed/CannotDecide keep
// their phase as "convert" and become T-007/T-008/T-009, everything else
// (the Miller-pattern failure modes) maps onto its matching T-0## code.
func convertErrorToReport(sp ast.Span, err error) error {
	ce, ok := err.(*convert.Error)
	if !ok {
		return report(errors.TImpossible, sp, err.Error(), nil)
	}
	data := map[string]any{"lhs": ce.Lhs.String(), "rhs": ce.Rhs.String()}
	switch ce.Reason {
	case convert.ReasonNotEq:
		return convertReport(errors.TNotEq, errors.PhaseConvert, sp, fmt.Sprintf("%s is not equal to %s", ce.Lhs, ce.Rhs), data)
	case convert.ReasonNotEqDetailed:
		data["lhs_internal"] = ce.InnerLhs.String()
		data["rhs_internal"] = ce.InnerRhs.String()
		return convertReport(errors.TNotEqDetailed, errors.PhaseConvert,
			sp, fmt.Sprintf("%s is not equal to %s (%s vs %s)", ce.Lhs, ce.Rhs, ce.InnerLhs, ce.InnerRhs), data)
	case convert.ReasonCannotDecide:
		return convertReport(errors.TCannotDecide, errors.PhaseConvert, sp, "conversion could not be decided", data)
	case convert.ReasonMetaArgNotDistinct:
		return convertReport(errors.TMetaArgNotDistinct, errors.PhaseConvert, sp, "metavariable's closure arguments are not distinct bound variables", data)
	case convert.ReasonMetaArgNotVariable:
		return convertReport(errors.TMetaArgNotVariable, errors.PhaseConvert, sp, "metavariable's closure arguments contain a non-variable term", data)
	case convert.ReasonMetaEquatedToOutOfScope:
		return convertReport(errors.TMetaEquatedToOutOfScope, errors.PhaseConvert, sp, "solution mentions a variable outside the metavariable's scope", data)
	case convert.ReasonMetaOccursCheckFailed:
		return convertReport(errors.TMetaOccursCheckFailed, errors.PhaseConvert, sp, "solution mentions the metavariable itself", data)
	default:
		return convertReport(errors.TImpossible, errors.PhaseInternal, sp, err.Error(), data)
	}
}

func convertReport(code, phase string, sp ast.Span, msg string, data map[string]any) error {
	s := sp
	return errors.WrapReport(&errors.Report{Schema: "duo.error/v1", Code: code, Phase: phase, Message: msg, Span: &s, Data: data})
}

// unifyErrorToReport repackages an *unify.Error (spec.md §4.4's Err outcome)
// encountered while checking (co)pattern coverage.
func unifyErrorToReport(sp ast.Span, err error) error {
	ue, ok := err.(*unify.Error)
	if !ok {
		return report(errors.TImpossible, sp, err.Error(), nil)
	}
	data := map[string]any{"lhs": ue.Lhs.String(), "rhs": ue.Rhs.String()}
	switch ue.Reason {
	case unify.ReasonOccursCheckFailed:
		return convertReport(errors.TOccursCheckFailed, errors.PhaseUnify, sp, "index unifier occurs check failed", data)
	default:
		return convertReport(errors.TCannotDecide, errors.PhaseUnify, sp, err.Error(), data)
	}
}

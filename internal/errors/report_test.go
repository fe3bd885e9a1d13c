package errors

import (
	"strings"
	"testing"

	"github.com/duotype/duo/internal/ast"
)

func TestWrapReportAndAsReportRoundTrip(t *testing.T) {
	rep := &Report{Schema: "duo.error/v1", Code: TNotEq, Phase: PhaseConvert, Message: "Nat is not equal to Bool"}
	err := WrapReport(rep)

	got, ok := AsReport(err)
	if !ok {
		t.Fatal("expected AsReport to find the wrapped report")
	}
	if got != rep {
		t.Fatalf("expected AsReport to return the same report, got %v", got)
	}
	if err.Error() != TNotEq+": Nat is not equal to Bool" {
		t.Fatalf("unexpected Error() text: %q", err.Error())
	}
}

func TestAsReportFailsOnPlainError(t *testing.T) {
	if _, ok := AsReport(errTest{"not a report"}); ok {
		t.Fatal("expected AsReport to reject a plain, non-wrapped error")
	}
}

func TestReportToJSONRoundTripsFields(t *testing.T) {
	rep := &Report{Schema: "duo.error/v1", Code: TArgLenMismatch, Phase: PhaseElaborate, Message: "bad arity", Data: map[string]any{"expected": 2, "given": 1}}
	out, err := rep.ToJSON(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, TArgLenMismatch) || !strings.Contains(out, "bad arity") {
		t.Fatalf("expected JSON to carry code and message, got %s", out)
	}
}

func TestReportPrettyIncludesCodeAndMessage(t *testing.T) {
	sp := ast.Span{Start: ast.Pos{File: "f.duo", Line: 3, Col: 1}}
	rep := &Report{Code: TNotInType, Phase: PhaseElaborate, Message: "unknown type constructor Foo", Span: &sp}
	out := rep.Pretty()
	if !strings.Contains(out, TNotInType) || !strings.Contains(out, "unknown type constructor Foo") {
		t.Fatalf("expected Pretty to include code and message, got %q", out)
	}
	if !strings.Contains(out, "f.duo:3:1") {
		t.Fatalf("expected Pretty to include the span, got %q", out)
	}
}

func TestReportPrettyIncludesFixSuggestion(t *testing.T) {
	rep := &Report{Code: TInvalidMatch, Phase: PhaseElaborate, Message: "missing case", Fix: &Fix{Suggestion: "add a case for F", Confidence: 0.9}}
	out := rep.Pretty()
	if !strings.Contains(out, "add a case for F") {
		t.Fatalf("expected Pretty to include the fix suggestion, got %q", out)
	}
}

func TestNewGenericWrapsAPlainError(t *testing.T) {
	rep := NewGeneric("unify", errTest{"boom"})
	if rep.Code != TImpossible {
		t.Fatalf("expected generic wrap to use TImpossible, got %s", rep.Code)
	}
	if rep.Message != "boom" {
		t.Fatalf("expected message to carry the original error text, got %s", rep.Message)
	}
}

type errTest struct{ msg string }

func (e errTest) Error() string { return e.msg }

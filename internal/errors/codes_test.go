package errors

import "testing"

func TestRegistryCoversEveryCode(t *testing.T) {
	codes := []string{
		TArgLenMismatch, TNotInType, TExpectedTypApp,
		TCannotInferMatch, TCannotInferComatch, TCannotInferHole,
		TNotEq, TNotEqDetailed, TCannotDecide,
		TInvalidMatch, TPatternIsAbsurd, TPatternIsNotAbsurd, TMatchOnCodata, TComatchOnData, TLocalComatchWithSelf,
		TUnresolvedMeta, TOccursCheckFailed, TMetaArgNotDistinct, TMetaArgNotVariable, TMetaEquatedToOutOfScope, TMetaOccursCheckFailed,
		TTooManyArgs, TMissingArgForParam,
		TImpossible,
	}
	for _, code := range codes {
		info, ok := Registry[code]
		if !ok {
			t.Errorf("code %s missing from Registry", code)
			continue
		}
		if info.Code != code {
			t.Errorf("Registry[%s].Code = %s", code, info.Code)
		}
		if info.Description == "" {
			t.Errorf("Registry[%s] has no description", code)
		}
	}
}

func TestIsInternal(t *testing.T) {
	if !IsInternal(TImpossible) {
		t.Errorf("expected %s to be internal", TImpossible)
	}
	if IsInternal(TNotEq) {
		t.Errorf("expected %s not to be internal", TNotEq)
	}
}

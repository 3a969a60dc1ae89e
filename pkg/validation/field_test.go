package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-churnform/pkg/model"
)

func numberField(raw string, min, max *float64) model.FieldState {
	return model.FieldState{
		Spec: model.FieldSpec{
			ID:       "Age",
			Required: true,
			Kind:     model.FieldKindNumber,
			Min:      min,
			Max:      max,
		},
		RawValue: raw,
	}
}

func TestValidate_RequiredRegardlessOfKind(t *testing.T) {
	for _, kind := range []model.FieldKind{model.FieldKindNumber, model.FieldKindSelect, model.FieldKindText} {
		for _, raw := range []string{"", "   "} {
			field := model.FieldState{
				Spec:     model.FieldSpec{ID: "x", Required: true, Kind: kind, Min: model.Float(1)},
				RawValue: raw,
			}
			got := Validate(field)
			want := model.ValidationResult{Valid: false, Message: MessageRequired, Rule: model.RuleRequired}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("kind %s raw %q (-want +got):\n%s", kind, raw, diff)
			}
		}
	}
}

func TestValidate_OptionalEmptyIsValid(t *testing.T) {
	field := model.FieldState{
		Spec: model.FieldSpec{ID: "x", Kind: model.FieldKindNumber, Min: model.Float(1)},
	}
	if got := Validate(field); !got.Valid {
		t.Fatalf("expected optional empty field to be valid, got %+v", got)
	}
}

func TestValidate_Bounds(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want model.ValidationResult
	}{
		{name: "below min", raw: "9", want: model.ValidationResult{Message: "Value must be at least 10", Rule: model.RuleMin}},
		{name: "at min", raw: "10", want: model.ValidationResult{Valid: true}},
		{name: "inside", raw: "55.5", want: model.ValidationResult{Valid: true}},
		{name: "at max", raw: "100", want: model.ValidationResult{Valid: true}},
		{name: "above max", raw: "100.01", want: model.ValidationResult{Message: "Value must be at most 100", Rule: model.RuleMax}},
		{name: "padded", raw: " 42 ", want: model.ValidationResult{Valid: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(numberField(tc.raw, model.Float(10), model.Float(100)))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_FractionalBoundMessage(t *testing.T) {
	got := Validate(numberField("0.1", model.Float(0.5), nil))
	if got.Message != "Value must be at least 0.5" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestValidate_MinCheckedBeforeMax(t *testing.T) {
	// Overlapping bounds cannot come from a valid declaration, but the rule
	// order still has to hold for whatever reaches the validator.
	got := Validate(numberField("5", model.Float(10), model.Float(1)))
	if got.Rule != model.RuleMin {
		t.Fatalf("expected min rule to win, got %+v", got)
	}
}

func TestValidate_UnparseableNumberIsFormatError(t *testing.T) {
	for _, raw := range []string{"abc", "NaN", "Inf", "1e500", "12abc"} {
		got := Validate(numberField(raw, model.Float(10), model.Float(100)))
		want := model.ValidationResult{Message: MessageInvalidNumber, Rule: model.RuleFormat}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("raw %q (-want +got):\n%s", raw, diff)
		}
	}
}

func TestValidate_SelectOptions(t *testing.T) {
	spec := model.FieldSpec{
		ID:       "Complains",
		Required: true,
		Kind:     model.FieldKindSelect,
		Options:  []model.Option{{Value: "0", Label: "No"}, {Value: "1", Label: "Yes"}},
	}
	if got := Validate(model.FieldState{Spec: spec, RawValue: "1"}); !got.Valid {
		t.Fatalf("expected declared option to be valid, got %+v", got)
	}
	got := Validate(model.FieldState{Spec: spec, RawValue: "2"})
	if got.Valid || got.Rule != model.RuleFormat || got.Message != MessageInvalidOption {
		t.Fatalf("expected option error, got %+v", got)
	}
}

func TestValidate_NonNumberKindsStillNeedNumbers(t *testing.T) {
	cases := []struct {
		name string
		spec model.FieldSpec
		raw  string
		want model.ValidationResult
	}{
		{
			name: "text free input",
			spec: model.FieldSpec{ID: "Note", Kind: model.FieldKindText},
			raw:  "hello",
			want: model.ValidationResult{Message: MessageInvalidNumber, Rule: model.RuleFormat},
		},
		{
			name: "text numeric input",
			spec: model.FieldSpec{ID: "Note", Kind: model.FieldKindText},
			raw:  "12",
			want: model.ValidationResult{Valid: true},
		},
		{
			name: "select without options",
			spec: model.FieldSpec{ID: "Status", Kind: model.FieldKindSelect},
			raw:  "active",
			want: model.ValidationResult{Message: MessageInvalidNumber, Rule: model.RuleFormat},
		},
		{
			name: "select declared but non-numeric option",
			spec: model.FieldSpec{ID: "Plan", Kind: model.FieldKindSelect, Options: []model.Option{{Value: "gold"}}},
			raw:  "gold",
			want: model.ValidationResult{Message: MessageInvalidNumber, Rule: model.RuleFormat},
		},
		{
			name: "text ignores bounds",
			spec: model.FieldSpec{ID: "Note", Kind: model.FieldKindText, Min: model.Float(10)},
			raw:  "3",
			want: model.ValidationResult{Valid: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(model.FieldState{Spec: tc.spec, RawValue: tc.raw})
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("(-want +got):\n%s", diff)
			}
		})
	}
}

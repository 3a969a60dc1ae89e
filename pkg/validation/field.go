package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-churnform/pkg/model"
)

const (
	MessageRequired      = "This field is required"
	MessageInvalidNumber = "Please enter a valid number"
	MessageInvalidOption = "Please choose a valid option"
)

// Validate checks a single field against its declaration. Rules run in the
// order required, format, min, max and the first failure wins.
func Validate(field model.FieldState) model.ValidationResult {
	spec := field.Spec
	if field.Empty() {
		if spec.Required {
			return invalid(model.RuleRequired, MessageRequired)
		}
		return model.ValidationResult{Valid: true}
	}

	if spec.Kind == model.FieldKindSelect && len(spec.Options) > 0 &&
		!spec.HasOption(strings.TrimSpace(field.RawValue)) {
		return invalid(model.RuleFormat, MessageInvalidOption)
	}

	// Every submitted value is numeric, whatever input flavour collected it.
	value, ok := ParseNumber(field.RawValue)
	if !ok {
		return invalid(model.RuleFormat, MessageInvalidNumber)
	}
	if spec.Kind != model.FieldKindNumber {
		return model.ValidationResult{Valid: true}
	}
	return checkBounds(spec, value)
}

// ParseNumber parses user input as a finite float. NaN and infinities are
// rejected so they can never slip past bound checks.
func ParseNumber(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func checkBounds(spec model.FieldSpec, value float64) model.ValidationResult {
	if spec.Min != nil && value < *spec.Min {
		return invalid(model.RuleMin, "Value must be at least "+formatBound(*spec.Min))
	}
	if spec.Max != nil && value > *spec.Max {
		return invalid(model.RuleMax, "Value must be at most "+formatBound(*spec.Max))
	}
	return model.ValidationResult{Valid: true}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func invalid(rule model.Rule, message string) model.ValidationResult {
	return model.ValidationResult{Valid: false, Message: message, Rule: rule}
}

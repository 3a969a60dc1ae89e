package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldKind is the input flavour declared for a field.
type FieldKind string

const (
	FieldKindNumber FieldKind = "number"
	FieldKindSelect FieldKind = "select"
	FieldKindText   FieldKind = "text"
)

// Rule identifies the validation rule that rejected a value.
type Rule string

const (
	RuleNone     Rule = ""
	RuleRequired Rule = "required"
	RuleFormat   Rule = "format"
	RuleMin      Rule = "min"
	RuleMax      Rule = "max"
)

// ErrInvalidBounds reports a declaration whose minimum exceeds its maximum.
var ErrInvalidBounds = errors.New("model: min must not exceed max")

// ErrNonNumericOption reports a select option whose value cannot be sent to
// the scoring service.
var ErrNonNumericOption = errors.New("model: option values must be numeric")

// Option is a selectable value for select fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// FieldSpec declares one form input and its constraints.
type FieldSpec struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	Help     string    `json:"help,omitempty" yaml:"help,omitempty"`
	Required bool      `json:"required" yaml:"required"`
	Kind     FieldKind `json:"kind" yaml:"kind"`
	Min      *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Options  []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// Check verifies the declaration is usable.
func (s FieldSpec) Check() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: field id is required")
	}
	switch s.Kind {
	case FieldKindNumber, FieldKindSelect, FieldKindText:
	default:
		return fmt.Errorf("model: field %q has unsupported kind %q", s.ID, s.Kind)
	}
	if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return fmt.Errorf("%w (field %q: %v > %v)", ErrInvalidBounds, s.ID, *s.Min, *s.Max)
	}
	for _, opt := range s.Options {
		value, err := strconv.ParseFloat(strings.TrimSpace(opt.Value), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w (field %q: %q)", ErrNonNumericOption, s.ID, opt.Value)
		}
	}
	return nil
}

// Clone returns a copy that shares no bounds or options with s.
func (s FieldSpec) Clone() FieldSpec {
	out := s
	if s.Min != nil {
		out.Min = Float(*s.Min)
	}
	if s.Max != nil {
		out.Max = Float(*s.Max)
	}
	if s.Options != nil {
		out.Options = append([]Option(nil), s.Options...)
	}
	return out
}

// DisplayLabel returns the label or falls back to the id.
func (s FieldSpec) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return strings.ReplaceAll(s.ID, "_", " ")
}

// HasOption reports whether value is one of the declared options.
func (s FieldSpec) HasOption(value string) bool {
	for _, opt := range s.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// FieldState is the live state of one input.
type FieldState struct {
	Spec     FieldSpec `json:"spec"`
	RawValue string    `json:"value"`
	Touched  bool      `json:"touched"`
}

// Empty reports whether the raw value holds no input.
func (f FieldState) Empty() bool {
	return strings.TrimSpace(f.RawValue) == ""
}

// ValidationResult is derived from a FieldState on demand.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Rule    Rule   `json:"rule,omitempty"`
}

// Float returns a pointer to v, for declaring bounds inline.
func Float(v float64) *float64 {
	return &v
}

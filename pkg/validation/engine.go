package validation

import "github.com/goliatone/go-churnform/pkg/model"

// Marker receives per-field error display updates. Implementations own the
// visible error text and the invalid marker of each input.
type Marker interface {
	SetFieldError(id, message string)
	SetFieldInvalid(id string, invalid bool)
}

// FieldReport is the outcome for one field.
type FieldReport struct {
	ID     string
	Result model.ValidationResult
}

// Report aggregates field outcomes in declaration order.
type Report struct {
	Valid  bool
	Fields []FieldReport
}

// Result returns the outcome recorded for id.
func (r Report) Result(id string) (model.ValidationResult, bool) {
	for _, field := range r.Fields {
		if field.ID == id {
			return field.Result, true
		}
	}
	return model.ValidationResult{}, false
}

// Evaluate validates every field without side effects.
func Evaluate(fields []model.FieldState) Report {
	report := Report{
		Valid:  true,
		Fields: make([]FieldReport, 0, len(fields)),
	}
	for _, field := range fields {
		result := Validate(field)
		if !result.Valid {
			report.Valid = false
		}
		report.Fields = append(report.Fields, FieldReport{ID: field.Spec.ID, Result: result})
	}
	return report
}

// Engine aggregates field validation and reveals errors for touched fields.
type Engine struct {
	marker Marker
}

// NewEngine returns an engine that reports through marker. A nil marker makes
// every call silent.
func NewEngine(marker Marker) *Engine {
	return &Engine{marker: marker}
}

// ValidateAll reports whether every field is valid. When reveal is true,
// touched fields get their error text and invalid marker synced to their
// result; untouched fields are left alone. When reveal is false no marker
// calls are made.
func (e *Engine) ValidateAll(fields []model.FieldState, reveal bool) bool {
	report := Evaluate(fields)
	if !reveal || e == nil || e.marker == nil {
		return report.Valid
	}
	for i, field := range fields {
		if !field.Touched {
			continue
		}
		result := report.Fields[i].Result
		e.marker.SetFieldError(field.Spec.ID, result.Message)
		e.marker.SetFieldInvalid(field.Spec.ID, !result.Valid)
	}
	return report.Valid
}

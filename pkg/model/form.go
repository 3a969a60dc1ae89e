package model

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when an event references an undeclared id.
var ErrUnknownField = errors.New("model: unknown field")

// Form is the ordered collection of field states for one session. The set of
// ids is fixed by NewForm. Form is not safe for concurrent use; the owner
// serializes access.
type Form struct {
	fields []FieldState
	index  map[string]int
}

// NewForm builds a form from declarations, rejecting duplicates and invalid
// bounds.
func NewForm(specs []FieldSpec) (*Form, error) {
	if len(specs) == 0 {
		return nil, errors.New("model: form requires at least one field")
	}
	form := &Form{
		fields: make([]FieldState, 0, len(specs)),
		index:  make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if err := spec.Check(); err != nil {
			return nil, err
		}
		if _, exists := form.index[spec.ID]; exists {
			return nil, fmt.Errorf("model: duplicate field id %q", spec.ID)
		}
		form.index[spec.ID] = len(form.fields)
		form.fields = append(form.fields, FieldState{Spec: spec})
	}
	return form, nil
}

// IDs returns field ids in declaration order.
func (f *Form) IDs() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = field.Spec.ID
	}
	return out
}

// Field returns a copy of the state for id.
func (f *Form) Field(id string) (FieldState, bool) {
	idx, ok := f.index[id]
	if !ok {
		return FieldState{}, false
	}
	return f.fields[idx], true
}

// Set stores a raw value and marks the field touched.
func (f *Form) Set(id, raw string) error {
	idx, ok := f.index[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, id)
	}
	f.fields[idx].RawValue = raw
	f.fields[idx].Touched = true
	return nil
}

// Touch marks the field touched without changing its value.
func (f *Form) Touch(id string) error {
	idx, ok := f.index[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, id)
	}
	f.fields[idx].Touched = true
	return nil
}

// Reset clears every value and touched flag. It is the only way a touched
// flag returns to false.
func (f *Form) Reset() {
	for i := range f.fields {
		f.fields[i].RawValue = ""
		f.fields[i].Touched = false
	}
}

// Snapshot returns a copy of the field states in declaration order.
func (f *Form) Snapshot() []FieldState {
	return append([]FieldState(nil), f.fields...)
}

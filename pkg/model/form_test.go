package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-churnform/pkg/model"
)

func sampleSpecs() []model.FieldSpec {
	return []model.FieldSpec{
		{ID: "Age", Required: true, Kind: model.FieldKindNumber, Min: model.Float(10), Max: model.Float(100)},
		{ID: "Complains", Required: true, Kind: model.FieldKindSelect},
		{ID: "Note", Kind: model.FieldKindText},
	}
}

func TestNewForm_PreservesDeclarationOrder(t *testing.T) {
	form, err := model.NewForm(sampleSpecs())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if diff := cmp.Diff([]string{"Age", "Complains", "Note"}, form.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestNewForm_RejectsDuplicatesAndBadBounds(t *testing.T) {
	dup := append(sampleSpecs(), model.FieldSpec{ID: "Age", Kind: model.FieldKindNumber})
	if _, err := model.NewForm(dup); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	bad := []model.FieldSpec{{ID: "Age", Kind: model.FieldKindNumber, Min: model.Float(5), Max: model.Float(1)}}
	_, err := model.NewForm(bad)
	if !errors.Is(err, model.ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}

	if _, err := model.NewForm(nil); err == nil {
		t.Fatalf("expected error for empty declaration list")
	}
}

func TestForm_SetTouchReset(t *testing.T) {
	form, err := model.NewForm(sampleSpecs())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	if err := form.Set("Age", "42"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := form.Touch("Note"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := form.Set("Missing", "1"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	age, _ := form.Field("Age")
	if age.RawValue != "42" || !age.Touched {
		t.Fatalf("unexpected age state: %+v", age)
	}
	note, _ := form.Field("Note")
	if !note.Touched || note.RawValue != "" {
		t.Fatalf("unexpected note state: %+v", note)
	}

	form.Reset()
	for _, field := range form.Snapshot() {
		if field.Touched || field.RawValue != "" {
			t.Fatalf("field %s not reset: %+v", field.Spec.ID, field)
		}
	}
}

func TestForm_SnapshotIsACopy(t *testing.T) {
	form, err := model.NewForm(sampleSpecs())
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	snap := form.Snapshot()
	snap[0].RawValue = "mutated"

	age, _ := form.Field("Age")
	if age.RawValue != "" {
		t.Fatalf("snapshot mutation leaked into form: %+v", age)
	}
}

func TestFieldSpecCheck_RejectsNonNumericOptions(t *testing.T) {
	spec := model.FieldSpec{ID: "Plan", Kind: model.FieldKindSelect, Options: []model.Option{
		{Value: "1", Label: "Basic"},
		{Value: "gold", Label: "Gold"},
	}}
	if err := spec.Check(); !errors.Is(err, model.ErrNonNumericOption) {
		t.Fatalf("expected ErrNonNumericOption, got %v", err)
	}

	spec.Options[1].Value = "2"
	if err := spec.Check(); err != nil {
		t.Fatalf("numeric options should pass: %v", err)
	}
}

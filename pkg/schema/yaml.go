package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-churnform/pkg/model"
)

type fieldsDocument struct {
	Fields []model.FieldSpec `yaml:"fields"`
}

// ParseFields decodes a YAML (or JSON) field list:
//
//	fields:
//	  - id: Age
//	    kind: number
//	    required: true
//	    min: 10
//	    max: 100
func ParseFields(raw []byte) ([]model.FieldSpec, error) {
	var doc fieldsDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode fields: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("schema: document declares no fields")
	}
	for i := range doc.Fields {
		if doc.Fields[i].Kind == "" {
			doc.Fields[i].Kind = inferKind(doc.Fields[i])
		}
	}
	if err := checkAll(doc.Fields); err != nil {
		return nil, err
	}
	return doc.Fields, nil
}

func inferKind(spec model.FieldSpec) model.FieldKind {
	switch {
	case len(spec.Options) > 0:
		return model.FieldKindSelect
	case spec.Min != nil || spec.Max != nil:
		return model.FieldKindNumber
	default:
		return model.FieldKindText
	}
}

func checkAll(specs []model.FieldSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if err := spec.Check(); err != nil {
			return err
		}
		if _, ok := seen[spec.ID]; ok {
			return fmt.Errorf("schema: duplicate field id %q", spec.ID)
		}
		seen[spec.ID] = struct{}{}
	}
	return nil
}

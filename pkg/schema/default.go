package schema

import (
	_ "embed"
	"sync"

	"github.com/goliatone/go-churnform/pkg/model"
)

//go:embed default_fields.yaml
var defaultFieldsYAML []byte

var (
	defaultOnce   sync.Once
	defaultFields []model.FieldSpec
	defaultErr    error
)

// Default returns the built-in customer attribute declarations used when no
// declaration source is configured. The returned declarations are deep
// copies.
func Default() []model.FieldSpec {
	defaultOnce.Do(func() {
		defaultFields, defaultErr = ParseFields(defaultFieldsYAML)
	})
	if defaultErr != nil {
		panic("schema: embedded default fields are invalid: " + defaultErr.Error())
	}
	out := make([]model.FieldSpec, len(defaultFields))
	for i, spec := range defaultFields {
		out[i] = spec.Clone()
	}
	return out
}

package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-churnform/pkg/model"
)

// DefaultSchemaName is the component the scoring service publishes for the
// /predict request body.
const DefaultSchemaName = "CustomerData"

const predictPath = "/predict"

// FromOpenAPI extracts field declarations from an OpenAPI document. The named
// component schema wins; when it is missing the JSON request body of
// POST /predict is used instead. Required properties come first in the order
// the document lists them, the rest follow alphabetically.
func FromOpenAPI(ctx context.Context, raw []byte, schemaName string) ([]model.FieldSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(schemaName) == "" {
		schemaName = DefaultSchemaName
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}

	target := lookupSchema(doc, schemaName)
	if target == nil {
		return nil, fmt.Errorf("schema: openapi document has no %q schema or %s request body", schemaName, predictPath)
	}
	if len(target.Properties) == 0 {
		return nil, errors.New("schema: request schema declares no properties")
	}

	specs := make([]model.FieldSpec, 0, len(target.Properties))
	for _, name := range propertyOrder(target) {
		spec, err := fieldFromSchema(name, target.Properties[name], contains(target.Required, name))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err := checkAll(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func lookupSchema(doc *openapi3.T, name string) *openapi3.Schema {
	if doc.Components != nil {
		if ref, ok := doc.Components.Schemas[name]; ok && ref != nil && ref.Value != nil {
			return ref.Value
		}
	}
	if doc.Paths == nil {
		return nil
	}
	item := doc.Paths.Map()[predictPath]
	if item == nil || item.Post == nil || item.Post.RequestBody == nil || item.Post.RequestBody.Value == nil {
		return nil
	}
	media := item.Post.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

func propertyOrder(schema *openapi3.Schema) []string {
	order := make([]string, 0, len(schema.Properties))
	seen := make(map[string]struct{}, len(schema.Properties))
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}

	var rest []string
	for name := range schema.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func fieldFromSchema(name string, ref *openapi3.SchemaRef, required bool) (model.FieldSpec, error) {
	if ref == nil || ref.Value == nil {
		return model.FieldSpec{}, fmt.Errorf("schema: property %q has no resolved schema", name)
	}
	src := unwrapNullable(ref.Value)

	spec := model.FieldSpec{
		ID:       name,
		Label:    src.Title,
		Help:     src.Description,
		Required: required,
	}

	switch {
	case len(src.Enum) > 0:
		spec.Kind = model.FieldKindSelect
		for _, value := range src.Enum {
			text := fmt.Sprint(value)
			spec.Options = append(spec.Options, model.Option{Value: text, Label: text})
		}
	case src.Type.Is(openapi3.TypeNumber) || src.Type.Is(openapi3.TypeInteger):
		spec.Kind = model.FieldKindNumber
	default:
		spec.Kind = model.FieldKindText
	}

	if spec.Kind == model.FieldKindNumber {
		if src.Min != nil {
			spec.Min = model.Float(*src.Min)
		}
		if src.Max != nil {
			spec.Max = model.Float(*src.Max)
		}
	}
	return spec, nil
}

// unwrapNullable picks the first non-null branch of an anyOf/oneOf, which is
// how optional properties are usually published.
func unwrapNullable(schema *openapi3.Schema) *openapi3.Schema {
	if schema.Type != nil && len(schema.Type.Slice()) > 0 {
		return schema
	}
	for _, branches := range []openapi3.SchemaRefs{schema.AnyOf, schema.OneOf} {
		for _, branch := range branches {
			if branch == nil || branch.Value == nil {
				continue
			}
			if branch.Value.Type != nil && branch.Value.Type.Is(openapi3.TypeNull) {
				continue
			}
			merged := *branch.Value
			if merged.Title == "" {
				merged.Title = schema.Title
			}
			if merged.Description == "" {
				merged.Description = schema.Description
			}
			return &merged
		}
	}
	return schema
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

package schema

import (
	"context"
	"fmt"

	"github.com/goliatone/go-churnform/pkg/model"
)

// Resolve decodes a loaded document into field declarations, dispatching on
// its detected format. schemaName only applies to OpenAPI documents.
func Resolve(ctx context.Context, doc Document, schemaName string) ([]model.FieldSpec, error) {
	var (
		fields []model.FieldSpec
		err    error
	)
	switch doc.Format() {
	case FormatOpenAPI:
		fields, err = FromOpenAPI(ctx, doc.Raw(), schemaName)
	default:
		fields, err = ParseFields(doc.Raw())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Location(), err)
	}
	return fields, nil
}

// Load fetches src with loader and resolves it. A nil src yields Default().
func Load(ctx context.Context, loader *Loader, src Source, schemaName string) ([]model.FieldSpec, error) {
	if src == nil {
		return Default(), nil
	}
	if loader == nil {
		loader = NewLoader()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return Resolve(ctx, doc, schemaName)
}

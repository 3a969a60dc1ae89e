package client

import (
	"fmt"

	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/validation"
)

// BuildRequest serializes field states into a prediction request. Empty
// inputs are omitted so the service applies its own defaults; every other
// value must parse as a finite number.
func BuildRequest(fields []model.FieldState) (model.PredictionRequest, error) {
	request := make(model.PredictionRequest, len(fields))
	for _, field := range fields {
		if field.Empty() {
			continue
		}
		value, ok := validation.ParseNumber(field.RawValue)
		if !ok {
			return nil, fmt.Errorf("client: field %q is not numeric: %q", field.Spec.ID, field.RawValue)
		}
		request[field.Spec.ID] = value
	}
	return request, nil
}

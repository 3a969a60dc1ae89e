// Package churnform wires the customer churn-risk form: field declarations,
// the scoring service client, the result presenter and the interactive
// terminal session.
package churnform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-churnform/pkg/client"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/presenter"
	"github.com/goliatone/go-churnform/pkg/schema"
	"github.com/goliatone/go-churnform/pkg/terminal"
	"github.com/goliatone/go-churnform/pkg/validation"
)

// FieldSpec aliases model.FieldSpec for callers declaring fields inline.
type FieldSpec = model.FieldSpec

// Result aliases presenter.Result.
type Result = presenter.Result

// ErrInvalidValues is returned by Score when the values fail validation.
var ErrInvalidValues = errors.New("churnform: invalid values")

// ValuesError lists the failing fields of a Score call.
type ValuesError struct {
	Report validation.Report
	Fields []model.FieldSpec
}

func (e *ValuesError) Error() string {
	var parts []string
	for i, field := range e.Report.Fields {
		if !field.Result.Valid {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Fields[i].DisplayLabel(), field.Result.Message))
		}
	}
	return fmt.Sprintf("%s: %s", ErrInvalidValues, strings.Join(parts, "; "))
}

func (e *ValuesError) Is(target error) bool {
	return target == ErrInvalidValues
}

// Predictor scores a single request. *client.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, request model.PredictionRequest) (model.Prediction, error)
}

// DefaultFields returns the built-in customer attribute declarations.
func DefaultFields() []model.FieldSpec {
	return schema.Default()
}

// LoadFields resolves a declaration source: empty means the defaults, an
// http(s) prefix a remote document, anything else a local YAML or OpenAPI
// file. schemaName picks the component schema of OpenAPI documents.
func LoadFields(ctx context.Context, raw, schemaName string, timeout time.Duration) ([]model.FieldSpec, error) {
	src, err := schema.ParseSource(raw)
	if err != nil {
		return nil, err
	}
	loader := schema.NewLoader(
		schema.WithHTTPClient(http.DefaultClient),
		schema.WithRequestTimeout(timeout),
	)
	return schema.Load(ctx, loader, src, schemaName)
}

// NewClient constructs the scoring service client.
func NewClient(baseURL string, options ...client.Option) (*client.Client, error) {
	return client.New(baseURL, options...)
}

// NewSession wires an interactive terminal session for fields.
func NewSession(fields []model.FieldSpec, predictor *client.Client, options ...terminal.Option) (*terminal.Session, error) {
	if predictor == nil {
		return nil, errors.New("churnform: client is required")
	}
	return terminal.NewSession(fields, predictor, options...)
}

// Score validates values against fields and, when every field passes,
// submits them once. Values are keyed by field id; missing keys are empty.
func Score(ctx context.Context, fields []model.FieldSpec, values map[string]string, predictor Predictor) (model.Prediction, error) {
	if predictor == nil {
		return model.Prediction{}, errors.New("churnform: predictor is required")
	}
	known := make(map[string]bool, len(fields))
	states := make([]model.FieldState, len(fields))
	for i, spec := range fields {
		known[spec.ID] = true
		states[i] = model.FieldState{Spec: spec, RawValue: values[spec.ID], Touched: true}
	}
	var unknown []string
	for id := range values {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return model.Prediction{}, fmt.Errorf("%w: %s", model.ErrUnknownField, strings.Join(unknown, ", "))
	}

	report := validation.Evaluate(states)
	if !report.Valid {
		return model.Prediction{}, &ValuesError{Report: report, Fields: fields}
	}
	request, err := client.BuildRequest(states)
	if err != nil {
		return model.Prediction{}, err
	}
	return predictor.Predict(ctx, request)
}

// ParseValues splits "id=value,id=value" pairs.
func ParseValues(raw string) (map[string]string, error) {
	values := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("churnform: malformed value %q, want id=value", pair)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}

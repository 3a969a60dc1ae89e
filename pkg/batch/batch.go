// Package batch scores many customers at once. Rows from a CSV or XLSX file
// are validated with the same rules as the interactive form; only valid rows
// are sent to the scoring service.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-churnform/internal/logger"
	"github.com/goliatone/go-churnform/pkg/client"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/validation"
)

// ErrNoValidRows is returned when every data row fails validation.
var ErrNoValidRows = errors.New("batch: no valid rows to score")

// Predictor scores a batch. *client.Client satisfies it.
type Predictor interface {
	PredictBatch(ctx context.Context, requests []model.PredictionRequest) (model.BatchResult, error)
}

// RowError lists the validation failures of one spreadsheet row.
type RowError struct {
	Row      int
	Messages []string
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, strings.Join(e.Messages, "; "))
}

// ScoredRow pairs a spreadsheet row with its prediction.
type ScoredRow struct {
	Row      int
	Request  model.PredictionRequest
	Response model.PredictionResponse
}

// Summary is the outcome of one batch run.
type Summary struct {
	Rows             int
	Scored           []ScoredRow
	Invalid          []RowError
	HighRiskCount    int
	ProcessingTimeMS float64
}

// Plan is a validated table ready to submit.
type Plan struct {
	Rows     []int
	Requests []model.PredictionRequest
	Invalid  []RowError
	Total    int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger routes batch logs through log.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// Runner validates tables against field declarations and scores them.
type Runner struct {
	fields    []model.FieldSpec
	predictor Predictor
	log       *logger.Logger
}

// NewRunner builds a runner for fields.
func NewRunner(fields []model.FieldSpec, predictor Predictor, opts ...Option) (*Runner, error) {
	if len(fields) == 0 {
		return nil, errors.New("batch: fields are required")
	}
	if predictor == nil {
		return nil, errors.New("batch: predictor is required")
	}
	r := &Runner{fields: fields, predictor: predictor, log: logger.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Prepare maps columns to fields and validates every non-blank row. Row
// numbers are 1-based spreadsheet rows, so the first data row is 2.
func (r *Runner) Prepare(table Table) (Plan, error) {
	columns, err := mapColumns(r.fields, table.Header)
	if err != nil {
		return Plan{}, err
	}

	var plan Plan
	for i, row := range table.Rows {
		if blank(row) {
			continue
		}
		number := i + 2
		plan.Total++

		states := make([]model.FieldState, len(r.fields))
		for j, spec := range r.fields {
			states[j] = model.FieldState{Spec: spec, RawValue: cell(row, columns[j]), Touched: true}
		}

		report := validation.Evaluate(states)
		if !report.Valid {
			rowErr := RowError{Row: number}
			for j, field := range report.Fields {
				if !field.Result.Valid {
					rowErr.Messages = append(rowErr.Messages,
						fmt.Sprintf("%s: %s", r.fields[j].DisplayLabel(), field.Result.Message))
				}
			}
			plan.Invalid = append(plan.Invalid, rowErr)
			continue
		}

		request, err := client.BuildRequest(states)
		if err != nil {
			plan.Invalid = append(plan.Invalid, RowError{Row: number, Messages: []string{err.Error()}})
			continue
		}
		plan.Rows = append(plan.Rows, number)
		plan.Requests = append(plan.Requests, request)
	}
	return plan, nil
}

// Run validates table and submits the valid rows in a single call.
func (r *Runner) Run(ctx context.Context, table Table) (Summary, error) {
	plan, err := r.Prepare(table)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Rows: plan.Total, Invalid: plan.Invalid}
	for _, rowErr := range plan.Invalid {
		r.log.WithField("row", rowErr.Row).Warn(rowErr.String())
	}
	if len(plan.Requests) == 0 {
		return summary, ErrNoValidRows
	}

	result, err := r.predictor.PredictBatch(ctx, plan.Requests)
	if err != nil {
		return summary, fmt.Errorf("batch: score rows: %w", err)
	}
	if len(result.Predictions) != len(plan.Requests) {
		return summary, fmt.Errorf("batch: service returned %d predictions for %d rows",
			len(result.Predictions), len(plan.Requests))
	}

	for i, prediction := range result.Predictions {
		summary.Scored = append(summary.Scored, ScoredRow{
			Row:      plan.Rows[i],
			Request:  plan.Requests[i],
			Response: prediction,
		})
	}
	summary.HighRiskCount = result.HighRiskCount
	summary.ProcessingTimeMS = result.ProcessingTimeMS

	r.log.WithField("scored", len(summary.Scored)).
		WithField("invalid", len(summary.Invalid)).
		WithField("high_risk", summary.HighRiskCount).
		Info("batch scored")
	return summary, nil
}

// mapColumns returns, per field, the header index holding it or -1. Headers
// match a field id or label, ignoring case and treating runs of spaces and
// underscores as one separator, so "Call  Failure" matches Call_Failure.
func mapColumns(fields []model.FieldSpec, header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("batch: duplicate column %q", name)
		}
		index[key] = i
	}

	columns := make([]int, len(fields))
	matched := 0
	for j, field := range fields {
		columns[j] = -1
		for _, candidate := range []string{field.ID, field.Label} {
			if idx, ok := index[normalizeHeader(candidate)]; ok && candidate != "" {
				columns[j] = idx
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return nil, errors.New("batch: no column matches a known field")
	}
	return columns, nil
}

func normalizeHeader(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '_' || r == '\t'
	})
	return strings.Join(fields, "_")
}

package churnform

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-churnform/pkg/model"
)

type recordingPredictor struct {
	got []model.PredictionRequest
}

func (p *recordingPredictor) Predict(_ context.Context, req model.PredictionRequest) (model.Prediction, error) {
	p.got = append(p.got, req)
	return model.Prediction{Response: model.PredictionResponse{RiskLevel: model.RiskLow}}, nil
}

func scoreFields() []FieldSpec {
	return []FieldSpec{
		{ID: "Age", Label: "Age", Required: true, Kind: model.FieldKindNumber, Min: model.Float(10), Max: model.Float(100)},
		{ID: "Customer_Value", Label: "Customer Value", Kind: model.FieldKindNumber, Min: model.Float(0)},
	}
}

func TestScore_SubmitsValidValues(t *testing.T) {
	predictor := &recordingPredictor{}
	values, err := ParseValues("Age=42, Customer_Value=")
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	if _, err := Score(context.Background(), scoreFields(), values, predictor); err != nil {
		t.Fatalf("score: %v", err)
	}
	if diff := cmp.Diff([]model.PredictionRequest{{"Age": 42}}, predictor.got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_InvalidValuesMakeNoCall(t *testing.T) {
	predictor := &recordingPredictor{}
	_, err := Score(context.Background(), scoreFields(), map[string]string{"Age": "5"}, predictor)
	if !errors.Is(err, ErrInvalidValues) {
		t.Fatalf("expected ErrInvalidValues, got %v", err)
	}
	if !strings.Contains(err.Error(), "Age: Value must be at least 10") {
		t.Fatalf("unexpected message %q", err)
	}
	if len(predictor.got) != 0 {
		t.Fatalf("expected no call, got %d", len(predictor.got))
	}

	_, err = Score(context.Background(), scoreFields(), map[string]string{"Age": "20", "Tenure": "3"}, predictor)
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestParseValues_Malformed(t *testing.T) {
	if _, err := ParseValues("Age"); err == nil {
		t.Fatalf("expected error for a pair without '='")
	}
	if _, err := ParseValues("=4"); err == nil {
		t.Fatalf("expected error for an empty id")
	}
}

func TestLoadFields(t *testing.T) {
	fields, err := LoadFields(context.Background(), "", "", time.Second)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if diff := cmp.Diff(DefaultFields(), fields); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	fields, err = LoadFields(context.Background(), "pkg/schema/testdata/fields.yaml", "", time.Second)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if len(fields) == 0 || fields[0].ID != "Age" {
		t.Fatalf("unexpected fields %+v", fields)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fields:\n  - id: Tenure\n    kind: number\n    required: true\n"))
	}))
	defer server.Close()
	fields, err = LoadFields(context.Background(), server.URL+"/fields.yaml", "", time.Second)
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if len(fields) != 1 || fields[0].ID != "Tenure" {
		t.Fatalf("unexpected remote fields %+v", fields)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "result.tpl"); err != nil {
		t.Fatalf("expected result.tpl: %v", err)
	}
}

func TestNewSession_RequiresClient(t *testing.T) {
	if _, err := NewSession(DefaultFields(), nil); err == nil {
		t.Fatalf("expected error without client")
	}
}

package terminal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-churnform/pkg/client"
	"github.com/goliatone/go-churnform/pkg/model"
)

type stubDriver struct {
	mu           sync.Mutex
	inputs       []string
	selectIdx    []int
	confirms     []bool
	inputPos     int
	selectPos    int
	confirmPos   int
	prompts      []string
	confirmed    []string
	rejected     []string
	infoMessages []string
}

// Input replays scripted answers, asking again while the validator rejects
// them, as survey does.
func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, cfg.Message)
	for {
		if s.inputPos >= len(s.inputs) {
			return "", errors.New("no input scripted")
		}
		val := s.inputs[s.inputPos]
		s.inputPos++
		if cfg.Validator != nil {
			if err := cfg.Validator(val); err != nil {
				s.rejected = append(s.rejected, cfg.Message+": "+err.Error())
				continue
			}
		}
		return val, nil
	}
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, cfg.Message+": "+strings.Join(cfg.Options, "|"))
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, cfg.Message)
	if s.confirmPos >= len(s.confirms) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) printed(fragment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

type stubPredictor struct {
	health model.HealthStatus
	info   *model.ModelInfo
	resp   model.PredictionResponse
	err    error
	got    []model.PredictionRequest
}

func (p *stubPredictor) CheckHealth(context.Context) model.HealthStatus { return p.health }

func (p *stubPredictor) ModelInfo(context.Context) (model.ModelInfo, error) {
	if p.info == nil {
		return model.ModelInfo{}, errors.New("model metadata not available")
	}
	return *p.info, nil
}

func (p *stubPredictor) Predict(_ context.Context, req model.PredictionRequest) (model.Prediction, error) {
	p.got = append(p.got, req)
	if p.err != nil {
		return model.Prediction{}, p.err
	}
	return model.Prediction{Response: p.resp}, nil
}

func sessionFields() []model.FieldSpec {
	return []model.FieldSpec{
		{ID: "Age", Label: "Age", Required: true, Kind: model.FieldKindNumber, Min: model.Float(10), Max: model.Float(100)},
		{ID: "Status", Label: "Status", Required: true, Kind: model.FieldKindSelect, Options: []model.Option{
			{Value: "1", Label: "Active"},
			{Value: "2", Label: "Non-active"},
		}},
		{ID: "Customer_Value", Label: "Customer Value", Kind: model.FieldKindNumber, Min: model.Float(0)},
	}
}

func TestSession_FillSubmitQuit(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"5", "42", ""},
		selectIdx: []int{0, 0, 3},
		confirms:  []bool{true},
	}
	predictor := &stubPredictor{
		health: model.HealthOnline,
		info: &model.ModelInfo{
			ModelName:    "churn-model",
			ModelVersion: "3",
			FeatureCount: 13,
			Metrics:      map[string]float64{"accuracy": 0.94},
		},
		resp: model.PredictionResponse{ChurnProbability: 0.82, ChurnPrediction: 1, RiskLevel: model.RiskHigh, Confidence: 0.91},
	}
	session, err := NewSession(sessionFields(), predictor, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{
		"API status: System Online",
		"Model: churn-model v3 (13 features, accuracy 94.0%)",
		LabelAnalyzing,
		"High Risk  82%",
		"Prediction:     Churn Likely",
	} {
		if !driver.printed(want) {
			t.Fatalf("expected %q in output, got %q", want, driver.infoMessages)
		}
	}

	if diff := cmp.Diff([]string{"Age: Value must be at least 10"}, driver.rejected); diff != "" {
		t.Fatalf("rejected answers mismatch (-want +got):\n%s", diff)
	}

	wantRequest := []model.PredictionRequest{{"Age": 42, "Status": 1}}
	if diff := cmp.Diff(wantRequest, predictor.got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	if session.Controller().State() != model.StateResultShown {
		t.Fatalf("unexpected state %s", session.Controller().State())
	}
}

func TestSession_FailureAlertsAndContinues(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"30", "12"},
		selectIdx: []int{1, 0, 3},
		confirms:  []bool{true},
	}
	predictor := &stubPredictor{
		health: model.HealthOffline,
		err:    &client.SubmitError{Op: "/predict", Status: 503},
	}
	session, err := NewSession(sessionFields(), predictor, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !driver.printed("API status: System Offline") {
		t.Fatalf("expected offline status, got %q", driver.infoMessages)
	}
	if driver.printed("Model:") {
		t.Fatalf("offline service must not be asked for model info, got %q", driver.infoMessages)
	}
	if !driver.printed("Error: An error occurred while processing your request.") {
		t.Fatalf("expected alert, got %q", driver.infoMessages)
	}
	if session.Controller().State() != model.StateIdle {
		t.Fatalf("expected idle after failure, got %s", session.Controller().State())
	}
}

func TestSession_MenuReflectsGate(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"42", ""},
		selectIdx: []int{0, 3},
		confirms:  []bool{true},
	}
	session, err := NewSession(sessionFields(), &stubPredictor{}, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	last := driver.prompts[len(driver.prompts)-1]
	if !strings.HasPrefix(last, "What next?: "+LabelAnalyze+"|") {
		t.Fatalf("expected enabled analyze action, got %q", last)
	}
}

func TestSession_TextFieldAsksAgainUntilNumeric(t *testing.T) {
	fields := append(sessionFields(), model.FieldSpec{ID: "Note", Label: "Note", Kind: model.FieldKindText})
	driver := &stubDriver{
		inputs:    []string{"42", "", "hello", "3"},
		selectIdx: []int{0, 0, 3},
		confirms:  []bool{true},
	}
	predictor := &stubPredictor{
		health: model.HealthOnline,
		resp:   model.PredictionResponse{ChurnProbability: 0.1, RiskLevel: model.RiskLow, Confidence: 0.9},
	}
	session, err := NewSession(fields, predictor, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if diff := cmp.Diff([]string{"Note: Please enter a valid number"}, driver.rejected); diff != "" {
		t.Fatalf("rejected answers mismatch (-want +got):\n%s", diff)
	}
	wantRequest := []model.PredictionRequest{{"Age": 42, "Status": 1, "Note": 3}}
	if diff := cmp.Diff(wantRequest, predictor.got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	if driver.printed("Error:") {
		t.Fatalf("a valid form must not alert, got %q", driver.infoMessages)
	}
}

func TestSession_ResetAndQuitAskFirst(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"42", ""},
		selectIdx: []int{0, 2, 3, 3},
		confirms:  []bool{false, false, true},
	}
	session, err := NewSession(sessionFields(), &stubPredictor{}, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	wantConfirms := []string{"Clear every field and the result?", "Quit?", "Quit?"}
	if diff := cmp.Diff(wantConfirms, driver.confirmed); diff != "" {
		t.Fatalf("confirmations mismatch (-want +got):\n%s", diff)
	}
	if got := session.current("Age"); got != "42" {
		t.Fatalf("declined reset lost values, Age=%q", got)
	}
	if got := session.current("Status"); got != "1" {
		t.Fatalf("declined reset lost values, Status=%q", got)
	}
	if driver.inputPos != 2 {
		t.Fatalf("declined reset must not prompt again, consumed %d inputs", driver.inputPos)
	}
}

func TestSession_AbortPropagates(t *testing.T) {
	driver := &stubDriver{}
	session, err := NewSession(sessionFields(), &stubPredictor{}, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.Run(context.Background()); err == nil {
		t.Fatalf("expected error once the script runs out")
	}
}

func TestModelLine(t *testing.T) {
	cases := []struct {
		info model.ModelInfo
		want string
	}{
		{model.ModelInfo{ModelName: "churn-model", ModelVersion: "3", FeatureCount: 13}, "Model: churn-model v3 (13 features)"},
		{model.ModelInfo{ModelType: "XGBClassifier", Metrics: map[string]float64{"accuracy": 0.9}}, "Model: XGBClassifier (accuracy 90.0%)"},
		{model.ModelInfo{}, "Model: unknown"},
	}
	for _, tc := range cases {
		if got := modelLine(tc.info); got != tc.want {
			t.Fatalf("modelLine(%+v) = %q, want %q", tc.info, got, tc.want)
		}
	}
}

func TestFieldHelp(t *testing.T) {
	fields := sessionFields()
	if got := fieldHelp(fields[0]); got != "between 10 and 100" {
		t.Fatalf("unexpected help %q", got)
	}
	if got := fieldHelp(fields[2]); got != "at least 0; optional" {
		t.Fatalf("unexpected help %q", got)
	}
}

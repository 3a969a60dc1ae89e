package model

import "time"

// RiskLevel is the tier reported by the scoring service.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// PredictionRequest maps field ids to numeric values. Empty inputs are
// omitted rather than sent as zero.
type PredictionRequest map[string]float64

// RiskFactor is one explanation entry returned alongside a prediction.
type RiskFactor struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}

// PredictionResponse mirrors the body of POST /predict.
type PredictionResponse struct {
	ChurnProbability float64      `json:"churn_probability"`
	ChurnPrediction  int          `json:"churn_prediction"`
	RiskLevel        RiskLevel    `json:"risk_level"`
	Confidence       float64      `json:"confidence"`
	TopRiskFactors   []RiskFactor `json:"top_risk_factors,omitempty"`
}

// Prediction pairs a response with the server-reported processing time. Latency
// is nil when the header was missing.
type Prediction struct {
	Response PredictionResponse
	Latency  *time.Duration
}

// BatchResult mirrors the body of POST /predict/batch.
type BatchResult struct {
	Predictions      []PredictionResponse `json:"predictions"`
	TotalCustomers   int                  `json:"total_customers"`
	HighRiskCount    int                  `json:"high_risk_count"`
	ProcessingTimeMS float64              `json:"processing_time_ms"`
}

// ModelInfo describes the model behind the scoring service.
type ModelInfo struct {
	ModelType    string             `json:"model_type"`
	ModelName    string             `json:"model_name"`
	ModelVersion string             `json:"model_version"`
	Source       string             `json:"source"`
	FeatureCount int                `json:"feature_count"`
	FeatureNames []string           `json:"feature_names,omitempty"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

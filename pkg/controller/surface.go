package controller

import (
	"context"

	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/presenter"
	"github.com/goliatone/go-churnform/pkg/validation"
)

// Region identifies a scroll target on the surface.
type Region int

const (
	RegionTop Region = iota
	RegionResult
)

func (r Region) String() string {
	if r == RegionResult {
		return "result"
	}
	return "top"
}

// Surface is everything the controller changes on screen. Calls arrive
// serialized; implementations need no locking of their own.
type Surface interface {
	validation.Marker
	SetSubmitEnabled(enabled bool)
	SetSubmitBusy(busy bool)
	SetResultVisible(visible bool)
	ShowResult(result presenter.Result)
	SetHealth(status model.HealthStatus)
	Alert(message string)
	ClearFields()
	ScrollTo(region Region)
}

// Predictor is the remote scoring service. *client.Client satisfies it.
type Predictor interface {
	CheckHealth(ctx context.Context) model.HealthStatus
	Predict(ctx context.Context, request model.PredictionRequest) (model.Prediction, error)
}

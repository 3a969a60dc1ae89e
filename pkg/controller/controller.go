// Package controller drives a churn form session: it owns the field states,
// gates the submit control on validation, runs predictions and pushes every
// visible change to a Surface.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-churnform/internal/logger"
	"github.com/goliatone/go-churnform/pkg/client"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/presenter"
	"github.com/goliatone/go-churnform/pkg/validation"
)

// Controller is safe for concurrent use. One mutex serializes events; the
// remote calls run without it so input keeps flowing while a prediction is
// pending.
type Controller struct {
	mu sync.Mutex

	form      *model.Form
	engine    *validation.Engine
	surface   Surface
	predictor Predictor
	presenter *presenter.Presenter
	log       *logger.Logger

	state      model.UiState
	valid      bool
	health     model.HealthStatus
	result     *presenter.Result
	generation uint64

	started    bool
	healthDone chan struct{}
}

// New builds a controller over fields. The surface and predictor are required.
func New(fields []model.FieldSpec, surface Surface, predictor Predictor, opts ...Option) (*Controller, error) {
	if surface == nil {
		return nil, errors.New("controller: surface is required")
	}
	if predictor == nil {
		return nil, errors.New("controller: predictor is required")
	}
	form, err := model.NewForm(fields)
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	c := &Controller{
		form:       form,
		engine:     validation.NewEngine(surface),
		surface:    surface,
		predictor:  predictor,
		log:        logger.Discard(),
		state:      model.StateIdle,
		healthDone: make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.presenter == nil {
		c.presenter, err = presenter.New()
		if err != nil {
			return nil, fmt.Errorf("controller: %w", err)
		}
	}
	return c, nil
}

// Start runs the silent initial validation and probes the service health in
// the background. HealthDone is closed once the probe finishes.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.revalidate(false)
	c.surface.SetHealth(model.HealthUnknown)
	c.mu.Unlock()

	go func() {
		defer close(c.healthDone)
		status := c.predictor.CheckHealth(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.health = status
		c.surface.SetHealth(status)
		c.log.WithField("health", status.String()).Debug("health probe finished")
	}()
	return nil
}

// HealthDone is closed when the startup health probe has reported.
func (c *Controller) HealthDone() <-chan struct{} {
	return c.healthDone
}

// Input records typed text for id.
func (c *Controller) Input(id, value string) error {
	return c.set(id, value)
}

// Change records a committed value for id, such as a select choice.
func (c *Controller) Change(id, value string) error {
	return c.set(id, value)
}

// Blur marks id touched without changing its value.
func (c *Controller) Blur(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.form.Touch(id); err != nil {
		return err
	}
	c.revalidate(true)
	return nil
}

func (c *Controller) set(id, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.form.Set(id, value); err != nil {
		return err
	}
	c.revalidate(true)
	return nil
}

// Submit validates with errors revealed and, when the form passes, requests a
// prediction. It blocks until the prediction resolves or ctx ends. A failed
// call is signaled once through Surface.Alert and returned wrapped.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state == model.StateSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	fields := c.form.Snapshot()
	c.revalidate(true)
	if !c.valid {
		c.mu.Unlock()
		return ErrFormInvalid
	}
	request, err := client.BuildRequest(fields)
	if err != nil {
		c.log.WithError(err).Error("validated form did not serialize")
		c.surface.Alert(GenericFailureMessage)
		c.mu.Unlock()
		return fmt.Errorf("controller: %w", err)
	}

	c.state = model.StateSubmitting
	generation := c.generation
	c.surface.SetSubmitEnabled(false)
	c.surface.SetSubmitBusy(true)
	c.mu.Unlock()

	c.log.WithField("fields", len(request)).Debug("submitting prediction")
	prediction, err := c.predictor.Predict(ctx, request)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface.SetSubmitBusy(false)

	if generation != c.generation {
		// the form was reset while the call was pending
		c.state = model.StateIdle
		c.syncGate()
		if err != nil {
			return fmt.Errorf("controller: submit: %w", err)
		}
		return nil
	}

	if err != nil {
		c.log.WithError(err).Warn("prediction failed")
		c.state = model.StateIdle
		c.result = nil
		c.surface.SetResultVisible(false)
		c.surface.Alert(GenericFailureMessage)
		c.syncGate()
		return fmt.Errorf("controller: submit: %w", err)
	}

	result := c.presenter.Present(prediction)
	c.result = &result
	c.state = model.StateResultShown
	c.surface.ShowResult(result)
	c.surface.SetResultVisible(true)
	c.surface.ScrollTo(RegionResult)
	c.syncGate()

	c.log.WithFields(logrus.Fields{
		"risk_level": string(prediction.Response.RiskLevel),
		"risk_score": result.RiskScore,
	}).Info("prediction shown")
	return nil
}

// Reset hides the result, clears every value and touched flag, and returns
// to Idle. A pending prediction is still awaited but its outcome is dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.result = nil
	c.form.Reset()
	c.surface.SetResultVisible(false)
	c.surface.ClearFields()
	c.surface.ScrollTo(RegionTop)
	if c.state != model.StateSubmitting {
		c.state = model.StateIdle
	}
	c.revalidate(false)
}

// State returns the current UI state.
func (c *Controller) State() model.UiState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Valid reports the outcome of the latest validation pass.
func (c *Controller) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid
}

// Health returns the last reported service health.
func (c *Controller) Health() model.HealthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// Fields returns a copy of the field states.
func (c *Controller) Fields() []model.FieldState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Snapshot()
}

// Result returns the result on display, if any.
func (c *Controller) Result() (presenter.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return presenter.Result{}, false
	}
	return *c.result, true
}

// Report evaluates the current fields without touching the surface.
func (c *Controller) Report() validation.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validation.Evaluate(c.form.Snapshot())
}

// revalidate requires c.mu.
func (c *Controller) revalidate(reveal bool) {
	c.valid = c.engine.ValidateAll(c.form.Snapshot(), reveal)
	c.syncGate()
}

// syncGate requires c.mu.
func (c *Controller) syncGate() {
	c.surface.SetSubmitEnabled(c.valid && c.state != model.StateSubmitting)
}

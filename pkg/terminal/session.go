package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-churnform/pkg/controller"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/validation"
)

const (
	actionEdit  = "Edit a field"
	actionReset = "Reset form"
	actionQuit  = "Quit"

	emptyOption = "(leave empty)"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithControllerOptions forwards options to the controller.
func WithControllerOptions(opts ...controller.Option) Option {
	return func(s *Session) {
		s.controllerOpts = append(s.controllerOpts, opts...)
	}
}

// ModelDescriber reports metadata about the scoring model. *client.Client
// satisfies it; predictors without it skip the model line.
type ModelDescriber interface {
	ModelInfo(ctx context.Context) (model.ModelInfo, error)
}

// Session walks the user through the form and the submit/reset loop.
type Session struct {
	driver         PromptDriver
	predictor      controller.Predictor
	fields         []model.FieldSpec
	surface        *Surface
	ctrl           *controller.Controller
	controllerOpts []controller.Option
}

// NewSession wires a controller to a terminal surface.
func NewSession(fields []model.FieldSpec, predictor controller.Predictor, opts ...Option) (*Session, error) {
	s := &Session{fields: fields, predictor: predictor}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	s.surface = NewSurface(s.driver, fields)

	ctrl, err := controller.New(fields, s.surface, predictor, s.controllerOpts...)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	return s, nil
}

// Controller exposes the underlying controller.
func (s *Session) Controller() *controller.Controller {
	return s.ctrl
}

// Run blocks until the user quits, aborts, or ctx ends. Quitting returns nil.
func (s *Session) Run(ctx context.Context) error {
	if err := s.ctrl.Start(ctx); err != nil {
		return err
	}
	select {
	case <-s.ctrl.HealthDone():
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.ctrl.Health() == model.HealthOnline {
		if err := s.describeModel(ctx); err != nil {
			return err
		}
	}

	if err := s.promptAll(ctx); err != nil {
		return err
	}

	for {
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message: "What next?",
			Options: []string{s.surface.SubmitLabel(), actionEdit, actionReset, actionQuit},
		})
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			if err := s.submit(ctx); err != nil {
				return err
			}
		case 1:
			if err := s.edit(ctx); err != nil {
				return err
			}
		case 2:
			ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Clear every field and the result?"})
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			s.ctrl.Reset()
			if err := s.promptAll(ctx); err != nil {
				return err
			}
		default:
			ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Quit?", Default: true})
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
}

// describeModel prints a one-line model summary. Metadata failures are not
// fatal; the form works without them.
func (s *Session) describeModel(ctx context.Context) error {
	describer, ok := s.predictor.(ModelDescriber)
	if !ok {
		return nil
	}
	info, err := describer.ModelInfo(ctx)
	if err != nil {
		return nil
	}
	return s.driver.Info(ctx, modelLine(info))
}

func modelLine(info model.ModelInfo) string {
	name := info.ModelName
	if name == "" {
		name = info.ModelType
	}
	if name == "" {
		name = "unknown"
	}
	line := "Model: " + name
	if info.ModelVersion != "" {
		line += " v" + info.ModelVersion
	}
	var details []string
	if info.FeatureCount > 0 {
		details = append(details, fmt.Sprintf("%d features", info.FeatureCount))
	}
	if accuracy, ok := info.Metrics["accuracy"]; ok {
		details = append(details, "accuracy "+strconv.FormatFloat(accuracy*100, 'f', 1, 64)+"%")
	}
	if len(details) > 0 {
		line += " (" + strings.Join(details, ", ") + ")"
	}
	return line
}

func (s *Session) submit(ctx context.Context) error {
	err := s.ctrl.Submit(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrFormInvalid):
		for _, field := range s.fields {
			if line := s.surface.FieldError(field.ID); line != "" {
				_ = s.driver.Info(ctx, line)
			}
		}
		return s.driver.Info(ctx, "Fix the fields above before analyzing.")
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		// the surface already alerted the user; the form stays editable
		return nil
	}
}

func (s *Session) edit(ctx context.Context) error {
	options := make([]string, len(s.fields))
	for i, field := range s.fields {
		options[i] = field.DisplayLabel()
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Field to edit", Options: options, PageSize: 15})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(s.fields) {
		return nil
	}
	return s.promptField(ctx, s.fields[idx])
}

func (s *Session) promptAll(ctx context.Context) error {
	for _, field := range s.fields {
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, spec model.FieldSpec) error {
	for {
		var err error
		if spec.Kind == model.FieldKindSelect && len(spec.Options) > 0 {
			err = s.promptSelect(ctx, spec)
		} else {
			err = s.promptInput(ctx, spec)
		}
		if err != nil {
			return err
		}

		line := s.surface.FieldError(spec.ID)
		if line == "" {
			return nil
		}
		if err := s.driver.Info(ctx, line); err != nil {
			return err
		}
	}
}

func (s *Session) promptInput(ctx context.Context, spec model.FieldSpec) error {
	value, err := s.driver.Input(ctx, InputConfig{
		Message:   spec.DisplayLabel(),
		Default:   s.current(spec.ID),
		Help:      fieldHelp(spec),
		Validator: fieldValidator(spec),
	})
	if err != nil {
		return err
	}
	return s.ctrl.Input(spec.ID, strings.TrimSpace(value))
}

func (s *Session) promptSelect(ctx context.Context, spec model.FieldSpec) error {
	var (
		options []string
		values  []string
	)
	if !spec.Required {
		options = append(options, emptyOption)
		values = append(values, "")
	}
	current := s.current(spec.ID)
	defaultIndex := 0
	for _, option := range spec.Options {
		if option.Value == current {
			defaultIndex = len(values)
		}
		label := option.Label
		if label == "" {
			label = option.Value
		}
		options = append(options, label)
		values = append(values, option.Value)
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      spec.DisplayLabel(),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         spec.Help,
	})
	if err != nil {
		return err
	}
	value := ""
	if idx >= 0 && idx < len(values) {
		value = values[idx]
	}
	return s.ctrl.Change(spec.ID, value)
}

func (s *Session) current(id string) string {
	for _, field := range s.ctrl.Fields() {
		if field.Spec.ID == id {
			return field.RawValue
		}
	}
	return ""
}

// fieldValidator applies the form rules inside the prompt so survey asks
// again before the value ever reaches the controller.
func fieldValidator(spec model.FieldSpec) func(string) error {
	return func(raw string) error {
		result := validation.Validate(model.FieldState{Spec: spec, RawValue: strings.TrimSpace(raw), Touched: true})
		if !result.Valid {
			return errors.New(result.Message)
		}
		return nil
	}
}

func fieldHelp(spec model.FieldSpec) string {
	var parts []string
	if spec.Help != "" {
		parts = append(parts, spec.Help)
	}
	switch {
	case spec.Min != nil && spec.Max != nil:
		parts = append(parts, fmt.Sprintf("between %s and %s", formatBound(*spec.Min), formatBound(*spec.Max)))
	case spec.Min != nil:
		parts = append(parts, "at least "+formatBound(*spec.Min))
	case spec.Max != nil:
		parts = append(parts, "at most "+formatBound(*spec.Max))
	}
	if !spec.Required {
		parts = append(parts, "optional")
	}
	return strings.Join(parts, "; ")
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

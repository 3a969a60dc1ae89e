package terminal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-churnform/pkg/controller"
	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/presenter"
)

// Button labels for the submit action.
const (
	LabelAnalyze   = "Analyze Risk"
	LabelAnalyzing = "Analyzing..."
)

// Surface renders controller updates as terminal messages.
type Surface struct {
	mu      sync.Mutex
	driver  PromptDriver
	labels  map[string]string
	errors  map[string]string
	invalid map[string]bool
	enabled bool
	busy    bool
	visible bool
	health  model.HealthStatus
}

var _ controller.Surface = (*Surface)(nil)

// NewSurface writes through driver. Field labels are used in error lines.
func NewSurface(driver PromptDriver, fields []model.FieldSpec) *Surface {
	labels := make(map[string]string, len(fields))
	for _, field := range fields {
		labels[field.ID] = field.DisplayLabel()
	}
	return &Surface{
		driver:  driver,
		labels:  labels,
		errors:  make(map[string]string),
		invalid: make(map[string]bool),
	}
}

func (s *Surface) info(msg string) {
	_ = s.driver.Info(context.Background(), msg)
}

// SetFieldError records the revealed message for id. The session prints it
// after the prompt that caused it.
func (s *Surface) SetFieldError(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[id] = message
}

func (s *Surface) SetFieldInvalid(id string, invalid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid[id] = invalid
}

func (s *Surface) SetSubmitEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

func (s *Surface) SetSubmitBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
	if busy {
		s.info(LabelAnalyzing)
	}
}

func (s *Surface) SetResultVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
}

func (s *Surface) ShowResult(result presenter.Result) {
	s.info(strings.TrimRight(presenter.RenderText(result), "\n"))
}

func (s *Surface) SetHealth(status model.HealthStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = status
	s.info("API status: " + status.String())
}

func (s *Surface) Alert(message string) {
	s.info("Error: " + message)
}

// ClearFields drops every visible error.
func (s *Surface) ClearFields() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.errors {
		delete(s.errors, id)
	}
	for id := range s.invalid {
		delete(s.invalid, id)
	}
	s.info("Form cleared.")
}

func (s *Surface) ScrollTo(controller.Region) {}

// SubmitLabel returns the label for the submit action in its current state.
func (s *Surface) SubmitLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.busy:
		return LabelAnalyzing
	case !s.enabled:
		return LabelAnalyze + " (complete the form first)"
	default:
		return LabelAnalyze
	}
}

// FieldError returns the revealed message for id, formatted with its label.
// It is empty unless id is marked invalid.
func (s *Surface) FieldError(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	message := s.errors[id]
	if message == "" || !s.invalid[id] {
		return ""
	}
	return fmt.Sprintf("  ! %s: %s", s.labels[id], message)
}

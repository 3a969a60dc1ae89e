package client

import (
	"errors"
	"fmt"
)

// ErrPredictionFailed is the only failure detail callers can rely on; the UI
// shows a generic message for it.
var ErrPredictionFailed = errors.New("client: prediction failed")

// SubmitError describes a failed prediction call.
type SubmitError struct {
	Op     string
	Status int
	Err    error
}

func (e *SubmitError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s status %d: %v", ErrPredictionFailed, e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s status %d", ErrPredictionFailed, e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", ErrPredictionFailed, e.Op, e.Err)
	default:
		return ErrPredictionFailed.Error()
	}
}

// Is makes errors.Is(err, ErrPredictionFailed) hold for every SubmitError.
func (e *SubmitError) Is(target error) bool {
	return target == ErrPredictionFailed
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

package controller

import "errors"

// GenericFailureMessage is the only failure text shown to the user.
const GenericFailureMessage = "An error occurred while processing your request. Please ensure the API is running."

var (
	// ErrFormInvalid is returned by Submit when validation blocks the call.
	ErrFormInvalid = errors.New("controller: form is invalid")
	// ErrSubmitInFlight is returned by Submit while a prediction is pending.
	ErrSubmitInFlight = errors.New("controller: submission already in flight")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("controller: already started")
)

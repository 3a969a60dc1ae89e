// Package model defines the typed records shared by the churn form packages.
// Field declarations (FieldSpec) are read-only configuration supplied by
// pkg/schema; FieldState pairs a declaration with the raw text the user typed
// and a typed touched flag. Form owns the ordered FieldState collection for a
// single session and never changes its set of field ids after construction.
// Prediction types mirror the JSON contract of the remote scoring service so
// pkg/client can decode responses directly.
package model

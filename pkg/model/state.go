package model

// UiState is the submit lifecycle of the controller.
type UiState int

const (
	StateIdle UiState = iota
	StateSubmitting
	StateResultShown
)

func (s UiState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateResultShown:
		return "result_shown"
	default:
		return "unknown"
	}
}

// HealthStatus is the liveness indicator state.
type HealthStatus int

const (
	HealthUnknown HealthStatus = iota
	HealthOnline
	HealthOffline
)

func (h HealthStatus) String() string {
	switch h {
	case HealthOnline:
		return "System Online"
	case HealthOffline:
		return "System Offline"
	default:
		return "Checking..."
	}
}

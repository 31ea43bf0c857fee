package orchestrator

import (
	"autosheetify/internal/input"
	"autosheetify/internal/services"
	"autosheetify/internal/transcribe"
)

// Phase is the lifecycle position of the machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// Resolved reports whether the phase holds a result.
func (p Phase) Resolved() bool {
	return p == PhaseSuccess || p == PhaseFailed
}

// State is a snapshot of the machine. Result is set only when resolved.
type State struct {
	Phase         Phase                 `json:"phase"`
	Result        *transcribe.Result    `json:"result,omitempty"`
	RequestID     uint64                `json:"request_id,omitempty"`
	CorrelationID string                `json:"correlation_id,omitempty"`
	Instrument    transcribe.Instrument `json:"instrument"`
	Input         input.Summary         `json:"input"`
	Version       uint64                `json:"version"`
}

// ErrorKind is the failure class of a Failed state.
func (s State) ErrorKind() services.Kind {
	if s.Phase != PhaseFailed || s.Result == nil {
		return services.KindNone
	}
	return s.Result.ErrorKind
}

// isValidTransition enforces the machine's edges. Idle is reachable from
// every phase through Reset.
func isValidTransition(from, to Phase) bool {
	if to == PhaseIdle {
		return true
	}
	switch from {
	case PhaseIdle, PhaseSuccess, PhaseFailed:
		return to == PhaseSubmitting
	case PhaseSubmitting:
		return to == PhaseSuccess || to == PhaseFailed
	default:
		return false
	}
}

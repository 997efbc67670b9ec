package events

import (
	"time"
)

// EventType represents the severity class of an audit event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for an event.
type EventReason string

// Operation lifecycle reasons
const (
	// ReasonOperationAdmitted indicates an operation passed admission control.
	ReasonOperationAdmitted EventReason = "OperationAdmitted"

	// ReasonOperationCompleted indicates an operation finished successfully.
	ReasonOperationCompleted EventReason = "OperationCompleted"

	// ReasonOperationFailed indicates an operation reached the Failed state.
	ReasonOperationFailed EventReason = "OperationFailed"

	// ReasonOperationCancelled indicates an operation was cancelled at a
	// phase boundary or superseded by a forced submission.
	ReasonOperationCancelled EventReason = "OperationCancelled"
)

// Phase transition reasons
const (
	// ReasonPhaseStarted indicates an orchestration phase began executing.
	ReasonPhaseStarted EventReason = "PhaseStarted"

	// ReasonPhaseCompleted indicates an orchestration phase finished successfully.
	ReasonPhaseCompleted EventReason = "PhaseCompleted"

	// ReasonPhaseFailed indicates an orchestration phase failed.
	ReasonPhaseFailed EventReason = "PhaseFailed"

	// ReasonPhaseSkipped indicates an orchestration phase was never attempted.
	ReasonPhaseSkipped EventReason = "PhaseSkipped"
)

// Service lifecycle reasons
const (
	// ReasonServiceStarted indicates a managed service reached the running state.
	ReasonServiceStarted EventReason = "ServiceStarted"

	// ReasonServiceStopped indicates a managed service reached the stopped state.
	ReasonServiceStopped EventReason = "ServiceStopped"

	// ReasonServiceActionFailed indicates a lifecycle action against a service failed.
	ReasonServiceActionFailed EventReason = "ServiceActionFailed"

	// ReasonServiceSkipped indicates a service action was skipped because an
	// upstream dependency failed or was skipped.
	ReasonServiceSkipped EventReason = "ServiceSkipped"
)

// EventData carries the variables available to message templates.
type EventData struct {
	// Operation is the operation id the event belongs to.
	Operation string

	// Kind is SOD or EOD.
	Kind string

	// Environment is the target environment name.
	Environment string

	// Phase names the orchestration phase, when phase-scoped.
	Phase string

	// Service names the managed service, when service-scoped.
	Service string

	// Error carries failure detail, when present.
	Error string

	// Duration is the elapsed time of the completed unit, when known.
	Duration time.Duration

	// StepCount is the number of steps involved, when known.
	StepCount int
}

// Event is one rendered audit/notification event as delivered to subscribers.
type Event struct {
	Type        EventType
	Reason      EventReason
	Message     string
	Operation   string
	Environment string
	Timestamp   time.Time
}

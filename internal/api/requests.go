package api

import (
	"time"
)

// OperationRequest is the submission payload for a SOD or EOD operation.
type OperationRequest struct {
	// Environment names the target environment block from the configuration.
	Environment string `json:"environment" yaml:"environment"`

	// Kind selects the orchestrator: SOD or EOD.
	Kind OperationKind `json:"kind" yaml:"kind"`

	// ServicesFilter restricts the operation to a subset of descriptors.
	// Empty means all services of the environment.
	ServicesFilter []string `json:"servicesFilter,omitempty" yaml:"servicesFilter,omitempty"`

	// DryRun produces the full step timeline without issuing real commands.
	DryRun bool `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`

	// ForceExecution cancels an already-active operation of the same
	// (kind, environment) instead of rejecting this submission.
	ForceExecution bool `json:"forceExecution,omitempty" yaml:"forceExecution,omitempty"`

	// CutoffTime is the EOD transaction intake cutoff. Required for EOD,
	// rejected for SOD.
	CutoffTime *time.Time `json:"cutoffTime,omitempty" yaml:"cutoffTime,omitempty"`

	// Comments is free-text operator context recorded on the audit trail.
	Comments string `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// Validate checks the request for structural problems before admission.
func (r *OperationRequest) Validate() error {
	if r.Environment == "" {
		return NewValidationError("environment", "environment is required")
	}
	switch r.Kind {
	case KindSOD:
		if r.CutoffTime != nil {
			return NewValidationError("cutoffTime", "cutoff time is only valid for EOD operations")
		}
	case KindEOD:
		if r.CutoffTime == nil {
			return NewValidationError("cutoffTime", "EOD operations require a cutoff time")
		}
	default:
		return NewValidationError("kind", "kind must be SOD or EOD, got %q", string(r.Kind))
	}
	for _, name := range r.ServicesFilter {
		if name == "" {
			return NewValidationError("servicesFilter", "service filter entries must not be empty")
		}
	}
	return nil
}

// StepSnapshot is the externally visible view of one operation step.
type StepSnapshot struct {
	Name         string     `json:"name"`
	Status       StepStatus `json:"status"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Detail       string     `json:"detail,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// OperationSnapshot is the status response for a single operation. Terminal
// snapshots always carry the terminal error detail when the operation failed.
type OperationSnapshot struct {
	OperationID        string          `json:"operationId"`
	Kind               OperationKind   `json:"kind"`
	Environment        string          `json:"environment"`
	Status             OperationStatus `json:"status"`
	DryRun             bool            `json:"dryRun,omitempty"`
	ProgressPercentage int             `json:"progressPercentage"`
	CurrentStep        string          `json:"currentStep,omitempty"`
	StartTime          time.Time       `json:"startTime"`
	EndTime            *time.Time      `json:"endTime,omitempty"`
	Comments           string          `json:"comments,omitempty"`
	ErrorMessage       string          `json:"errorMessage,omitempty"`
	Steps              []StepSnapshot  `json:"steps"`
}

// ServiceActionRequest asks for a single lifecycle action against one service.
type ServiceActionRequest struct {
	ServiceName string     `json:"serviceId"`
	Action      ActionKind `json:"action"`
	DryRun      bool       `json:"dryRun,omitempty"`
}

// Validate checks the single-service action request.
func (r *ServiceActionRequest) Validate() error {
	if r.ServiceName == "" {
		return NewValidationError("serviceId", "service name is required")
	}
	switch r.Action {
	case ActionStart, ActionStop, ActionRestart, ActionHealthCheck:
		return nil
	default:
		return NewValidationError("action", "unsupported action %q", string(r.Action))
	}
}

// ServiceActionResponse reports the outcome of a single lifecycle action.
type ServiceActionResponse struct {
	Success    bool         `json:"success"`
	State      ServiceState `json:"status"`
	Health     HealthStatus `json:"health,omitempty"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"durationMs"`
}

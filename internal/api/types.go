package api

// OperationKind identifies the cutover direction of an operation.
type OperationKind string

const (
	// KindSOD is the Start-of-Day cutover: bring services up and open the
	// business day.
	KindSOD OperationKind = "SOD"

	// KindEOD is the End-of-Day cutover: halt intake, run daily processing
	// and reconcile.
	KindEOD OperationKind = "EOD"
)

// OperationStatus is the coarse-grained lifecycle status of an operation.
type OperationStatus string

const (
	OperationInitiated OperationStatus = "Initiated"
	OperationRunning   OperationStatus = "Running"
	OperationCompleted OperationStatus = "Completed"
	OperationFailed    OperationStatus = "Failed"
	OperationCancelled OperationStatus = "Cancelled"
)

// IsTerminal reports whether the status is final. Terminal operations are
// immutable audit records.
func (s OperationStatus) IsTerminal() bool {
	switch s {
	case OperationCompleted, OperationFailed, OperationCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status counts against the
// one-active-operation-per-(kind, environment) admission invariant.
func (s OperationStatus) IsActive() bool {
	return s == OperationInitiated || s == OperationRunning
}

// StepStatus is the lifecycle status of a single operation step.
type StepStatus string

const (
	StepPending   StepStatus = "Pending"
	StepRunning   StepStatus = "Running"
	StepCompleted StepStatus = "Completed"
	StepFailed    StepStatus = "Failed"
	StepSkipped   StepStatus = "Skipped"
)

// ServiceState represents the observed state of a managed service.
type ServiceState string

const (
	StateUnknown  ServiceState = "unknown"
	StateStopped  ServiceState = "stopped"
	StateStarting ServiceState = "starting"
	StateRunning  ServiceState = "running"
	StateStopping ServiceState = "stopping"
	StateFailed   ServiceState = "failed"
)

// HealthStatus is the composite health classification produced by a
// health-check action. It never mutates service state.
type HealthStatus string

const (
	HealthUnknown  HealthStatus = "unknown"
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// ActionKind identifies a single service lifecycle action.
type ActionKind string

const (
	ActionStart       ActionKind = "start"
	ActionStop        ActionKind = "stop"
	ActionRestart     ActionKind = "restart"
	ActionHealthCheck ActionKind = "healthcheck"
)

// ServiceDomain categorises the backend tier a service belongs to.
type ServiceDomain string

const (
	DomainCoreBanking  ServiceDomain = "core-banking"
	DomainPaymentHub   ServiceDomain = "payment-hub"
	DomainQueueManager ServiceDomain = "queue-manager"
	DomainDatabase     ServiceDomain = "database"
)

// Severity grades notifications emitted towards the alerting collaborator.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

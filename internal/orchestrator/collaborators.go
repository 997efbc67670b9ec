package orchestrator

import (
	"context"
	"time"

	"cutover/internal/api"
)

// Notifier is the alert/outbox collaborator. Delivery, retry and dedup are
// entirely its responsibility; the orchestrator fires and forgets.
type Notifier interface {
	Notify(severity api.Severity, domain api.ServiceDomain, message string)
}

// TransactionGateway controls upstream transaction intake during EOD.
type TransactionGateway interface {
	// HaltIntake signals intake to stop accepting new work as of the cutoff.
	HaltIntake(ctx context.Context, environment string, cutoff time.Time) error

	// AwaitDrain blocks until in-flight work below the cutoff has drained or
	// the context expires.
	AwaitDrain(ctx context.Context, environment string, cutoff time.Time) error
}

// BusinessCalendar performs the domain-side business date transition after
// services are up.
type BusinessCalendar interface {
	RollBusinessDate(ctx context.Context, environment string) error
	ActivateSchedules(ctx context.Context, environment string) error
}

// BatchProcessor executes the EOD batch jobs. Jobs are sequential by business
// rule, never dependency ordered.
type BatchProcessor interface {
	ComputeInterest(ctx context.Context, environment string) error
	ProcessStandingInstructions(ctx context.Context, environment string) error
	RunScheduledJobs(ctx context.Context, environment string) error
}

// ReconciliationReporter produces regulatory and management report triggers.
// The artifacts themselves are opaque to the orchestration core.
type ReconciliationReporter interface {
	GenerateReconciliationArtifacts(ctx context.Context, operationID string) error
}

// EnvironmentVerifier runs the read-only post-validation checks after SOD
// service startup.
type EnvironmentVerifier interface {
	VerifyTransactionProcessing(ctx context.Context, environment string) error
	VerifyPerformance(ctx context.Context, environment string) error
	VerifyAuditTrail(ctx context.Context, environment string) error
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(api.Severity, api.ServiceDomain, string) {}

// NoopGateway treats intake as instantly halted and drained.
type NoopGateway struct{}

func (NoopGateway) HaltIntake(context.Context, string, time.Time) error { return nil }
func (NoopGateway) AwaitDrain(context.Context, string, time.Time) error { return nil }

// NoopCalendar accepts business date transitions without side effects.
type NoopCalendar struct{}

func (NoopCalendar) RollBusinessDate(context.Context, string) error  { return nil }
func (NoopCalendar) ActivateSchedules(context.Context, string) error { return nil }

// NoopBatchProcessor reports every batch job as successful.
type NoopBatchProcessor struct{}

func (NoopBatchProcessor) ComputeInterest(context.Context, string) error             { return nil }
func (NoopBatchProcessor) ProcessStandingInstructions(context.Context, string) error { return nil }
func (NoopBatchProcessor) RunScheduledJobs(context.Context, string) error            { return nil }

// NoopReporter produces no reconciliation artifacts.
type NoopReporter struct{}

func (NoopReporter) GenerateReconciliationArtifacts(context.Context, string) error { return nil }

// NoopVerifier passes every post-validation check.
type NoopVerifier struct{}

func (NoopVerifier) VerifyTransactionProcessing(context.Context, string) error { return nil }
func (NoopVerifier) VerifyPerformance(context.Context, string) error           { return nil }
func (NoopVerifier) VerifyAuditTrail(context.Context, string) error            { return nil }

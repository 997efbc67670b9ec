// Package orchestrator drives SOD and EOD operations through their fixed
// phase sequences.
//
// Phases execute strictly sequentially; inside a service transition phase,
// services of the same dependency level run concurrently. Cooperative
// cancellation is honoured at phase boundaries only, and a cancelled or
// failed operation reports every remaining planned step as Skipped so the
// audit timeline is always complete.
//
// External effects beyond service lifecycle commands go through the
// collaborator interfaces (Notifier, TransactionGateway, BusinessCalendar,
// BatchProcessor, ReconciliationReporter, EnvironmentVerifier); no-op
// implementations are provided for all of them.
package orchestrator

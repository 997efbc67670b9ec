// Package api holds the shared types of the cutover orchestrator: the
// operation and service enums, the request/response structures exchanged with
// callers, and the structured error taxonomy.
//
// Every error a caller can observe is one of the types defined here
// (ValidationError, DependencyCycleError, UnknownDependencyError,
// TimeoutError, RemoteExecutionError, ConcurrentOperationError,
// NotFoundError), each carrying machine-readable fields alongside the
// human-readable message. The Is* helpers support errors.As-based matching
// through wrapped chains.
//
// Inner packages (dependency, services, operation, orchestrator) depend on
// api; api depends on nothing inside the module. This keeps the error and
// type vocabulary free of import cycles.
package api

// Package logging provides the shared structured logging facility for the
// cutover orchestrator.
//
// All subsystems log through the same slog-backed logger, tagged with a
// subsystem name so that a single operation's trace can be filtered out of the
// combined output:
//
//	logging.Info("Orchestrator", "phase %s completed in %s", phase, elapsed)
//	logging.Error("Lifecycle", err, "failed to start %s", service)
//
// Init must be called once at startup (the cmd package does this based on the
// --debug and --json-log flags); before that, entries fall back to a plain
// text handler on stderr.
package logging

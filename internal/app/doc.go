// Package app bootstraps the cutover application: logging, configuration,
// the audit store and the orchestration component graph. CLI commands create
// an Application and drive its components directly.
package app

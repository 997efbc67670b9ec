// Package formatting renders operation, step and service health data as
// tables for CLI output.
package formatting

// Package operation tracks SOD and EOD runs as execution records.
//
// The Monitor admits operations under the single-active-per-(kind,
// environment) rule, answers status queries and accepts cooperative
// cancellation. Terminal operations are persisted to a SQLite audit log via
// Store so history survives restarts.
package operation

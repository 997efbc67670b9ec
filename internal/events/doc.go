// Package events generates the audit/notification events emitted by the
// orchestration core: one event per phase transition and per terminal
// operation state, plus per-service lifecycle outcomes.
//
// The Generator renders human-readable messages through a small template
// engine and fans events out to subscriber channels with non-blocking sends,
// so a slow sink can never stall an operation. Persistence and delivery are
// the subscriber's responsibility.
package events

// Package config loads and validates the cutover orchestrator configuration.
//
// A single config.yaml describes execution defaults (timeouts, poll interval,
// phase concurrency) and per-environment service descriptor sets. Validation
// happens at load time: duplicate names, unknown domains, unresolvable or
// cyclic dependencies are rejected before any operation can be admitted.
//
// The Watcher reloads the file when it changes on disk; reloads only take
// effect between operations because a running operation works on the
// descriptor snapshot it was admitted with.
package config

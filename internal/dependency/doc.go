// Package dependency computes deterministic phase orderings over service
// dependency graphs.
//
// A phase is a group of services with no dependency relation among
// themselves, derived from the topological levels of the graph. Startup acts
// on phases front to back; shutdown reverses the sequence so dependents stop
// before the services they depend on.
//
// The package is purely functional over its input: no side effects, safe to
// call concurrently and repeatedly with the same result.
package dependency

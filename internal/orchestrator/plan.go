package orchestrator

import (
	"cutover/internal/config"
	"cutover/internal/dependency"
	"cutover/internal/services"
)

// plan is the resolved execution plan of one operation: the selected
// descriptors plus their startup and shutdown phase ordering. Computed once
// at the start of a run, before any service action is attempted.
type plan struct {
	services []config.ServiceDescriptor
	byName   map[string]config.ServiceDescriptor
	levels   [][]string
	reverse  [][]string

	// dependsOn and dependents are restricted to the selected subset. They
	// drive skip propagation: startup skips dependents of a failed service,
	// shutdown skips the dependencies of a service that failed to stop.
	dependsOn  map[string][]string
	dependents map[string][]string
}

// buildPlan resolves the service filter against the environment and computes
// the dependency phase ordering. Dependencies pointing outside the selected
// subset are treated as externally satisfied: a filtered run trusts the
// operator to have the rest of the estate in the right state.
func buildPlan(env config.Environment, filter []string) (*plan, error) {
	registry := services.NewRegistry()
	registry.Load(env.Services)

	selected, err := registry.Snapshot(filter)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]config.ServiceDescriptor, len(selected))
	for _, svc := range selected {
		byName[svc.Name] = svc
	}

	dependsOn := make(map[string][]string, len(selected))
	dependents := make(map[string][]string, len(selected))
	nodes := make([]dependency.Node, 0, len(selected))
	for _, svc := range selected {
		var deps []string
		for _, dep := range svc.DependsOn {
			if _, ok := byName[dep]; ok {
				deps = append(deps, dep)
				dependents[dep] = append(dependents[dep], svc.Name)
			}
		}
		dependsOn[svc.Name] = deps
		nodes = append(nodes, dependency.Node{Name: svc.Name, DependsOn: deps})
	}

	graph := dependency.New(nodes)
	levels, err := graph.Phases()
	if err != nil {
		return nil, err
	}
	reverse, err := graph.ReversePhases()
	if err != nil {
		return nil, err
	}

	return &plan{
		services:   selected,
		byName:     byName,
		levels:     levels,
		reverse:    reverse,
		dependsOn:  dependsOn,
		dependents: dependents,
	}, nil
}

// stepNames returns the planned per-service step names for a transition over
// the given phase levels, in execution order.
func (p *plan) stepNames(verb string, levels [][]string) []string {
	names := make([]string, 0, len(p.services))
	for _, level := range levels {
		for _, svc := range level {
			names = append(names, verb+" "+svc)
		}
	}
	return names
}

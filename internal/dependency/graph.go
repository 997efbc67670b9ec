package dependency

import (
	"sort"

	"cutover/internal/api"
)

// Node represents one service together with its declared dependency list.
// The set of nodes handed to Phases must form a Directed Acyclic Graph.
type Node struct {
	Name      string
	DependsOn []string
}

// Graph answers phase-ordering queries over a set of nodes. It holds no
// mutable state after construction and is safe for concurrent use.
type Graph struct {
	nodes map[string]Node
}

// New builds a graph from the given nodes. Validation (unknown dependencies,
// cycles) happens in Phases so that callers get the full error payload at the
// point where ordering is actually requested.
func New(nodes []Node) *Graph {
	g := &Graph{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		g.nodes[n.Name] = n
	}
	return g
}

// Names returns all node names in alphabetical order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependents returns all node names that directly depend on the given node,
// in alphabetical order.
func (g *Graph) Dependents(name string) []string {
	var res []string
	for _, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if dep == name {
				res = append(res, n.Name)
				break
			}
		}
	}
	sort.Strings(res)
	return res
}

// Phases computes the startup ordering using Kahn's algorithm: phase k
// contains the services whose dependencies are all satisfied by phases
// 0..k-1. Members of one phase have no dependency relation to each other and
// may be acted on concurrently.
//
// Within a phase, names are sorted alphabetically so repeated runs over the
// same input produce identical orderings, which keeps audit records
// comparable across runs.
//
// Returns an UnknownDependencyError when a node references a name outside the
// set, and a DependencyCycleError listing the unresolvable subset when no
// zero-indegree node remains while unprocessed nodes exist.
func (g *Graph) Phases() ([][]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))

	for name, n := range g.nodes {
		if _, ok := indegree[name]; !ok {
			indegree[name] = 0
		}
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return nil, &api.UnknownDependencyError{Service: name, Dependency: dep}
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var phases [][]string
	remaining := len(g.nodes)

	for remaining > 0 {
		var phase []string
		for name, deg := range indegree {
			if deg == 0 {
				phase = append(phase, name)
			}
		}
		if len(phase) == 0 {
			// Whatever is left is part of, or downstream of, a cycle.
			var stuck []string
			for name := range indegree {
				stuck = append(stuck, name)
			}
			sort.Strings(stuck)
			return nil, &api.DependencyCycleError{Services: stuck}
		}

		sort.Strings(phase)
		phases = append(phases, phase)
		remaining -= len(phase)

		for _, name := range phase {
			delete(indegree, name)
			for _, dep := range dependents[name] {
				if _, ok := indegree[dep]; ok {
					indegree[dep]--
				}
			}
		}
	}

	return phases, nil
}

// ReversePhases computes the shutdown ordering: the startup phases in reverse
// topological order, so dependents stop before their dependencies.
func (g *Graph) ReversePhases() ([][]string, error) {
	phases, err := g.Phases()
	if err != nil {
		return nil, err
	}
	reversed := make([][]string, len(phases))
	for i, phase := range phases {
		reversed[len(phases)-1-i] = phase
	}
	return reversed, nil
}

// Validate runs phase computation and discards the result. It is used by the
// configuration loader and the validate command to reject bad descriptor sets
// before any operation is admitted.
func (g *Graph) Validate() error {
	_, err := g.Phases()
	return err
}

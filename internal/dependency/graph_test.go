package dependency

import (
	"testing"

	"cutover/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhasesLinearChainWithIndependent(t *testing.T) {
	// C depends on B, B depends on A, D is independent.
	g := New([]Node{
		{Name: "C", DependsOn: []string{"B"}},
		{Name: "B", DependsOn: []string{"A"}},
		{Name: "A"},
		{Name: "D"},
	})

	phases, err := g.Phases()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "D"}, {"B"}, {"C"}}, phases)

	shutdown, err := g.ReversePhases()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"C"}, {"B"}, {"A", "D"}}, shutdown)
}

func TestPhasesDiamond(t *testing.T) {
	g := New([]Node{
		{Name: "db"},
		{Name: "queue", DependsOn: []string{"db"}},
		{Name: "ledger", DependsOn: []string{"db"}},
		{Name: "gateway", DependsOn: []string{"queue", "ledger"}},
	})

	phases, err := g.Phases()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"db"}, {"ledger", "queue"}, {"gateway"}}, phases)
}

func TestPhasesDependenciesAlwaysEarlier(t *testing.T) {
	g := New([]Node{
		{Name: "a"},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "c", DependsOn: []string{"a"}},
		{Name: "d", DependsOn: []string{"b", "c"}},
		{Name: "e", DependsOn: []string{"d", "a"}},
		{Name: "f"},
	})

	phases, err := g.Phases()
	require.NoError(t, err)

	phaseOf := map[string]int{}
	for i, phase := range phases {
		for _, name := range phase {
			phaseOf[name] = i
		}
	}

	for _, name := range g.Names() {
		node := g.nodes[name]
		for _, dep := range node.DependsOn {
			assert.Less(t, phaseOf[dep], phaseOf[name],
				"dependency %s must be in an earlier phase than %s", dep, name)
		}
	}
}

func TestPhasesCycleDetected(t *testing.T) {
	g := New([]Node{
		{Name: "a", DependsOn: []string{"c"}},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "c", DependsOn: []string{"b"}},
		{Name: "d"},
	})

	_, err := g.Phases()
	require.Error(t, err)
	assert.True(t, api.IsDependencyCycle(err))

	var cycleErr *api.DependencyCycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycleErr.Services)
}

func TestPhasesSelfDependencyIsACycle(t *testing.T) {
	g := New([]Node{{Name: "a", DependsOn: []string{"a"}}})

	_, err := g.Phases()
	assert.True(t, api.IsDependencyCycle(err))
}

func TestPhasesUnknownDependency(t *testing.T) {
	g := New([]Node{
		{Name: "a", DependsOn: []string{"ghost"}},
	})

	_, err := g.Phases()
	require.Error(t, err)
	assert.True(t, api.IsUnknownDependency(err))

	var unknownErr *api.UnknownDependencyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "a", unknownErr.Service)
	assert.Equal(t, "ghost", unknownErr.Dependency)
}

func TestPhasesEmptyGraph(t *testing.T) {
	g := New(nil)
	phases, err := g.Phases()
	require.NoError(t, err)
	assert.Empty(t, phases)
}

func TestPhasesDeterministicAcrossRuns(t *testing.T) {
	nodes := []Node{
		{Name: "zeta"},
		{Name: "alpha"},
		{Name: "mid", DependsOn: []string{"alpha", "zeta"}},
	}

	first, err := New(nodes).Phases()
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := New(nodes).Phases()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, [][]string{{"alpha", "zeta"}, {"mid"}}, first)
}

func TestDependents(t *testing.T) {
	g := New([]Node{
		{Name: "db"},
		{Name: "queue", DependsOn: []string{"db"}},
		{Name: "ledger", DependsOn: []string{"db"}},
	})

	assert.Equal(t, []string{"ledger", "queue"}, g.Dependents("db"))
	assert.Empty(t, g.Dependents("queue"))
}

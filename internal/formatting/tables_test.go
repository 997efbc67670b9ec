package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cutover/internal/api"
	"cutover/internal/services"
)

func TestOperationsTableEmpty(t *testing.T) {
	assert.Equal(t, "No operations recorded.", OperationsTable(nil))
}

func TestOperationsTableRendersRows(t *testing.T) {
	end := time.Now()
	start := end.Add(-90 * time.Second)

	out := OperationsTable([]api.OperationSnapshot{
		{
			OperationID:        "op-1",
			Kind:               api.KindSOD,
			Environment:        "production",
			Status:             api.OperationCompleted,
			ProgressPercentage: 100,
			StartTime:          start,
			EndTime:            &end,
		},
	})

	assert.Contains(t, out, "op-1")
	assert.Contains(t, out, "production")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "1m30s")
}

func TestStepsTablePrefersErrorMessage(t *testing.T) {
	start := time.Now().Add(-time.Second)
	end := time.Now()

	out := StepsTable(api.OperationSnapshot{
		Steps: []api.StepSnapshot{
			{Name: "start core-ledger", Status: api.StepFailed, StartTime: &start, EndTime: &end, Detail: "detail", ErrorMessage: "unit failed"},
		},
	})

	assert.Contains(t, out, "start core-ledger")
	assert.Contains(t, out, "unit failed")
	assert.NotContains(t, out, "detail")
}

func TestOperationSummaryDryRunAndError(t *testing.T) {
	out := OperationSummary(api.OperationSnapshot{
		OperationID:  "op-2",
		Kind:         api.KindEOD,
		Environment:  "staging",
		Status:       api.OperationFailed,
		DryRun:       true,
		ErrorMessage: "drain timed out",
	})

	assert.Contains(t, out, "EOD operation op-2")
	assert.Contains(t, out, "[dry-run]")
	assert.Contains(t, out, "drain timed out")
}

func TestHealthTable(t *testing.T) {
	out := HealthTable([]services.ActionResult{
		{Service: "core-ledger", State: api.StateRunning, Health: api.HealthHealthy, Message: "state running"},
	})

	assert.Contains(t, out, "core-ledger")
	assert.Contains(t, out, "healthy")
}

func TestPlanTableUnevenPhases(t *testing.T) {
	out := PlanTable("production",
		[][]string{{"a", "d"}, {"b"}, {"c"}},
		[][]string{{"c"}, {"b"}, {"a", "d"}},
	)

	assert.Contains(t, out, "a, d")
	assert.Contains(t, out, "Environment production")
}

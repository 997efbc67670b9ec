package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderKnownReasons(t *testing.T) {
	engine := NewMessageTemplateEngine()

	tests := []struct {
		name     string
		reason   EventReason
		data     EventData
		expected string
	}{
		{
			name:     "operation admitted",
			reason:   ReasonOperationAdmitted,
			data:     EventData{Operation: "op-1", Kind: "SOD", Environment: "production"},
			expected: "SOD operation op-1 admitted for environment production",
		},
		{
			name:     "operation completed with duration and steps",
			reason:   ReasonOperationCompleted,
			data:     EventData{Operation: "op-1", Kind: "EOD", Duration: 90 * time.Second, StepCount: 7},
			expected: "EOD operation op-1 completed (7 steps) in 1m30s",
		},
		{
			name:     "operation failed without error detail",
			reason:   ReasonOperationFailed,
			data:     EventData{Operation: "op-2", Kind: "SOD"},
			expected: "SOD operation op-2 failed",
		},
		{
			name:     "phase failed with error",
			reason:   ReasonPhaseFailed,
			data:     EventData{Phase: "transaction halt", Error: "drain timed out"},
			expected: "phase transaction halt failed: drain timed out",
		},
		{
			name:     "service skipped",
			reason:   ReasonServiceSkipped,
			data:     EventData{Service: "payment-gateway", Error: "dependency core-ledger failed"},
			expected: "service payment-gateway skipped: dependency core-ledger failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.Render(tt.reason, tt.data))
		})
	}
}

func TestRenderUnknownReasonFallsBack(t *testing.T) {
	engine := NewMessageTemplateEngine()

	message := engine.Render(EventReason("NoSuchReason"), EventData{Operation: "op-9"})
	assert.Equal(t, "Event: NoSuchReason for operation op-9", message)
}

func TestSetTemplateOverrides(t *testing.T) {
	engine := NewMessageTemplateEngine()
	engine.SetTemplate(ReasonPhaseStarted, "begin {{.Phase}}")

	assert.Equal(t, "begin pre-checks", engine.Render(ReasonPhaseStarted, EventData{Phase: "pre-checks"}))

	template, ok := engine.GetTemplate(ReasonPhaseStarted)
	assert.True(t, ok)
	assert.Equal(t, "begin {{.Phase}}", template)
}

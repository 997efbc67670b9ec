package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDeliversToSubscribers(t *testing.T) {
	generator := NewGenerator()
	first := generator.Subscribe()
	second := generator.Subscribe()

	generator.Emit(EventTypeNormal, ReasonOperationAdmitted, EventData{
		Operation:   "op-1",
		Kind:        "SOD",
		Environment: "production",
	})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			assert.Equal(t, ReasonOperationAdmitted, event.Reason)
			assert.Equal(t, "op-1", event.Operation)
			assert.Equal(t, "production", event.Environment)
			assert.Contains(t, event.Message, "SOD operation op-1")
		case <-time.After(time.Second):
			t.Fatal("expected event was not delivered")
		}
	}
}

func TestEmitDoesNotBlockOnFullSubscriber(t *testing.T) {
	generator := NewGenerator()
	ch := generator.Subscribe()

	// Overflow the buffer; Emit must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			generator.Emit(EventTypeNormal, ReasonPhaseStarted, EventData{Phase: "service startup"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full subscriber channel")
	}

	// The buffered prefix is still readable.
	require.NotEmpty(t, ch)
}

func TestEmitWithoutSubscribers(t *testing.T) {
	generator := NewGenerator()

	assert.NotPanics(t, func() {
		generator.Emit(EventTypeWarning, ReasonOperationFailed, EventData{
			Operation: "op-1",
			Kind:      "EOD",
			Error:     "drain timed out",
		})
	})
}

func TestCloseClosesSubscriberChannels(t *testing.T) {
	generator := NewGenerator()
	ch := generator.Subscribe()

	generator.Close()

	_, open := <-ch
	assert.False(t, open)
}

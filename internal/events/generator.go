package events

import (
	"sync"
	"time"

	"cutover/pkg/logging"
)

// Generator renders audit events and fans them out to subscribers. Delivery is
// best-effort: a subscriber that stops draining its channel loses events
// instead of blocking the orchestrator.
type Generator struct {
	mu          sync.RWMutex
	subscribers []chan Event
	templates   *MessageTemplateEngine
}

// NewGenerator creates an event generator with the default message templates.
func NewGenerator() *Generator {
	return &Generator{
		templates: NewMessageTemplateEngine(),
	}
}

// Subscribe registers a new subscriber and returns its receive channel. The
// buffer absorbs short bursts around phase boundaries.
func (g *Generator) Subscribe() <-chan Event {
	ch := make(chan Event, 64)

	g.mu.Lock()
	g.subscribers = append(g.subscribers, ch)
	g.mu.Unlock()

	return ch
}

// Emit renders and publishes one event.
func (g *Generator) Emit(eventType EventType, reason EventReason, data EventData) {
	event := Event{
		Type:        eventType,
		Reason:      reason,
		Message:     g.templates.Render(reason, data),
		Operation:   data.Operation,
		Environment: data.Environment,
		Timestamp:   time.Now(),
	}

	if eventType == EventTypeWarning {
		logging.Warn("Events", "%s: %s", string(reason), event.Message)
	} else {
		logging.Info("Events", "%s: %s", string(reason), event.Message)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, ch := range g.subscribers {
		select {
		case ch <- event:
		default:
			logging.Debug("Events", "subscriber channel full, dropping event %s", string(reason))
		}
	}
}

// SetTemplate allows customizing the message template for a specific event reason.
func (g *Generator) SetTemplate(reason EventReason, template string) {
	g.templates.SetTemplate(reason, template)
}

// Close closes all subscriber channels. Call only after the last Emit.
func (g *Generator) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, ch := range g.subscribers {
		close(ch)
	}
	g.subscribers = nil
}

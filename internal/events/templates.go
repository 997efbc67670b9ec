package events

import (
	"fmt"
	"strings"
)

// MessageTemplateEngine provides dynamic message generation for events.
type MessageTemplateEngine struct {
	templates map[EventReason]string
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		templates: make(map[EventReason]string),
	}
	engine.loadDefaultTemplates()
	return engine
}

// loadDefaultTemplates initializes the default message templates for all event reasons.
func (e *MessageTemplateEngine) loadDefaultTemplates() {
	// Operation lifecycle
	e.templates[ReasonOperationAdmitted] = "{{.Kind}} operation {{.Operation}} admitted for environment {{.Environment}}"
	e.templates[ReasonOperationCompleted] = "{{.Kind}} operation {{.Operation}} completed{{if .StepCount}} ({{.StepCount}} steps){{end}}{{if .Duration}} in {{.Duration}}{{end}}"
	e.templates[ReasonOperationFailed] = "{{.Kind}} operation {{.Operation}} failed{{if .Error}}: {{.Error}}{{end}}"
	e.templates[ReasonOperationCancelled] = "{{.Kind}} operation {{.Operation}} cancelled{{if .Error}}: {{.Error}}{{end}}"

	// Phase transitions
	e.templates[ReasonPhaseStarted] = "phase {{.Phase}} started for operation {{.Operation}}"
	e.templates[ReasonPhaseCompleted] = "phase {{.Phase}} completed{{if .Duration}} in {{.Duration}}{{end}}"
	e.templates[ReasonPhaseFailed] = "phase {{.Phase}} failed{{if .Error}}: {{.Error}}{{end}}"
	e.templates[ReasonPhaseSkipped] = "phase {{.Phase}} skipped{{if .Error}}: {{.Error}}{{end}}"

	// Service lifecycle
	e.templates[ReasonServiceStarted] = "service {{.Service}} started{{if .Duration}} in {{.Duration}}{{end}}"
	e.templates[ReasonServiceStopped] = "service {{.Service}} stopped{{if .Duration}} in {{.Duration}}{{end}}"
	e.templates[ReasonServiceActionFailed] = "service {{.Service}} action failed{{if .Error}}: {{.Error}}{{end}}"
	e.templates[ReasonServiceSkipped] = "service {{.Service}} skipped{{if .Error}}: {{.Error}}{{end}}"
}

// Render generates a message for the given event reason and data.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	template, exists := e.templates[reason]
	if !exists {
		// Fallback for unknown event reasons
		return fmt.Sprintf("Event: %s for operation %s", string(reason), data.Operation)
	}

	return e.renderTemplate(template, data)
}

// SetTemplate allows customizing the message template for a specific event reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, template string) {
	e.templates[reason] = template
}

// GetTemplate returns the template for a specific event reason.
func (e *MessageTemplateEngine) GetTemplate(reason EventReason) (string, bool) {
	template, exists := e.templates[reason]
	return template, exists
}

// renderTemplate performs simple template rendering with EventData.
// This is a simplified template system that supports basic variable substitution.
func (e *MessageTemplateEngine) renderTemplate(template string, data EventData) string {
	result := template

	// Conditional blocks first, so empty optional fields drop their wrapping text.
	result = e.renderConditionals(result, data)

	result = strings.ReplaceAll(result, "{{.Operation}}", data.Operation)
	result = strings.ReplaceAll(result, "{{.Kind}}", data.Kind)
	result = strings.ReplaceAll(result, "{{.Environment}}", data.Environment)
	result = strings.ReplaceAll(result, "{{.Phase}}", data.Phase)
	result = strings.ReplaceAll(result, "{{.Service}}", data.Service)
	result = strings.ReplaceAll(result, "{{.Error}}", data.Error)

	if strings.Contains(result, "{{.Duration}}") {
		result = strings.ReplaceAll(result, "{{.Duration}}", data.Duration.String())
	}
	if strings.Contains(result, "{{.StepCount}}") {
		result = strings.ReplaceAll(result, "{{.StepCount}}", fmt.Sprintf("%d", data.StepCount))
	}

	return result
}

// renderConditionals handles simple conditional rendering in templates.
// Supports: {{if .FieldName}}content{{end}}
func (e *MessageTemplateEngine) renderConditionals(template string, data EventData) string {
	result := template

	result = e.renderConditional(result, "{{if .Error}}", "{{end}}", data.Error != "")
	result = e.renderConditional(result, "{{if .Duration}}", "{{end}}", data.Duration > 0)
	result = e.renderConditional(result, "{{if .StepCount}}", "{{end}}", data.StepCount > 0)

	return result
}

// renderConditional handles a single conditional block.
func (e *MessageTemplateEngine) renderConditional(template, startMarker, endMarker string, condition bool) string {
	startIndex := strings.Index(template, startMarker)
	if startIndex == -1 {
		return template
	}

	endIndex := strings.Index(template[startIndex:], endMarker)
	if endIndex == -1 {
		return template
	}
	endIndex += startIndex

	if condition {
		// Keep the content, drop the markers.
		content := template[startIndex+len(startMarker) : endIndex]
		return template[:startIndex] + content + template[endIndex+len(endMarker):]
	}
	return template[:startIndex] + template[endIndex+len(endMarker):]
}

package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cutover/internal/api"
	"cutover/internal/services"
)

// newTable creates a table writer with the shared style.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

// OperationsTable renders an operation history listing, newest first.
func OperationsTable(snapshots []api.OperationSnapshot) string {
	if len(snapshots) == 0 {
		return "No operations recorded."
	}

	t := newTable()
	t.AppendHeader(table.Row{"Operation", "Kind", "Environment", "Status", "Progress", "Started", "Duration"})
	for _, s := range snapshots {
		duration := ""
		if s.EndTime != nil {
			duration = s.EndTime.Sub(s.StartTime).Round(time.Second).String()
		}
		t.AppendRow(table.Row{
			s.OperationID,
			s.Kind,
			s.Environment,
			colorStatus(string(s.Status)),
			fmt.Sprintf("%d%%", s.ProgressPercentage),
			s.StartTime.Format(time.RFC3339),
			duration,
		})
	}
	return t.Render()
}

// StepsTable renders the step timeline of one operation.
func StepsTable(snapshot api.OperationSnapshot) string {
	if len(snapshot.Steps) == 0 {
		return "No steps recorded."
	}

	t := newTable()
	t.AppendHeader(table.Row{"#", "Step", "Status", "Duration", "Detail"})
	for i, step := range snapshot.Steps {
		duration := ""
		if step.StartTime != nil && step.EndTime != nil {
			duration = step.EndTime.Sub(*step.StartTime).Round(time.Millisecond).String()
		}
		detail := step.Detail
		if step.ErrorMessage != "" {
			detail = step.ErrorMessage
		}
		t.AppendRow(table.Row{i + 1, step.Name, colorStatus(string(step.Status)), duration, detail})
	}
	return t.Render()
}

// OperationSummary renders the one-line header above a step table.
func OperationSummary(snapshot api.OperationSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s operation %s (%s): %s, %d%%",
		snapshot.Kind, snapshot.OperationID, snapshot.Environment,
		colorStatus(string(snapshot.Status)), snapshot.ProgressPercentage)
	if snapshot.DryRun {
		b.WriteString(" [dry-run]")
	}
	if snapshot.ErrorMessage != "" {
		fmt.Fprintf(&b, "\n  error: %s", snapshot.ErrorMessage)
	}
	return b.String()
}

// HealthTable renders per-service health check outcomes.
func HealthTable(results []services.ActionResult) string {
	if len(results) == 0 {
		return "No services configured."
	}

	t := newTable()
	t.AppendHeader(table.Row{"Service", "State", "Health", "Detail"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Service, r.State, colorHealth(r.Health), r.Message})
	}
	return t.Render()
}

// PlanTable renders the computed startup and shutdown phase plan of an
// environment.
func PlanTable(environment string, startup, shutdown [][]string) string {
	t := newTable()
	t.SetTitle(fmt.Sprintf("Environment %s", environment))
	t.AppendHeader(table.Row{"Phase", "Startup", "Shutdown"})
	for i := 0; i < len(startup) || i < len(shutdown); i++ {
		var up, down string
		if i < len(startup) {
			up = strings.Join(startup[i], ", ")
		}
		if i < len(shutdown) {
			down = strings.Join(shutdown[i], ", ")
		}
		t.AppendRow(table.Row{i + 1, up, down})
	}
	return t.Render()
}

func colorStatus(status string) string {
	switch status {
	case string(api.OperationCompleted):
		return text.FgGreen.Sprint(status)
	case string(api.OperationFailed):
		return text.FgRed.Sprint(status)
	case string(api.OperationCancelled), string(api.StepSkipped):
		return text.FgYellow.Sprint(status)
	case string(api.OperationRunning):
		return text.FgCyan.Sprint(status)
	default:
		return status
	}
}

func colorHealth(health api.HealthStatus) string {
	switch health {
	case api.HealthHealthy:
		return text.FgGreen.Sprint(string(health))
	case api.HealthWarning:
		return text.FgYellow.Sprint(string(health))
	case api.HealthCritical:
		return text.FgRed.Sprint(string(health))
	default:
		return string(health)
	}
}

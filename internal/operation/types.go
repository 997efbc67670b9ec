package operation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"cutover/internal/api"
)

// Step is one entry of an operation's execution record. Step order is
// strictly increasing within an operation; a step may only be Skipped when
// whatever enables it failed or was skipped.
type Step struct {
	Name         string         `json:"name"`
	Order        int            `json:"order"`
	Status       api.StepStatus `json:"status"`
	StartTime    *time.Time     `json:"startTime,omitempty"`
	EndTime      *time.Time     `json:"endTime,omitempty"`
	Detail       string         `json:"detail,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// Operation is the execution record of one SOD or EOD run. The owning
// orchestrator is the only mutator of step contents; the monitor reads
// snapshots for status queries. All mutation goes through the guarded
// methods, so concurrent snapshot reads are safe.
type Operation struct {
	mu sync.RWMutex

	id          string
	kind        api.OperationKind
	environment string
	dryRun      bool
	filter      []string
	cutoffTime  *time.Time
	comments    string

	status       api.OperationStatus
	startTime    time.Time
	endTime      *time.Time
	errorMessage string

	steps        []Step
	plannedSteps int
	currentStep  string

	cancelRequested bool
}

// New creates an Initiated operation from a validated request.
func New(req api.OperationRequest) *Operation {
	return &Operation{
		id:          uuid.New().String(),
		kind:        req.Kind,
		environment: req.Environment,
		dryRun:      req.DryRun,
		filter:      append([]string(nil), req.ServicesFilter...),
		cutoffTime:  req.CutoffTime,
		comments:    req.Comments,
		status:      api.OperationInitiated,
		startTime:   time.Now(),
	}
}

// ID returns the opaque operation identity.
func (o *Operation) ID() string { return o.id }

// Kind returns SOD or EOD.
func (o *Operation) Kind() api.OperationKind { return o.kind }

// Environment returns the target environment name.
func (o *Operation) Environment() string { return o.environment }

// DryRun reports whether the operation simulates without side effects.
func (o *Operation) DryRun() bool { return o.dryRun }

// ServicesFilter returns the requested service subset, empty meaning all.
func (o *Operation) ServicesFilter() []string {
	return append([]string(nil), o.filter...)
}

// CutoffTime returns the EOD intake cutoff, nil for SOD.
func (o *Operation) CutoffTime() *time.Time { return o.cutoffTime }

// Status returns the current coarse status.
func (o *Operation) Status() api.OperationStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// MarkRunning transitions Initiated to Running.
func (o *Operation) MarkRunning() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == api.OperationInitiated {
		o.status = api.OperationRunning
	}
}

// SetPlannedStepTotal records the total step count once the phase plan is
// resolved. Progress reporting stays at zero until this is known.
func (o *Operation) SetPlannedStepTotal(total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.plannedSteps = total
}

// BeginStep appends a Running step and returns its index. Step order is the
// append position, which makes it monotonically increasing by construction.
func (o *Operation) BeginStep(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	o.steps = append(o.steps, Step{
		Name:      name,
		Order:     len(o.steps) + 1,
		Status:    api.StepRunning,
		StartTime: &now,
	})
	o.currentStep = name
	return len(o.steps) - 1
}

// CompleteStep finishes the step successfully.
func (o *Operation) CompleteStep(index int, detail string) {
	o.finishStep(index, api.StepCompleted, detail, "")
}

// FailStep finishes the step with an error.
func (o *Operation) FailStep(index int, detail string, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	o.finishStep(index, api.StepFailed, detail, message)
}

// SkipStep records a step that was never attempted because its enabling
// step(s) failed or were skipped.
func (o *Operation) SkipStep(name, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.steps = append(o.steps, Step{
		Name:   name,
		Order:  len(o.steps) + 1,
		Status: api.StepSkipped,
		Detail: reason,
	})
}

func (o *Operation) finishStep(index int, status api.StepStatus, detail, errorMessage string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if index < 0 || index >= len(o.steps) {
		return
	}
	now := time.Now()
	step := &o.steps[index]
	step.Status = status
	step.EndTime = &now
	step.Detail = detail
	step.ErrorMessage = errorMessage
}

// RequestCancel sets the cooperative cancellation flag. Returns false when
// the operation is already terminal.
func (o *Operation) RequestCancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status.IsTerminal() {
		return false
	}
	o.cancelRequested = true
	return true
}

// CancelRequested reports the cooperative cancellation flag. The owning
// orchestrator checks it at phase boundaries only.
func (o *Operation) CancelRequested() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cancelRequested
}

// Complete marks the operation terminal-successful.
func (o *Operation) Complete() {
	o.finish(api.OperationCompleted, "")
}

// Fail marks the operation terminal-failed with the given error.
func (o *Operation) Fail(err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	o.finish(api.OperationFailed, message)
}

// Cancel marks the operation terminal-cancelled.
func (o *Operation) Cancel(reason string) {
	o.finish(api.OperationCancelled, reason)
}

func (o *Operation) finish(status api.OperationStatus, errorMessage string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// Terminal records are immutable.
	if o.status.IsTerminal() {
		return
	}
	now := time.Now()
	o.status = status
	o.endTime = &now
	o.errorMessage = errorMessage
	o.currentStep = ""
}

// Snapshot produces the externally visible status view. Progress is
// completed steps over the planned total; before the plan is resolved the
// total falls back to the steps recorded so far.
func (o *Operation) Snapshot() api.OperationSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	steps := make([]api.StepSnapshot, len(o.steps))
	completed := 0
	for i, s := range o.steps {
		steps[i] = api.StepSnapshot{
			Name:         s.Name,
			Status:       s.Status,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			Detail:       s.Detail,
			ErrorMessage: s.ErrorMessage,
		}
		if s.Status == api.StepCompleted || s.Status == api.StepSkipped {
			completed++
		}
	}

	total := o.plannedSteps
	if total < len(o.steps) {
		total = len(o.steps)
	}
	progress := 0
	if o.status == api.OperationCompleted {
		progress = 100
	} else if total > 0 {
		progress = completed * 100 / total
	}

	return api.OperationSnapshot{
		OperationID:        o.id,
		Kind:               o.kind,
		Environment:        o.environment,
		Status:             o.status,
		DryRun:             o.dryRun,
		ProgressPercentage: progress,
		CurrentStep:        o.currentStep,
		StartTime:          o.startTime,
		EndTime:            o.endTime,
		Comments:           o.comments,
		ErrorMessage:       o.errorMessage,
		Steps:              steps,
	}
}

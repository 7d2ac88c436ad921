package partdex

// ProgressReporter provides nested progress reporting for long-running
// stages: an outer task for the phase (categories, batches, chunks) and an
// inner task for the unit in flight. Backends range from an interactive
// terminal bar to periodic log lines to a no-op.
type ProgressReporter interface {
	// Outer starts a phase-level task. Done must be called when finished.
	Outer(total int64, description string) ProgressTask

	// Inner starts a unit-level task nested under the current outer task.
	Inner(total int64, description string) ProgressTask
}

// ProgressTask tracks a single task's advancement.
type ProgressTask interface {
	// Advance adds n to the task's completed count.
	Advance(n int64)

	// SetTotal replaces the task's total, for sizes learned mid-flight
	// (e.g. from a Content-Length header).
	SetTotal(total int64)

	// Done finishes the task.
	Done()
}

// NopProgress is a ProgressReporter that discards all updates.
type NopProgress struct{}

var _ ProgressReporter = NopProgress{}

func (NopProgress) Outer(int64, string) ProgressTask { return nopTask{} }
func (NopProgress) Inner(int64, string) ProgressTask { return nopTask{} }

type nopTask struct{}

func (nopTask) Advance(int64)  {}
func (nopTask) SetTotal(int64) {}
func (nopTask) Done()          {}

package mock

import "github.com/fwojciec/partdex"

var _ partdex.ProgressReporter = (*ProgressReporter)(nil)

// ProgressReporter is a mock implementation of partdex.ProgressReporter.
type ProgressReporter struct {
	OuterFn func(total int64, description string) partdex.ProgressTask
	InnerFn func(total int64, description string) partdex.ProgressTask
}

func (p *ProgressReporter) Outer(total int64, description string) partdex.ProgressTask {
	return p.OuterFn(total, description)
}

func (p *ProgressReporter) Inner(total int64, description string) partdex.ProgressTask {
	return p.InnerFn(total, description)
}

var _ partdex.ProgressTask = (*ProgressTask)(nil)

// ProgressTask is a mock implementation of partdex.ProgressTask.
type ProgressTask struct {
	AdvanceFn  func(n int64)
	SetTotalFn func(total int64)
	DoneFn     func()
}

func (t *ProgressTask) Advance(n int64) {
	t.AdvanceFn(n)
}

func (t *ProgressTask) SetTotal(total int64) {
	t.SetTotalFn(total)
}

func (t *ProgressTask) Done() {
	t.DoneFn()
}

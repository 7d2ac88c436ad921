package slog

import (
	"log/slog"
	"sync"

	"github.com/fwojciec/partdex"
)

// DefaultLogThreshold is how many units accumulate between progress lines.
const DefaultLogThreshold = 100_000

// Ensure ProgressReporter implements partdex.ProgressReporter.
var _ partdex.ProgressReporter = (*ProgressReporter)(nil)

// ProgressReporter emits periodic log lines instead of rendering a bar,
// for non-interactive runs (CI, cron). A line is logged when the configured
// threshold of units has accumulated and when a task finishes.
type ProgressReporter struct {
	logger *slog.Logger

	// Threshold is the number of units between progress lines. Defaults to
	// DefaultLogThreshold.
	Threshold int64
}

// NewProgressReporter creates a new ProgressReporter.
func NewProgressReporter(logger *slog.Logger) *ProgressReporter {
	return &ProgressReporter{logger: logger}
}

func (p *ProgressReporter) threshold() int64 {
	if p.Threshold > 0 {
		return p.Threshold
	}
	return DefaultLogThreshold
}

// Outer starts a phase-level task.
func (p *ProgressReporter) Outer(total int64, description string) partdex.ProgressTask {
	p.logger.Info("starting", "task", description, "total", total)
	return &logTask{logger: p.logger, description: description, total: total, threshold: p.threshold()}
}

// Inner starts a unit-level task.
func (p *ProgressReporter) Inner(total int64, description string) partdex.ProgressTask {
	return &logTask{logger: p.logger, description: description, total: total, threshold: p.threshold()}
}

// logTask is safe for concurrent use; the chunk downloader advances one
// task from multiple workers.
type logTask struct {
	logger      *slog.Logger
	description string
	threshold   int64

	mu          sync.Mutex
	total       int64
	count       int64
	accumulated int64
}

func (t *logTask) Advance(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
	t.accumulated += n
	if t.accumulated >= t.threshold || (t.total > 0 && t.count >= t.total) {
		t.logger.Info("progress", "task", t.description, "count", t.count, "total", t.total)
		t.accumulated = 0
	}
}

func (t *logTask) SetTotal(total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
}

func (t *logTask) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count > 0 {
		t.logger.Info("completed", "task", t.description, "count", t.count, "total", t.total)
	}
}

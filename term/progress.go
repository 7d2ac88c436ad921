// Package term implements an interactive terminal progress bar backend.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fwojciec/partdex"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal. Callers use this
// to fall back to a logging reporter when output is redirected.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Ensure ProgressReporter implements partdex.ProgressReporter.
var _ partdex.ProgressReporter = (*ProgressReporter)(nil)

// ProgressReporter renders an in-place progress bar for the outer task and a
// transient second line for the inner task. It assumes exclusive ownership
// of the writer while a task is active. Tasks may be advanced from
// concurrent workers; the reporter serializes repaints.
type ProgressReporter struct {
	w io.Writer

	mu    sync.Mutex
	outer *barTask
	inner *barTask
}

// NewProgressReporter creates a reporter writing to w, usually os.Stderr.
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{w: w}
}

// Outer starts the phase-level bar.
func (p *ProgressReporter) Outer(total int64, description string) partdex.ProgressTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outer = &barTask{reporter: p, total: total, description: description}
	p.render()
	return p.outer
}

// Inner starts the unit-level bar below the outer one.
func (p *ProgressReporter) Inner(total int64, description string) partdex.ProgressTask {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inner = &barTask{reporter: p, total: total, description: description, inner: true}
	p.render()
	return p.inner
}

func (p *ProgressReporter) width() int {
	if f, ok := p.w.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// render repaints the active bars on one line: the inner bar replaces the
// outer until it finishes, which keeps the output a single rewritable line.
// Callers must hold p.mu.
func (p *ProgressReporter) render() {
	task := p.outer
	if p.inner != nil {
		task = p.inner
	}
	if task == nil {
		return
	}
	fmt.Fprintf(p.w, "\r\033[K%s", task.line(p.width()))
}

func (p *ProgressReporter) finish(t *barTask) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch t {
	case p.inner:
		p.inner = nil
		p.render()
	case p.outer:
		p.outer = nil
		fmt.Fprintf(p.w, "\r\033[K%s\n", t.line(p.width()))
	}
}

type barTask struct {
	reporter    *ProgressReporter
	description string
	total       int64
	count       int64
	inner       bool
}

func (t *barTask) Advance(n int64) {
	t.reporter.mu.Lock()
	defer t.reporter.mu.Unlock()
	t.count += n
	t.reporter.render()
}

func (t *barTask) SetTotal(total int64) {
	t.reporter.mu.Lock()
	defer t.reporter.mu.Unlock()
	t.total = total
	t.reporter.render()
}

func (t *barTask) Done() {
	t.reporter.finish(t)
}

// line renders "<desc> [#####-----] count/total" fitted to the terminal
// width.
func (t *barTask) line(width int) string {
	counts := fmt.Sprintf("%d/%d", t.count, t.total)
	if t.total <= 0 {
		counts = fmt.Sprintf("%d", t.count)
	}

	desc := t.description
	if t.inner {
		desc = "  " + desc
	}

	barWidth := width - len(desc) - len(counts) - 4
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 10 || t.total <= 0 {
		return fmt.Sprintf("%s %s", desc, counts)
	}

	filled := int(float64(barWidth) * float64(t.count) / float64(t.total))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	return fmt.Sprintf("%s [%s] %s", desc, bar, counts)
}

package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes batch progress to a writer, at most once per
// reporting interval. Safe for concurrent use.
type ProgressTracker struct {
	mu       sync.Mutex
	w        io.Writer
	total    int
	interval int
	done     int
	nextAt   int
	begun    time.Time
}

// NewProgressTracker creates a tracker over total items that reports every
// interval items. Output typically goes to os.Stderr.
func NewProgressTracker(w io.Writer, total, interval int) *ProgressTracker {
	return &ProgressTracker{w: w, total: total, interval: interval}
}

// Start resets counters and begins the clock. Updates before Start are
// ignored.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.begun = time.Now()
	p.done = 0
	p.nextAt = p.interval
}

// Update records that done items have completed so far, reporting if the
// count crossed the next interval threshold. Counts beyond total are
// clamped.
func (p *ProgressTracker) Update(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.begun.IsZero() {
		return
	}
	if done > p.total {
		done = p.total
	}
	p.done = done

	if p.done >= p.nextAt {
		p.report()
		p.nextAt = p.done + p.interval
	}
}

// Finish forces a final full-progress report and terminates the line.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.begun.IsZero() {
		return
	}
	p.done = p.total
	p.report()
	fmt.Fprintln(p.w)
}

// Elapsed returns the time since Start, or zero if never started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.begun.IsZero() {
		return 0
	}
	return time.Since(p.begun)
}

// report writes one progress line. Callers hold the lock.
func (p *ProgressTracker) report() {
	pct := 0.0
	if p.total > 0 {
		pct = 100 * float64(p.done) / float64(p.total)
	}
	rate := float64(p.done) / time.Since(p.begun).Seconds()
	fmt.Fprintf(p.w, "\rProgress: %d/%d (%.1f%%) - %.1f chunks/s", p.done, p.total, pct, rate)
}

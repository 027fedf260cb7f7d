package tools

import (
	"sync"
	"time"

	"github.com/lexandro/folderreport/report"
)

// Tracker remembers the most recent report generated by this process.
type Tracker struct {
	mu          sync.RWMutex
	last        report.Summary
	completedAt time.Time
	runs        int
}

// Record stores a finished report.
func (t *Tracker) Record(summary report.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = summary
	t.completedAt = time.Now()
	t.runs++
}

// Last returns the latest summary, when it completed, and whether any report
// has been recorded.
func (t *Tracker) Last() (report.Summary, time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.completedAt, t.runs > 0
}

// Runs returns how many reports have been recorded.
func (t *Tracker) Runs() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.runs
}

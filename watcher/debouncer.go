package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Op is the kind of change observed on a path.
type Op int

const (
	OpCreate Op = iota
	OpRemove
	OpRename
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Change is one path that changed during a quiet window.
type Change struct {
	Path string
	Op   Op
}

// Debouncer gathers changes and emits them as one batch once no new change
// has arrived for the configured interval. Later changes to the same path
// replace earlier ones. Batches are sorted by path.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]Op
	timer   *time.Timer
	stopped bool
	sending sync.WaitGroup

	output chan []Change
	done   chan struct{}
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]Op),
		output:   make(chan []Change, 16),
		done:     make(chan struct{}),
	}
}

// Output returns the channel of batches.
func (d *Debouncer) Output() <-chan []Change {
	return d.output
}

// Add records a change and restarts the quiet interval.
func (d *Debouncer) Add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = op

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop cancels any pending batch and closes the output channel. A batch
// still waiting for a reader is dropped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	clear(d.pending)
	close(d.done)
	d.mu.Unlock()

	d.sending.Wait()
	close(d.output)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}

	batch := make([]Change, 0, len(d.pending))
	for path, op := range d.pending {
		batch = append(batch, Change{Path: path, Op: op})
	}
	slices.SortFunc(batch, func(a, b Change) int {
		return strings.Compare(a.Path, b.Path)
	})
	d.pending = make(map[string]Op)
	d.sending.Add(1)
	d.mu.Unlock()

	defer d.sending.Done()
	select {
	case d.output <- batch:
	case <-d.done:
	}
}

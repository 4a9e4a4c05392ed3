package watch

import (
	"sync"
	"time"
)

// DefaultDebounce batches rapid successive change events into one run.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer collects file paths and fires its callback once events settle.
// Callback invocations are serialized: a batch that settles while a previous
// callback is still running waits for it to finish, so the callback never
// needs its own synchronization.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	runMu    sync.Mutex
	pending  map[string]bool
	timer    *time.Timer
	callback func([]string)
}

// NewDebouncer creates a debouncer with the given settle interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  map[string]bool{},
	}
}

// SetCallback registers the function invoked with the settled batch.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = callback
}

// Add records a changed path and (re)arms the settle timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	files := make([]string, 0, len(d.pending))
	for path := range d.pending {
		files = append(files, path)
	}
	d.pending = map[string]bool{}
	callback := d.callback
	d.mu.Unlock()
	if callback == nil || len(files) == 0 {
		return
	}
	d.runMu.Lock()
	defer d.runMu.Unlock()
	callback(files)
}

// Stop disarms any pending timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

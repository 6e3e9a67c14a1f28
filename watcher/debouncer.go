package watcher

import (
	"sync"
	"time"
)

// Op is the kind of change seen on a watched file.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Change summarises the events seen on one file during a quiet period.
type Change struct {
	Path   string
	Op     Op // latest operation
	Events int
}

// Debouncer coalesces bursts of events into one Change per file, emitted after the
// file has been quiet for the interval. A writer replacing the manifest typically
// produces several events; consumers see one.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]*pendingChange
	output  chan Change
	closed  bool
}

type pendingChange struct {
	change Change
	timer  *time.Timer
	seq    uint64
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]*pendingChange),
		output:   make(chan Change, 16),
	}
}

// Output returns the channel receiving coalesced changes.
func (d *Debouncer) Output() <-chan Change {
	return d.output
}

// Add records an event for path and restarts its quiet period.
func (d *Debouncer) Add(path string, op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	p, ok := d.pending[path]
	if !ok {
		p = &pendingChange{change: Change{Path: path}}
		d.pending[path] = p
	} else {
		p.timer.Stop()
	}
	p.change.Op = op
	p.change.Events++
	p.seq++

	seq := p.seq
	p.timer = time.AfterFunc(d.interval, func() { d.flush(path, seq) })
}

// flush emits the change for path unless a later Add restarted its quiet period.
func (d *Debouncer) flush(path string, seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[path]
	if !ok || p.seq != seq || d.closed {
		return
	}
	delete(d.pending, path)

	select {
	case d.output <- p.change:
	default:
		// consumer is behind; a change for this path is already queued or will be re-read
	}
}

// Close stops pending timers and closes the output channel.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, p := range d.pending {
		p.timer.Stop()
	}
	close(d.output)
}

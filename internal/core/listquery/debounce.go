package listquery

import (
	"sync"
	"time"
)

const DefaultDebounceWindow = 500 * time.Millisecond

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
func (systemClock) Now() time.Time                            { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Debouncer forwards the last pushed FilterMap once no push has happened for
// the window. A pending emission is dropped when superseded, and a value
// structurally equal to the previous emission is not emitted again.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	window  time.Duration
	emit    func(FilterMap)
	timer   Timer
	gen     uint64
	last    FilterMap
	stopped bool
}

// NewDebouncer creates a debouncer whose first emission is compared against
// initial.
func NewDebouncer(clock Clock, window time.Duration, initial FilterMap, emit func(FilterMap)) *Debouncer {
	if clock == nil {
		clock = SystemClock
	}
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{
		clock:  clock,
		window: window,
		emit:   emit,
		last:   initial.Clone(),
	}
}

func (d *Debouncer) Push(filters FilterMap) {
	value := filters.Clone()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen, value) })
}

func (d *Debouncer) fire(gen uint64, value FilterMap) {
	d.mu.Lock()
	// A timer that already started running when Stop was called still lands
	// here; the generation check drops it.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if value.Equal(d.last) {
		d.mu.Unlock()
		return
	}
	d.last = value
	d.mu.Unlock()

	d.emit(value.Clone())
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop discards any pending emission; later pushes are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

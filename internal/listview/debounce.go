package listview

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once input has been quiet
// for the configured delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	sched Scheduler
	timer Timer
	seq   uint64
}

func NewDebouncer(delay time.Duration, sched Scheduler) *Debouncer {
	if sched == nil {
		sched = RealScheduler()
	}
	return &Debouncer{delay: delay, sched: sched}
}

// Trigger (re)starts the quiet period; only fn from the last call before the period
// ends is run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a timer that lost the race with Stop must not fire
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is waiting for the quiet period to end.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

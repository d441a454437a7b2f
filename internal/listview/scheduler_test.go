package listview_test

import (
	"sort"
	"sync"
	"time"

	"github.com/maxviazov/shop-admin-console/internal/listview"
)

// manualScheduler is a virtual clock: timers fire on Advance and goroutines run on Drain.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
	jobs   []func()
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

var _ listview.Scheduler = (*manualScheduler)(nil)

func newManualScheduler() *manualScheduler { return &manualScheduler{} }

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) listview.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) Go(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, f)
}

// Advance moves the clock forward and fires every timer that became due, in order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// Drain runs queued goroutines, including the ones they queue, until none are left.
func (s *manualScheduler) Drain() {
	for {
		s.mu.Lock()
		if len(s.jobs) == 0 {
			s.mu.Unlock()
			return
		}
		job := s.jobs[0]
		s.jobs = s.jobs[1:]
		s.mu.Unlock()
		job()
	}
}

// Queued is the number of goroutines waiting for Drain.
func (s *manualScheduler) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

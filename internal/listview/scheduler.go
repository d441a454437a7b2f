package listview

import "time"

// Timer is a pending delayed call.
type Timer interface {
	Stop() bool
}

// Scheduler runs delayed and background work for a controller. Tests swap in a
// manual implementation to drive debounce and retry delays without sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Go(f func())
}

type realScheduler struct{}

// RealScheduler uses time.AfterFunc and plain goroutines.
func RealScheduler() Scheduler { return realScheduler{} }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

func (realScheduler) Go(f func()) { go f() }

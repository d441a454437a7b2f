package listview

// TriggerState is the fetch trigger (dirty flag) state of a list.
type TriggerState uint8

const (
	// Clean: the view matches the filters.
	Clean TriggerState = iota
	// Dirty: filters, page or sort changed; a fetch must start.
	Dirty
	// Fetching: one request is in flight.
	Fetching
	// Backoff: the last fetch failed; a retry is scheduled.
	Backoff
)

func (s TriggerState) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Fetching:
		return "fetching"
	case Backoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON views.
func (s TriggerState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Trigger is the dirty-flag state machine:
//
//	clean -> dirty -> fetching -> clean            (success)
//	                  fetching -> backoff -> dirty (failure, after the retry delay)
//
// Marking dirty while fetching records a rerun: the in-flight result is stale and
// exactly one more fetch follows it. Trigger is not synchronized; the controller
// owns the lock.
type Trigger struct {
	state TriggerState
	rerun bool
}

// NewTrigger starts dirty so the first fetch happens on start.
func NewTrigger() Trigger { return Trigger{state: Dirty} }

func (t *Trigger) State() TriggerState { return t.state }

// Busy reports whether data is on its way (dirty or fetching).
func (t *Trigger) Busy() bool { return t.state == Dirty || t.state == Fetching }

// Stale reports whether the in-flight fetch was superseded.
func (t *Trigger) Stale() bool { return t.state == Fetching && t.rerun }

// MarkDirty flags the view as out of date.
func (t *Trigger) MarkDirty() {
	if t.state == Fetching {
		t.rerun = true
		return
	}
	t.state = Dirty
}

// Begin moves dirty -> fetching and clears the dirty flag. It reports false when
// there is nothing to fetch or a fetch is already running.
func (t *Trigger) Begin() bool {
	if t.state != Dirty {
		return false
	}
	t.state = Fetching
	t.rerun = false
	return true
}

// Finish settles the in-flight fetch and returns the new state: dirty when it was
// superseded, clean on success, backoff on failure.
func (t *Trigger) Finish(ok bool) TriggerState {
	if t.state != Fetching {
		return t.state
	}
	switch {
	case t.rerun:
		t.state = Dirty
	case ok:
		t.state = Clean
	default:
		t.state = Backoff
	}
	t.rerun = false
	return t.state
}

// Retry moves backoff -> dirty once the retry delay has passed.
func (t *Trigger) Retry() bool {
	if t.state != Backoff {
		return false
	}
	t.state = Dirty
	return true
}

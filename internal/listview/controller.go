// Package listview drives one paginated admin list: debounced search, the dirty-flag
// fetch trigger, retry after a failed load and confirmation-gated mutations.
package listview

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

const (
	DefaultDebounceDelay = 500 * time.Millisecond
	DefaultRetryDelay    = 3 * time.Second
	DefaultPageSize      = 10
)

// Fetch outcomes reported to the Observer.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)

// Source loads one page of T.
type Source[T any] interface {
	List(ctx context.Context, req pagination.Request) (pagination.Response[T], error)
}

// Mutator changes a single row.
type Mutator interface {
	Delete(ctx context.Context, id string) error
	ToggleStatus(ctx context.Context, id string) error
}

// Capabilities is optionally implemented by a Mutator whose backend only supports
// some of the row actions.
type Capabilities interface {
	CanDelete() bool
	CanToggleStatus() bool
}

// Observer receives fetch and mutation outcomes, e.g. for metrics.
type Observer interface {
	FetchCompleted(resource, outcome string, took time.Duration)
	MutationCompleted(resource string, action Action, ok bool)
}

type nopObserver struct{}

func (nopObserver) FetchCompleted(string, string, time.Duration) {}
func (nopObserver) MutationCompleted(string, Action, bool)       {}

// Options configures a Controller. Zero values fall back to the package defaults.
type Options struct {
	Resource      string
	Defaults      Filters
	DebounceDelay time.Duration
	RetryDelay    time.Duration
	// FetchTimeout bounds a single list call; zero means no extra bound.
	FetchTimeout time.Duration
	Scheduler    Scheduler
	Notifier     feedback.Notifier
	Observer     Observer
	Logger       zerolog.Logger
}

// Controller is the data controller of one list screen. All methods are safe for
// concurrent use.
type Controller[T any] struct {
	resource     string
	src          Source[T]
	mut          Mutator
	sched        Scheduler
	notify       feedback.Notifier
	obs          Observer
	log          zerolog.Logger
	search       *Debouncer
	retryDelay   time.Duration
	fetchTimeout time.Duration
	defaults     Filters

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	started   bool
	closed    bool
	rawSearch string
	filters   Filters
	trigger   Trigger
	seq       uint64
	retry     Timer
	last      pagination.Response[T]
	hasData   bool
	err       error
	pending   *Confirmation
	fetches   int
}

// New builds a controller; mut may be nil for read-only lists. Nothing is fetched
// until Start.
func New[T any](src Source[T], mut Mutator, opts Options) *Controller[T] {
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = DefaultDebounceDelay
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler()
	}
	if opts.Notifier == nil {
		opts.Notifier = feedback.Discard{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Defaults.Size <= 0 {
		opts.Defaults.Size = DefaultPageSize
	}
	opts.Defaults.Page = 0
	defaults := opts.Defaults.clone()

	return &Controller[T]{
		resource:     opts.Resource,
		src:          src,
		mut:          mut,
		sched:        opts.Scheduler,
		notify:       opts.Notifier,
		obs:          opts.Observer,
		log:          opts.Logger.With().Str("module", "listview").Str("resource", opts.Resource).Logger(),
		search:       NewDebouncer(opts.DebounceDelay, opts.Scheduler),
		retryDelay:   opts.RetryDelay,
		fetchTimeout: opts.FetchTimeout,
		defaults:     defaults,
		rawSearch:    defaults.Search,
		filters:      defaults.clone(),
		trigger:      NewTrigger(),
	}
}

// Resource names the list this controller drives.
func (c *Controller[T]) Resource() string { return c.resource }

// Start begins the initial load. Fetches run under ctx until Close.
func (c *Controller[T]) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.mu.Unlock()
	c.kick()
}

// Close cancels the in-flight fetch and every pending timer. Late results are dropped.
func (c *Controller[T]) Close() {
	c.search.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.stopRetryLocked()
	c.pending = nil
}

// SetSearch records the raw search input. The term is committed, and the list
// refetched, once the input has been quiet for the debounce delay.
func (c *Controller[T]) SetSearch(raw string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.rawSearch = raw
	c.mu.Unlock()
	c.search.Trigger(c.commitSearch)
}

func (c *Controller[T]) commitSearch() {
	c.mu.Lock()
	term := strings.TrimSpace(c.rawSearch)
	if c.closed || term == c.filters.Search {
		c.mu.Unlock()
		return
	}
	c.filters.Search = term
	c.filters.Page = 0
	c.markDirtyLocked()
	c.mu.Unlock()
	c.kick()
}

func (c *Controller[T]) SetStatus(status string) {
	c.update(func(f *Filters) { f.Status = strings.TrimSpace(status) })
}

func (c *Controller[T]) SetType(typ string) {
	c.update(func(f *Filters) { f.Type = strings.TrimSpace(typ) })
}

// SetDateRange filters by date; nil leaves that side open.
func (c *Controller[T]) SetDateRange(from, to *time.Time) {
	c.update(func(f *Filters) {
		f.From, f.To = from, to
	})
}

// SetExtra sets a resource-specific filter; an empty value removes it.
func (c *Controller[T]) SetExtra(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	c.update(func(f *Filters) {
		if f.Extra == nil {
			f.Extra = map[string]string{}
		} else {
			f.Extra = maps.Clone(f.Extra)
		}
		if value = strings.TrimSpace(value); value == "" {
			delete(f.Extra, key)
			return
		}
		f.Extra[key] = value
	})
}

// ApplyFilters replaces status, type, date range and extra filters at once, so a
// form submit costs a single refetch.
func (c *Controller[T]) ApplyFilters(set FilterSet) {
	c.update(func(f *Filters) {
		f.Status = strings.TrimSpace(set.Status)
		f.Type = strings.TrimSpace(set.Type)
		f.From, f.To = set.From, set.To
		f.Extra = nil
		for k, v := range set.Extra {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k == "" || v == "" {
				continue
			}
			if f.Extra == nil {
				f.Extra = map[string]string{}
			}
			f.Extra[k] = v
		}
	})
}

func (c *Controller[T]) SetSort(s pagination.Sort) {
	c.update(func(f *Filters) { f.Sort = s })
}

// SetPageSize changes the page size and returns to the first page.
func (c *Controller[T]) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	c.update(func(f *Filters) { f.Size = size })
}

// SetPage moves to another page, keeping every other filter.
func (c *Controller[T]) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	c.mu.Lock()
	if c.closed || c.filters.Page == page {
		c.mu.Unlock()
		return
	}
	c.filters.Page = page
	c.markDirtyLocked()
	c.mu.Unlock()
	c.kick()
}

// SetPaging sets page and page size together and refetches once. A size of zero
// or less keeps the current size.
func (c *Controller[T]) SetPaging(page, size int) {
	if page < 0 {
		page = 0
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if size <= 0 {
		size = c.filters.Size
	}
	if c.filters.Page == page && c.filters.Size == size {
		c.mu.Unlock()
		return
	}
	c.filters.Page, c.filters.Size = page, size
	c.markDirtyLocked()
	c.mu.Unlock()
	c.kick()
}

// ClearFilters restores the defaults, drops any pending search input and refetches
// exactly once.
func (c *Controller[T]) ClearFilters() {
	c.search.Cancel()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.rawSearch = c.defaults.Search
	c.filters = c.defaults.clone()
	c.markDirtyLocked()
	c.mu.Unlock()
	c.kick()
}

// Refresh refetches the current page.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.markDirtyLocked()
	c.mu.Unlock()
	c.kick()
}

// update applies fn to the filters; any change returns to the first page and
// marks the list dirty.
func (c *Controller[T]) update(fn func(f *Filters)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	before := c.filters.clone()
	fn(&c.filters)
	if c.filters.equal(before) {
		c.mu.Unlock()
		return
	}
	c.filters.Page = 0
	c.markDirtyLocked()
	c.mu.Unlock()
	c.kick()
}

func (c *Controller[T]) markDirtyLocked() {
	c.stopRetryLocked()
	c.trigger.MarkDirty()
}

func (c *Controller[T]) stopRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

// kick starts a fetch when the list is dirty and nothing is in flight.
func (c *Controller[T]) kick() {
	c.mu.Lock()
	if !c.started || c.closed || !c.trigger.Begin() {
		c.mu.Unlock()
		return
	}
	c.seq++
	c.fetches++
	seq, ctx, req := c.seq, c.ctx, c.filters.Request()
	c.mu.Unlock()

	c.log.Debug().Int("page", req.Page).Int("size", req.Size).Str("sort", req.Sort.String()).Msg("fetching list")
	c.sched.Go(func() { c.fetch(ctx, seq, req) })
}

func (c *Controller[T]) fetch(ctx context.Context, seq uint64, req pagination.Request) {
	fctx := ctx
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.src.List(fctx, req)
	if err == nil {
		err = resp.Validate(req.Size)
	}
	took := time.Since(start)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	stale := c.trigger.Stale()
	next := c.trigger.Finish(err == nil)
	outcome := OutcomeOK
	switch {
	case stale:
		outcome = OutcomeStale
	case err != nil:
		outcome = OutcomeError
		c.err = err
		if next == Backoff {
			c.retry = c.sched.AfterFunc(c.retryDelay, func() { c.retryFetch(seq) })
		}
	default:
		c.last = resp
		c.hasData = true
		c.err = nil
	}
	c.mu.Unlock()

	c.obs.FetchCompleted(c.resource, outcome, took)
	switch outcome {
	case OutcomeStale:
		c.log.Debug().Dur("took", took).Msg("discarded superseded page")
	case OutcomeError:
		c.log.Warn().Err(err).Dur("took", took).Dur("retry_in", c.retryDelay).Msg("list fetch failed")
		c.toast(feedback.LevelError, feedback.LoadFailed(err))
	default:
		c.log.Debug().Dur("took", took).Int("items", len(resp.Content)).Int64("total", resp.TotalElements).Msg("list fetched")
	}
	c.kick()
}

func (c *Controller[T]) retryFetch(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.retry = nil
	ok := c.trigger.Retry()
	c.mu.Unlock()
	if ok {
		c.kick()
	}
}

func (c *Controller[T]) toast(level feedback.Level, msg string) {
	c.notify.Notify(feedback.Notice{Level: level, Resource: c.resource, Message: msg})
}

// View returns a snapshot for rendering.
func (c *Controller[T]) View() View[T] {
	searchPending := c.search.Pending()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T]{
		Resource:        c.resource,
		Refreshing:      c.hasData && c.trigger.Busy(),
		Items:           c.last.Content,
		TotalElements:   c.last.TotalElements,
		TotalPages:      c.last.TotalPages,
		Number:          c.last.Number,
		Size:            c.last.Size,
		First:           c.last.First,
		Last:            c.last.Last,
		RawSearch:       c.rawSearch,
		SearchPending:   searchPending,
		Filters:         c.filters.clone(),
		HasReceivedData: c.hasData,
		Trigger:         c.trigger.State(),
		Fetches:         c.fetches,
	}
	if v.Items == nil {
		v.Items = []T{}
	}
	if c.err != nil {
		v.Error = feedback.Humanize(c.err)
	}
	if c.pending != nil {
		p := *c.pending
		v.Pending = &p
	}
	busy := c.started && c.trigger.Busy()
	v.Status = deriveStatus(c.hasData, busy, c.err != nil, c.last.IsEmpty())
	return v
}

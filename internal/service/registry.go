package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

// ResourceSpec describes what a list screen accepts.
type ResourceSpec struct {
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	Statuses        []string        `json:"statuses,omitempty"`
	Types           []string        `json:"types,omitempty"`
	SortFields      []string        `json:"sort_fields"`
	ExtraFilters    []string        `json:"extra_filters,omitempty"`
	DateRange       bool            `json:"date_range"`
	DefaultSort     pagination.Sort `json:"default_sort"`
	CanDelete       bool            `json:"can_delete"`
	CanToggleStatus bool            `json:"can_toggle_status"`
}

// Screen is the type-erased face of one list controller.
type Screen interface {
	Spec() ResourceSpec
	Snapshot() any
	Start(ctx context.Context)
	SetSearch(raw string)
	ApplyFilters(set listview.FilterSet)
	SetSort(s pagination.Sort)
	SetPage(page int)
	SetPageSize(size int)
	SetPaging(page, size int)
	ClearFilters()
	Refresh()
	RequestDelete(id, label string) (listview.Confirmation, error)
	RequestToggleStatus(id, label string) (listview.Confirmation, error)
	Pending() (listview.Confirmation, bool)
	Confirm(ctx context.Context) (listview.Confirmation, error)
	Cancel() error
	Close()
}

type screen[T any] struct {
	*listview.Controller[T]
	spec ResourceSpec
}

func (s *screen[T]) Spec() ResourceSpec { return s.spec }

func (s *screen[T]) Snapshot() any { return s.View() }

// Registry owns every list screen. Screens are built and started on first use and
// live until Close.
type Registry struct {
	ctx  context.Context
	base listview.Options
	log  zerolog.Logger

	mu        sync.Mutex
	order     []string
	specs     map[string]ResourceSpec
	factories map[string]func(listview.Options) Screen
	screens   map[string]Screen
	closed    bool
}

// NewRegistry builds an empty registry. Screens fetch under ctx; base carries the
// options shared by every controller.
func NewRegistry(ctx context.Context, base listview.Options, logger zerolog.Logger) *Registry {
	return &Registry{
		ctx:       ctx,
		base:      base,
		log:       logger.With().Str("module", "service").Str("component", "registry").Logger(),
		specs:     map[string]ResourceSpec{},
		factories: map[string]func(listview.Options) Screen{},
		screens:   map[string]Screen{},
	}
}

// Register adds a screen for T. mut may be nil for read-only lists; the
// capability flags are derived from what mut supports.
func Register[T any](r *Registry, spec ResourceSpec, src listview.Source[T], mut listview.Mutator) {
	spec.CanDelete, spec.CanToggleStatus = false, false
	if mut != nil {
		spec.CanDelete, spec.CanToggleStatus = true, true
		if caps, ok := mut.(listview.Capabilities); ok {
			spec.CanDelete, spec.CanToggleStatus = caps.CanDelete(), caps.CanToggleStatus()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.specs[spec.Name]; dup {
		panic(fmt.Sprintf("service: screen %q registered twice", spec.Name))
	}
	r.order = append(r.order, spec.Name)
	r.specs[spec.Name] = spec
	r.factories[spec.Name] = func(opts listview.Options) Screen {
		return &screen[T]{Controller: listview.New[T](src, mut, opts), spec: spec}
	}
}

// Specs lists the registered screens in registration order.
func (r *Registry) Specs() []ResourceSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ResourceSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// Screen returns the named screen, starting it on first use.
func (r *Registry) Screen(name string) (Screen, error) {
	r.mu.Lock()
	if s, ok := r.screens[name]; ok {
		r.mu.Unlock()
		return s, nil
	}
	build, ok := r.factories[name]
	if !ok || r.closed {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
	}
	opts := r.base
	opts.Resource = name
	opts.Defaults = r.base.Defaults
	opts.Defaults.Sort = r.specs[name].DefaultSort
	s := build(opts)
	r.screens[name] = s
	r.mu.Unlock()

	r.log.Debug().Str("screen", name).Msg("screen opened")
	s.Start(r.ctx)
	return s, nil
}

// Names lists the registered screen names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Close shuts every open screen down.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	screens := make([]Screen, 0, len(r.screens))
	for _, s := range r.screens {
		screens = append(screens, s)
	}
	r.mu.Unlock()
	for _, s := range screens {
		s.Close()
	}
	r.log.Info().Int("screens", len(screens)).Msg("screens closed")
}

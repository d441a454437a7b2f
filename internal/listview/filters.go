package listview

import (
	"maps"
	"time"

	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

// DateLayout is how date-range filters go over the wire.
const DateLayout = "2006-01-02"

// Filter keys sent to the backend.
const (
	KeySearch = "search"
	KeyStatus = "status"
	KeyType   = "type"
	KeyFrom   = "fromDate"
	KeyTo     = "toDate"
)

// Filters is everything that decides which page of a list is shown. Search holds
// the debounced term; the raw input lives on the controller.
type Filters struct {
	Search string            `json:"search,omitempty"`
	Status string            `json:"status,omitempty"`
	Type   string            `json:"type,omitempty"`
	From   *time.Time        `json:"from,omitempty"`
	To     *time.Time        `json:"to,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
	Sort   pagination.Sort   `json:"sort"`
	Page   int               `json:"page"`
	Size   int               `json:"size"`
}

// FilterSet is the criteria part of Filters, replaced as a whole by ApplyFilters.
type FilterSet struct {
	Status string
	Type   string
	From   *time.Time
	To     *time.Time
	Extra  map[string]string
}

func (f Filters) clone() Filters {
	out := f
	if f.Extra != nil {
		out.Extra = maps.Clone(f.Extra)
	}
	return out
}

// Request builds the page request for the current filters.
func (f Filters) Request() pagination.Request {
	filters := make(map[string]string, 5+len(f.Extra))
	for k, v := range f.Extra {
		filters[k] = v
	}
	set := func(k, v string) {
		if v != "" {
			filters[k] = v
		}
	}
	set(KeySearch, f.Search)
	set(KeyStatus, f.Status)
	set(KeyType, f.Type)
	if f.From != nil {
		set(KeyFrom, f.From.Format(DateLayout))
	}
	if f.To != nil {
		set(KeyTo, f.To.Format(DateLayout))
	}
	return pagination.Request{Page: f.Page, Size: f.Size, Sort: f.Sort, Filters: filters}
}

func (f Filters) equal(o Filters) bool {
	return f.Search == o.Search &&
		f.Status == o.Status &&
		f.Type == o.Type &&
		sameDate(f.From, o.From) &&
		sameDate(f.To, o.To) &&
		sameExtra(f.Extra, o.Extra) &&
		f.Sort == o.Sort &&
		f.Page == o.Page &&
		f.Size == o.Size
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// sameExtra treats empty values as absent, the same way the request encoder does.
func sameExtra(a, b map[string]string) bool {
	for k, v := range a {
		if v != "" && b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if v != "" && a[k] != v {
			return false
		}
	}
	return true
}

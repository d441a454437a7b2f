// Package pagination holds the page request / page response contract shared by the
// REST client and the list-view controllers.
// The backend owns the envelope; I only read it and check the one invariant I rely on.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Direction is a sort direction accepted by the backend.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ErrOversizedPage is returned when a response carries more items than its page size.
var ErrOversizedPage = errors.New("page content exceeds page size")

// Sort names the ordering of a list. A zero Sort means "server default".
type Sort struct {
	Field     string    `json:"field,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// IsZero reports whether no sort field was chosen.
func (s Sort) IsZero() bool { return strings.TrimSpace(s.Field) == "" }

// String renders the Spring-style "field,dir" form used on the wire.
func (s Sort) String() string {
	if s.IsZero() {
		return ""
	}
	dir := s.Direction
	if dir != Desc {
		dir = Asc
	}
	return s.Field + "," + string(dir)
}

// Request is one paginated list call: zero-based page, page size, sort and free-form filters.
type Request struct {
	Page    int               `json:"page"`
	Size    int               `json:"size"`
	Sort    Sort              `json:"sort"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Query encodes the request as query parameters. Empty filter values are skipped so
// the backend applies its own defaults for them.
func (r Request) Query() url.Values {
	q := url.Values{}
	page := r.Page
	if page < 0 {
		page = 0
	}
	q.Set("page", strconv.Itoa(page))
	if r.Size > 0 {
		q.Set("size", strconv.Itoa(r.Size))
	}
	if s := r.Sort.String(); s != "" {
		q.Set("sort", s)
	}
	keys := make([]string, 0, len(r.Filters))
	for k := range r.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.TrimSpace(r.Filters[k])
		if v == "" || k == "page" || k == "size" || k == "sort" {
			continue
		}
		q.Set(k, v)
	}
	return q
}

// Response is the server pagination envelope. Number is the zero-based page index.
type Response[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// IsEmpty reports whether the page has nothing to show.
func (r Response[T]) IsEmpty() bool { return r.Empty || len(r.Content) == 0 }

// Validate checks len(Content) <= Size. When the server leaves Size out I fall back
// to the size that was requested.
func (r Response[T]) Validate(requestSize int) error {
	size := r.Size
	if size <= 0 {
		size = requestSize
	}
	if size > 0 && len(r.Content) > size {
		return fmt.Errorf("%w: got %d items for size %d", ErrOversizedPage, len(r.Content), size)
	}
	return nil
}

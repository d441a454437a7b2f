// Package service coordinates the list screens behind the console API: input
// validation, screen lookup and domain error shaping. No transport details here.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownScreen is returned for a resource name that has no list screen.
var ErrUnknownScreen = errors.New("unknown screen")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// SearchInput is the raw text of a search box.
type SearchInput struct {
	Query string `json:"query" validate:"max=100"`
}

// FilterInput replaces every non-search filter of a screen. Dates are YYYY-MM-DD.
type FilterInput struct {
	Status string            `json:"status" validate:"omitempty,max=32"`
	Type   string            `json:"type" validate:"omitempty,max=32"`
	From   string            `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string            `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Extra  map[string]string `json:"extra" validate:"omitempty,max=10,dive,keys,required,max=64,endkeys,max=128"`
}

// SortInput picks the sort column; an empty field restores the server default.
type SortInput struct {
	Field     string `json:"field" validate:"omitempty,max=64"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// PageInput moves to a page; a non-zero size also changes the page size.
type PageInput struct {
	Page int `json:"page" validate:"min=0"`
	Size int `json:"size" validate:"omitempty,min=1"`
}

// ItemInput names the row a confirmation is about. Label is shown in the prompt.
type ItemInput struct {
	ID    string `json:"id" validate:"required,max=64"`
	Label string `json:"label" validate:"max=200"`
}

// LogoInput is one brand logo upload.
type LogoInput struct {
	BrandID     string    `json:"brand_id" validate:"required,numeric"`
	FileName    string    `json:"file_name" validate:"required,max=255"`
	ContentType string    `json:"content_type" validate:"required"`
	Size        int64     `json:"size" validate:"min=1"`
	Content     io.Reader `json:"-" validate:"required"`
}

// Console is what the HTTP layer drives. Screen methods return the screen's view
// snapshot taken right after the change.
type Console interface {
	Screens() []ResourceSpec
	View(ctx context.Context, screen string) (any, error)
	Search(ctx context.Context, screen string, in SearchInput) (any, error)
	Filter(ctx context.Context, screen string, in FilterInput) (any, error)
	Sort(ctx context.Context, screen string, in SortInput) (any, error)
	Page(ctx context.Context, screen string, in PageInput) (any, error)
	Clear(ctx context.Context, screen string) (any, error)
	Refresh(ctx context.Context, screen string) (any, error)

	RequestAction(ctx context.Context, screen string, action listview.Action, in ItemInput) (listview.Confirmation, error)
	Pending(ctx context.Context, screen string) (listview.Confirmation, error)
	Confirm(ctx context.Context, screen string) (listview.Confirmation, error)
	Cancel(ctx context.Context, screen string) error

	UploadBrandLogo(ctx context.Context, in LogoInput) (model.UploadResult, error)
	Notices(limit int) []feedback.Notice
}

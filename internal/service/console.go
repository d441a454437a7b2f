package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/model"
	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

// MaxLogoBytes caps a brand logo upload.
const MaxLogoBytes = 2 << 20

var logoTypes = []string{"image/png", "image/jpeg", "image/webp", "image/svg+xml"}

// LogoUploader sends a brand logo to the backend.
type LogoUploader interface {
	UploadBrandLogo(ctx context.Context, brandID, fileName string, content io.Reader, progress apiclient.ProgressFunc) (model.UploadResult, error)
}

// NoticeSource lists recent toasts.
type NoticeSource interface {
	Recent(n int) []feedback.Notice
}

// ConsoleOptions wires the console service.
type ConsoleOptions struct {
	Registry    *Registry
	Uploader    LogoUploader
	Notices     NoticeSource
	Notifier    feedback.Notifier
	MaxPageSize int
}

// consoleService validates input and forwards it to the screen controllers.
type consoleService struct {
	reg         *Registry
	uploader    LogoUploader
	notices     NoticeSource
	notifier    feedback.Notifier
	maxPageSize int
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewConsoleService(opts ConsoleOptions, logger zerolog.Logger) Console {
	if opts.Notifier == nil {
		opts.Notifier = feedback.Discard{}
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	l := logger.With().Str("module", "service").Str("component", "console").Logger()
	return &consoleService{
		reg:         opts.Registry,
		uploader:    opts.Uploader,
		notices:     opts.Notices,
		notifier:    opts.Notifier,
		maxPageSize: opts.MaxPageSize,
		validate:    newValidator(),
		log:         l,
	}
}

func (s *consoleService) Screens() []ResourceSpec { return s.reg.Specs() }

func (s *consoleService) View(_ context.Context, name string) (any, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	return sc.Snapshot(), nil
}

func (s *consoleService) Search(_ context.Context, name string, in SearchInput) (any, error) {
	if err := newInvalidInput(structErrors(s.validate, in)); err != nil {
		return nil, err
	}
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	sc.SetSearch(in.Query)
	return sc.Snapshot(), nil
}

func (s *consoleService) Filter(_ context.Context, name string, in FilterInput) (any, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	spec := sc.Spec()

	ferrs := structErrors(s.validate, in)
	in.Status = strings.TrimSpace(in.Status)
	in.Type = strings.TrimSpace(in.Type)
	if !allowed(in.Status, spec.Statuses) {
		ferrs = append(ferrs, FieldError{Field: "status", Message: fmt.Sprintf("must be one of: %s", strings.Join(spec.Statuses, ", "))})
	}
	if !allowed(in.Type, spec.Types) {
		ferrs = append(ferrs, FieldError{Field: "type", Message: "not supported for " + spec.Name})
	}
	for k := range in.Extra {
		if !allowed(k, spec.ExtraFilters) {
			ferrs = append(ferrs, FieldError{Field: "extra." + k, Message: "unknown filter for " + spec.Name})
		}
	}
	from, fromErr := parseDate(in.From)
	to, toErr := parseDate(in.To)
	if (in.From != "" || in.To != "") && !spec.DateRange {
		ferrs = append(ferrs, FieldError{Field: "from", Message: "date range not supported for " + spec.Name})
	} else if fromErr == nil && toErr == nil && from != nil && to != nil && from.After(*to) {
		ferrs = append(ferrs, FieldError{Field: "to", Message: "must not be before from"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("screen", name).Interface("field_errors", ferrs).Msg("filter validation failed")
		return nil, err
	}

	extra := make(map[string]string, len(in.Extra))
	for k, v := range in.Extra {
		extra[canonical(k, spec.ExtraFilters)] = v
	}
	sc.ApplyFilters(listview.FilterSet{
		Status: canonical(in.Status, spec.Statuses),
		Type:   canonical(in.Type, spec.Types),
		From:   from,
		To:     to,
		Extra:  extra,
	})
	return sc.Snapshot(), nil
}

func (s *consoleService) Sort(_ context.Context, name string, in SortInput) (any, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	spec := sc.Spec()
	ferrs := structErrors(s.validate, in)
	field := strings.TrimSpace(in.Field)
	if !allowed(field, spec.SortFields) {
		ferrs = append(ferrs, FieldError{Field: "field", Message: fmt.Sprintf("must be one of: %s", strings.Join(spec.SortFields, ", "))})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, err
	}

	sort := spec.DefaultSort
	if field != "" {
		sort = pagination.Sort{Field: canonical(field, spec.SortFields), Direction: pagination.Asc}
		if strings.EqualFold(in.Direction, string(pagination.Desc)) {
			sort.Direction = pagination.Desc
		}
	}
	sc.SetSort(sort)
	return sc.Snapshot(), nil
}

func (s *consoleService) Page(_ context.Context, name string, in PageInput) (any, error) {
	ferrs := structErrors(s.validate, in)
	if in.Size > s.maxPageSize {
		ferrs = append(ferrs, FieldError{Field: "size", Message: fmt.Sprintf("must be at most %d", s.maxPageSize)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, err
	}
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	sc.SetPaging(in.Page, in.Size)
	return sc.Snapshot(), nil
}

func (s *consoleService) Clear(_ context.Context, name string) (any, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	sc.ClearFilters()
	return sc.Snapshot(), nil
}

func (s *consoleService) Refresh(_ context.Context, name string) (any, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return nil, err
	}
	sc.Refresh()
	return sc.Snapshot(), nil
}

func (s *consoleService) RequestAction(_ context.Context, name string, action listview.Action, in ItemInput) (listview.Confirmation, error) {
	if err := newInvalidInput(structErrors(s.validate, in)); err != nil {
		return listview.Confirmation{}, err
	}
	sc, err := s.reg.Screen(name)
	if err != nil {
		return listview.Confirmation{}, err
	}
	switch action {
	case listview.ActionDelete:
		return sc.RequestDelete(in.ID, in.Label)
	case listview.ActionToggleStatus:
		return sc.RequestToggleStatus(in.ID, in.Label)
	default:
		return listview.Confirmation{}, fmt.Errorf("%w: %s", listview.ErrUnsupportedAction, action)
	}
}

func (s *consoleService) Pending(_ context.Context, name string) (listview.Confirmation, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return listview.Confirmation{}, err
	}
	p, ok := sc.Pending()
	if !ok {
		return listview.Confirmation{}, listview.ErrNoPendingConfirmation
	}
	return p, nil
}

func (s *consoleService) Confirm(ctx context.Context, name string) (listview.Confirmation, error) {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return listview.Confirmation{}, err
	}
	start := time.Now()
	conf, err := sc.Confirm(ctx)
	if err != nil {
		return conf, err
	}
	s.log.Info().Str("screen", name).Str("action", string(conf.Action)).Str("id", conf.ID).Dur("took", time.Since(start)).Msg("confirmed")
	return conf, nil
}

func (s *consoleService) Cancel(_ context.Context, name string) error {
	sc, err := s.reg.Screen(name)
	if err != nil {
		return err
	}
	return sc.Cancel()
}

func (s *consoleService) UploadBrandLogo(ctx context.Context, in LogoInput) (model.UploadResult, error) {
	ferrs := structErrors(s.validate, in)
	if in.ContentType != "" && !allowed(in.ContentType, logoTypes) {
		ferrs = append(ferrs, FieldError{Field: "content_type", Message: "must be a PNG, JPEG, WebP or SVG image"})
	}
	if in.Size > MaxLogoBytes {
		ferrs = append(ferrs, FieldError{Field: "size", Message: fmt.Sprintf("must be at most %d bytes", MaxLogoBytes)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.UploadResult{}, err
	}

	start := time.Now()
	lastQuarter := int64(-1)
	progress := func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := sent * 100 / total
		if q := pct / 25; q != lastQuarter {
			lastQuarter = q
			s.log.Debug().Str("brand_id", in.BrandID).Int64("sent", sent).Int64("total", total).Int64("percent", pct).Msg("logo upload progress")
		}
	}
	res, err := s.uploader.UploadBrandLogo(ctx, in.BrandID, in.FileName, in.Content, progress)
	if err != nil {
		s.log.Error().Err(err).Str("brand_id", in.BrandID).Msg("logo upload failed")
		s.notifier.Notify(feedback.Notice{Level: feedback.LevelError, Resource: BrandScreen.Name, Message: feedback.Humanize(err)})
		return model.UploadResult{}, err
	}
	s.log.Info().Str("brand_id", in.BrandID).Str("url", res.URL).Dur("took", time.Since(start)).Msg("logo uploaded")
	s.notifier.Notify(feedback.Notice{Level: feedback.LevelSuccess, Resource: BrandScreen.Name, Message: feedback.MsgUploaded})
	// the brand list shows logos
	if sc, err := s.reg.Screen(BrandScreen.Name); err == nil {
		sc.Refresh()
	}
	return res, nil
}

func (s *consoleService) Notices(limit int) []feedback.Notice {
	if s.notices == nil {
		return []feedback.Notice{}
	}
	return s.notices.Recent(limit)
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(listview.DateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

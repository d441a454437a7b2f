package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
	"github.com/maxviazov/shop-admin-console/internal/config"
	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/model"
	"github.com/maxviazov/shop-admin-console/internal/pagination"
	"github.com/maxviazov/shop-admin-console/internal/service"
)

// inlineScheduler runs fetches synchronously; delayed calls never fire.
type inlineScheduler struct{}

type noTimer struct{}

func (noTimer) Stop() bool { return true }

func (inlineScheduler) AfterFunc(time.Duration, func()) listview.Timer { return noTimer{} }

func (inlineScheduler) Go(f func()) { f() }

type fakeCoupons struct {
	mu      sync.Mutex
	reqs    []pagination.Request
	deleted []string
	toggled []string
}

func (f *fakeCoupons) List(_ context.Context, req pagination.Request) (pagination.Response[model.Coupon], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return pagination.Response[model.Coupon]{
		Content:       []model.Coupon{{ID: 1, Code: "SUMMER10", Status: model.StatusActive}},
		TotalElements: 1, TotalPages: 1, Size: req.Size, First: true, Last: true,
	}, nil
}

func (f *fakeCoupons) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCoupons) ToggleStatus(_ context.Context, id string) error {
	f.toggled = append(f.toggled, id)
	return nil
}

func (f *fakeCoupons) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func (f *fakeCoupons) last() pagination.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

type fakeUploader struct {
	got   []byte
	brand string
	err   error
}

func (u *fakeUploader) UploadBrandLogo(_ context.Context, brandID, _ string, content io.Reader, progress apiclient.ProgressFunc) (model.UploadResult, error) {
	if u.err != nil {
		return model.UploadResult{}, u.err
	}
	u.brand = brandID
	u.got, _ = io.ReadAll(content)
	progress(int64(len(u.got)), int64(len(u.got)))
	return model.UploadResult{URL: "https://cdn.example.com/logo.png"}, nil
}

type consoleFixture struct {
	coupons  *fakeCoupons
	uploader *fakeUploader
	rec      *feedback.Recorder
	reg      *service.Registry
	svc      service.Console
}

func newConsole(t *testing.T) *consoleFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	f := &consoleFixture{coupons: &fakeCoupons{}, uploader: &fakeUploader{}, rec: feedback.NewRecorder(10)}
	f.reg = service.NewRegistry(context.Background(), listview.Options{
		Scheduler: inlineScheduler{},
		Notifier:  f.rec,
		Logger:    logger,
	}, logger)
	service.Register[model.Coupon](f.reg, service.CouponScreen, f.coupons, f.coupons)
	service.Register[model.Coupon](f.reg, service.ResourceSpec{Name: "archive", SortFields: []string{"code"}}, f.coupons, nil)
	f.svc = service.NewConsoleService(service.ConsoleOptions{
		Registry:    f.reg,
		Uploader:    f.uploader,
		Notices:     f.rec,
		Notifier:    f.rec,
		MaxPageSize: 50,
	}, logger)
	t.Cleanup(f.reg.Close)
	return f
}

func view(t *testing.T, v any) listview.View[model.Coupon] {
	t.Helper()
	out, ok := v.(listview.View[model.Coupon])
	require.True(t, ok, "unexpected snapshot type %T", v)
	return out
}

func fieldNames(err error) []string {
	var names []string
	for _, fe := range service.FieldErrors(err) {
		names = append(names, fe.Field)
	}
	return names
}

func TestConsole_ViewStartsScreenLazily(t *testing.T) {
	f := newConsole(t)
	assert.Empty(t, f.coupons.reqs)

	v, err := f.svc.View(context.Background(), "coupons")
	require.NoError(t, err)
	cv := view(t, v)
	assert.Equal(t, listview.StatusReady, cv.Status)
	assert.Len(t, cv.Items, 1)
	require.Len(t, f.coupons.reqs, 1)
	assert.Equal(t, "createdAt,desc", f.coupons.last().Sort.String(), "screen default sort")

	_, err = f.svc.View(context.Background(), "coupons")
	require.NoError(t, err)
	assert.Len(t, f.coupons.reqs, 1, "opening again does not refetch")
}

func TestConsole_UnknownScreen(t *testing.T) {
	f := newConsole(t)
	_, err := f.svc.View(context.Background(), "nope")
	assert.ErrorIs(t, err, service.ErrUnknownScreen)
	_, err = f.svc.Confirm(context.Background(), "nope")
	assert.ErrorIs(t, err, service.ErrUnknownScreen)
}

func TestConsole_ScreensCarryCapabilities(t *testing.T) {
	f := newConsole(t)
	specs := f.svc.Screens()
	require.Len(t, specs, 2)
	assert.Equal(t, "coupons", specs[0].Name)
	assert.True(t, specs[0].CanDelete)
	assert.True(t, specs[0].CanToggleStatus)
	assert.Equal(t, "archive", specs[1].Name)
	assert.False(t, specs[1].CanDelete)
	assert.False(t, specs[1].CanToggleStatus)
}

func TestConsole_FilterValidation(t *testing.T) {
	f := newConsole(t)
	cases := []struct {
		name   string
		screen string
		in     service.FilterInput
		want   []string
	}{
		{"unknown status", "coupons", service.FilterInput{Status: "DELETED"}, []string{"status"}},
		{"unknown type", "coupons", service.FilterInput{Type: "BOGO"}, []string{"type"}},
		{"bad date", "coupons", service.FilterInput{From: "01/02/2024"}, []string{"from"}},
		{"reversed range", "coupons", service.FilterInput{From: "2024-02-01", To: "2024-01-01"}, []string{"to"}},
		{"unknown extra", "coupons", service.FilterInput{Extra: map[string]string{"brandId": "1"}}, []string{"extra.brandId"}},
		{"no date range", "archive", service.FilterInput{From: "2024-01-01"}, []string{"from"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Filter(context.Background(), tc.screen, tc.in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Equal(t, tc.want, fieldNames(err))
		})
	}
}

func TestConsole_FilterApplies(t *testing.T) {
	f := newConsole(t)
	v, err := f.svc.Filter(context.Background(), "coupons", service.FilterInput{
		Status: "active",
		Type:   "percent",
		From:   "2024-01-01",
		To:     "2024-01-31",
	})
	require.NoError(t, err)
	cv := view(t, v)
	assert.Equal(t, model.StatusActive, cv.Filters.Status)
	assert.Equal(t, "PERCENT", cv.Filters.Type)

	req := f.coupons.last()
	assert.Equal(t, "ACTIVE", req.Filters[listview.KeyStatus])
	assert.Equal(t, "2024-01-01", req.Filters[listview.KeyFrom])
	assert.Equal(t, "2024-01-31", req.Filters[listview.KeyTo])
}

func TestConsole_Sort(t *testing.T) {
	f := newConsole(t)

	_, err := f.svc.Sort(context.Background(), "coupons", service.SortInput{Field: "password"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = f.svc.Sort(context.Background(), "coupons", service.SortInput{Field: "code", Direction: "sideways"})
	assert.Equal(t, []string{"direction"}, fieldNames(err))

	_, err = f.svc.Sort(context.Background(), "coupons", service.SortInput{Field: "usedcount", Direction: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, "usedCount,desc", f.coupons.last().Sort.String())

	_, err = f.svc.Sort(context.Background(), "coupons", service.SortInput{})
	require.NoError(t, err)
	assert.Equal(t, "createdAt,desc", f.coupons.last().Sort.String())
}

func TestConsole_Page(t *testing.T) {
	f := newConsole(t)

	_, err := f.svc.Page(context.Background(), "coupons", service.PageInput{Page: -1})
	assert.Equal(t, []string{"page"}, fieldNames(err))
	_, err = f.svc.Page(context.Background(), "coupons", service.PageInput{Size: 51})
	assert.Equal(t, []string{"size"}, fieldNames(err))

	_, err = f.svc.View(context.Background(), "coupons")
	require.NoError(t, err)
	calls := f.coupons.calls()
	_, err = f.svc.Page(context.Background(), "coupons", service.PageInput{Page: 2, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, calls+1, f.coupons.calls(), "page and size together cost one request")
	req := f.coupons.last()
	assert.Equal(t, 2, req.Page)
	assert.Equal(t, 20, req.Size)
}

func TestConsole_SearchAndClear(t *testing.T) {
	f := newConsole(t)
	v, err := f.svc.Search(context.Background(), "coupons", service.SearchInput{Query: "sum"})
	require.NoError(t, err)
	cv := view(t, v)
	assert.Equal(t, "sum", cv.RawSearch)
	assert.True(t, cv.SearchPending)

	long := make([]byte, 101)
	_, err = f.svc.Search(context.Background(), "coupons", service.SearchInput{Query: string(long)})
	assert.Equal(t, []string{"query"}, fieldNames(err))

	calls := len(f.coupons.reqs)
	v, err = f.svc.Clear(context.Background(), "coupons")
	require.NoError(t, err)
	assert.Empty(t, view(t, v).RawSearch)
	assert.Len(t, f.coupons.reqs, calls+1)
}

func TestConsole_ConfirmationFlow(t *testing.T) {
	f := newConsole(t)
	ctx := context.Background()

	_, err := f.svc.Pending(ctx, "coupons")
	assert.ErrorIs(t, err, listview.ErrNoPendingConfirmation)

	_, err = f.svc.RequestAction(ctx, "coupons", listview.ActionDelete, service.ItemInput{})
	assert.Equal(t, []string{"id"}, fieldNames(err))

	conf, err := f.svc.RequestAction(ctx, "coupons", listview.ActionDelete, service.ItemInput{ID: "1", Label: "SUMMER10"})
	require.NoError(t, err)
	assert.Contains(t, conf.Prompt, "SUMMER10")

	pending, err := f.svc.Pending(ctx, "coupons")
	require.NoError(t, err)
	assert.Equal(t, conf, pending)

	calls := len(f.coupons.reqs)
	_, err = f.svc.Confirm(ctx, "coupons")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, f.coupons.deleted)
	assert.Len(t, f.coupons.reqs, calls+1)
	assert.Equal(t, feedback.MsgDeleted, f.rec.Recent(1)[0].Message)

	_, err = f.svc.RequestAction(ctx, "coupons", listview.ActionToggleStatus, service.ItemInput{ID: "1"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, "coupons"))
	assert.Empty(t, f.coupons.toggled)
	assert.ErrorIs(t, f.svc.Cancel(ctx, "coupons"), listview.ErrNoPendingConfirmation)

	_, err = f.svc.RequestAction(ctx, "archive", listview.ActionDelete, service.ItemInput{ID: "1"})
	assert.ErrorIs(t, err, listview.ErrUnsupportedAction)
}

func TestConsole_UploadBrandLogo(t *testing.T) {
	f := newConsole(t)
	ctx := context.Background()

	_, err := f.svc.UploadBrandLogo(ctx, service.LogoInput{
		BrandID: "abc", FileName: "x.gif", ContentType: "image/gif", Size: service.MaxLogoBytes + 1, Content: bytes.NewReader(nil),
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.ElementsMatch(t, []string{"brand_id", "content_type", "size"}, fieldNames(err))

	data := []byte("\x89PNG fake")
	res, err := f.svc.UploadBrandLogo(ctx, service.LogoInput{
		BrandID: "7", FileName: "logo.png", ContentType: "image/png", Size: int64(len(data)), Content: bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", res.URL)
	assert.Equal(t, "7", f.uploader.brand)
	assert.Equal(t, data, f.uploader.got)
	n := f.svc.Notices(1)
	require.Len(t, n, 1)
	assert.Equal(t, feedback.MsgUploaded, n[0].Message)

	f.uploader.err = &apiclient.APIError{Status: 500}
	_, err = f.svc.UploadBrandLogo(ctx, service.LogoInput{
		BrandID: "7", FileName: "logo.png", ContentType: "image/png", Size: 1, Content: bytes.NewReader([]byte{1}),
	})
	require.Error(t, err)
	assert.Equal(t, feedback.LevelError, f.svc.Notices(1)[0].Level)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, service.FieldErrors(nil))
	assert.Nil(t, service.FieldErrors(errors.New("boom")))
}

func TestRegisterBackend_AgainstHTTP(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[],"totalElements":0,"totalPages":0,"number":0,"size":10,"first":true,"last":true,"empty":true}`))
	}))
	defer srv.Close()

	logger := zerolog.New(io.Discard)
	client, err := apiclient.New(config.APIConfig{BaseURL: srv.URL, Timeout: time.Second}, srv.Client(), logger)
	require.NoError(t, err)

	reg := service.NewRegistry(context.Background(), listview.Options{Scheduler: inlineScheduler{}, Logger: logger}, logger)
	defer reg.Close()
	service.RegisterBackend(reg, client)

	assert.Equal(t, []string{"coupons", "categories", "products", "variants", "brands", "orders", "users"}, reg.Names())
	for _, spec := range reg.Specs() {
		switch spec.Name {
		case "orders":
			assert.False(t, spec.CanDelete || spec.CanToggleStatus, spec.Name)
		case "users":
			assert.False(t, spec.CanDelete, spec.Name)
			assert.True(t, spec.CanToggleStatus, spec.Name)
		default:
			assert.True(t, spec.CanDelete && spec.CanToggleStatus, spec.Name)
		}
	}

	sc, err := reg.Screen("brands")
	require.NoError(t, err)
	v, ok := sc.Snapshot().(listview.View[model.Brand])
	require.True(t, ok)
	assert.Equal(t, listview.StatusEmpty, v.Status)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/brands/list"}, paths)
}

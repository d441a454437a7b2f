package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/maxviazov/shop-admin-console/internal/model"
	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

// ErrUnsupported is returned by a Resource for an operation it has no endpoint for.
var ErrUnsupported = errors.New("operation not supported by resource")

// Endpoints are the backend paths of one resource. "{id}" is replaced with the
// escaped item id. An empty path means the operation does not exist.
type Endpoints struct {
	List         string
	Delete       string
	ToggleStatus string
}

// Backend paths of the admin API.
var (
	CouponEndpoints = Endpoints{
		List:         "/api/coupons/admin/list",
		Delete:       "/api/coupons/{id}",
		ToggleStatus: "/api/coupons/{id}/toggle-status",
	}
	CategoryEndpoints = Endpoints{
		List:         "/api/categories/admin/list",
		Delete:       "/api/categories/{id}",
		ToggleStatus: "/api/categories/{id}/toggle-status",
	}
	ProductEndpoints = Endpoints{
		List:         "/api/products/admin/list",
		Delete:       "/api/products/{id}",
		ToggleStatus: "/api/products/{id}/toggle-status",
	}
	VariantEndpoints = Endpoints{
		List:         "/api/products/variants/admin/list",
		Delete:       "/api/products/variants/{id}",
		ToggleStatus: "/api/products/variants/{id}/toggle-status",
	}
	BrandEndpoints = Endpoints{
		List:         "/brands/list",
		Delete:       "/brands/{id}",
		ToggleStatus: "/brands/{id}/toggle-status",
	}
	OrderEndpoints = Endpoints{
		List: "/api/orders/admin/list",
	}
	UserEndpoints = Endpoints{
		List:         "/api/users/admin/list",
		ToggleStatus: "/api/users/{id}/toggle-status",
	}

	BrandLogoUploadPath = "/brands/logo/upload"
)

func (e Endpoints) itemPath(tmpl, id string) string {
	return strings.ReplaceAll(tmpl, "{id}", url.PathEscape(id))
}

// Resource binds a Client to the endpoints of one entity type.
type Resource[T any] struct {
	client    *Client
	endpoints Endpoints
}

func NewResource[T any](c *Client, e Endpoints) *Resource[T] {
	return &Resource[T]{client: c, endpoints: e}
}

// CanDelete / CanToggleStatus report which mutations the backend offers.
func (r *Resource[T]) CanDelete() bool {
	return r.endpoints.Delete != ""
}

func (r *Resource[T]) CanToggleStatus() bool {
	return r.endpoints.ToggleStatus != ""
}

// List fetches one page.
func (r *Resource[T]) List(ctx context.Context, req pagination.Request) (pagination.Response[T], error) {
	raw, err := r.client.do(ctx, request{method: http.MethodGet, path: r.endpoints.List, query: req.Query()})
	if err != nil {
		return pagination.Response[T]{}, err
	}
	return decode[pagination.Response[T]](raw, r.endpoints.List)
}

// Delete removes one item.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if !r.CanDelete() {
		return ErrUnsupported
	}
	_, err := r.client.do(ctx, request{method: http.MethodDelete, path: r.endpoints.itemPath(r.endpoints.Delete, id)})
	return err
}

// ToggleStatus flips an item between enabled and disabled.
func (r *Resource[T]) ToggleStatus(ctx context.Context, id string) error {
	if !r.CanToggleStatus() {
		return ErrUnsupported
	}
	_, err := r.client.do(ctx, request{method: http.MethodPatch, path: r.endpoints.itemPath(r.endpoints.ToggleStatus, id)})
	return err
}

// Typed constructors for the admin screens.
func Coupons(c *Client) *Resource[model.Coupon] {
	return NewResource[model.Coupon](c, CouponEndpoints)
}

func Categories(c *Client) *Resource[model.Category] {
	return NewResource[model.Category](c, CategoryEndpoints)
}

func Products(c *Client) *Resource[model.Product] {
	return NewResource[model.Product](c, ProductEndpoints)
}

func Variants(c *Client) *Resource[model.Variant] {
	return NewResource[model.Variant](c, VariantEndpoints)
}

func Brands(c *Client) *Resource[model.Brand] {
	return NewResource[model.Brand](c, BrandEndpoints)
}

func Orders(c *Client) *Resource[model.Order] {
	return NewResource[model.Order](c, OrderEndpoints)
}

func Users(c *Client) *Resource[model.User] {
	return NewResource[model.User](c, UserEndpoints)
}

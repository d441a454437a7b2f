package service

import (
	"github.com/maxviazov/shop-admin-console/internal/apiclient"
	"github.com/maxviazov/shop-admin-console/internal/model"
	"github.com/maxviazov/shop-admin-console/internal/pagination"
)

var catalogStatuses = []string{model.StatusActive, model.StatusInactive}

// Screen specs of the admin console.
var (
	CouponScreen = ResourceSpec{
		Name:        "coupons",
		Title:       "Mã giảm giá",
		Statuses:    catalogStatuses,
		Types:       []string{"PERCENT", "FIXED", "FREESHIP"},
		SortFields:  []string{"code", "value", "usedCount", "startDate", "endDate", "createdAt"},
		DateRange:   true,
		DefaultSort: pagination.Sort{Field: "createdAt", Direction: pagination.Desc},
	}
	CategoryScreen = ResourceSpec{
		Name:         "categories",
		Title:        "Danh mục",
		Statuses:     catalogStatuses,
		SortFields:   []string{"name", "productCount", "createdAt"},
		ExtraFilters: []string{"parentId"},
		DefaultSort:  pagination.Sort{Field: "name", Direction: pagination.Asc},
	}
	ProductScreen = ResourceSpec{
		Name:         "products",
		Title:        "Sản phẩm",
		Statuses:     catalogStatuses,
		SortFields:   []string{"name", "price", "stock", "createdAt"},
		ExtraFilters: []string{"categoryId", "brandId", "minPrice", "maxPrice"},
		DefaultSort:  pagination.Sort{Field: "createdAt", Direction: pagination.Desc},
	}
	VariantScreen = ResourceSpec{
		Name:         "variants",
		Title:        "Biến thể sản phẩm",
		Statuses:     catalogStatuses,
		SortFields:   []string{"sku", "price", "stock"},
		ExtraFilters: []string{"productId"},
		DefaultSort:  pagination.Sort{Field: "sku", Direction: pagination.Asc},
	}
	BrandScreen = ResourceSpec{
		Name:        "brands",
		Title:       "Thương hiệu",
		Statuses:    catalogStatuses,
		SortFields:  []string{"name", "createdAt"},
		DefaultSort: pagination.Sort{Field: "name", Direction: pagination.Asc},
	}
	OrderScreen = ResourceSpec{
		Name:         "orders",
		Title:        "Đơn hàng",
		Statuses:     []string{"PENDING", "CONFIRMED", "SHIPPING", "DELIVERED", "CANCELLED"},
		SortFields:   []string{"code", "total", "createdAt"},
		ExtraFilters: []string{"paymentMethod"},
		DateRange:    true,
		DefaultSort:  pagination.Sort{Field: "createdAt", Direction: pagination.Desc},
	}
	UserScreen = ResourceSpec{
		Name:        "users",
		Title:       "Người dùng",
		Statuses:    []string{"ENABLED", "DISABLED"},
		Types:       []string{"ADMIN", "STAFF", "CUSTOMER"},
		SortFields:  []string{"email", "fullName", "createdAt"},
		DefaultSort: pagination.Sort{Field: "createdAt", Direction: pagination.Desc},
	}
)

// RegisterBackend wires every admin list of the REST backend into r.
func RegisterBackend(r *Registry, c *apiclient.Client) {
	coupons := apiclient.Coupons(c)
	Register[model.Coupon](r, CouponScreen, coupons, coupons)
	categories := apiclient.Categories(c)
	Register[model.Category](r, CategoryScreen, categories, categories)
	products := apiclient.Products(c)
	Register[model.Product](r, ProductScreen, products, products)
	variants := apiclient.Variants(c)
	Register[model.Variant](r, VariantScreen, variants, variants)
	brands := apiclient.Brands(c)
	Register[model.Brand](r, BrandScreen, brands, brands)
	Register[model.Order](r, OrderScreen, apiclient.Orders(c), nil)
	users := apiclient.Users(c)
	Register[model.User](r, UserScreen, users, users)
}

// Package model contains the entities the admin backend returns inside page envelopes.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Status values shared by most catalog resources.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Coupon is a discount code. Value is a percentage for PERCENT coupons and VND for FIXED ones.
type Coupon struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"` // PERCENT, FIXED, FREESHIP
	Value         int64      `json:"value"`
	MinOrderValue int64      `json:"minOrderValue"`
	UsageLimit    int        `json:"usageLimit"`
	UsedCount     int        `json:"usedCount"`
	Status        string     `json:"status"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Category groups products; ParentID is nil for root categories.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ParentID     *int64    `json:"parentId,omitempty"`
	ProductCount int       `json:"productCount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Brand is a product manufacturer.
type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	LogoURL   string    `json:"logoUrl,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalog item; prices are integer VND.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	CategoryID   int64     `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	BrandID      int64     `json:"brandId"`
	BrandName    string    `json:"brandName,omitempty"`
	Price        int64     `json:"price"`
	SalePrice    *int64    `json:"salePrice,omitempty"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Variant is a sellable SKU of a product (size, color, ...).
type Variant struct {
	ID         int64             `json:"id"`
	ProductID  int64             `json:"productId"`
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Price      int64             `json:"price"`
	Stock      int               `json:"stock"`
	Status     string            `json:"status"`
}

// Order is an admin-facing order summary.
type Order struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	ItemCount     int       `json:"itemCount"`
	Total         int64     `json:"total"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Status        string    `json:"status"` // PENDING, CONFIRMED, SHIPPING, DELIVERED, CANCELLED
	CreatedAt     time.Time `json:"createdAt"`
}

// User is a customer or staff account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"` // ADMIN, STAFF, CUSTOMER
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadResult is what the backend returns after a file upload.
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

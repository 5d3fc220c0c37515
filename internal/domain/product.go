package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product-related domain errors.
var (
	ErrProductNotFound    = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrProductUnavailable = &Error{Code: ECONFLICT, Message: "One or more products are unavailable"}
)

// Product is a catalog item. Prices are stored in minor currency units
// (paise) to keep arithmetic exact; the API edge formats them as decimals.
// Products are soft-deleted (inactive) so historical order items keep a
// valid product reference.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Category    string    `json:"category"`
	Stock       int32     `json:"stock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductFilter narrows a storefront product listing.
// Nil fields are ignored.
type ProductFilter struct {
	Category      string
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	InStock       bool
	Page          int
	PageSize      int
}

// CreateProductParams contains parameters for creating a product.
type CreateProductParams struct {
	Name        string
	Description string
	PriceCents  int64
	Category    string
	Stock       int32
	ImageURL    string
	Unit        string
}

// UpdateProductParams contains parameters for a partial product update.
// Nil fields are left unchanged.
type UpdateProductParams struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Category    *string
	Stock       *int32
	ImageURL    *string
	Unit        *string
	IsActive    *bool
}

// ProductService provides catalog operations.
type ProductService interface {
	// ListProducts returns active products matching the filter,
	// ordered by category then name.
	ListProducts(ctx context.Context, filter ProductFilter) (*Page[Product], error)

	// GetProduct retrieves a product by ID, active or not.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// CreateProduct adds a catalog item. Admin only, enforced at the edge.
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct applies a partial update.
	UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error)

	// DeleteProduct soft-deletes: the product is marked inactive and
	// disappears from listings, but stays referenceable by order items.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// ListCategories returns the distinct categories of active products.
	ListCategories(ctx context.Context) ([]string, error)
}

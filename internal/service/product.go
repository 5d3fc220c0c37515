package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

// ProductStore is the persistence surface the catalog needs.
type ProductStore interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error)
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]string, error)
}

type productService struct {
	store ProductStore
}

var _ domain.ProductService = (*productService)(nil)

// NewProductService creates the catalog service.
func NewProductService(store ProductStore) domain.ProductService {
	return &productService{store: store}
}

func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error) {
	filter.Page, filter.PageSize = domain.ClampPaging(filter.Page, filter.PageSize)

	products, total, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.Page[domain.Product]{
		Items:      products,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *productService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if params.Name == "" {
		return nil, domain.Invalid("product.create", "product name is required")
	}
	if params.Category == "" {
		return nil, domain.Invalid("product.create", "product category is required")
	}
	if params.PriceCents <= 0 {
		return nil, domain.Invalid("product.create", "price must be positive")
	}
	if params.Stock < 0 {
		return nil, domain.Invalid("product.create", "stock cannot be negative")
	}
	return s.store.CreateProduct(ctx, params)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	if params.PriceCents != nil && *params.PriceCents <= 0 {
		return nil, domain.Invalid("product.update", "price must be positive")
	}
	if params.Stock != nil && *params.Stock < 0 {
		return nil, domain.Invalid("product.update", "stock cannot be negative")
	}
	return s.store.UpdateProduct(ctx, id, params)
}

// DeleteProduct deactivates a product. Rows are never removed because
// order items keep a foreign key to them.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.store.SoftDeleteProduct(ctx, id)
}

func (s *productService) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

const productColumns = `id, name, description, price_cents, category, stock, image_url, unit, is_active, created_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var description, imageURL, unit *string
	err := row.Scan(&p.ID, &p.Name, &description, &p.PriceCents, &p.Category,
		&p.Stock, &imageURL, &unit, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	if unit != nil {
		p.Unit = *unit
	}
	return &p, nil
}

// ListProducts returns active products matching the filter plus the
// total count, ordered by category then name.
func (s *Store) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	where := []string{"is_active"}
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE $%d OR lower(description) LIKE $%d)", len(args), len(args)))
	}
	if filter.MinPriceCents != nil {
		args = append(args, *filter.MinPriceCents)
		where = append(where, fmt.Sprintf("price_cents >= $%d", len(args)))
	}
	if filter.MaxPriceCents != nil {
		args = append(args, *filter.MaxPriceCents)
		where = append(where, fmt.Sprintf("price_cents <= $%d", len(args)))
	}
	if filter.InStock {
		where = append(where, "stock > 0")
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := "SELECT count(*) FROM products WHERE " + whereClause
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	page, pageSize := domain.ClampPaging(filter.Page, filter.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY category, name LIMIT $%d OFFSET $%d",
		productColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// GetProduct retrieves a product by ID, active or not.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetActiveProducts resolves the given IDs to active products.
// Missing or inactive products are simply absent from the result map.
func (s *Store) GetActiveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active AND id = ANY($1::uuid[])",
		idStrings)
	if err != nil {
		return nil, fmt.Errorf("get active products: %w", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]domain.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get active products: %w", err)
	}

	return products, nil
}

// CreateProduct inserts a catalog item and returns it.
func (s *Store) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price_cents, category, stock, image_url, unit)
		VALUES ($1, $2, nullif($3, ''), $4, $5, $6, nullif($7, ''), nullif($8, ''))
		RETURNING `+productColumns,
		uuid.New(), params.Name, params.Description, params.PriceCents,
		params.Category, params.Stock, params.ImageURL, params.Unit)

	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct applies a partial update and returns the new state.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, params domain.UpdateProductParams) (*domain.Product, error) {
	set := []string{}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		appendSet("name", *params.Name)
	}
	if params.Description != nil {
		appendSet("description", *params.Description)
	}
	if params.PriceCents != nil {
		appendSet("price_cents", *params.PriceCents)
	}
	if params.Category != nil {
		appendSet("category", *params.Category)
	}
	if params.Stock != nil {
		appendSet("stock", *params.Stock)
	}
	if params.ImageURL != nil {
		appendSet("image_url", *params.ImageURL)
	}
	if params.Unit != nil {
		appendSet("unit", *params.Unit)
	}
	if params.IsActive != nil {
		appendSet("is_active", *params.IsActive)
	}

	if len(set) == 0 {
		return s.GetProduct(ctx, id)
	}

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $1 RETURNING %s",
		strings.Join(set, ", "), productColumns)

	p, err := scanProduct(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// SoftDeleteProduct marks a product inactive. The row stays so order
// items keep a valid reference.
func (s *Store) SoftDeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "UPDATE products SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ListCategories returns the distinct categories of active products.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT DISTINCT category FROM products WHERE is_active ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	products domain.ProductService
}

// NewProductHandler creates a product handler.
func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// productResponse augments a product with its price formatted as a
// decimal string, so clients never do minor-unit arithmetic.
type productResponse struct {
	domain.Product
	Price string `json:"price"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{Product: p, Price: formatCents(p.PriceCents)}
}

// formatCents renders minor currency units as "123.45".
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// parsePrice converts a decimal price string to minor currency units.
// Rejects more than two fractional digits and non-positive amounts.
func parsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, domain.Invalid("product.price", "Invalid price")
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, domain.Invalid("product.price", "Price has too many decimal places")
	}
	if !cents.IsPositive() {
		return 0, domain.Invalid("product.price", "Price must be positive")
	}
	return cents.IntPart(), nil
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category" validate:"required,max=100"`
	Stock       int32  `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Unit        string `json:"unit" validate:"max=50"`
}

type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *string `json:"price"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Stock       *int32  `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"imageUrl"`
	Unit        *string `json:"unit" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"isActive"`
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		InStock:  q.Get("inStock") == "true",
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	if v := q.Get("minPrice"); v != "" {
		cents, err := parsePrice(v)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		filter.MinPriceCents = &cents
	}
	if v := q.Get("maxPrice"); v != "" {
		cents, err := parsePrice(v)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		filter.MaxPriceCents = &cents
	}

	page, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	items := make([]productResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toProductResponse(p))
	}

	RespondJSON(w, http.StatusOK, domain.Page[productResponse]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
	})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toProductResponse(*product))
}

// Categories handles GET /api/products/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.ListCategories(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

// Create handles POST /api/admin/products. Admin only.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	priceCents, err := parsePrice(req.Price)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), domain.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  priceCents,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Unit:        req.Unit,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toProductResponse(*product))
}

// Update handles PATCH /api/admin/products/{id}. Admin only.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	params := domain.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Unit:        req.Unit,
		IsActive:    req.IsActive,
	}
	if req.Price != nil {
		cents, err := parsePrice(*req.Price)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		params.PriceCents = &cents
	}

	product, err := h.products.UpdateProduct(r.Context(), id, params)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toProductResponse(*product))
}

// Delete handles DELETE /api/admin/products/{id}. Admin only.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

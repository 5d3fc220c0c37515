package api

import (
	"net/http"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/middleware"
	"github.com/shubhamkarande/PantryGo/internal/router"
)

// Handler bundles the API handlers and registers their routes.
type Handler struct {
	Auth      *AuthHandler
	Products  *ProductHandler
	Addresses *AddressHandler
	Orders    *OrderHandler
	Payments  *PaymentHandler
}

// NewHandler creates the API handler set from the services.
func NewHandler(
	auth domain.AuthService,
	products domain.ProductService,
	addresses domain.AddressService,
	orders domain.OrderService,
	payments domain.PaymentService,
) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(auth),
		Products:  NewProductHandler(products),
		Addresses: NewAddressHandler(addresses),
		Orders:    NewOrderHandler(orders),
		Payments:  NewPaymentHandler(payments),
	}
}

// RegisterRoutes attaches every API route to the router. The router is
// expected to carry the global middleware chain already; per-group
// auth requirements are added here.
func (h *Handler) RegisterRoutes(r *router.Router) {
	// Public routes.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/auth/register", h.Auth.Register)
	r.Post("/api/auth/login", h.Auth.Login)
	r.Post("/api/auth/refresh", h.Auth.Refresh)

	r.Get("/api/products", h.Products.List)
	r.Get("/api/products/categories", h.Products.Categories)
	r.Get("/api/products/{id}", h.Products.Get)

	// Authenticated routes.
	authed := r.Group(middleware.RequireAuth)

	authed.Post("/api/auth/logout", h.Auth.Logout)
	authed.Get("/api/auth/me", h.Auth.Me)

	authed.Get("/api/addresses", h.Addresses.List)
	authed.Post("/api/addresses", h.Addresses.Create)
	authed.Put("/api/addresses/{id}", h.Addresses.Update)
	authed.Delete("/api/addresses/{id}", h.Addresses.Delete)
	authed.Post("/api/addresses/{id}/default", h.Addresses.SetDefault)

	authed.Post("/api/orders", h.Orders.Create)
	authed.Get("/api/orders", h.Orders.List)
	authed.Get("/api/orders/{id}", h.Orders.Get)

	authed.Post("/api/orders/{id}/payment", h.Payments.CreateOrder)
	authed.Post("/api/payments/verify", h.Payments.Verify)

	// Staff routes.
	staff := r.Group(middleware.RequireRole(domain.RoleAdmin, domain.RoleDelivery))
	staff.Patch("/api/orders/{id}/status", h.Orders.UpdateStatus)

	// Admin routes.
	admin := r.Group(middleware.RequireRole(domain.RoleAdmin))
	admin.Post("/api/admin/products", h.Products.Create)
	admin.Patch("/api/admin/products/{id}", h.Products.Update)
	admin.Delete("/api/admin/products/{id}", h.Products.Delete)
	admin.Post("/api/admin/orders/{id}/assign", h.Orders.AssignPartner)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/middleware"
)

// OrderHandler serves order placement and the order workflow.
type OrderHandler struct {
	orders domain.OrderService
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderLineRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	AddressID uuid.UUID          `json:"addressId" validate:"required"`
	Items     []orderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignPartnerRequest struct {
	PartnerID uuid.UUID `json:"partnerId" validate:"required"`
}

// orderResponse augments an order with its total formatted as a
// decimal string.
type orderResponse struct {
	domain.Order
	Total string `json:"total"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{Order: o, Total: formatCents(o.TotalCents)}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req createOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orders.CreateOrder(r.Context(), domain.CreateOrderParams{
		UserID:    user.ID,
		AddressID: req.AddressID,
		Lines:     lines,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders. Customers see their own orders,
// delivery partners see orders assigned to them, and admins see all
// orders with optional userId and status query filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	q := r.URL.Query()

	var filter domain.OrderFilter
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	if v := q.Get("status"); v != "" {
		status, err := domain.ParseOrderStatus(v)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		filter.Status = &status
	}

	switch user.Role {
	case domain.RoleAdmin:
		if v := q.Get("userId"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				ErrorResponse(w, r, domain.Invalid("order.list", "Invalid userId"))
				return
			}
			filter.UserID = &id
		}
	case domain.RoleDelivery:
		filter.DeliveryPartnerID = &user.ID
	default:
		filter.UserID = &user.ID
	}

	page, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	items := make([]orderResponse, 0, len(page.Items))
	for _, o := range page.Items {
		items = append(items, toOrderResponse(o))
	}

	RespondJSON(w, http.StatusOK, domain.Page[orderResponse]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
	})
}

// Get handles GET /api/orders/{id}. Visible to the owner, the assigned
// delivery partner, and admins; everyone else sees not-found.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if !canViewOrder(user, order) {
		ErrorResponse(w, r, domain.ErrOrderNotFound)
		return
	}
	RespondJSON(w, http.StatusOK, toOrderResponse(*order))
}

// UpdateStatus handles PATCH /api/orders/{id}/status. Admins may move
// any order; delivery partners only orders assigned to them.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if user.Role == domain.RoleDelivery {
		order, err := h.orders.GetOrder(r.Context(), id)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != user.ID {
			ErrorResponse(w, r, domain.ErrOrderNotFound)
			return
		}
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toOrderResponse(*order))
}

// AssignPartner handles POST /api/admin/orders/{id}/assign. Admin only.
func (h *OrderHandler) AssignPartner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req assignPartnerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	order, err := h.orders.AssignDeliveryPartner(r.Context(), id, req.PartnerID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toOrderResponse(*order))
}

func canViewOrder(user *domain.User, order *domain.Order) bool {
	switch user.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleDelivery:
		return order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == user.ID
	default:
		return order.UserID == user.ID
	}
}

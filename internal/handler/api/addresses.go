package api

import (
	"net/http"

	"github.com/shubhamkarande/PantryGo/internal/domain"
	"github.com/shubhamkarande/PantryGo/internal/middleware"
)

// AddressHandler serves the user's address book. Every route requires
// auth; the user always comes from the request context, never the body.
type AddressHandler struct {
	addresses domain.AddressService
}

// NewAddressHandler creates an address handler.
func NewAddressHandler(addresses domain.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

type addressRequest struct {
	Label       string `json:"label" validate:"max=50"`
	AddressLine string `json:"addressLine" validate:"required,max=500"`
	City        string `json:"city" validate:"required,max=100"`
	Pincode     string `json:"pincode" validate:"required,min=4,max=10"`
	IsDefault   bool   `json:"isDefault"`
}

func (req addressRequest) params() domain.AddressParams {
	return domain.AddressParams{
		Label:       req.Label,
		AddressLine: req.AddressLine,
		City:        req.City,
		Pincode:     req.Pincode,
		IsDefault:   req.IsDefault,
	}
}

// List handles GET /api/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	addrs, err := h.addresses.ListAddresses(r.Context(), user.ID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string][]domain.Address{"addresses": addrs})
}

// Create handles POST /api/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req addressRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	addr, err := h.addresses.CreateAddress(r.Context(), user.ID, req.params())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, addr)
}

// Update handles PUT /api/addresses/{id}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req addressRequest
	if err := decodeAndValidate(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	addr, err := h.addresses.UpdateAddress(r.Context(), user.ID, id, req.params())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, addr)
}

// Delete handles DELETE /api/addresses/{id}.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.addresses.DeleteAddress(r.Context(), user.ID, id); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusNoContent, nil)
}

// SetDefault handles POST /api/addresses/{id}/default.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	addr, err := h.addresses.SetDefaultAddress(r.Context(), user.ID, id)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, addr)
}

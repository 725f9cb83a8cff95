package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	appcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/application/catalog"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	svc *appcatalog.Service
}

func NewCatalogHandler(svc *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Register(r *Router) {
	r.Handle(http.MethodGet, "/api/products/health", h.handleHealth)
	r.Handle(http.MethodGet, "/api/products", h.handleList)
	r.Handle(http.MethodGet, "/api/products/{id}", h.handleGet)
	r.Handle(http.MethodPatch, "/api/products/{id}/stock", h.handleSetStock)
	r.Handle(http.MethodPost, "/api/products/{id}/decrement", h.handleDecrement)
}

func (h *CatalogHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, "Product service")
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, products)
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", p)
}

type setStockRequest struct {
	Stock *int `json:"stock"`
}

func (h *CatalogHandler) handleSetStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	var req setStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if req.Stock == nil || *req.Stock < 0 {
		writeDomainError(w, r, application.NewValidation("valid stock quantity is required"))
		return
	}
	p, err := h.svc.SetStock(r.Context(), id, *req.Stock)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Stock updated successfully", p)
}

type decrementRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CatalogHandler) handleDecrement(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	var req decrementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if req.Quantity <= 0 {
		writeDomainError(w, r, application.NewValidation("quantity must be greater than 0"))
		return
	}
	p, err := h.svc.Decrement(r.Context(), id, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Stock decremented successfully", p)
}

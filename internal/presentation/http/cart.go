package httppresentation

import (
	"net/http"

	appcart "github.com/Zhima-Mochi/bookstore-saga/internal/application/cart"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	svc *appcart.Service
}

func NewCartHandler(svc *appcart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) Register(r *Router) {
	r.Handle(http.MethodGet, "/api/cart/health", h.handleHealth)
	r.Handle(http.MethodGet, "/api/cart/{userId}", h.handleGet)
	r.Handle(http.MethodPost, "/api/cart/add", h.handleAdd)
	r.Handle(http.MethodPut, "/api/cart/update", h.handleUpdate)
	r.Handle(http.MethodDelete, "/api/cart/remove/{userId}/{productId}", h.handleRemove)
	r.Handle(http.MethodDelete, "/api/cart/clear/{userId}", h.handleClear)
}

func (h *CartHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, "Cart service")
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", c)
}

type cartItemRequest struct {
	UserID    string `json:"userId"`
	ProductID int64  `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	c, err := h.svc.AddItem(r.Context(), appcart.AddItemInput{UserID: req.UserID, ProductID: req.ProductID, Quantity: qty})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Item added to cart", c)
}

func (h *CartHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	qty := -1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	c, err := h.svc.UpdateItem(r.Context(), appcart.UpdateItemInput{UserID: req.UserID, ProductID: req.ProductID, Quantity: qty})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Cart updated", c)
}

func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	productID, err := parseInt64Param(chi.URLParam(r, "productId"), "productId")
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	c, err := h.svc.RemoveItem(r.Context(), chi.URLParam(r, "userId"), productID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Item removed from cart", c)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Clear(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Cart cleared", c)
}

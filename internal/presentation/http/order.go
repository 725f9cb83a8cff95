package httppresentation

import (
	"net/http"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	apporder "github.com/Zhima-Mochi/bookstore-saga/internal/application/order"
	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	svc    *apporder.Service
	create application.UseCase[apporder.CreateOrderInput, *apporder.CreateOrderResult]
}

func NewOrderHandler(svc *apporder.Service, create application.UseCase[apporder.CreateOrderInput, *apporder.CreateOrderResult]) *OrderHandler {
	return &OrderHandler{svc: svc, create: create}
}

func (h *OrderHandler) Register(r *Router) {
	r.Handle(http.MethodGet, "/api/orders/health", h.handleHealth)
	r.Handle(http.MethodGet, "/api/orders/statistics", h.handleStatistics)
	r.Handle(http.MethodGet, "/api/orders/all", h.handleList)
	r.Handle(http.MethodGet, "/api/orders/user/{userId}", h.handleListByUser)
	r.Handle(http.MethodGet, "/api/orders/{orderId}", h.handleGet)
	r.Handle(http.MethodPost, "/api/orders/create", h.handleCreate)
	r.Handle(http.MethodPut, "/api/orders/{orderId}/status", h.handleUpdateStatus)
	r.Handle(http.MethodPut, "/api/orders/{orderId}/cancel", h.handleCancel)
	r.Handle(http.MethodPut, "/api/orders/{orderId}/payment", h.handleApplyPayment)
}

func (h *OrderHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, "Order service")
}

func (h *OrderHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Statistics(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", st)
}

func (h *OrderHandler) handleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, orders)
}

func (h *OrderHandler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, orders)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", o)
}

// createdOrder flattens the order and adds the step outcomes next to its fields.
type createdOrder struct {
	*domorder.Order
	Steps []domorder.StepOutcome `json:"steps"`
}

func (h *OrderHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req apporder.CreateOrderInput
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	res, err := h.create.Execute(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, "Order created successfully", createdOrder{Order: res.Order, Steps: res.Steps})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	o, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Order status updated", o)
}

func (h *OrderHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Order cancelled successfully", o)
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *OrderHandler) handleApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	o, err := h.svc.ApplyPayment(r.Context(), chi.URLParam(r, "orderId"), req.PaymentStatus, req.PaymentMethod)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Order payment status updated", o)
}

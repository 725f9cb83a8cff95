package httppresentation

import (
	"errors"
	"net/http"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	apppayment "github.com/Zhima-Mochi/bookstore-saga/internal/application/payment"
	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	svc     *apppayment.Service
	process application.UseCase[apppayment.ProcessPaymentInput, *apppayment.ProcessPaymentResult]
	refund  application.UseCase[apppayment.ProcessRefundInput, *dompay.Payment]
}

func NewPaymentHandler(
	svc *apppayment.Service,
	process application.UseCase[apppayment.ProcessPaymentInput, *apppayment.ProcessPaymentResult],
	refund application.UseCase[apppayment.ProcessRefundInput, *dompay.Payment],
) *PaymentHandler {
	return &PaymentHandler{svc: svc, process: process, refund: refund}
}

func (h *PaymentHandler) Register(r *Router) {
	r.Handle(http.MethodGet, "/api/payments/health", h.handleHealth)
	r.Handle(http.MethodGet, "/api/payments/statistics", h.handleStatistics)
	r.Handle(http.MethodGet, "/api/payments/all", h.handleList)
	r.Handle(http.MethodGet, "/api/payments/user/{userId}", h.handleListByUser)
	r.Handle(http.MethodGet, "/api/payments/order/{orderId}", h.handleLatestForOrder)
	r.Handle(http.MethodGet, "/api/payments/{paymentId}", h.handleGet)
	r.Handle(http.MethodPost, "/api/payments/process", h.handleProcess)
	r.Handle(http.MethodPost, "/api/payments/refund", h.handleRefund)
}

func (h *PaymentHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, "Payment service")
}

func (h *PaymentHandler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Statistics(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", st)
}

func (h *PaymentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, all)
}

func (h *PaymentHandler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	mine, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeList(w, mine)
}

func (h *PaymentHandler) handleLatestForOrder(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.LatestForOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", p)
}

func (h *PaymentHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "paymentId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", p)
}

type processPaymentRequest struct {
	OrderID       flexibleRef         `json:"orderId"`
	UserID        string              `json:"userId"`
	Amount        float64             `json:"amount"`
	PaymentMethod string              `json:"paymentMethod"`
	CardDetails   *dompay.CardDetails `json:"cardDetails"`
	UPIID         string              `json:"upiId"`
	PayPalEmail   string              `json:"paypalEmail"`
}

// processedPayment flattens the payment and reports whether the order was updated.
type processedPayment struct {
	*dompay.Payment
	OrderSynced bool `json:"orderSynced"`
}

func (h *PaymentHandler) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	res, err := h.process.Execute(r.Context(), apppayment.ProcessPaymentInput{
		OrderRef:      string(req.OrderID),
		UserID:        req.UserID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Credentials: dompay.Credentials{
			Card:        req.CardDetails,
			UPIID:       req.UPIID,
			PayPalEmail: req.PayPalEmail,
		},
	})
	if errors.Is(err, dompay.ErrDeclined) && res != nil {
		writeJSON(w, http.StatusPaymentRequired, envelope{
			Success: false,
			Message: res.Payment.FailureReason,
			Data:    res.Payment,
		})
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Payment processed successfully", processedPayment{Payment: res.Payment, OrderSynced: res.OrderSynced})
}

type refundRequest struct {
	PaymentID flexibleRef `json:"paymentId"`
	Reason    string      `json:"reason"`
}

func (h *PaymentHandler) handleRefund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	p, err := h.refund.Execute(r.Context(), apppayment.ProcessRefundInput{PaymentRef: string(req.PaymentID), Reason: req.Reason})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Refund processed successfully", p)
}

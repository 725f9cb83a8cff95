package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domcart "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/bookstore-saga/internal/domain/catalog"
	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
)

// envelope is the body shape every endpoint answers with.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

func writeHealth(w http.ResponseWriter, service string) {
	writeData(w, http.StatusOK, service+" is running", map[string]any{
		"service":   service,
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

type errorDetailKey struct{}

func contextWithErrorDetail(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, errorDetailKey{}, enabled)
}

func errorDetailFromContext(ctx context.Context) bool {
	enabled, _ := ctx.Value(errorDetailKey{}).(bool)
	return enabled
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	env := envelope{Success: false, Message: message}
	if err != nil && errorDetailFromContext(r.Context()) {
		env.Error = err.Error()
	}
	writeJSON(w, status, env)
}

// writeDomainError maps err onto the status table and logs server-side failures.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		logctx.FromOr(r.Context(), observability.NopLogger()).Error("request_failed",
			observability.F("status", status),
			observability.F("error", err.Error()),
		)
	}
	writeError(w, r, status, message, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domorder.ErrEmptyCart):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domcatalog.ErrInvalidStock),
		errors.Is(err, domcatalog.ErrInvalidQuantity):
		return http.StatusBadRequest, trimDomain(err)

	case errors.Is(err, domcatalog.ErrNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, domcart.ErrItemNotFound):
		return http.StatusNotFound, "Item not found in cart"
	case errors.Is(err, domcart.ErrNotFound):
		return http.StatusNotFound, "Cart not found"
	case errors.Is(err, domorder.ErrNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, dompay.ErrNotFound):
		return http.StatusNotFound, "Payment not found"
	case errors.Is(err, application.ErrRemoteNotFound):
		return http.StatusNotFound, trimDomain(err)

	case errors.Is(err, dompay.ErrAmountMismatch),
		errors.Is(err, domcatalog.ErrInsufficientStock),
		errors.Is(err, domorder.ErrInvalidTransition),
		errors.Is(err, domorder.ErrCancelNotAllowed),
		errors.Is(err, dompay.ErrRefundNotAllowed),
		errors.Is(err, dompay.ErrInvalidTransition),
		errors.Is(err, application.ErrRemoteRejected):
		return http.StatusConflict, trimDomain(err)

	case errors.Is(err, dompay.ErrDeclined):
		return http.StatusPaymentRequired, trimDomain(err)

	case errors.Is(err, application.ErrDownstream):
		return http.StatusBadGateway, "Downstream service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, application.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(application.ErrValidation.Error())+2:]
	}
	return upperFirst(msg)
}

// trimDomain drops the "package: " prefix of a sentinel for display.
func trimDomain(err error) string {
	msg := err.Error()
	for _, prefix := range []string{"catalog: ", "cart: ", "order: ", "payment: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return upperFirst(msg)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeJSON reads a JSON body. Unknown fields are tolerated.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return application.NewValidation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return application.NewValidation("invalid JSON body: " + err.Error())
	}
	return nil
}

func parseInt64Param(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, application.NewValidation(fmt.Sprintf("%s must be a positive integer", name))
	}
	return v, nil
}

// flexibleRef accepts a JSON number or string identifier.
type flexibleRef string

func (f *flexibleRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number")
	}
	*f = flexibleRef(n.String())
	return nil
}

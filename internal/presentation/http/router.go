// Package httppresentation exposes the services over HTTP/JSON.
package httppresentation

import (
	"context"
	"net/http"

	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
)

// Router is a chi mux whose routes all run through the same observability chain.
type Router struct {
	mux          *chi.Mux
	log          observability.Logger
	tracerName   string
	exposeErrors bool
	propagate    func(context.Context, string) context.Context

	requests observability.Counter   // http_requests_total{method,route,status}
	duration observability.Histogram // http_request_duration_seconds{method,route,status}
}

type RouterOption func(*Router)

// WithErrorDetail includes raw error text in error envelopes. Off in production.
func WithErrorDetail(enabled bool) RouterOption {
	return func(r *Router) { r.exposeErrors = enabled }
}

// WithRequestIDPropagation hands the request id to fn so outbound calls can forward it.
func WithRequestIDPropagation(fn func(context.Context, string) context.Context) RouterOption {
	return func(r *Router) { r.propagate = fn }
}

func WithTracerName(name string) RouterOption {
	return func(r *Router) { r.tracerName = name }
}

func NewRouter(tel observability.Observability, opts ...RouterOption) *Router {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	r := &Router{
		mux:        chi.NewRouter(),
		log:        tel.Logger().With(observability.F("component", componentHTTPHandler)),
		tracerName: "bookstore.http",
		requests:   m.Counter(observability.MHTTPRequests),
		duration:   m.Histogram(observability.MHTTPRequestDuration),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.mux.Use(middleware.Recoverer)
	r.mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "Method not allowed"})
	})
	return r
}

// Handle registers handler for method and pattern.
// Chain: Trace → request logger → access log → metrics → handler.
func (r *Router) Handle(method, pattern string, handler http.HandlerFunc) {
	route := method + " " + pattern
	wrapped := withTrace(r.tracerName,
		ObservabilityMiddleware(r.log,
			func(req *http.Request) string { return req.Header.Get(headerRequestID) },
			r.propagate,
		)(
			withAccessLog(r.log,
				withHTTPMetrics(r.requests, r.duration, handler),
			),
		),
	)
	r.mux.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := contextWithRoute(req.Context(), route)
		ctx = contextWithErrorDetail(ctx, r.exposeErrors)
		wrapped.ServeHTTP(w, req.WithContext(ctx))
	}))
}

// Mount attaches a plain handler, e.g. /metrics, outside the observability chain.
func (r *Router) Mount(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

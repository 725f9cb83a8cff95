// Package bootstrap assembles the process-wide pieces every service binary needs:
// configuration, logging, metrics, tracing, the event bus and the HTTP server.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zhima-Mochi/bookstore-saga/internal/config"
	httptransport "github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/http"
	infraobs "github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/bookstore-saga/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/bookstore-saga/internal/presentation/http"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Runtime struct {
	Config   config.Config
	Logger   *zap.Logger
	Tel      observability.Observability
	Registry *prometheus.Registry
	Bus      *outbox.Bus
}

// Init loads configuration for service and builds its runtime. addr is the
// listen address used when nothing overrides it.
func Init(service, addr string) (*Runtime, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(config.Default(service, addr))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	base, err := logging.NewLogger(logging.Options{
		Service: cfg.Service.Name,
		Env:     cfg.Service.Env,
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	zap.ReplaceGlobals(base)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	counters, histograms := prometrics.RegisterDefaults(prometrics.New(reg, "", ""))

	oteltrace.InstallPropagator()
	tel := infraobs.New(oteltrace.New(cfg.Service.Name), zaplogger.New(base), counters, histograms)

	return &Runtime{
		Config:   cfg,
		Logger:   base,
		Tel:      tel,
		Registry: reg,
		Bus:      outbox.NewBus(tel),
	}, nil
}

// Router returns a router carrying the service's middleware chain and a /metrics endpoint.
func (rt *Runtime) Router() *httppresentation.Router {
	r := httppresentation.NewRouter(rt.Tel,
		httppresentation.WithErrorDetail(!rt.Config.IsProduction()),
		httppresentation.WithRequestIDPropagation(httptransport.WithRequestID),
		httppresentation.WithTracerName(rt.Config.Service.Name),
	)
	r.Mount("/metrics", promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{Registry: rt.Registry}))
	return r
}

// Client builds an outbound client for peer using the shared client settings.
func (rt *Runtime) Client(peer, baseURL string) *httptransport.Client {
	return httptransport.NewClient(httptransport.Options{
		Peer:               peer,
		BaseURL:            baseURL,
		Timeout:            rt.Config.HTTPClient.Timeout,
		BreakerMaxFailures: rt.Config.HTTPClient.BreakerMaxFailures,
		BreakerOpenTimeout: rt.Config.HTTPClient.BreakerOpenTimeout,
	}, rt.Tel)
}

// Run starts the event bus and serves handler until SIGINT or SIGTERM, then
// shuts both down within the configured timeout.
func (rt *Runtime) Run(handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = rt.Logger.Sync() }()

	rt.Bus.Start(context.Background())

	server := &http.Server{
		Addr:         rt.Config.Service.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  rt.Config.HTTP.ReadTimeout,
		WriteTimeout: rt.Config.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		rt.Logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			rt.Logger.Error("http_server_error", zap.Error(err))
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.Config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Error("http_server_shutdown_error", zap.Error(err))
		runErr = errors.Join(runErr, err)
	} else {
		rt.Logger.Info("http_server_stopped")
	}
	rt.Bus.Stop(shutdownCtx)
	return runErr
}

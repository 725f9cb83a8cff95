// Package httptransport holds the outbound clients the services use to call each other.
package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// Options configures a Client for one downstream peer.
type Options struct {
	Peer               string
	BaseURL            string
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	// Transport overrides the base round tripper; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client calls a peer service that answers with the JSON envelope. Every call is
// traced through otelhttp and guarded by a circuit breaker that only counts
// transport failures and 5xx answers.
type Client struct {
	peer    string
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*reply]
	log     observability.Logger

	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

type reply struct {
	status int
	body   []byte
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func NewClient(opts Options, tel observability.Observability) *Client {
	if tel == nil {
		tel = observability.Nop()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	maxFailures := opts.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	log := tel.Logger().With(observability.F("component", "http_client"), observability.F("peer", opts.Peer))
	breaker := gobreaker.NewCircuitBreaker[*reply](gobreaker.Settings{
		Name:    opts.Peer,
		Timeout: opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit_breaker_state_changed",
				observability.F("breaker", name),
				observability.F("from", from.String()),
				observability.F("to", to.String()),
			)
		},
	})

	m := tel.Metrics()
	return &Client{
		peer:    opts.Peer,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		breaker:      breaker,
		log:          log,
		extCounter:   m.Counter(observability.MExternalRequests),
		extHistogram: m.Histogram(observability.MExternalRequestDuration),
	}
}

// do sends body as JSON and decodes the envelope's data into out. endpoint is the
// low-cardinality route label, path the concrete request path.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) (err error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if err != nil {
			outcome = "error"
			logctx.FromOr(ctx, c.log).Warn("external_request_failed",
				observability.F("endpoint", endpoint),
				observability.F("path", path),
				observability.F("error", err.Error()),
			)
		}
		c.extCounter.Add(1,
			observability.L("peer", c.peer),
			observability.L("endpoint", endpoint),
			observability.L("outcome", outcome),
		)
		c.extHistogram.Observe(time.Since(start).Seconds(),
			observability.L("peer", c.peer),
			observability.L("endpoint", endpoint),
		)
	}()

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: encode request: %w", c.peer, err)
		}
	}

	rep, err := c.breaker.Execute(func() (*reply, error) {
		return c.roundTrip(ctx, method, path, payload)
	})
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", application.ErrDownstream, c.peer, endpoint, err)
	}

	var env envelope
	if len(rep.body) > 0 {
		if jerr := json.Unmarshal(rep.body, &env); jerr != nil && rep.status < 300 {
			return fmt.Errorf("%w: %s: decode response: %w", application.ErrDownstream, c.peer, jerr)
		}
	}

	switch {
	case rep.status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", application.ErrRemoteNotFound, remoteMessage(env, rep.status))
	case rep.status >= 400:
		return fmt.Errorf("%w: %s", application.ErrRemoteRejected, remoteMessage(env, rep.status))
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if jerr := json.Unmarshal(env.Data, out); jerr != nil {
		return fmt.Errorf("%w: %s: decode data: %w", application.ErrDownstream, c.peer, jerr)
	}
	return nil
}

// roundTrip returns an error only for failures that should count against the breaker.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (*reply, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok && rid != "" {
		req.Header.Set(headerRequestID, rid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return &reply{status: resp.StatusCode, body: data}, nil
}

func remoteMessage(env envelope, status int) string {
	if env.Message != "" {
		return env.Message
	}
	if env.Error != "" {
		return env.Error
	}
	return http.StatusText(status)
}

type requestIDKey struct{}

// WithRequestID makes outbound calls carry id in the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

package payment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/bookstore-saga/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
	"github.com/sethvargo/go-retry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	workerService     = "payment-worker"
	useCaseRefundSync = "payment.worker.refund_notify"

	DefaultNotifyMaxRetries = 5
	DefaultNotifyBaseDelay  = 200 * time.Millisecond
)

// RefundWorker tells the order service about refunds: it marks the order's payment
// refunded and cancels the order. Unreachable downstreams are retried with
// exponential backoff; rejections are logged and dropped.
type RefundWorker struct {
	subscriber domoutbox.Subscriber
	orders     OrderPort
	tel        observability.Observability
	maxRetries uint64
	baseDelay  time.Duration

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	retries      observability.Counter   // event_handler_retries_total{event}
}

type RefundWorkerOption func(*RefundWorker)

func WithNotifyRetries(maxRetries uint64, baseDelay time.Duration) RefundWorkerOption {
	return func(w *RefundWorker) {
		w.maxRetries = maxRetries
		if baseDelay > 0 {
			w.baseDelay = baseDelay
		}
	}
}

func NewRefundWorker(subscriber domoutbox.Subscriber, orders OrderPort, tel observability.Observability, opts ...RefundWorkerOption) *RefundWorker {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	w := &RefundWorker{
		subscriber:   subscriber,
		orders:       orders,
		tel:          tel,
		maxRetries:   DefaultNotifyMaxRetries,
		baseDelay:    DefaultNotifyBaseDelay,
		log:          tel.Logger().With(observability.F("service", workerService)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
		retries:      m.Counter(observability.MEventHandlerRetries),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *RefundWorker) Start() {
	if w.subscriber == nil || w.orders == nil {
		return
	}
	w.subscriber.Subscribe(dompay.PaymentRefundedEvent{}.EventName(), w.handlePaymentRefunded)
}

func (w *RefundWorker) handlePaymentRefunded(ctx context.Context, e domoutbox.Event) (err error) {
	evt, ok := e.(dompay.PaymentRefundedEvent)
	if !ok {
		w.reqCounter.Add(1, observability.L("use_case", useCaseRefundSync), observability.L("outcome", "ignored"))
		return nil
	}

	ctx, span := w.tel.Tracer().Start(ctx, spanPrefix+"RefundNotify",
		attribute.String("use_case", useCaseRefundSync),
		attribute.String("event", e.EventName()),
		attribute.Int64("order.id", evt.OrderID),
	)
	start := time.Now()
	outcome, status := "success", "OK"
	attempts := 0

	logger := logctx.FromOr(ctx, w.log).With(
		observability.F("use_case", useCaseRefundSync),
		observability.F("event", e.EventName()),
		observability.F("payment_id", evt.PaymentID),
		observability.F("order_id", evt.OrderID),
	)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}

	defer func() {
		lat := time.Since(start).Seconds()
		w.reqCounter.Add(1, observability.L("use_case", useCaseRefundSync), observability.L("outcome", outcome))
		w.durHistogram.Observe(lat, observability.L("use_case", useCaseRefundSync))

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", status),
			observability.F("latency_seconds", lat),
			observability.F("attempts", attempts),
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)

		if outcome == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
		} else {
			span.SetStatus(codes.Ok, status)
		}
		span.End()
	}()

	ref := strconv.FormatInt(evt.OrderID, 10)
	backoff := retry.WithMaxRetries(w.maxRetries, retry.NewExponential(w.baseDelay))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			w.retries.Add(1, observability.L("event", e.EventName()))
		}
		nerr := w.notify(ctx, ref)
		if nerr != nil && errors.Is(nerr, application.ErrDownstream) {
			logger.Warn("refund_notify_retry",
				observability.F("attempt", attempts),
				observability.F("error", nerr.Error()),
			)
			return retry.RetryableError(nerr)
		}
		return nerr
	})

	switch {
	case err == nil:
	case errors.Is(err, application.ErrDownstream):
		outcome, status = "error", "RETRIES_EXHAUSTED"
	default:
		// The order service refused, e.g. the order has already shipped.
		outcome, status = "rejected", "ORDER_REJECTED"
		logger.Warn("order_cancel_rejected", observability.F("error", err.Error()))
		err = nil
	}
	return err
}

func (w *RefundWorker) notify(ctx context.Context, ref string) error {
	if _, err := w.orders.ApplyPayment(ctx, ref, domorder.PaymentRefunded, ""); err != nil {
		return err
	}
	_, err := w.orders.CancelOrder(ctx, ref)
	return err
}

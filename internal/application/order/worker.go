package order

import (
	"context"
	"time"

	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/bookstore-saga/internal/domain/outbox"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const workerService = "order-worker"

// ReconcileWorker surfaces the failed steps of each created order so an operator or
// a supervising process can repair stock by hand.
type ReconcileWorker struct {
	subscriber domoutbox.Subscriber
	tel        observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	stepFailures observability.Counter   // saga_step_failures_total{step}
}

func NewReconcileWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *ReconcileWorker {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &ReconcileWorker{
		subscriber:   subscriber,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", workerService)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
		stepFailures: m.Counter(observability.MSagaStepFailures),
	}
}

func (w *ReconcileWorker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domorder.OrderCreatedEvent{}.EventName(), w.handleOrderCreated)
}

func (w *ReconcileWorker) handleOrderCreated(ctx context.Context, e domoutbox.Event) error {
	const useCase = "order.worker.reconcile"
	evt, ok := e.(domorder.OrderCreatedEvent)
	if !ok {
		w.count(useCase, "ignored")
		return nil
	}

	ctx, span := w.tel.Tracer().Start(ctx, spanPrefix+"ReconcileOrder",
		attribute.String("use_case", useCase),
		attribute.String("event", e.EventName()),
	)
	start := time.Now()
	outcome, status := "success", "OK"

	logger := logctx.FromOr(ctx, w.log).With(
		observability.F("use_case", useCase),
		observability.F("event", e.EventName()),
		observability.F("order_id", evt.OrderID),
	)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		logger = logger.With(
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}

	failed := domorder.FailedSteps(evt.Steps)
	defer func() {
		lat := time.Since(start).Seconds()
		w.count(useCase, outcome)
		w.durHistogram.Observe(lat, observability.L("use_case", useCase))

		logger.Info("use_case_done",
			observability.F("outcome", outcome),
			observability.F("status", status),
			observability.F("latency_seconds", lat),
			observability.F("failed_steps", len(failed)),
		)
		span.SetStatus(codes.Ok, status)
		span.End()
	}()

	if len(failed) == 0 {
		return nil
	}
	status = "STEPS_INCOMPLETE"
	for _, s := range failed {
		w.stepFailures.Add(1, observability.L("step", s.Step))
		msg := "stock_adjustment_incomplete"
		if s.Step == domorder.StepCartClear {
			msg = "cart_clear_incomplete"
		}
		logger.Warn(msg,
			observability.F("step", s.Step),
			observability.F("product_id", s.ProductID),
			observability.F("quantity", s.Quantity),
			observability.F("error", s.Error),
		)
	}
	span.SetAttributes(attribute.Int("order.failed_steps", len(failed)))
	return nil
}

func (w *ReconcileWorker) count(useCase, outcome string) {
	w.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
}

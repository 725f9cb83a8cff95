package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	domoutbox "github.com/Zhima-Mochi/bookstore-saga/internal/domain/outbox"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	useCasePaymentRefund = "payment.refund"
	defaultRefundReason  = "Customer requested refund"
	publishTimeout       = 300 * time.Millisecond
)

// ProcessRefundUseCase refunds a completed payment. Cancelling the order happens
// asynchronously through the payment.refunded event.
type ProcessRefundUseCase struct {
	repo      domain.Repository
	publisher domoutbox.Publisher
	tel       observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func NewProcessRefundUseCase(repo domain.Repository, publisher domoutbox.Publisher, tel observability.Observability) *ProcessRefundUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &ProcessRefundUseCase{
		repo:         repo,
		publisher:    publisher,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", paymentService)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
	}
}

type ProcessRefundInput struct {
	PaymentRef string
	Reason     string
}

func (uc *ProcessRefundUseCase) Execute(ctx context.Context, cmd ProcessRefundInput) (_ *domain.Payment, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCasePaymentRefund))

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"ProcessRefund",
		attribute.String("use_case", useCasePaymentRefund),
		attribute.String("payment.ref", cmd.PaymentRef),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var publishErr error

	defer func() {
		lat := time.Since(start).Seconds()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePaymentRefund),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat, observability.L("use_case", useCasePaymentRefund))

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
			observability.F("payment_ref", cmd.PaymentRef),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if cmd.PaymentRef == "" {
		outcome, statusText = "error", "VALIDATION_FAILED"
		return nil, application.NewValidation("paymentId is required")
	}

	p, gerr := findPayment(ctx, uc.repo, cmd.PaymentRef)
	if gerr != nil {
		outcome, statusText = "error", "PAYMENT_LOOKUP_FAILED"
		return nil, gerr
	}

	reason := cmd.Reason
	if reason == "" {
		reason = defaultRefundReason
	}
	if rerr := p.Refund(reason); rerr != nil {
		outcome, statusText = "error", "REFUND_NOT_ALLOWED"
		return nil, fmt.Errorf("%w (status %s)", rerr, p.Status)
	}
	if uerr := uc.repo.Update(ctx, p); uerr != nil {
		outcome, statusText = "error", "REPO_UPDATE_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, uerr)
	}

	if uc.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		publishErr = uc.publisher.Publish(pubCtx, domain.NewPaymentRefundedEvent(p))
		cancel()
		if publishErr != nil {
			statusText = "EVENT_PUBLISH_FAILED"
		}
	}

	span.AddEvent("payment.refunded", trace.WithAttributes(attribute.String("payment.id", p.PaymentID)))
	return p, nil
}

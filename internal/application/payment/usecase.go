package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domorder "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/payment"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"
	"github.com/Zhima-Mochi/bookstore-saga/internal/pkg/money"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentService        = "payment-service"
	useCasePaymentProcess = "payment.process"
	spanPrefix            = "UC."
)

var ErrRepository = errors.New("payment: repository failure")

type ProcessPaymentUseCase struct {
	repo       domain.Repository
	orders     OrderPort
	gateway    domain.Gateway
	paymentIDs IDGenerator
	tel        observability.Observability

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewProcessPaymentUseCase(
	repo domain.Repository,
	orders OrderPort,
	gateway domain.Gateway,
	paymentIDs IDGenerator,
	tel observability.Observability,
) *ProcessPaymentUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &ProcessPaymentUseCase{
		repo:         repo,
		orders:       orders,
		gateway:      gateway,
		paymentIDs:   paymentIDs,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", paymentService)),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
	}
}

type ProcessPaymentInput struct {
	OrderRef      string
	UserID        string
	Amount        float64
	PaymentMethod string
	Credentials   domain.Credentials
}

// ProcessPaymentResult is returned on success and alongside domain.ErrDeclined.
type ProcessPaymentResult struct {
	Payment *domain.Payment `json:"payment"`
	// OrderSynced is false when the order service could not be told about a completed payment.
	OrderSynced bool `json:"orderSynced"`
}

func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, cmd ProcessPaymentInput) (_ *ProcessPaymentResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCasePaymentProcess))

	var paymentID string
	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"ProcessPayment",
		attribute.String("use_case", useCasePaymentProcess),
		attribute.String("payment.order_ref", cmd.OrderRef),
		attribute.String("payment.method", cmd.PaymentMethod),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"

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
			observability.L("use_case", useCasePaymentProcess),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat, observability.L("use_case", useCasePaymentProcess))

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if paymentID != "" {
			fields = append(fields, observability.F("payment_id", paymentID))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if strings.TrimSpace(cmd.OrderRef) == "" || cmd.UserID == "" || cmd.Amount <= 0 || cmd.PaymentMethod == "" {
		outcome, statusText = "error", "VALIDATION_FAILED"
		return nil, application.NewValidation("orderId, userId, amount and paymentMethod are required")
	}
	method := domain.Method(cmd.PaymentMethod)
	if !method.Valid() {
		outcome, statusText = "error", "UNSUPPORTED_METHOD"
		return nil, application.NewValidation("invalid payment method. Supported: " + joinMethods())
	}
	details, rerr := domain.Redact(method, cmd.Credentials)
	if rerr != nil {
		outcome, statusText = "error", "METHOD_DETAILS_MISSING"
		return nil, fmt.Errorf("%w: %w", application.ErrValidation, rerr)
	}

	order, oerr := uc.orders.GetOrder(ctx, cmd.OrderRef)
	if oerr != nil {
		outcome, statusText = "error", "ORDER_FETCH_FAILED"
		if errors.Is(oerr, application.ErrRemoteNotFound) || errors.Is(oerr, domorder.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domorder.ErrNotFound, cmd.OrderRef)
		}
		return nil, fmt.Errorf("payment: fetch order: %w", oerr)
	}

	if !money.Matches(order.TotalAmount, cmd.Amount) {
		outcome, statusText = "error", "AMOUNT_MISMATCH"
		return nil, fmt.Errorf("%w. Expected: %.2f, Received: %.2f", domain.ErrAmountMismatch, order.TotalAmount, cmd.Amount)
	}

	paymentID = uc.paymentIDs.NewID()
	p := domain.New(paymentID, order.ID, order.OrderID, cmd.UserID, cmd.Amount, method, details)
	if ierr := uc.repo.Insert(ctx, p); ierr != nil {
		outcome, statusText = "error", "REPO_INSERT_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, ierr)
	}
	span.SetAttributes(attribute.String("payment.id", paymentID))

	charge, gerr := uc.gateway.Charge(ctx, p)
	if gerr != nil {
		charge = domain.ChargeResult{Approved: false, Message: gerr.Error()}
	}

	if !charge.Approved {
		if ferr := p.Fail(charge.Message); ferr != nil {
			outcome, statusText = "error", "STATE_TRANSITION_FAILED"
			return nil, ferr
		}
		if uerr := uc.repo.Update(ctx, p); uerr != nil {
			outcome, statusText = "error", "REPO_UPDATE_FAILED"
			return nil, fmt.Errorf("%w: %w", ErrRepository, uerr)
		}
		outcome, statusText = "error", "DECLINED"
		return &ProcessPaymentResult{Payment: p}, fmt.Errorf("%w: %s", domain.ErrDeclined, charge.Message)
	}

	if cerr := p.Complete(charge.TransactionID); cerr != nil {
		outcome, statusText = "error", "STATE_TRANSITION_FAILED"
		return nil, cerr
	}
	if uerr := uc.repo.Update(ctx, p); uerr != nil {
		outcome, statusText = "error", "REPO_UPDATE_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, uerr)
	}

	result := &ProcessPaymentResult{Payment: p, OrderSynced: true}
	if _, serr := uc.orders.ApplyPayment(ctx, strconv.FormatInt(order.ID, 10), domorder.PaymentCompleted, string(method)); serr != nil {
		result.OrderSynced = false
		statusText = "ORDER_SYNC_FAILED"
		span.RecordError(serr)
		logger.Error("order_payment_sync_failed",
			observability.F("payment_id", paymentID),
			observability.F("order_id", order.OrderID),
			observability.F("error", serr.Error()),
		)
	}

	span.AddEvent("payment.completed", trace.WithAttributes(
		attribute.String("payment.transaction_id", p.TransactionID),
	))
	return result, nil
}

func joinMethods() string {
	names := make([]string, 0, len(domain.Methods))
	for _, m := range domain.Methods {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

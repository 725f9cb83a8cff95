package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/bookstore-saga/internal/application"
	domcart "github.com/Zhima-Mochi/bookstore-saga/internal/domain/cart"
	domain "github.com/Zhima-Mochi/bookstore-saga/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/bookstore-saga/internal/domain/outbox"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability"
	"github.com/Zhima-Mochi/bookstore-saga/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	orderService       = "order-service"
	useCaseOrderCreate = "order.create"
	spanPrefix         = "UC."
	publishPeer        = "outbox"
	publishTimeout     = 300 * time.Millisecond
)

var ErrRepository = errors.New("order: repository failure")

// CreateOrderUseCase turns a user's cart into an order: persist, decrement stock per line, clear the cart.
// Steps after persistence never abort the order; their outcomes are returned and published.
type CreateOrderUseCase struct {
	repo            domain.Repository
	cart            CartPort
	catalog         CatalogPort
	idGenerator     IDGenerator
	publisher       domoutbox.Publisher
	tel             observability.Observability
	compensateStock bool

	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

type CreateOrderOption func(*CreateOrderUseCase)

// WithStockCompensation restores already decremented stock when a later decrement fails.
func WithStockCompensation(enabled bool) CreateOrderOption {
	return func(uc *CreateOrderUseCase) { uc.compensateStock = enabled }
}

func NewCreateOrderUseCase(
	repo domain.Repository,
	cart CartPort,
	catalog CatalogPort,
	idGen IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
	opts ...CreateOrderOption,
) *CreateOrderUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()

	uc := &CreateOrderUseCase{
		repo:         repo,
		cart:         cart,
		catalog:      catalog,
		idGenerator:  idGen,
		publisher:    publisher,
		tel:          tel,
		log:          tel.Logger().With(observability.F("service", orderService)),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type CreateOrderInput struct {
	UserID          string          `json:"userId" validate:"required"`
	ShippingAddress *domain.Address `json:"shippingAddress" validate:"required"`
}

type CreateOrderResult struct {
	Order *domain.Order        `json:"order"`
	Steps []domain.StepOutcome `json:"steps"`
}

// Execute runs the order creation saga.
func (uc *CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderInput) (_ *CreateOrderResult, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(observability.F("use_case", useCaseOrderCreate))

	var orderID string
	var steps []domain.StepOutcome
	var publishErr error

	ctx, span := uc.tel.Tracer().Start(ctx, spanPrefix+"CreateOrder",
		attribute.String("use_case", useCaseOrderCreate),
		attribute.String("order.user_id", cmd.UserID),
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
			observability.L("use_case", useCaseOrderCreate),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(lat, observability.L("use_case", useCaseOrderCreate))

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
		if orderID != "" {
			fields = append(fields, observability.F("order_id", orderID))
		}
		if failed := domain.FailedSteps(steps); len(failed) > 0 {
			fields = append(fields, observability.F("failed_steps", len(failed)))
		}
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if verr := application.Validate(cmd); verr != nil {
		outcome, statusText = "error", "VALIDATION_FAILED"
		return nil, verr
	}

	c, cerr := uc.cart.GetCart(ctx, cmd.UserID)
	switch {
	case cerr == nil:
	case errors.Is(cerr, application.ErrRemoteNotFound), errors.Is(cerr, domcart.ErrNotFound):
		c = nil
	default:
		outcome, statusText = "error", "CART_FETCH_FAILED"
		return nil, fmt.Errorf("order: fetch cart: %w", cerr)
	}
	if c.IsEmpty() {
		outcome, statusText = "error", "CART_EMPTY"
		return nil, domain.ErrEmptyCart
	}

	orderID = uc.idGenerator.NewID()
	entity, derr := domain.New(orderID, cmd.UserID, snapshotItems(c), *cmd.ShippingAddress)
	if derr != nil {
		outcome, statusText = "error", "DOMAIN_CONSTRUCTION_FAILED"
		return nil, fmt.Errorf("order: construct: %w", derr)
	}
	if ierr := uc.repo.Insert(ctx, entity); ierr != nil {
		outcome, statusText = "error", "REPO_INSERT_FAILED"
		return nil, fmt.Errorf("%w: %w", ErrRepository, ierr)
	}
	steps = append(steps, domain.StepOutcome{Step: domain.StepPersist, Outcome: domain.OutcomeSucceeded})
	span.SetAttributes(attribute.Int64("order.id", entity.ID), attribute.String("order.order_id", orderID))

	var decremented []domain.Item
	for _, it := range entity.Items {
		step := domain.StepOutcome{Step: domain.StepStockDecrement, ProductID: it.ProductID, Quantity: it.Quantity}
		if serr := uc.adjustStock(ctx, it.ProductID, -it.Quantity); serr != nil {
			step.Outcome, step.Error = domain.OutcomeFailed, serr.Error()
			statusText = "STOCK_STEP_FAILED"
			logger.Error("stock_decrement_failed",
				observability.F("order_id", orderID),
				observability.F("product_id", it.ProductID),
				observability.F("quantity", it.Quantity),
				observability.F("error", serr.Error()),
			)
		} else {
			step.Outcome = domain.OutcomeSucceeded
			decremented = append(decremented, it)
		}
		steps = append(steps, step)
	}

	if uc.compensateStock && len(domain.FailedSteps(steps)) > 0 {
		steps = append(steps, uc.restoreStock(ctx, logger, orderID, decremented)...)
	}

	clearStep := domain.StepOutcome{Step: domain.StepCartClear, Outcome: domain.OutcomeSucceeded}
	if clrErr := uc.cart.ClearCart(ctx, cmd.UserID); clrErr != nil {
		clearStep.Outcome, clearStep.Error = domain.OutcomeFailed, clrErr.Error()
		logger.Warn("cart_clear_failed",
			observability.F("order_id", orderID),
			observability.F("user_id", cmd.UserID),
			observability.F("error", clrErr.Error()),
		)
	}
	steps = append(steps, clearStep)

	publishErr = uc.publish(ctx, domain.NewOrderCreatedEvent(entity, steps))

	span.SetAttributes(attribute.String("order.status", string(entity.Status)))
	span.AddEvent("order.created", trace.WithAttributes(
		attribute.String("order.order_id", orderID),
		attribute.Int("order.failed_steps", len(domain.FailedSteps(steps))),
	))

	return &CreateOrderResult{Order: entity, Steps: steps}, nil
}

// adjustStock reads the product, applies delta through the domain checks and writes the absolute value back.
func (uc *CreateOrderUseCase) adjustStock(ctx context.Context, productID int64, delta int) error {
	p, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("read product %d: %w", productID, err)
	}
	if delta < 0 {
		err = p.Decrement(-delta)
	} else {
		err = p.Restock(delta)
	}
	if err != nil {
		return fmt.Errorf("product %d: %w", productID, err)
	}
	if _, err := uc.catalog.SetStock(ctx, productID, p.Stock); err != nil {
		return fmt.Errorf("set stock %d: %w", productID, err)
	}
	return nil
}

func (uc *CreateOrderUseCase) restoreStock(ctx context.Context, logger observability.Logger, orderID string, items []domain.Item) []domain.StepOutcome {
	out := make([]domain.StepOutcome, 0, len(items))
	for _, it := range items {
		step := domain.StepOutcome{
			Step:      domain.StepStockRestore,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Outcome:   domain.OutcomeSucceeded,
		}
		if err := uc.adjustStock(ctx, it.ProductID, it.Quantity); err != nil {
			step.Outcome, step.Error = domain.OutcomeFailed, err.Error()
			logger.Error("stock_restore_failed",
				observability.F("order_id", orderID),
				observability.F("product_id", it.ProductID),
				observability.F("quantity", it.Quantity),
				observability.F("error", err.Error()),
			)
		}
		out = append(out, step)
	}
	return out
}

func (uc *CreateOrderUseCase) publish(ctx context.Context, evt domain.OrderCreatedEvent) error {
	if uc.publisher == nil {
		return nil
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pubStart := time.Now()
	pubOutcome := "success"
	err := uc.publisher.Publish(pubCtx, evt)
	if err != nil {
		pubOutcome = "error"
	} else if pubCtx.Err() != nil {
		pubOutcome = "canceled"
		err = pubCtx.Err()
	}

	uc.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", evt.EventName()),
		observability.L("outcome", pubOutcome),
	)
	uc.extHistogram.Observe(time.Since(pubStart).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", evt.EventName()),
	)
	return err
}

func snapshotItems(c *domcart.Cart) []domain.Item {
	items := make([]domain.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, domain.Item{
			ProductID: it.ProductID,
			Title:     it.Title,
			Author:    it.Author,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}
	return items
}

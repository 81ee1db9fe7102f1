// Package checkout drives order creation against the backend.
//
// The backend exposes order creation as two independent calls — create
// the order header, then attach its line items — and the orchestrator
// presents them as one logical transaction. When the second call fails
// after the first succeeded, the backend is left holding an order with
// zero items: the client has no rollback in the observed contract, so
// by default the failure is only surfaced. An optional compensation
// strategy deletes the orphaned order instead (retried at most once);
// its own failure never masks the original error.
package checkout

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/foodworks/orderflow/cart"
	"github.com/foodworks/orderflow/core"
	"github.com/foodworks/orderflow/resilience"
)

// OrderAPI is the slice of the API client the orchestrator needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req core.OrderRequest) (core.Order, error)
	AttachItems(ctx context.Context, orderID int, items []core.OrderItemRequest) error
	DeleteOrder(ctx context.Context, orderID int) error
}

// PriceQuote is the deterministic pricing breakdown for the current
// cart contents, rounded to 2 decimal places for display.
type PriceQuote struct {
	Subtotal float64
	Tax      float64
	Tip      float64
	Total    float64
}

// Orchestrator submits the cart as a persisted order.
type Orchestrator struct {
	store      cart.Store
	api        OrderAPI
	logger     core.Logger
	telemetry  core.Telemetry
	timeout    time.Duration
	compensate bool
	inFlight   atomic.Bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger configures the orchestrator logger.
func WithLogger(logger core.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTelemetry traces each submission.
func WithTelemetry(t core.Telemetry) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.telemetry = t
		}
	}
}

// WithTimeout bounds each phase of a submission.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithCompensation enables the compensating delete when attaching
// items fails after the order record was created.
func WithCompensation(enabled bool) Option {
	return func(o *Orchestrator) {
		o.compensate = enabled
	}
}

// New creates an Orchestrator over the given cart and API.
func New(store cart.Store, api OrderAPI, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		api:       api,
		logger:    &core.NoOpLogger{},
		telemetry: &core.NoOpTelemetry{},
		timeout:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Quote computes the pricing breakdown for the current cart and tip.
// The subtotal comes from the cart store — the single source of truth —
// so display and submission never drift.
func (o *Orchestrator) Quote(tip float64) PriceQuote {
	subtotal := o.store.TotalPrice()
	tax := core.Round2(subtotal * core.TaxRate)
	tip = core.Round2(tip)
	return PriceQuote{
		Subtotal: core.Round2(subtotal),
		Tax:      tax,
		Tip:      tip,
		Total:    core.Round2(subtotal + tax + tip),
	}
}

// Submit turns the current cart contents plus tip and payment details
// into a persisted order and returns the server-assigned order id.
//
// On success the cart is cleared exactly once. On any failure the cart
// is left untouched so the user can retry without re-entering items;
// payment details are never retained either way. Re-invocation while a
// submission is in flight is rejected with core.ErrSubmissionInFlight —
// a client-side double-click guard, not a server idempotency guarantee.
func (o *Orchestrator) Submit(ctx context.Context, tip float64, payment core.PaymentDetails) (int, error) {
	const op = "checkout.Submit"

	if !o.inFlight.CompareAndSwap(false, true) {
		return 0, core.NewError(op, core.KindValidation, core.ErrSubmissionInFlight)
	}
	defer o.inFlight.Store(false)

	ctx, span := o.telemetry.StartSpan(ctx, "checkout.submit")
	defer span.End()

	// Preconditions: no network call is issued when they fail.
	lines := o.store.Lines()
	if len(lines) == 0 {
		err := core.NewError(op, core.KindValidation, core.ErrEmptyCart)
		span.RecordError(err)
		return 0, err
	}
	if !payment.Complete() {
		err := core.NewError(op, core.KindValidation, core.ErrMissingPaymentFields)
		span.RecordError(err)
		return 0, err
	}

	quote := o.Quote(tip)
	span.SetAttribute("order.subtotal", quote.Subtotal)
	span.SetAttribute("order.total", quote.Total)
	span.SetAttribute("cart.lines", len(lines))

	order, err := o.createOrder(ctx, quote, payment)
	if err != nil {
		span.RecordError(err)
		o.logger.Error("Order creation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, err
	}
	span.AddEvent("order created")
	span.SetAttribute("order.id", order.ID)

	if err := o.attachItems(ctx, order.ID, lines); err != nil {
		span.RecordError(err)
		o.logger.Error("Order created but attaching items failed", map[string]interface{}{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		if o.compensate {
			o.compensateOrder(order.ID)
		}
		return 0, err
	}
	span.AddEvent("items attached")

	// Clear only after both phases succeeded
	o.store.Clear()

	o.logger.Info("Order submitted", map[string]interface{}{
		"order_id": order.ID,
		"total":    quote.Total,
	})
	return order.ID, nil
}

// createOrder runs phase 1: POST the order record. Order time and
// pickup time carry the same timestamp; pickup scheduling is not
// implemented.
func (o *Orchestrator) createOrder(ctx context.Context, quote PriceQuote, payment core.PaymentDetails) (core.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)

	// Expiry fields ride as integers on the wire; the inputs are
	// presence-checked only, so unparseable values become 0.
	month, _ := strconv.Atoi(payment.ExpiryMonth)
	year, _ := strconv.Atoi(payment.ExpiryYear)

	req := core.OrderRequest{
		OrderTime:   now,
		PickupTime:  now,
		Tax:         quote.Tax,
		Tip:         quote.Tip,
		CardNumber:  payment.CardNumber,
		ExpiryMonth: month,
		ExpiryYear:  year,
		CVV:         payment.CVV,
		Status:      "completed",
	}

	return o.api.CreateOrder(ctx, req)
}

// attachItems runs phase 2: POST the flattened item records. A line
// with quantity N expands to N records, each at the snapshot unit
// price, matching how detail views sum per-row prices.
func (o *Orchestrator) attachItems(ctx context.Context, orderID int, lines []core.CartLine) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	items := FlattenLines(lines)
	return o.api.AttachItems(ctx, orderID, items)
}

// compensateOrder deletes the phase-1 order after a phase-2 failure.
// At most one retry; failure is logged and swallowed so the original
// submission error is what the caller sees.
func (o *Orchestrator) compensateOrder(orderID int) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	err := resilience.Retry(ctx, resilience.CompensationRetryConfig(), func() error {
		return o.api.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		o.logger.Error("Compensating delete failed; orphaned order remains", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return
	}
	o.logger.Info("Orphaned order deleted", map[string]interface{}{
		"order_id": orderID,
	})
}

// FlattenLines expands cart lines into per-unit order item records.
func FlattenLines(lines []core.CartLine) []core.OrderItemRequest {
	var items []core.OrderItemRequest
	for _, line := range lines {
		for i := 0; i < line.Quantity; i++ {
			items = append(items, core.OrderItemRequest{
				ItemID: line.Item.ID,
				Price:  line.Item.Price,
			})
		}
	}
	return items
}

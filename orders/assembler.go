// Package orders reads back persisted orders: the history listing and
// the display-ready detail aggregate.
package orders

import (
	"context"

	"github.com/foodworks/orderflow/core"
	"github.com/foodworks/orderflow/menu"
)

// HistoryAPI is the slice of the API client used to read orders back.
type HistoryAPI interface {
	GetOrder(ctx context.Context, orderID int) (core.Order, error)
	ListOrderItems(ctx context.Context, orderID int) ([]core.OrderItem, error)
	ListOrders(ctx context.Context) ([]core.Order, error)
}

// OrderDetail is the assembled, display-ready view of one order.
// Subtotal sums per-row prices — order item rows are flattened per
// unit — and Total adds the tax and tip captured on the order header.
type OrderDetail struct {
	Order    core.Order
	Items    []core.DisplayOrderItem
	Subtotal float64
	Total    float64
}

// Assembler joins an order header, its line items, and the menu
// catalog into one consistent view.
type Assembler struct {
	api       HistoryAPI
	menu      *menu.Lookup
	logger    core.Logger
	telemetry core.Telemetry
}

// NewAssembler creates an Assembler over the given API and menu lookup.
func NewAssembler(api HistoryAPI, lookup *menu.Lookup) *Assembler {
	return &Assembler{
		api:       api,
		menu:      lookup,
		logger:    &core.NoOpLogger{},
		telemetry: &core.NoOpTelemetry{},
	}
}

// SetLogger configures the logger for this assembler.
func (a *Assembler) SetLogger(logger core.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// SetTelemetry traces each assembly.
func (a *Assembler) SetTelemetry(t core.Telemetry) {
	if t != nil {
		a.telemetry = t
	}
}

// Assemble fetches the order header, its line items, and the catalog,
// and joins them. Each fetch can fail independently; any one failure
// aborts the assembly with an error identifying the failed resource
// (its Op names the call). Line items whose catalog entry has drifted
// away are kept with fallback name and image — an order's historical
// record never loses lines.
func (a *Assembler) Assemble(ctx context.Context, orderID int) (*OrderDetail, error) {
	ctx, span := a.telemetry.StartSpan(ctx, "orders.assemble")
	defer span.End()
	span.SetAttribute("order.id", orderID)

	order, err := a.api.GetOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items, err := a.api.ListOrderItems(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	index, err := a.menu.Index(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	detail := &OrderDetail{
		Order: order,
		Items: make([]core.DisplayOrderItem, 0, len(items)),
	}

	subtotal := 0.0
	for _, item := range items {
		display := core.DisplayOrderItem{
			OrderItem: item,
			Name:      core.UnknownItemName,
			ImageURL:  core.PlaceholderImage,
		}
		if m, ok := index[item.ItemID]; ok {
			display.Name = m.Name
			if m.ImageURL != "" {
				display.ImageURL = m.ImageURL
			}
		} else {
			a.logger.Warn("Order item has no catalog entry", map[string]interface{}{
				"order_id": orderID,
				"item_id":  item.ItemID,
			})
		}
		detail.Items = append(detail.Items, display)
		subtotal += item.Price
	}

	detail.Subtotal = core.Round2(subtotal)
	detail.Total = core.Round2(subtotal + order.Tax + order.Tip)

	return detail, nil
}

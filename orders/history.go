package orders

import (
	"context"
	"sort"

	"github.com/foodworks/orderflow/core"
)

// History lists the session's past orders.
type History struct {
	api    HistoryAPI
	logger core.Logger
}

// NewHistory creates a History lister.
func NewHistory(api HistoryAPI) *History {
	return &History{
		api:    api,
		logger: &core.NoOpLogger{},
	}
}

// SetLogger configures the logger for this lister.
func (h *History) SetLogger(logger core.Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// List returns all orders newest-first. The ordering is a display
// contract, not a server guarantee, so the sort always happens here
// even when the backend returns pre-sorted data.
func (h *History) List(ctx context.Context) ([]core.Order, error) {
	orders, err := h.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderTime.After(orders[j].OrderTime)
	})

	h.logger.Debug("Orders listed", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

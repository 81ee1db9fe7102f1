package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodworks/orderflow/core"
	"github.com/foodworks/orderflow/menu"
)

type fakeHistoryAPI struct {
	order     core.Order
	orderErr  error
	items     []core.OrderItem
	itemsErr  error
	orders    []core.Order
	ordersErr error
	menuItems []core.MenuItem
	menuErr   error
}

func (f *fakeHistoryAPI) GetOrder(ctx context.Context, orderID int) (core.Order, error) {
	return f.order, f.orderErr
}

func (f *fakeHistoryAPI) ListOrderItems(ctx context.Context, orderID int) ([]core.OrderItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeHistoryAPI) ListOrders(ctx context.Context) ([]core.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeHistoryAPI) ListMenuItems(ctx context.Context) ([]core.MenuItem, error) {
	return f.menuItems, f.menuErr
}

func newAssembler(api *fakeHistoryAPI) *Assembler {
	return NewAssembler(api, menu.NewLookup(api, 0))
}

func TestAssemble(t *testing.T) {
	api := &fakeHistoryAPI{
		order: core.Order{ID: 42, Tax: 1.79, Tip: 3.00, Status: "completed"},
		items: []core.OrderItem{
			{ID: 1, OrderID: 42, ItemID: 1, Price: 10.00},
			{ID: 2, OrderID: 42, ItemID: 1, Price: 10.00},
			{ID: 3, OrderID: 42, ItemID: 2, Price: 5.50},
		},
		menuItems: []core.MenuItem{
			{ID: 1, Name: "Burger", Price: 10.00, ImageURL: "/burger.jpg", Available: true},
			{ID: 2, Name: "Fries", Price: 5.50, ImageURL: "/fries.jpg", Available: false},
		},
	}

	detail, err := newAssembler(api).Assemble(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, detail.Items, 3)
	assert.Equal(t, "Burger", detail.Items[0].Name)
	assert.Equal(t, "/burger.jpg", detail.Items[0].ImageURL)
	assert.Equal(t, "Fries", detail.Items[2].Name, "unavailable items still resolve in history")

	assert.Equal(t, 25.50, detail.Subtotal)
	assert.Equal(t, 30.29, detail.Total, "subtotal + tax + tip")
}

func TestAssembleUnknownItemFallback(t *testing.T) {
	api := &fakeHistoryAPI{
		order: core.Order{ID: 42},
		items: []core.OrderItem{
			{ID: 1, OrderID: 42, ItemID: 99, Price: 7.00}, // removed from the catalog
			{ID: 2, OrderID: 42, ItemID: 1, Price: 10.00},
		},
		menuItems: []core.MenuItem{
			{ID: 1, Name: "Burger", Price: 10.00, ImageURL: "/burger.jpg", Available: true},
		},
	}

	detail, err := newAssembler(api).Assemble(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, detail.Items, 2, "lines with no catalog entry are kept")
	assert.Equal(t, core.UnknownItemName, detail.Items[0].Name)
	assert.Equal(t, core.PlaceholderImage, detail.Items[0].ImageURL)
	assert.Equal(t, 7.00, detail.Items[0].Price, "historical price survives the drift")
	assert.Equal(t, 17.00, detail.Subtotal)
}

func TestAssembleIdentifiesFailedResource(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeHistoryAPI)
		wantOp string
	}{
		{
			"order fetch fails",
			func(f *fakeHistoryAPI) {
				f.orderErr = core.NewError("client.GetOrder", core.KindNotFound, core.ErrOrderNotFound)
			},
			"client.GetOrder",
		},
		{
			"items fetch fails",
			func(f *fakeHistoryAPI) {
				f.itemsErr = core.NewError("client.ListOrderItems", core.KindTransport, core.ErrRequestFailed)
			},
			"client.ListOrderItems",
		},
		{
			"menu fetch fails",
			func(f *fakeHistoryAPI) {
				f.menuErr = core.NewError("client.ListMenuItems", core.KindTransport, core.ErrRequestFailed)
			},
			"client.ListMenuItems",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeHistoryAPI{
				order:     core.Order{ID: 42},
				items:     []core.OrderItem{{ID: 1, OrderID: 42, ItemID: 1, Price: 10.00}},
				menuItems: []core.MenuItem{{ID: 1, Name: "Burger"}},
			}
			tt.mutate(api)

			_, err := newAssembler(api).Assemble(context.Background(), 42)
			require.Error(t, err)

			var structured *core.Error
			require.True(t, errors.As(err, &structured))
			assert.Equal(t, tt.wantOp, structured.Op, "error must name the failed resource")
		})
	}
}

func TestAssembleEmptyOrder(t *testing.T) {
	api := &fakeHistoryAPI{
		order: core.Order{ID: 42, Tax: 0.50, Tip: 1.00},
		items: nil,
	}

	detail, err := newAssembler(api).Assemble(context.Background(), 42)
	require.NoError(t, err)

	assert.Empty(t, detail.Items)
	assert.Equal(t, 0.0, detail.Subtotal)
	assert.Equal(t, 1.50, detail.Total)
}

func TestListNewestFirst(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	t3 := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)

	api := &fakeHistoryAPI{
		orders: []core.Order{
			{ID: 1, OrderTime: t1},
			{ID: 3, OrderTime: t3},
			{ID: 2, OrderTime: t2},
		},
	}

	got, err := NewHistory(api).List(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestListSortsEvenWhenPreSorted(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	api := &fakeHistoryAPI{
		orders: []core.Order{
			{ID: 2, OrderTime: t2},
			{ID: 1, OrderTime: t1},
		},
	}

	got, err := NewHistory(api).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 1, got[1].ID)
}

func TestListPropagatesError(t *testing.T) {
	api := &fakeHistoryAPI{
		ordersErr: core.NewError("client.ListOrders", core.KindTransport, core.ErrRequestFailed),
	}

	_, err := NewHistory(api).List(context.Background())
	require.ErrorIs(t, err, core.ErrRequestFailed)
}

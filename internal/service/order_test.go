package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant_admin/internal/events"
	"github.com/Skotchmaster/restaurant_admin/internal/models"
	"github.com/Skotchmaster/restaurant_admin/internal/transport"
)

func newOrderService(t *testing.T) (*OrderService, *MenuService, *recordingPublisher) {
	t.Helper()
	r := newTestRepo(t)
	pub := &recordingPublisher{}
	return &OrderService{Repo: r, Events: pub, Topic: "order_events"},
		&MenuService{Repo: r, Events: pub, Topic: "menu_events"},
		pub
}

func TestCreateOrder_FreezesUnitPrice(t *testing.T) {
	t.Parallel()

	orders, menus, pub := newOrderService(t)
	ctx := context.Background()
	tea := seedMenu(t, orders.Repo, "Tea", "8000", true)

	created, err := orders.CreateOrder(ctx, transport.CreateOrderRequest{
		CustomerName: "Budi",
		Items:        []transport.OrderItemRequest{{MenuID: tea.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assertDecimal(t, "24000", created.Total)
	require.Len(t, created.Lines, 1)
	assertDecimal(t, "8000", created.Lines[0].UnitPrice)
	assert.Equal(t, "Tea", created.Lines[0].MenuName())

	_, err = menus.PatchMenu(ctx, tea.ID, transport.PatchMenuRequest{Price: decPtr("9000")})
	require.NoError(t, err)

	again, err := orders.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assertDecimal(t, "24000", again.Total)
	assertDecimal(t, "8000", again.Lines[0].UnitPrice)

	var orderEvents []publishedEvent
	for _, e := range pub.all() {
		if e.Topic == "order_events" {
			orderEvents = append(orderEvents, e)
		}
	}
	require.Len(t, orderEvents, 1)
	ev, ok := orderEvents[0].Event.(events.OrderEvent)
	require.True(t, ok)
	assert.Equal(t, events.OrderCreated, ev.Type)
	assert.Equal(t, created.ID, ev.OrderID)
}

func TestCreateOrder_TotalMatchesLines(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	nasi := seedMenu(t, orders.Repo, "Nasi Goreng Special", "25000", true)
	jeruk := seedMenu(t, orders.Repo, "Es Jeruk", "12000.50", true)

	created, err := orders.CreateOrder(context.Background(), transport.CreateOrderRequest{
		CustomerName: "Sari",
		Notes:        "no chili",
		Items: []transport.OrderItemRequest{
			{MenuID: nasi.ID, Quantity: 2},
			{MenuID: jeruk.ID, Quantity: 3},
			{MenuID: nasi.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Lines, 3)
	assertDecimal(t, "111001.5", created.Total)
	assertDecimal(t, CalculateTotal(created.Lines).String(), created.Total)
	assert.Equal(t, "no chili", created.Notes)
}

func TestCreateOrder_ValidationPersistsNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  func(menuID uint) transport.CreateOrderRequest
		msg  string
	}{
		{
			name: "blank customer",
			req: func(id uint) transport.CreateOrderRequest {
				return transport.CreateOrderRequest{CustomerName: "  ", Items: []transport.OrderItemRequest{{MenuID: id, Quantity: 1}}}
			},
			msg: "customer_name",
		},
		{
			name: "no items",
			req: func(uint) transport.CreateOrderRequest {
				return transport.CreateOrderRequest{CustomerName: "Budi"}
			},
			msg: "items",
		},
		{
			name: "missing menu id",
			req: func(id uint) transport.CreateOrderRequest {
				return transport.CreateOrderRequest{CustomerName: "Budi", Items: []transport.OrderItemRequest{{MenuID: id, Quantity: 1}, {Quantity: 1}}}
			},
			msg: "items[1].menu_id",
		},
		{
			name: "zero quantity",
			req: func(id uint) transport.CreateOrderRequest {
				return transport.CreateOrderRequest{CustomerName: "Budi", Items: []transport.OrderItemRequest{{MenuID: id}}}
			},
			msg: "items[0].quantity",
		},
		{
			name: "negative quantity",
			req: func(id uint) transport.CreateOrderRequest {
				return transport.CreateOrderRequest{CustomerName: "Budi", Items: []transport.OrderItemRequest{{MenuID: id, Quantity: -2}}}
			},
			msg: "items[0].quantity",
		},
		{
			name: "quantity above cap",
			req: func(id uint) transport.CreateOrderRequest {
				return transport.CreateOrderRequest{CustomerName: "Budi", Items: []transport.OrderItemRequest{{MenuID: id, Quantity: MaxLineQuantity + 1}}}
			},
			msg: "items[0].quantity must not exceed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orders, _, pub := newOrderService(t)
			tea := seedMenu(t, orders.Repo, "Tea", "8000", true)

			res, err := orders.CreateOrder(context.Background(), tt.req(tea.ID))
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Zero(t, countRows(t, orders.Repo, &models.Order{}))
			assert.Zero(t, countRows(t, orders.Repo, &models.OrderLine{}))
			assert.Empty(t, pub.all())
		})
	}
}

func TestCreateOrder_UnknownMenuRollsBack(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	tea := seedMenu(t, orders.Repo, "Tea", "8000", true)

	_, err := orders.CreateOrder(context.Background(), transport.CreateOrderRequest{
		CustomerName: "Budi",
		Items: []transport.OrderItemRequest{
			{MenuID: tea.ID, Quantity: 1},
			{MenuID: tea.ID + 100, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "items[1]")
	assert.Zero(t, countRows(t, orders.Repo, &models.Order{}))
	assert.Zero(t, countRows(t, orders.Repo, &models.OrderLine{}))
}

func TestCreateOrder_UnavailableMenuConflicts(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	sold := seedMenu(t, orders.Repo, "Rendang Daging", "35000", false)

	_, err := orders.CreateOrder(context.Background(), transport.CreateOrderRequest{
		CustomerName: "Budi",
		Items:        []transport.OrderItemRequest{{MenuID: sold.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "Rendang Daging")
	assert.Zero(t, countRows(t, orders.Repo, &models.Order{}))
}

func TestCreateOrder_TotalOverflowRejected(t *testing.T) {
	t.Parallel()

	orders, _, pub := newOrderService(t)
	feast := seedMenu(t, orders.Repo, "Royal Feast", "99999999", true)

	_, err := orders.CreateOrder(context.Background(), transport.CreateOrderRequest{
		CustomerName: "Budi",
		Items:        []transport.OrderItemRequest{{MenuID: feast.ID, Quantity: 101}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "order total")
	assert.Zero(t, countRows(t, orders.Repo, &models.Order{}))
	assert.Empty(t, pub.all())
}

func TestUpdateOrder_TotalOverflowKeepsLines(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	o, _ := createTeaOrder(t, orders, 3)
	feast := seedMenu(t, orders.Repo, "Royal Feast", "99999999", true)

	items := []transport.OrderItemRequest{{MenuID: feast.ID, Quantity: 101}}
	_, err := orders.UpdateOrder(context.Background(), o.ID, transport.UpdateOrderRequest{Items: &items})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := orders.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assertDecimal(t, "24000", got.Total)
}

func createTeaOrder(t *testing.T, orders *OrderService, qty int) (*models.Order, models.MenuItem) {
	t.Helper()
	tea := seedMenu(t, orders.Repo, "Tea", "8000", true)
	o, err := orders.CreateOrder(context.Background(), transport.CreateOrderRequest{
		CustomerName: "Budi",
		Items:        []transport.OrderItemRequest{{MenuID: tea.ID, Quantity: qty}},
	})
	require.NoError(t, err)
	return o, tea
}

func TestUpdateOrder_ReplacesLinesAndRecomputes(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	ctx := context.Background()
	o, tea := createTeaOrder(t, orders, 3)
	pisang := seedMenu(t, orders.Repo, "Pisang Goreng", "15000", true)

	items := []transport.OrderItemRequest{{MenuID: pisang.ID, Quantity: 2}, {MenuID: tea.ID, Quantity: 1}}
	updated, err := orders.UpdateOrder(ctx, o.ID, transport.UpdateOrderRequest{Items: &items})
	require.NoError(t, err)

	require.Len(t, updated.Lines, 2)
	assertDecimal(t, "38000", updated.Total)
	assertDecimal(t, CalculateTotal(updated.Lines).String(), updated.Total)
	assert.Equal(t, int64(2), countRows(t, orders.Repo, &models.OrderLine{}))
	assert.Equal(t, "Budi", updated.CustomerName)
}

func TestUpdateOrder_EmptyReplacementZeroesTotal(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	o, _ := createTeaOrder(t, orders, 2)

	items := []transport.OrderItemRequest{}
	updated, err := orders.UpdateOrder(context.Background(), o.ID, transport.UpdateOrderRequest{Items: &items})
	require.NoError(t, err)
	assert.Empty(t, updated.Lines)
	assert.True(t, updated.Total.IsZero())
}

func TestUpdateOrder_PartialFieldsKeepLines(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	o, _ := createTeaOrder(t, orders, 3)

	updated, err := orders.UpdateOrder(context.Background(), o.ID, transport.UpdateOrderRequest{
		CustomerName: strPtr("Budi Santoso"),
		Notes:        strPtr("table 4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", updated.CustomerName)
	assert.Equal(t, "table 4", updated.Notes)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
	require.Len(t, updated.Lines, 1)
	assertDecimal(t, "24000", updated.Total)
}

func TestUpdateOrder_InvalidStatusLeavesOrder(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	ctx := context.Background()
	o, _ := createTeaOrder(t, orders, 1)

	_, err := orders.UpdateOrder(ctx, o.ID, transport.UpdateOrderRequest{
		Status: strPtr("shipped"),
		Notes:  strPtr("should not stick"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	again, err := orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, again.Status)
	assert.Empty(t, again.Notes)
}

func TestUpdateOrder_FailedReplacementIsAtomic(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	ctx := context.Background()
	o, tea := createTeaOrder(t, orders, 3)
	sold := seedMenu(t, orders.Repo, "Sate Ayam", "30000", false)

	tests := []struct {
		name  string
		items []transport.OrderItemRequest
		want  error
	}{
		{name: "unknown menu", items: []transport.OrderItemRequest{{MenuID: tea.ID, Quantity: 1}, {MenuID: 9999, Quantity: 1}}, want: ErrNotFound},
		{name: "unavailable menu", items: []transport.OrderItemRequest{{MenuID: sold.ID, Quantity: 1}}, want: ErrConflict},
		{name: "bad quantity", items: []transport.OrderItemRequest{{MenuID: tea.ID, Quantity: 0}}, want: ErrValidation},
	}

	for _, tt := range tests {
		items := tt.items
		_, err := orders.UpdateOrder(ctx, o.ID, transport.UpdateOrderRequest{
			CustomerName: strPtr("Changed"),
			Items:        &items,
		})
		require.Error(t, err, tt.name)
		assert.ErrorIs(t, err, tt.want, tt.name)

		again, err := orders.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, "Budi", again.CustomerName, tt.name)
		require.Len(t, again.Lines, 1, tt.name)
		assertDecimal(t, "24000", again.Total)
	}
}

func TestUpdateOrder_NotFound(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)

	_, err := orders.UpdateOrder(context.Background(), 404, transport.UpdateOrderRequest{Notes: strPtr("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrder_BlankCustomerRejected(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	o, _ := createTeaOrder(t, orders, 1)

	_, err := orders.UpdateOrder(context.Background(), o.ID, transport.UpdateOrderRequest{CustomerName: strPtr(" ")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatus_AnyTransition(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	ctx := context.Background()
	o, _ := createTeaOrder(t, orders, 1)

	for _, st := range []string{"completed", "cancelled", "pending", "completed"} {
		updated, err := orders.UpdateStatus(ctx, o.ID, st)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatus(st), updated.Status)
		assertDecimal(t, "8000", updated.Total)
	}

	_, err := orders.UpdateStatus(ctx, o.ID, "Completed")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteOrder_RemovesLines(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	ctx := context.Background()
	o, _ := createTeaOrder(t, orders, 2)

	require.NoError(t, orders.DeleteOrder(ctx, o.ID))
	assert.Zero(t, countRows(t, orders.Repo, &models.Order{}))
	assert.Zero(t, countRows(t, orders.Repo, &models.OrderLine{}))

	err := orders.DeleteOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = orders.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders_FilterAndPaging(t *testing.T) {
	t.Parallel()

	orders, _, _ := newOrderService(t)
	ctx := context.Background()
	tea := seedMenu(t, orders.Repo, "Tea", "8000", true)

	var ids []uint
	for i := 0; i < 5; i++ {
		o, err := orders.CreateOrder(ctx, transport.CreateOrderRequest{
			CustomerName: "Guest",
			Items:        []transport.OrderItemRequest{{MenuID: tea.ID, Quantity: i + 1}},
		})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := orders.UpdateStatus(ctx, ids[0], "completed")
	require.NoError(t, err)
	_, err = orders.UpdateStatus(ctx, ids[1], "completed")
	require.NoError(t, err)

	total, page, err := orders.ListOrders(ctx, "", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	require.Len(t, page[0].Lines, 1)

	total, done, err := orders.ListOrders(ctx, "completed", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, o := range done {
		assert.Equal(t, models.OrderStatusCompleted, o.Status)
	}

	_, _, err = orders.ListOrders(ctx, "lost", 0, 10)
	assert.ErrorIs(t, err, ErrValidation)

	all, err := orders.OrdersForReport(ctx, "pending")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/apperror"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

type engineFixture struct {
	store  *memory.Store
	svc    *OrderService
	events *recordingPublisher
	cache  *fakeCache
	user   *entity.User
	admin  *entity.User
}

func newEngine(t *testing.T, opts OrderOptions) *engineFixture {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	cache := &fakeCache{}
	ctx := context.Background()

	user := &entity.User{Name: "Ana", Email: "ana@test.com", Role: entity.RoleUser}
	admin := &entity.User{Name: "Root", Email: "root@test.com", Role: entity.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, user))
	require.NoError(t, store.Users().Create(ctx, admin))

	svc := NewOrderService(store.Orders(), store.Products(), store.Users(), cache, pub, helpers.NewDiscardLogger(), opts)
	return &engineFixture{store: store, svc: svc, events: pub, cache: cache, user: user, admin: admin}
}

func (f *engineFixture) product(t *testing.T, name string, price float64, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *engineFixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *engineFixture) order(t *testing.T, items ...entity.LineItem) *entity.Order {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{UserID: f.user.ID, Items: items})
	require.NoError(t, err)
	return o
}

func TestOrderLifecycleRestoresStock(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 12.5, 5)

	o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 2})
	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Equal(t, 25.0, o.TotalAmount)
	assert.Equal(t, f.user.ID, o.UserID)
	assert.Equal(t, 3, f.stock(t, p.ID))

	cancelled, err := f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	assert.Equal(t, 5, f.stock(t, p.ID))

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
	assert.True(t, apperror.Is(err, apperror.NoOpTransition))
	assert.Equal(t, "order status is already cancelled", err.Error())
	assert.Equal(t, 5, f.stock(t, p.ID))

	assert.Equal(t, []string{events.OrderCreated, events.OrderStatusChanged}, f.events.types())
	changed := f.events.events[1]
	assert.Equal(t, "pending", changed.PreviousStatus)
	assert.Equal(t, "cancelled", changed.Status)
	assert.Equal(t, "ana@test.com", changed.UserEmail)
	assert.Len(t, changed.Items, 1)
}

func TestCreateOrderPartialFailureKeepsEarlierDecrements(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	a := f.product(t, "A", 1, 5)
	b := f.product(t, "B", 1, 1)
	c := f.product(t, "C", 1, 5)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: f.user.ID,
		Items: []entity.LineItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 3},
			{ProductID: c.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.InsufficientStock))
	assert.Equal(t, apperror.KindBusinessRule, apperror.CodeOf(err).Kind())

	assert.Equal(t, 3, f.stock(t, a.ID), "earlier item stays decremented")
	assert.Equal(t, 1, f.stock(t, b.ID))
	assert.Equal(t, 5, f.stock(t, c.ID), "later item untouched")
	assert.Empty(t, f.events.types())

	orders, err := f.store.Orders().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCreateOrderSameProductTwiceSeesPriorDecrement(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	p := f.product(t, "Mug", 2, 3)

	_, err := f.svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: f.user.ID,
		Items:  []entity.LineItem{{ProductID: p.ID, Quantity: 2}, {ProductID: p.ID, Quantity: 2}},
	})
	assert.True(t, apperror.Is(err, apperror.InsufficientStock))
	assert.Equal(t, 1, f.stock(t, p.ID))
}

func TestCreateOrderErrors(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 2, 3)

	_, err := f.svc.CreateOrder(ctx, CreateOrderInput{UserID: f.user.ID})
	assert.True(t, apperror.Is(err, apperror.Validation))

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{UserID: f.user.ID, Items: []entity.LineItem{{ProductID: p.ID, Quantity: 0}}})
	assert.True(t, apperror.Is(err, apperror.Validation))

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{UserID: missingID, Items: []entity.LineItem{{ProductID: p.ID, Quantity: 1}}})
	assert.True(t, apperror.Is(err, apperror.UserNotFound))
	assert.Equal(t, 3, f.stock(t, p.ID))

	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{UserID: f.user.ID, Items: []entity.LineItem{{ProductID: missingID, Quantity: 1}}})
	assert.True(t, apperror.Is(err, apperror.ProductNotFound))
	assert.Equal(t, "product not found: "+missingID, err.Error())
}

func TestCreateOrderTotalIsExact(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	a := f.product(t, "A", 0.1, 10)
	b := f.product(t, "B", 0.2, 10)

	o := f.order(t, entity.LineItem{ProductID: a.ID, Quantity: 3}, entity.LineItem{ProductID: b.ID, Quantity: 1})
	assert.Equal(t, 0.5, o.TotalAmount)
}

func TestSameStatusIsAlwaysNoOp(t *testing.T) {
	for _, status := range entity.OrderStatuses {
		t.Run(string(status), func(t *testing.T) {
			f := newEngine(t, OrderOptions{})
			ctx := context.Background()
			p := f.product(t, "Mug", 1, 10)
			o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 1})
			if status != entity.OrderPending {
				_, err := f.svc.UpdateOrderStatus(ctx, o.ID, status)
				require.NoError(t, err)
			}
			before := f.stock(t, p.ID)

			_, err := f.svc.UpdateOrderStatus(ctx, o.ID, status)
			assert.True(t, apperror.Is(err, apperror.NoOpTransition))
			assert.Equal(t, before, f.stock(t, p.ID))
		})
	}
}

func TestCancelRestoresWithoutCeiling(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 1, 4)
	o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 4})

	// Restock to the original level behind the engine's back.
	_, err := f.store.Products().IncrementStock(ctx, p.ID, 4)
	require.NoError(t, err)

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, 8, f.stock(t, p.ID))
}

func TestReactivatingCancelledOrderReservesAgain(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 1, 5)
	o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 2})

	_, err := f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
	require.NoError(t, err)
	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderSent)
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, p.ID))
}

func TestReactivationFailsOnInsufficientStock(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 1, 2)
	o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 2})

	_, err := f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
	require.NoError(t, err)
	_, err = f.store.Products().DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderPending)
	assert.True(t, apperror.Is(err, apperror.InsufficientStock))

	current, err := f.store.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, current.Status, "status is not persisted when stock fails")
}

func TestActiveToActiveTransition(t *testing.T) {
	t.Run("default reserves twice", func(t *testing.T) {
		f := newEngine(t, OrderOptions{})
		p := f.product(t, "Mug", 1, 10)
		o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 3})

		_, err := f.svc.UpdateOrderStatus(context.Background(), o.ID, entity.OrderSent)
		require.NoError(t, err)
		assert.Equal(t, 4, f.stock(t, p.ID))
	})

	t.Run("restore before reserve is neutral", func(t *testing.T) {
		f := newEngine(t, OrderOptions{RestoreBeforeReserve: true})
		ctx := context.Background()
		p := f.product(t, "Mug", 1, 10)
		o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 3})

		_, err := f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderSent)
		require.NoError(t, err)
		assert.Equal(t, 7, f.stock(t, p.ID))

		_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderPending)
		require.NoError(t, err)
		assert.Equal(t, 7, f.stock(t, p.ID))

		_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, 10, f.stock(t, p.ID))
	})
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()

	_, err := f.svc.UpdateOrderStatus(ctx, missingID, entity.OrderSent)
	assert.True(t, apperror.Is(err, apperror.OrderNotFound))

	_, err = f.svc.UpdateOrderStatus(ctx, missingID, entity.OrderStatus("shipped"))
	assert.True(t, apperror.Is(err, apperror.Validation))

	p := f.product(t, "Mug", 1, 5)
	o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 1})
	_, err = f.store.Products().Delete(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, entity.OrderCancelled)
	assert.True(t, apperror.Is(err, apperror.ProductNotFound))
}

func TestStockNeverNegative(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 1, 3)

	var ids []string
	for i := 0; i < 5; i++ {
		o, err := f.svc.CreateOrder(ctx, CreateOrderInput{UserID: f.user.ID, Items: []entity.LineItem{{ProductID: p.ID, Quantity: 1}}})
		if err == nil {
			ids = append(ids, o.ID)
		}
		assert.GreaterOrEqual(t, f.stock(t, p.ID), 0)
	}
	assert.Len(t, ids, 3)

	steps := []entity.OrderStatus{entity.OrderSent, entity.OrderCancelled, entity.OrderPending, entity.OrderCancelled, entity.OrderSent}
	for _, id := range ids {
		for _, st := range steps {
			_, _ = f.svc.UpdateOrderStatus(ctx, id, st)
			assert.GreaterOrEqual(t, f.stock(t, p.ID), 0)
		}
	}
}

func TestGetOrdersForRequester(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Mug", 1, 10)

	_, err := f.svc.GetOrdersForRequester(ctx, f.user.Email)
	assert.True(t, apperror.Is(err, apperror.NoOrdersFound))

	_, err = f.svc.GetOrdersForRequester(ctx, "ghost@test.com")
	assert.True(t, apperror.Is(err, apperror.UserNotFound))

	mine := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 1})
	_, err = f.svc.CreateOrder(ctx, CreateOrderInput{UserID: f.admin.ID, Items: []entity.LineItem{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	own, err := f.svc.GetOrdersForRequester(ctx, "ANA@test.com")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)

	all, err := f.svc.GetOrdersForRequester(ctx, f.admin.Email)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	f.events.err = errBoom
	p := f.product(t, "Mug", 1, 1)

	o := f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 1})
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, []string{events.OrderCreated}, f.events.types())
}

func TestStockChangesInvalidateProductCache(t *testing.T) {
	f := newEngine(t, OrderOptions{})
	p := f.product(t, "Mug", 1, 5)

	f.order(t, entity.LineItem{ProductID: p.ID, Quantity: 1})
	assert.Positive(t, f.cache.invalidated)
}

package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/apperror"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
)

// OrderService is the inventory and order engine.
//
// Stock moves one line item at a time through the repository's conditional
// decrement, so a product can never be oversold. A failure part way through
// an order leaves the earlier line items decremented; nothing is rolled back.
type OrderService struct {
	Orders   repo.OrderRepository
	Products repo.ProductRepository
	Users    repo.UserRepository
	Cache    ProductCache
	Events   events.Publisher
	Logger   *logrus.Logger

	// RestoreBeforeReserve makes pending<->sent transitions stock neutral by
	// returning the existing reservation before taking a new one. When false
	// such a transition reserves the quantities a second time.
	RestoreBeforeReserve bool
}

type OrderOptions struct {
	RestoreBeforeReserve bool
}

func NewOrderService(orders repo.OrderRepository, products repo.ProductRepository, users repo.UserRepository,
	cache ProductCache, publisher events.Publisher, logger *logrus.Logger, opts OrderOptions) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		Orders:               orders,
		Products:             products,
		Users:                users,
		Cache:                cache,
		Events:               publisher,
		Logger:               logger,
		RestoreBeforeReserve: opts.RestoreBeforeReserve,
	}
}

type CreateOrderInput struct {
	UserID string
	Items  []entity.LineItem
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, apperror.New(apperror.Validation, "products are required")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperror.New(apperror.Validation, "quantity must be positive for productId: %s", it.ProductID)
		}
	}

	user, err := s.Users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.New(apperror.UserNotFound, "user not found")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "lookup user")
	}

	total := decimal.Zero
	for _, it := range in.Items {
		p, err := s.reserve(ctx, it)
		if err != nil {
			s.invalidate(ctx)
			return nil, err
		}
		// Price is captured from the same write that took the stock.
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s.invalidate(ctx)

	order := &entity.Order{
		UserID:      user.ID,
		Products:    append([]entity.LineItem(nil), in.Items...),
		TotalAmount: total.Round(2).InexactFloat64(),
		Status:      entity.OrderPending,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "create order")
	}

	ordersCreated.Add(1)
	s.publish(ctx, events.OrderCreated, order, "", user)
	return order, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, apperror.New(apperror.Validation, "status must be either sent, cancelled or pending")
	}

	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.New(apperror.OrderNotFound, "order not found")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "lookup order")
	}
	if order.Status == status {
		return nil, apperror.New(apperror.NoOpTransition, "order status is already %s", status)
	}
	previous := order.Status

	if s.RestoreBeforeReserve && previous.Active() && status.Active() {
		if err := s.restoreAll(ctx, order.Products); err != nil {
			return nil, err
		}
	}

	if status == entity.OrderCancelled {
		if err := s.restoreAll(ctx, order.Products); err != nil {
			return nil, err
		}
	}

	if status == entity.OrderSent || status == entity.OrderPending {
		for _, it := range order.Products {
			if _, err := s.reserve(ctx, it); err != nil {
				s.invalidate(ctx)
				return nil, err
			}
		}
	}
	s.invalidate(ctx)

	updated, err := s.Orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.New(apperror.OrderNotFound, "order not found")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "update order status")
	}
	if updated == nil {
		updated = &entity.Order{ID: orderID, Status: status}
	}

	ordersStatusChanged.Add(1)
	s.publish(ctx, events.OrderStatusChanged, withItems(updated, order), previous, s.owner(ctx, order.UserID))
	return updated, nil
}

// GetOrdersForRequester returns every order to an admin and only their own
// orders to anyone else. An empty result is reported as NoOrdersFound.
func (s *OrderService) GetOrdersForRequester(ctx context.Context, email string) ([]entity.Order, error) {
	user, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.New(apperror.UserNotFound, "user not found for orders")
		}
		return nil, apperror.Wrap(err, apperror.Internal, "lookup user")
	}

	var orders []entity.Order
	if user.IsAdmin() {
		orders, err = s.Orders.List(ctx)
	} else {
		orders, err = s.Orders.ListByUser(ctx, user.ID)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.Internal, "list orders")
	}
	if len(orders) == 0 {
		return nil, apperror.New(apperror.NoOrdersFound, "no orders found")
	}
	return orders, nil
}

func (s *OrderService) reserve(ctx context.Context, it entity.LineItem) (*entity.Product, error) {
	p, err := s.Products.DecrementStock(ctx, it.ProductID, it.Quantity)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, repo.ErrNotFound):
		return nil, apperror.New(apperror.ProductNotFound, "product not found: %s", it.ProductID)
	case errors.Is(err, repo.ErrInsufficientStock):
		stockRejections.Add(1)
		return nil, apperror.New(apperror.InsufficientStock, "insufficient stock for productId: %s", it.ProductID)
	}
	return nil, apperror.Wrap(err, apperror.Internal, "decrement stock")
}

// restoreAll returns every line item to stock. There is no upper bound.
func (s *OrderService) restoreAll(ctx context.Context, items []entity.LineItem) error {
	for _, it := range items {
		if _, err := s.Products.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			s.invalidate(ctx)
			if errors.Is(err, repo.ErrNotFound) {
				return apperror.New(apperror.ProductNotFound, "product not found: %s", it.ProductID)
			}
			return apperror.Wrap(err, apperror.Internal, "increment stock")
		}
	}
	return nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("product cache invalidate failed")
	}
}

// owner is best effort; events are still published without user details.
func (s *OrderService) owner(ctx context.Context, userID string) *entity.User {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	return u
}

// withItems fills the fields a bare store acknowledgement leaves empty.
func withItems(updated, original *entity.Order) *entity.Order {
	o := *updated
	if o.UserID == "" {
		o.UserID = original.UserID
	}
	if len(o.Products) == 0 {
		o.Products = original.Products
		o.TotalAmount = original.TotalAmount
	}
	return &o
}

func (s *OrderService) publish(ctx context.Context, typ string, o *entity.Order, previous entity.OrderStatus, user *entity.User) {
	if s.Events == nil {
		return
	}
	evt := events.OrderEvent{
		Type:           typ,
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         string(o.Status),
		PreviousStatus: string(previous),
		TotalAmount:    o.TotalAmount,
		OccurredAt:     time.Now().UTC(),
	}
	if user != nil {
		evt.UserName = user.Name
		evt.UserEmail = user.Email
	}
	for _, it := range o.Products {
		evt.Items = append(evt.Items, events.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := s.Events.Publish(ctx, evt); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"order_id": o.ID,
			"type":     typ,
		}).Warn("publish order event failed")
	}
}

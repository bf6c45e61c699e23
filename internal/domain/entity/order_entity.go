package entity

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCancelled OrderStatus = "cancelled"
	OrderSent      OrderStatus = "sent"
)

// OrderStatuses lists every status in declaration order.
var OrderStatuses = []OrderStatus{OrderPending, OrderCancelled, OrderSent}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCancelled, OrderSent:
		return true
	}
	return false
}

// Active reports whether an order in status s holds a stock reservation.
func (s OrderStatus) Active() bool {
	return s == OrderPending || s == OrderSent
}

// LineItem is a (product, quantity) pair inside an order.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is created together with its line items and total; afterwards only
// Status changes.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Products    []LineItem  `json:"products"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

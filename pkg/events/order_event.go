package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderEvent is published after an order is created or changes status.
type OrderEvent struct {
	Type           string    `json:"type"`
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName,omitempty"`
	UserEmail      string    `json:"userEmail,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	TotalAmount    float64   `json:"totalAmount"`
	Items          []Item    `json:"items,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher delivers order events to a message bus.
type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func Encode(evt OrderEvent) ([]byte, error) {
	return json.Marshal(evt)
}

func Decode(b []byte) (OrderEvent, error) {
	var evt OrderEvent
	err := json.Unmarshal(b, &evt)
	return evt, err
}

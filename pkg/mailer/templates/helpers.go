package templates

import (
	"time"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
)

// Item is one order line as shown in an email.
type Item struct {
	ProductID string
	Quantity  int
}

// OrderEmailData defines the fields the order templates read.
type OrderEmailData struct {
	Name           string
	RecipientEmail string

	OrderID        string
	Status         string
	PreviousStatus string
	TotalAmount    float64
	Items          []Item
	Time           string
	TimeAt         time.Time

	CompanyName string
	AppName     string
	SupportURL  string
}

// Option pattern
type Option func(*OrderEmailData)

func WithTime(t time.Time) Option {
	return func(d *OrderEmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithSupportURL(url string) Option {
	return func(d *OrderEmailData) { d.SupportURL = url }
}

// NewOrderEmailData fills the brand fields from config and the order fields
// from evt, then applies opts.
func NewOrderEmailData(cfg *config.Config, evt events.OrderEvent, opts ...Option) OrderEmailData {
	d := OrderEmailData{
		Name:           evt.UserName,
		RecipientEmail: evt.UserEmail,
		OrderID:        evt.OrderID,
		Status:         evt.Status,
		PreviousStatus: evt.PreviousStatus,
		TotalAmount:    evt.TotalAmount,
	}
	if cfg != nil {
		d.CompanyName = cfg.CompanyName
		d.AppName = cfg.AppName
		d.SupportURL = cfg.SupportURL
	}
	for _, it := range evt.Items {
		d.Items = append(d.Items, Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if !evt.OccurredAt.IsZero() {
		WithTime(evt.OccurredAt)(&d)
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

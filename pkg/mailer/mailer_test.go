package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
)

type captureSender struct {
	to, subject, text, html string
}

func (c *captureSender) Send(_ context.Context, to, subject, text, html string) error {
	c.to, c.subject, c.text, c.html = to, subject, text, html
	return nil
}

func TestBuildOrderJob_Created(t *testing.T) {
	cfg := &config.Config{CompanyName: "Acme", SupportURL: "https://acme.test/help"}
	evt := events.OrderEvent{
		Type:        events.OrderCreated,
		OrderID:     "65f1a2b3c4d5e6f708091a2b",
		UserName:    "Ana",
		UserEmail:   "ana@example.com",
		Status:      "pending",
		TotalAmount: 0.5,
		Items:       []events.Item{{ProductID: "p1", Quantity: 2}},
		OccurredAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	job, err := BuildOrderJob(cfg, evt)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", job.To)
	assert.Equal(t, "Acme: order 65f1a2b3c4d5e6f708091a2b received", job.Subject)
	assert.Contains(t, job.Text, "Hi Ana")
	assert.Contains(t, job.Text, "p1 x 2")
	assert.Contains(t, job.Text, "Total:  0.50")
	assert.Contains(t, job.Text, "01 March 2024, 10:30")
	assert.Contains(t, job.HTML, `<a href="https://acme.test/help">`)

	var s captureSender
	require.NoError(t, SendJob(context.Background(), &s, job))
	assert.Equal(t, job.Subject, s.subject)
	assert.Equal(t, job.HTML, s.html)
}

func TestBuildOrderJob_StatusChanged(t *testing.T) {
	evt := events.OrderEvent{
		Type:           events.OrderStatusChanged,
		OrderID:        "o1",
		UserEmail:      "bob@example.com",
		Status:         "cancelled",
		PreviousStatus: "pending",
		TotalAmount:    12,
	}

	job, err := BuildOrderJob(nil, evt)
	require.NoError(t, err)
	assert.Equal(t, "Shop: order o1 is now cancelled", job.Subject)
	assert.Contains(t, job.Text, "Hi there")
	assert.Contains(t, job.Text, "from Pending to Cancelled")
	assert.Contains(t, job.Text, "released")
	assert.Contains(t, job.HTML, "<strong>Cancelled</strong>")
}

func TestBuildOrderJob_Errors(t *testing.T) {
	_, err := BuildOrderJob(nil, events.OrderEvent{Type: events.OrderCreated})
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = BuildOrderJob(nil, events.OrderEvent{Type: "order.refunded", UserEmail: "a@b.c"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

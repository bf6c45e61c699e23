package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_KeepsFields(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := OrderEvent{
		Type:           OrderStatusChanged,
		OrderID:        "6630f1d2a1b2c3d4e5f60718",
		UserID:         "6630f1d2a1b2c3d4e5f60719",
		UserEmail:      "jane@example.com",
		Status:         "sent",
		PreviousStatus: "pending",
		TotalAmount:    42.5,
		Items:          []Item{{ProductID: "p1", Quantity: 2}},
		OccurredAt:     at,
	}

	b, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"previousStatus":"pending"`)
	assert.NotContains(t, string(b), "userName")

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in.OrderID, out.OrderID)
	assert.Equal(t, in.Items, out.Items)
	assert.True(t, at.Equal(out.OccurredAt))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{Type: OrderCreated}))
}

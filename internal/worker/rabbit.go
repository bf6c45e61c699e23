package worker

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

// RabbitSource consumes the order queue with manual acks.
type RabbitSource struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

// OpenRabbit dials url and declares queue. prefetch bounds unacked messages.
func OpenRabbit(url, queue string, prefetch int) (*RabbitSource, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Prefetch for fair dispatch between workers
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if err := helpers.DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitSource{conn: conn, ch: ch, Queue: queue}, nil
}

func (s *RabbitSource) Deliveries(ctx context.Context) (<-chan Delivery, error) {
	msgs, err := s.ch.ConsumeWithContext(ctx, s.Queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, err
	}
	return forward(ctx, msgs, fromAMQP), nil
}

func (s *RabbitSource) Close() {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

func fromAMQP(m amqp.Delivery) Delivery {
	return Delivery{
		Body: m.Body,
		Ack:  func() error { return m.Ack(false) },
		Nack: func(requeue bool) error { return m.Nack(false, requeue) },
	}
}

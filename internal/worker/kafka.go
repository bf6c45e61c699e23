package worker

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// MessageFetcher is the part of *kafka.Reader the source needs.
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSource reads a consumer group and commits offsets explicitly.
// A Kafka partition cannot redeliver one message, so both Ack and Nack commit.
type KafkaSource struct {
	r      MessageFetcher
	logger *logrus.Logger
}

func NewKafkaSource(r MessageFetcher, logger *logrus.Logger) *KafkaSource {
	return &KafkaSource{r: r, logger: logger}
}

func (s *KafkaSource) Deliveries(ctx context.Context) <-chan Delivery {
	in := make(chan kafka.Message)
	go func() {
		defer close(in)
		for {
			m, err := s.r.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() == nil && s.logger != nil {
					s.logger.WithError(err).Error("kafka fetch failed")
				}
				return
			}
			select {
			case in <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return forward(ctx, in, func(m kafka.Message) Delivery {
		return Delivery{
			Body: m.Value,
			Ack:  func() error { return s.commit(ctx, m) },
			Nack: func(bool) error { return s.commit(ctx, m) },
		}
	})
}

func (s *KafkaSource) commit(ctx context.Context, m kafka.Message) error {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return s.r.CommitMessages(c, m)
}

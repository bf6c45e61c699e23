package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDrop marks a message that can never be processed. It is acknowledged
// negatively without redelivery.
var ErrDrop = errors.New("drop message")

func drop(err error) error {
	return fmt.Errorf("%w: %v", ErrDrop, err)
}

// Delivery is one message from a bus, detached from the broker client.
type Delivery struct {
	Body []byte
	Ack  func() error
	// Nack rejects the message. Sources that cannot redeliver ignore requeue.
	Nack func(requeue bool) error
}

// Handler processes a message body.
type Handler interface {
	Handle(ctx context.Context, body []byte) error
}

type HandlerFunc func(ctx context.Context, body []byte) error

func (f HandlerFunc) Handle(ctx context.Context, body []byte) error { return f(ctx, body) }

// Runner feeds deliveries to a handler one at a time.
type Runner struct {
	Handler Handler
	Logger  *logrus.Logger
	// MaxAttempts is how often a failing message is handled before it is
	// nacked with requeue. Values below 1 mean 1.
	MaxAttempts int
	Backoff     time.Duration
}

// Run consumes until in is closed or ctx is done.
func (r *Runner) Run(ctx context.Context, in <-chan Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-in:
			if !ok {
				return
			}
			r.process(ctx, d)
		}
	}
}

func (r *Runner) process(ctx context.Context, d Delivery) {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = r.Handler.Handle(ctx, d.Body)
		if err == nil {
			if aerr := d.Ack(); aerr != nil {
				r.warn("ack failed", aerr)
			}
			return
		}
		if errors.Is(err, ErrDrop) {
			r.warn("dropping message", err)
			if nerr := d.Nack(false); nerr != nil {
				r.warn("nack failed", nerr)
			}
			return
		}
		if i < attempts && !r.sleep(ctx, i) {
			break
		}
	}
	r.warn("message failed", err)
	if nerr := d.Nack(true); nerr != nil {
		r.warn("nack failed", nerr)
	}
}

func (r *Runner) sleep(ctx context.Context, attempt int) bool {
	if r.Backoff <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(time.Duration(attempt) * r.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) warn(msg string, err error) {
	if r.Logger == nil {
		return
	}
	r.Logger.WithError(err).Warn(msg)
}

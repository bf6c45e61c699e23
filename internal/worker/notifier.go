package worker

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/mailer"
)

// Notifier turns order events into customer emails.
type Notifier struct {
	Cfg    *config.Config
	Mail   mailer.Sender
	Logger *logrus.Logger
}

func NewNotifier(cfg *config.Config, mail mailer.Sender, logger *logrus.Logger) *Notifier {
	return &Notifier{Cfg: cfg, Mail: mail, Logger: logger}
}

// Handle decodes, renders and sends. Bad payloads and events without a
// recipient or template are dropped; send errors are returned for retry.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	evt, err := events.Decode(body)
	if err != nil {
		return drop(err)
	}
	job, err := mailer.BuildOrderJob(n.Cfg, evt)
	if err != nil {
		// rendering is deterministic, a retry would fail the same way
		return drop(err)
	}
	if err := mailer.SendJob(ctx, n.Mail, job); err != nil {
		return err
	}
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{
			"order_id": evt.OrderID,
			"type":     evt.Type,
			"to":       job.To,
		}).Info("order email sent")
	}
	return nil
}

var _ Handler = (*Notifier)(nil)

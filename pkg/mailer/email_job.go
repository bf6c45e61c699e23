package mailer

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
	mailtpl "github.com/oksasatya/go-ddd-ecommerce/pkg/mailer/templates"
)

var (
	ErrNoRecipient     = errors.New("event has no recipient email")
	ErrUnknownTemplate = errors.New("no template for event type")
)

// EmailJob is a rendered message ready for a Sender.
// Html is optional; Text is the fallback body.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// BuildOrderJob renders the order_<type> templates for evt.
func BuildOrderJob(cfg *config.Config, evt events.OrderEvent) (EmailJob, error) {
	to := strings.TrimSpace(evt.UserEmail)
	if to == "" {
		return EmailJob{}, ErrNoRecipient
	}
	name, ok := mailtpl.NameFor(evt.Type)
	if !ok {
		return EmailJob{}, ErrUnknownTemplate
	}
	subject, text, html, err := mailtpl.Render(name, mailtpl.NewOrderEmailData(cfg, evt))
	if err != nil {
		return EmailJob{}, err
	}
	return EmailJob{To: to, Subject: subject, Text: text, HTML: html}, nil
}

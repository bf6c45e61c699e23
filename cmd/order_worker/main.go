package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/internal/worker"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/mailer"
)

const kafkaSendAttempts = 3

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-order-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; order worker disabled (no emails will be sent)")
		return
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier := worker.NewNotifier(cfg, mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), logger)
	runner := &worker.Runner{Handler: notifier, Logger: logger}

	var in <-chan worker.Delivery
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		src, err := worker.OpenRabbit(cfg.RabbitMQURL, cfg.RabbitMQOrderQueue, 16)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer src.Close()
		if in, err = src.Deliveries(ctx); err != nil {
			log.Fatalf("consume: %v", err)
		}
		// failed sends go back on the queue
		runner.MaxAttempts = 1
		logger.Infof("order worker listening on queue=%s", cfg.RabbitMQOrderQueue)

	case config.EventsKafka:
		reader := helpers.NewKafkaReader(cfg.KafkaBrokerList(), cfg.KafkaOrderTopic, cfg.KafkaGroupID)
		defer func() { _ = reader.Close() }()
		in = worker.NewKafkaSource(reader, logger).Deliveries(ctx)
		runner.MaxAttempts = kafkaSendAttempts
		runner.Backoff = 500 * time.Millisecond
		logger.Infof("order worker reading topic=%s group=%s", cfg.KafkaOrderTopic, cfg.KafkaGroupID)

	default:
		log.Fatalf("EVENTS_DRIVER=%q has no bus to consume", cfg.EventsDriver)
	}

	runner.Run(ctx, in)
	logger.Info("order worker stopped")
}

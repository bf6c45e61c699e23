package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/internal/container"
	"github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-ecommerce/internal/infrastructure/search"
	"github.com/oksasatya/go-ddd-ecommerce/internal/router"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	closeStore, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Redis backs the product cache, rate limits and token revocation
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.WithError(err).Warn("redis unreachable; cache, rate limits and logout disabled")
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			container.SetRedis(rdb)
			container.SetProductCache(cache.NewProductCache(rdb, cfg.ProductCacheTTL))
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		idx := search.NewProductIndex(es, cfg.ESProductsIndex)
		if err := idx.Ensure(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index unavailable; product search disabled")
		} else {
			container.SetProductIndex(idx)
		}
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetImageStore(helpers.NewGCSStore(gcsClient, cfg.GCSBucket))
	}

	closeEvents := openPublisher(cfg, logger)
	defer closeEvents()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.AppName))
	container.SetHasher(helpers.NewBcryptHasher(cfg.BcryptCost))

	r := router.NewEngine()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// openPublisher installs the order event publisher. A broker that cannot be
// reached leaves events disabled rather than blocking startup.
func openPublisher(cfg *config.Config, logger *logrus.Logger) func() {
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQOrderQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; order events disabled")
			return func() {}
		}
		container.SetPublisher(p)
		logger.WithField("queue", cfg.RabbitMQOrderQueue).Info("publishing order events to rabbitmq")
		return p.Close
	case config.EventsKafka:
		p := helpers.NewKafkaPublisher(cfg.KafkaBrokerList(), cfg.KafkaOrderTopic)
		container.SetPublisher(p)
		logger.WithField("topic", cfg.KafkaOrderTopic).Info("publishing order events to kafka")
		return func() { _ = p.Close() }
	case config.EventsNone, "":
		return func() {}
	}
	logger.WithField("driver", cfg.EventsDriver).Warn("unknown EVENTS_DRIVER; order events disabled")
	return func() {}
}

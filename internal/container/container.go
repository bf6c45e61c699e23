package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/internal/application"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/events"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

// app-level container shared by cmd and router init.
// Optional components (redis, cache, index, images) may stay nil.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager
	hasher      helpers.PasswordHasher

	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository

	productCache application.ProductCache
	productIndex application.ProductIndex
	imageStore   application.ImageStore
	publisher    events.Publisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetHasher(h helpers.PasswordHasher) { hasher = h }
func GetHasher() helpers.PasswordHasher {
	if hasher != nil {
		return hasher
	}
	return helpers.NewBcryptHasher(0)
}

// SetRepositories installs the store selected at startup.
func SetRepositories(u repository.UserRepository, p repository.ProductRepository, o repository.OrderRepository) {
	users, products, orders = u, p, o
}
func GetUsers() repository.UserRepository       { return users }
func GetProducts() repository.ProductRepository { return products }
func GetOrders() repository.OrderRepository     { return orders }

func SetProductCache(c application.ProductCache) { productCache = c }
func GetProductCache() application.ProductCache  { return productCache }
func SetProductIndex(x application.ProductIndex) { productIndex = x }
func GetProductIndex() application.ProductIndex  { return productIndex }
func SetImageStore(s application.ImageStore)     { imageStore = s }
func GetImageStore() application.ImageStore      { return imageStore }

func SetPublisher(p events.Publisher) { publisher = p }
func GetPublisher() events.Publisher {
	if publisher != nil {
		return publisher
	}
	return events.NopPublisher{}
}

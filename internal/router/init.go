package router

import (
	"github.com/oksasatya/go-ddd-ecommerce/internal/application"
	"github.com/oksasatya/go-ddd-ecommerce/internal/container"
	handlers "github.com/oksasatya/go-ddd-ecommerce/internal/interface/http"
	"github.com/oksasatya/go-ddd-ecommerce/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-ecommerce/internal/router/modules"
)

type moduleDeps struct {
	Auth    *handlers.AuthHandler
	Product *handlers.ProductHandler
	Order   *handlers.OrderHandler
}

func buildDeps() moduleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	authSvc := application.NewAuthService(container.GetUsers(), container.GetHasher(), container.GetJWT(), logger)
	catalogSvc := application.NewCatalogService(
		container.GetProducts(),
		container.GetProductCache(),
		container.GetProductIndex(),
		container.GetImageStore(),
		logger,
	)
	orderSvc := application.NewOrderService(
		container.GetOrders(),
		container.GetProducts(),
		container.GetUsers(),
		container.GetProductCache(),
		container.GetPublisher(),
		logger,
		application.OrderOptions{RestoreBeforeReserve: cfg.OrderRestoreBeforeReserve},
	)

	return moduleDeps{
		Auth:    handlers.NewAuthHandler(authSvc, container.GetRedis(), logger, cfg.CookieDomain, cfg.CookieSecure),
		Product: handlers.NewProductHandler(catalogSvc, logger),
		Order:   handlers.NewOrderHandler(orderSvc, logger),
	}
}

// InitModules wires every feature module into the registry. Call once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()
	jwt := container.GetJWT()
	logger := container.GetLogger()
	deps := buildDeps()

	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}

	r.Add(modules.NewAuthModule(deps.Auth, jwt, rdb, logger, allow))
	r.Add(modules.NewProductModule(deps.Product, jwt, rdb, logger, allow))
	r.Add(modules.NewOrderModule(deps.Order, jwt, rdb, logger, allow))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb, allow))
	}
}

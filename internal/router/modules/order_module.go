package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	handlers "github.com/oksasatya/go-ddd-ecommerce/internal/interface/http"
	"github.com/oksasatya/go-ddd-ecommerce/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

// OrderModule: listing and creation for any authenticated caller,
// status changes for admins only.
type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
	Logger  *logrus.Logger
	Allow   middleware.AllowFunc
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, allow middleware.AllowFunc) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt, RDB: rdb, Logger: logger, Allow: allow}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/orders")
	g.Use(
		middleware.Auth(m.JWT, m.RDB, m.Logger),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), m.Allow),
	)
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), m.Handler.UpdateStatus)
	}
}

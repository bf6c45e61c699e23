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

// ProductModule: every catalog route requires an admin token.
type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
	Logger  *logrus.Logger
	Allow   middleware.AllowFunc
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, allow middleware.AllowFunc) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt, RDB: rdb, Logger: logger, Allow: allow}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.Use(
		middleware.Auth(m.JWT, m.RDB, m.Logger),
		middleware.RequireRole(entity.RoleAdmin),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), m.Allow),
	)
	{
		g.GET("", m.Handler.List)
		g.GET("/search", m.Handler.Search)
		g.POST("", m.Handler.Create)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
		g.POST("/:id/image", m.Handler.UploadImage)
	}
}

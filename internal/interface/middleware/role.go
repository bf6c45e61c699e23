package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-ecommerce/internal/application"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/response"
)

// RequireRole must run after Auth.
func RequireRole(required entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRoleKey))
		if err := application.Authorize(role, required); err != nil {
			response.FromError(c, nil, err)
			return
		}
		c.Next()
	}
}

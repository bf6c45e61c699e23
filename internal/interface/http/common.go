package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/response"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/validation"
)

// bindJSON decodes and validates the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation errors", validation.ToDetails(err))
		return false
	}
	return true
}

// pathID returns the :id parameter when it is a well formed document id.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.IsObjectID(id) {
		response.Error[any](c, http.StatusBadRequest, "invalid id format", map[string]string{"id": "must be a valid id"})
		return "", false
	}
	return id, true
}

type userView struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
}

func viewUser(u *entity.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

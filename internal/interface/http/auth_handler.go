package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ecommerce/internal/application"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	RDB     *redis.Client
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, rdb *redis.Client, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, RDB: rdb, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,notblank,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,notblank,pwd"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.respond(c, http.StatusCreated, res, "registered")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.respond(c, http.StatusOK, res, "login successful")
}

func (h *AuthHandler) respond(c *gin.Context, status int, res *application.AuthResult, msg string) {
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, status, authResponse{Token: res.Token, User: viewUser(res.User)}, msg,
		map[string]any{"expires_at": res.ExpiresAt})
}

// Logout revokes the presented token until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := middleware.ClaimsFrom(c); ok && h.RDB != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := helpers.RevokeToken(c.Request.Context(), h.RDB, claims.ID, ttl); err != nil {
			helpers.LogWarn(h.Logger, "revoke token failed", err, logrus.Fields{"user_id": claims.UserID()})
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("mw-secret", time.Hour, "test")
}

func protected(jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	handlers := append([]gin.HandlerFunc{Auth(jwt, nil, helpers.NewDiscardLogger())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey)+"|"+c.GetString(CtxUserRoleKey))
	})
	r.GET("/p", handlers...)
	return r
}

func TestAuthAcceptsBearerAndCookie(t *testing.T) {
	jwt := newJWT()
	token, _, err := jwt.Generate(helpers.Identity{UserID: "u1", Email: "a@test.com", Role: "admin"})
	require.NoError(t, err)
	r := protected(jwt)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1|admin", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	r := protected(newJWT())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token is required")

	other := helpers.NewJWTManager("other", time.Hour, "test")
	token, _, err := other.Generate(helpers.Identity{UserID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestRequireRole(t *testing.T) {
	jwt := newJWT()
	r := protected(jwt, RequireRole(entity.RoleAdmin))

	userToken, _, err := jwt.Generate(helpers.Identity{UserID: "u1", Role: "user"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, _, err := jwt.Generate(helpers.Identity{UserID: "u2", Role: "admin"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "6a1f3bde-0c44-4b8e-9a44-6f0f0c1b2f10")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "6a1f3bde-0c44-4b8e-9a44-6f0f0c1b2f10", w.Body.String())
}

func TestRealIPAndAllowPrivate(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	allow := AllowPrivateIP()
	r.GET("/", func(c *gin.Context) {
		if allow(c) {
			c.String(http.StatusOK, "private:"+c.GetString(CtxRealIPKey))
			return
		}
		c.String(http.StatusOK, "public:"+c.GetString(CtxRealIPKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "public:203.0.113.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "192.168.1.5")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "private:192.168.1.5", w.Body.String())
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	var byIP, byPath, byUser string
	r.GET("/login", func(c *gin.Context) {
		byIP, byPath, byUser = KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "rl:ip:198.51.100.2", byIP)
	assert.Equal(t, "rl:path:/login:ip:198.51.100.2", byPath)
	assert.Equal(t, "rl:user:anon:ip:198.51.100.2", byUser)
}

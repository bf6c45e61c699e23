package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-ecommerce/pkg/apperror"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessWritesEnvelope(t *testing.T) {
	c, rec := newContext()
	Success(c, http.StatusCreated, map[string]string{"id": "1"}, "created", nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, map[string]any{"id": "1"}, body["data"])
}

func TestSuccessNoContentHasNoBody(t *testing.T) {
	c, rec := newContext()
	Success[any](c, http.StatusNoContent, nil, "", nil)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestFromErrorMapsCodes(t *testing.T) {
	cases := []struct {
		code   apperror.Code
		status int
	}{
		{apperror.Validation, http.StatusBadRequest},
		{apperror.InsufficientStock, http.StatusBadRequest},
		{apperror.NoOpTransition, http.StatusBadRequest},
		{apperror.Unauthorized, http.StatusUnauthorized},
		{apperror.InvalidCredentials, http.StatusUnauthorized},
		{apperror.Forbidden, http.StatusForbidden},
		{apperror.ProductNotFound, http.StatusNotFound},
		{apperror.NoOrdersFound, http.StatusNotFound},
		{apperror.DuplicateKey, http.StatusConflict},
		{apperror.EmailAlreadyRegistered, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.code.String(), func(t *testing.T) {
			c, rec := newContext()
			FromError(c, nil, apperror.New(tc.code, "boom"))

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "boom", body["error"])
			assert.True(t, c.IsAborted())
		})
	}
}

func TestFromErrorWithholdsInternalDetails(t *testing.T) {
	c, rec := newContext()
	FromError(c, nil, errors.New("mongo: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, rec.Body.String(), "mongo")
}

func TestFromErrorCarriesDetails(t *testing.T) {
	c, rec := newContext()
	err := apperror.New(apperror.Validation, "validation errors").WithDetails(map[string]string{"price": "is required"})
	FromError(c, nil, err)

	body := decode(t, rec)
	assert.Equal(t, map[string]any{"price": "is required"}, body["details"])
}

package reservations_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"libris-backend/internal/platform/auth"
	"libris-backend/internal/reservations"
)

func newRouter(store reservations.Store, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	user := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(auth.CtxUserIDKey, userID)
		c.Next()
	})
	reservations.RegisterRoutes(user, newService(store))
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_Handler_CreateThenDuplicate(t *testing.T) {
	r := newRouter(newMemStore(), 3)

	w := post(r, "/api/v1/reservations", `{"book_id":1}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = post(r, "/api/v1/reservations", `{"book_id":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"code":"DUPLICATE_RESERVATION","message":"You already have an active reservation for this book."}}`,
		w.Body.String())
}

func Test_Handler_BadBody(t *testing.T) {
	r := newRouter(newMemStore(), 3)

	w := post(r, "/api/v1/reservations", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SELECTION")
}

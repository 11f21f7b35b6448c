package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func loggerTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggerMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func TestLoggerMiddlewareShortRequestID(t *testing.T) {
	router := loggerTestRouter()

	// A client-supplied ID shorter than the log prefix must not break the
	// request.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestLoggerMiddlewareGeneratesRequestID(t *testing.T) {
	router := loggerTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key for replay-safe commits.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long a processed key keeps replaying its
	// cached response. One business day covers register retries.
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the cached response when a request carries a key that
// was already processed. Requests without a key pass through untouched.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return idempotencyHandler(config, false)
}

// IdempotencyRequired rejects write requests that do not carry a key.
// Settlement commits go through this variant: without a key a network retry
// could charge the terminal twice.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return idempotencyHandler(config, true)
}

func idempotencyHandler(config IdempotencyConfig, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if required {
				abortIdempotency(c, http.StatusBadRequest, "Idempotency-Key header is required for this request")
				return
			}
			c.Next()
			return
		}

		userID, ok := authenticatedUserID(c)
		if !ok {
			if required {
				abortIdempotency(c, http.StatusUnauthorized, "User not authenticated")
				return
			}
			c.Next()
			return
		}

		endpoint := c.Request.Method + " " + c.FullPath()

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, userID)
		if err != nil {
			if required {
				abortIdempotency(c, http.StatusInternalServerError, "Failed to check idempotency key")
				return
			}
			c.Next()
			return
		}
		if existing != nil && !existing.IsExpired() {
			if existing.Endpoint != endpoint {
				abortIdempotency(c, http.StatusUnprocessableEntity, "Idempotency key was already used for a different endpoint")
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful commits are worth replaying. A failed commit
		// should be retryable with the same key.
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			UserID:       userID,
			Endpoint:     endpoint,
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		_ = config.Repo.Create(c.Request.Context(), ikey)
	}
}

func authenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortIdempotency(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

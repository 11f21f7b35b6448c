package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Requests slower than this get flagged in the log. Terminal-backed
// settlements legitimately take seconds, everything else should not.
const slowRequestThreshold = 3 * time.Second

// LoggerMiddleware logs one line per request with a request ID, status,
// latency and client IP. Health checks are not logged.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		if c.Request.URL.Path == "/health" {
			return
		}

		latency := time.Since(start)
		slow := ""
		if latency > slowRequestThreshold {
			slow = " SLOW"
		}

		// Client-supplied request IDs can be arbitrarily short.
		shortID := requestID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		log.Printf("[%s] %s %s | %d | %v | %s%s",
			shortID,
			c.Request.Method,
			path,
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			slow,
		)

		for _, e := range c.Errors {
			log.Printf("[%s] error: %v", shortID, e.Err)
		}
	}
}

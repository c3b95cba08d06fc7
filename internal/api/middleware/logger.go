package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger records method, path, status, and latency for each request via
// the stdlib log package, matching the plain log.Printf idiom used
// throughout internal/forecast and internal/dispatch rather than pulling in a
// structured logging library absent from every example repo's go.mod.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Printf("[api] %s %s -> %d (%v)", c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package server

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs every incoming HTTP request: method, path, client IP, status,
// latency. Adapted from the teacher's internal/api middleware of the same
// name, unchanged in shape.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		log.Printf("[%s] %s %s | %d | %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			latency,
		)
	}
}

// Recovery catches panics inside a verification run (a malformed trace
// reaching an internal invariant violation, say) so one bad request never
// takes the server down. Adapted from the teacher's internal/api.Recovery.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC recovered: %v", err)
				c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

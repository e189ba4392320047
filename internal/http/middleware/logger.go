package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request, carrying the id set by RequestID so log
// lines correlate with the X-Request-ID header the client received.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		errs := ""
		if len(c.Errors) > 0 {
			errs = " errors=" + c.Errors.String()
		}
		log.Printf("[HTTP] request_id=%s %s %s -> %d size=%d took=%s ip=%s%s",
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).Round(time.Microsecond),
			c.ClientIP(),
			errs,
		)
	}
}

package middleware

import (
	"github.com/carelink/carelink/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID makes sure every request carries an ID: an incoming
// X-Request-ID is kept, anything else gets a generated one. The ID lands
// in the request context and is echoed back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = requestid.New()
		}

		ctx := requestid.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

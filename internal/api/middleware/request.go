package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/TermBridge/internal/shared/id"
)

// RequestIDKey is the gin context key carrying the request ID.
const RequestIDKey = "request_id"

// RequestIDHeader is the wire header for request correlation.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID: the caller's when one is
// supplied, a generated one otherwise. The ID is echoed in the response
// header so clients can correlate logs across the boundary.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set(RequestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

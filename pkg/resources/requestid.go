package resources

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIdHeader = "X-Request-Id"

// RequestIdMiddleware tags each request with an id (honoring one supplied by
// the caller) and scopes a logger carrying it into the request context.
func RequestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Writer.Header().Set(RequestIdHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()
	}
}

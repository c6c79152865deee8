package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azproxy/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies larger than maxBytes. Bug payloads
// are small JSON documents; anything bigger is refused before the
// handler reads it. The rejection uses the same detail-shaped body as
// the proxy endpoints.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.DetailErrorBody{
				Detail: "Request body exceeds maximum allowed size",
			})
			return
		}

		// Chunked requests carry no Content-Length; cap those while streaming.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

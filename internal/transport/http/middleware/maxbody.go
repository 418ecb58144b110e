package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "market-backend/internal/transport/http/response"
)

// MaxBodyBytes rejects bodies over n bytes, by Content-Length up front or while reading.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, "request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The headers the API actually uses: what clients send on requests plus
// what browsers add on preflight.
const (
	corsAllowHeaders  = "Content-Type, Accept, Origin, Authorization, X-Request-ID"
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsExposeHeaders = "X-Request-ID"
)

// CORS lets browser clients on another origin call the API. The allowed
// origin comes from server configuration; preflight requests are answered
// here and never reach the handlers.
func CORS(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as private to the caller so tenant data is never
// served from a shared cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "private, no-store")
		c.Next()
	}
}

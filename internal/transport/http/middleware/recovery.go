package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SimpleRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
			}
		}()
		c.Next()
	}
}

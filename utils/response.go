package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AbortError writes the shared error body and stops the handler chain.
// Shape: {statusCode, error, message: []string}.
func AbortError(c *gin.Context, status int, messages ...string) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"error":      http.StatusText(status),
		"message":    messages,
	})
}

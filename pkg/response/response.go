package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globuddy/globuddy-server/pkg/apperror"
)

// GetUsername retrieves the authenticated username from the context
func GetUsername(c *gin.Context) (string, error) {
	username, exists := c.Get("username")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	name, ok := username.(string)
	if !ok || name == "" {
		return "", apperror.ErrUnauthorized
	}

	return name, nil
}

// Error writes a standardized error response
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

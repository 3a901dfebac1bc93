package http

import (
	"net/http"

	"github.com/globuddy/globuddy-server/internal/modules/connection/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/response"
	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	service service.ConnectionService
}

func NewConnectionHandler(service service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: service}
}

// target resolves the followed username from the query string; the follower
// is always the authenticated caller.
func target(c *gin.Context) (follower, followed string, err error) {
	follower, err = response.GetUsername(c)
	if err != nil {
		return "", "", err
	}

	followed = c.Query("username")
	if followed == "" {
		return "", "", apperror.Invalid("username is required")
	}

	return follower, followed, nil
}

func (h *ConnectionHandler) Follow(c *gin.Context) {
	follower, followed, err := target(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Follow(c.Request.Context(), follower, followed); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "connection successful"})
}

func (h *ConnectionHandler) Unfollow(c *gin.Context) {
	follower, followed, err := target(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), follower, followed); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "disconnection successful"})
}

func (h *ConnectionHandler) Status(c *gin.Context) {
	follower, followed, err := target(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	isFollowing, err := h.service.IsFollowing(c.Request.Context(), follower, followed)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFollowing": isFollowing})
}

func (h *ConnectionHandler) Followers(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.Error(c, apperror.Invalid("username is required"))
		return
	}

	followers, err := h.service.Followers(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (h *ConnectionHandler) Following(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		response.Error(c, apperror.Invalid("username is required"))
		return
	}

	following, err := h.service.Following(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

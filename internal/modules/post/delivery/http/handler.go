package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	postDto "github.com/globuddy/globuddy-server/internal/modules/post/dto"
	"github.com/globuddy/globuddy-server/internal/modules/post/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/ratelimiter"
	"github.com/globuddy/globuddy-server/pkg/response"
	"github.com/globuddy/globuddy-server/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), username, req.Content)
	if err != nil {
		var rateLimitErr *ratelimiter.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPosts(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit, offset := pagination(c)

	posts, err := h.service.ListPosts(c.Request.Context(), username, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id, username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req postDto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), id, username, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), id, username); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.Invalid("invalid post id")
	}
	return uint(id), nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	offset = 0
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

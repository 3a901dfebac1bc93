package http

import (
	"net/http"
	"strconv"

	"github.com/globuddy/globuddy-server/internal/modules/comment/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/response"
	"github.com/globuddy/globuddy-server/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type createCommentRequest struct {
	PostID  uint   `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	comment, err := h.service.CreateComment(c.Request.Context(), req.PostID, username, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Query("postId"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Invalid("postId is required"))
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), uint(postID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid comment id"))
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), uint(id), username); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted successfully"})
}

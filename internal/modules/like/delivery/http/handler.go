package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/globuddy/globuddy-server/internal/modules/like/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/response"
)

type LikeHandler struct {
	likeService service.LikeService
}

func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

type toggleLikeRequest struct {
	ID uint `json:"id" binding:"required"`
}

func (h *LikeHandler) ToggleLike(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Invalid("post id is required"))
		return
	}

	result, err := h.likeService.ToggleLike(c.Request.Context(), username, req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *LikeHandler) GetLikes(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Query("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid post id"))
		return
	}

	status, err := h.likeService.GetLikes(c.Request.Context(), username, uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/globuddy/globuddy-server/internal/modules/feed/service"
	"github.com/globuddy/globuddy-server/pkg/response"
)

type FeedHandler struct {
	feedService service.FeedService
}

func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit, offset := pagination(c)

	posts, err := h.feedService.GetFeed(c.Request.Context(), username, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *FeedHandler) GetPartners(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	limit := 10
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 && l <= 50 {
		limit = l
	}

	partners, err := h.feedService.FindPartners(c.Request.Context(), username, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, partners)
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

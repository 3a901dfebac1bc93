package http

import (
	"net/http"
	"strconv"

	profileDto "github.com/globuddy/globuddy-server/internal/modules/profile/dto"
	"github.com/globuddy/globuddy-server/internal/modules/profile/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetProfileByUsername(c *gin.Context) {
	username := c.Param("username")

	profile, err := h.service.GetProfile(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req profileDto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Invalid(err.Error()))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), username, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteLearningLanguage(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	language := c.Param("language")
	if language == "" {
		response.Error(c, apperror.Invalid("language is required"))
		return
	}

	profile, err := h.service.DeleteLearningLanguage(c.Request.Context(), username, language)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, apperror.Invalid("avatar file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	url, err := h.service.UploadAvatar(c.Request.Context(), username, file, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}

func (h *ProfileHandler) SearchUsers(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error(c, apperror.Invalid("query parameter is required"))
		return
	}

	limit := 10
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 && l <= 50 {
		limit = l
	}

	results, err := h.service.SearchUsers(c.Request.Context(), query, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *ProfileHandler) GetFollowCounts(c *gin.Context) {
	username := c.Param("username")

	counts, err := h.service.FollowCounts(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

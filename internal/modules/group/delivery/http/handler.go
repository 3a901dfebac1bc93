package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/globuddy/globuddy-server/internal/modules/group/dto"
	"github.com/globuddy/globuddy-server/internal/modules/group/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/response"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Invalid("group name is required"))
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), username, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) GetGroups(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	all := c.Query("all") == "true"

	groups, err := h.groupService.ListGroups(c.Request.Context(), username, all)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Invalid("invalid request body"))
		return
	}

	group, err := h.groupService.UpdateGroup(c.Request.Context(), username, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), username, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}

func (h *GroupHandler) JoinGroup(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	if err := h.groupService.JoinGroup(c.Request.Context(), username, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined group"})
}

func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	if err := h.groupService.LeaveGroup(c.Request.Context(), username, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left group"})
}

func (h *GroupHandler) GetMembers(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	members, err := h.groupService.GetMembers(c.Request.Context(), username, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *GroupHandler) SendMessage(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	var req dto.SendGroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Invalid("message is required"))
		return
	}

	message, err := h.groupService.SendMessage(c.Request.Context(), username, id, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *GroupHandler) GetMessages(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	limit, offset := pagination(c)

	messages, err := h.groupService.GetMessages(c.Request.Context(), username, id, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *GroupHandler) UploadImage(c *gin.Context) {
	username, err := response.GetUsername(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseID(c)
	if err != nil {
		response.Error(c, apperror.Invalid("invalid group id"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, apperror.Invalid("image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	url, err := h.groupService.UploadImage(c.Request.Context(), username, id, file, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	offset = 0
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o >= 0 {
		offset = o
	}
	return limit, offset
}

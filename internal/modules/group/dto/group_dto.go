package dto

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type SendGroupMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type MembersResponse struct {
	Members   []string `json:"members"`
	IsInGroup bool     `json:"isInGroup"`
}

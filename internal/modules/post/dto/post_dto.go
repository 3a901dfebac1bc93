package dto

import "time"

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type PostAuthor struct {
	Username       string  `json:"username"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	NativeLanguage string  `json:"native_language"`
}

type PostResponse struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	Likes     int64      `json:"likes"`
	Comments  int64      `json:"comments"`
	UserLiked bool       `json:"userLiked"`
	User      PostAuthor `json:"user"`
}

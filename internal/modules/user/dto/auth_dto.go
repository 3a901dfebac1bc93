package dto

import "github.com/globuddy/globuddy-server/internal/entity"

type RegisterRequest struct {
	Username       string   `json:"username" binding:"required,min=3,max=50"`
	Email          string   `json:"email" binding:"required,email,max=100"`
	Password       string   `json:"password" binding:"required,min=8"`
	Country        string   `json:"country" binding:"required"`
	NativeLanguage string   `json:"native_language" binding:"required"`
	Languages      []string `json:"languages" binding:"required,min=1"`
	Levels         []string `json:"levels" binding:"required,min=1,dive,oneof=Beginner Intermediate Advanced Fluent"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	Username       string                    `json:"username"`
	Email          string                    `json:"email"`
	Country        string                    `json:"country"`
	Bio            string                    `json:"bio"`
	NativeLanguage string                    `json:"native_language"`
	Languages      []entity.LearningLanguage `json:"languages"`
	Interests      []string                  `json:"interests"`
	AvatarURL      *string                   `json:"avatar_url,omitempty"`
	Followers      int                       `json:"followers"`
	Following      int                       `json:"following"`
	CreatedAt      string                    `json:"created_at"`
}

func NewUserResponse(user *entity.User) UserResponse {
	languages := user.Languages
	if languages == nil {
		languages = []entity.LearningLanguage{}
	}

	return UserResponse{
		Username:       user.Username,
		Email:          user.Email,
		Country:        user.Country,
		Bio:            user.Bio,
		NativeLanguage: user.NativeLanguage,
		Languages:      languages,
		Interests:      user.InterestList(),
		AvatarURL:      user.AvatarURL,
		Followers:      user.Followers,
		Following:      user.Following,
		CreatedAt:      user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

package dto

import "github.com/globuddy/globuddy-server/internal/entity"

type PartnerResponse struct {
	Username       string                    `json:"username"`
	Country        string                    `json:"country"`
	Bio            string                    `json:"bio"`
	NativeLanguage string                    `json:"native_language"`
	Languages      []entity.LearningLanguage `json:"languages"`
	AvatarURL      *string                   `json:"avatar_url,omitempty"`
}

func NewPartnerResponse(user *entity.User) PartnerResponse {
	languages := user.Languages
	if languages == nil {
		languages = []entity.LearningLanguage{}
	}

	return PartnerResponse{
		Username:       user.Username,
		Country:        user.Country,
		Bio:            user.Bio,
		NativeLanguage: user.NativeLanguage,
		Languages:      languages,
		AvatarURL:      user.AvatarURL,
	}
}

package dto

// UpdateProfileRequest carries the whitelisted mutable profile fields. Nil
// pointers mean "leave unchanged". Languages and Levels must be supplied
// together, index-paired.
type UpdateProfileRequest struct {
	Country        *string   `json:"country"`
	Bio            *string   `json:"bio"`
	NativeLanguage *string   `json:"native_language"`
	Interests      *[]string `json:"interests"`
	Languages      *[]string `json:"languages"`
	Levels         *[]string `json:"levels"`
}

type SearchResult struct {
	Username       string  `json:"username"`
	Country        string  `json:"country"`
	NativeLanguage string  `json:"native_language"`
	AvatarURL      *string `json:"avatarUrl,omitempty"`
}

type FollowCountsResponse struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

package entity

import (
	"encoding/json"
	"time"
)

// Proficiency levels a learner can declare for a language.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelFluent       = "Fluent"
)

type User struct {
	Username       string    `gorm:"size:50;primaryKey" json:"username"`
	Email          string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	Country        string    `gorm:"size:100" json:"country"`
	Bio            string    `gorm:"type:text" json:"bio"`
	NativeLanguage string    `gorm:"size:50" json:"native_language"`
	Interests      string    `gorm:"type:text" json:"-"` // serialized JSON array
	AvatarURL      *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Followers      int       `gorm:"not null;default:0" json:"followers"`
	Following      int       `gorm:"not null;default:0" json:"following"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Languages []LearningLanguage `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"languages,omitempty"`
}

// InterestList decodes the serialized interests column. A missing or
// malformed column yields an empty list, never an error.
func (u *User) InterestList() []string {
	if u.Interests == "" {
		return []string{}
	}
	var interests []string
	if err := json.Unmarshal([]byte(u.Interests), &interests); err != nil {
		return []string{}
	}
	return interests
}

func (u *User) SetInterests(interests []string) error {
	if interests == nil {
		interests = []string{}
	}
	raw, err := json.Marshal(interests)
	if err != nil {
		return err
	}
	u.Interests = string(raw)
	return nil
}

// LearningLanguage is one (language, level) pair of a user's learning list.
// Position preserves the order the user declared them in.
type LearningLanguage struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Username string `gorm:"size:50;not null;uniqueIndex:idx_learning_unique,priority:1" json:"-"`
	Language string `gorm:"size:50;not null;uniqueIndex:idx_learning_unique,priority:2" json:"name"`
	Level    string `gorm:"size:20;not null" json:"level"`
	Position int    `gorm:"not null;default:0" json:"-"`
}

func (LearningLanguage) TableName() string {
	return "learning_languages"
}

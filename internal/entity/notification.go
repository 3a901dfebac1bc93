package entity

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMessage = "message"
)

// Notification is a pure insert-only fan-out record; duplicates are expected
// (every like on the same post produces its own row).
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	Username  string    `gorm:"size:50;not null;index" json:"username"` // recipient
	Content   string    `gorm:"type:text" json:"content"`
	RelatedID uint      `gorm:"not null" json:"related_id"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

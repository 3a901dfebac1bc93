package entity

import "time"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	User      User      `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	User      User      `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Like rows are unique per (username, post) pair; liking twice toggles off.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_unique,priority:2;index" json:"post_id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex:idx_likes_unique,priority:1" json:"username"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

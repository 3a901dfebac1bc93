package entity

import "time"

// Message is a 1:1 direct message. The (User1, User2) pair is stored in send
// order; conversation queries must check both orderings.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User1     string    `gorm:"size:50;not null;index" json:"user1"`
	User2     string    `gorm:"size:50;not null;index" json:"user2"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	GroupAuthor string    `gorm:"size:50;not null" json:"group_author"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// GroupMember is one row per (group, username) membership.
type GroupMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_members_unique,priority:1;index" json:"group_id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex:idx_group_members_unique,priority:2" json:"username"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type GroupMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Sender    string    `gorm:"size:50;not null" json:"sender"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

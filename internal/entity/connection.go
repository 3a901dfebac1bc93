package entity

import "time"

// Connection is a directed follow edge between two usernames. Mutations must
// keep the denormalized follower/following counters on users in step, inside
// the same transaction.
type Connection struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FollowerUsername string    `gorm:"size:50;not null;uniqueIndex:idx_connections_unique,priority:1" json:"follower_username"`
	FollowedUsername string    `gorm:"size:50;not null;uniqueIndex:idx_connections_unique,priority:2;index" json:"followed_username"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

package repository

import (
	"context"
	"database/sql"

	"github.com/globuddy/globuddy-server/internal/entity"
	"gorm.io/gorm"
)

type MessageRepository interface {
	// CreateWithNotification inserts the message and, when non-nil, the
	// recipient's notification in one transaction.
	CreateWithNotification(ctx context.Context, message *entity.Message, notification *entity.Notification) error
	// Conversation returns every message between the two users regardless of
	// which side sent first, oldest first.
	Conversation(ctx context.Context, username, otherUser string, limit, offset int) ([]entity.Message, error)
	// Conversations returns the latest message per counterpart, newest first.
	Conversations(ctx context.Context, username string) ([]entity.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateWithNotification(ctx context.Context, message *entity.Message, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if notification != nil {
			notification.RelatedID = message.ID
			return tx.Create(notification).Error
		}
		return nil
	})
}

func (r *messageRepository) Conversation(ctx context.Context, username, otherUser string, limit, offset int) ([]entity.Message, error) {
	var messages []entity.Message
	err := r.db.WithContext(ctx).
		Where("(user1 = ? AND user2 = ?) OR (user1 = ? AND user2 = ?)",
			username, otherUser, otherUser, username).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) Conversations(ctx context.Context, username string) ([]entity.Message, error) {
	// Latest message id per counterpart, then the rows themselves.
	var messages []entity.Message
	err := r.db.WithContext(ctx).
		Raw(`SELECT * FROM messages WHERE id IN (
			SELECT MAX(id) FROM messages
			WHERE user1 = @user OR user2 = @user
			GROUP BY CASE WHEN user1 = @user THEN user2 ELSE user1 END
		) ORDER BY created_at DESC`, sql.Named("user", username)).
		Scan(&messages).Error
	return messages, err
}

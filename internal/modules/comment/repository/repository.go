package repository

import (
	"context"

	"github.com/globuddy/globuddy-server/internal/entity"
	"gorm.io/gorm"
)

type CommentRepository interface {
	// Create inserts the comment and, when notification is non-nil, the
	// fan-out row in the same transaction.
	Create(ctx context.Context, comment *entity.Comment, notification *entity.Notification) error
	FindByID(ctx context.Context, id uint) (*entity.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]entity.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if notification != nil {
			notification.RelatedID = comment.PostID
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*entity.Comment, error) {
	var comment entity.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("username", "avatar_url")
		}).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Comment{}, id).Error
}

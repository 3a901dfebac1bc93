package repository

import (
	"context"

	"github.com/globuddy/globuddy-server/internal/entity"
	"gorm.io/gorm"
)

type LikeRepository interface {
	// Toggle removes the like when one exists for (username, postID) and
	// inserts it otherwise. On insert, a non-nil notification row is written
	// in the same transaction. Reports whether the post ended up liked.
	Toggle(ctx context.Context, username string, postID uint, notification *entity.Notification) (bool, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	UserLiked(ctx context.Context, username string, postID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, username string, postID uint, notification *entity.Notification) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Find with a slice avoids gorm's "record not found" log noise.
		var existing []entity.Like
		if err := tx.
			Where("username = ? AND post_id = ?", username, postID).
			Limit(1).
			Find(&existing).Error; err != nil {
			return err
		}

		if len(existing) > 0 {
			return tx.Delete(&existing[0]).Error
		}

		if err := tx.Create(&entity.Like{
			Username: username,
			PostID:   postID,
		}).Error; err != nil {
			return err
		}
		liked = true

		if notification != nil {
			notification.RelatedID = postID
			return tx.Create(notification).Error
		}
		return nil
	})
	return liked, err
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) UserLiked(ctx context.Context, username string, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Like{}).
		Where("username = ? AND post_id = ?", username, postID).
		Count(&count).Error
	return count > 0, err
}

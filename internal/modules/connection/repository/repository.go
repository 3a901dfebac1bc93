package repository

import (
	"context"

	"github.com/globuddy/globuddy-server/internal/entity"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/gorm"
)

type ConnectionRepository interface {
	// Follow inserts the edge and bumps both denormalized counters in one
	// transaction. Returns apperror.ErrConflict when the edge already exists.
	Follow(ctx context.Context, follower, followed string) error
	// Unfollow removes the edge and decrements both counters, floored at
	// zero, in one transaction. Returns apperror.ErrNotFound when no edge
	// exists.
	Unfollow(ctx context.Context, follower, followed string) error
	IsFollowing(ctx context.Context, follower, followed string) (bool, error)
	ListFollowers(ctx context.Context, username string) ([]string, error)
	ListFollowing(ctx context.Context, username string) ([]string, error)
}

type connectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Follow(ctx context.Context, follower, followed string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Connection{}).
			Where("follower_username = ? AND followed_username = ?", follower, followed).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("already following this user")
		}

		edge := &entity.Connection{
			FollowerUsername: follower,
			FollowedUsername: followed,
		}
		if err := tx.Create(edge).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.User{}).
			Where("username = ?", followed).
			UpdateColumn("followers", gorm.Expr("followers + 1")).Error; err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("username = ?", follower).
			UpdateColumn("following", gorm.Expr("following + 1")).Error
	})
}

func (r *connectionRepository) Unfollow(ctx context.Context, follower, followed string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_username = ? AND followed_username = ?", follower, followed).
			Delete(&entity.Connection{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("connection not found")
		}

		// Counters never go below zero, even if they drifted out of step
		// with the edge table.
		if err := tx.Model(&entity.User{}).
			Where("username = ?", followed).
			UpdateColumn("followers", gorm.Expr("CASE WHEN followers > 0 THEN followers - 1 ELSE 0 END")).Error; err != nil {
			return err
		}

		return tx.Model(&entity.User{}).
			Where("username = ?", follower).
			UpdateColumn("following", gorm.Expr("CASE WHEN following > 0 THEN following - 1 ELSE 0 END")).Error
	})
}

func (r *connectionRepository) IsFollowing(ctx context.Context, follower, followed string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Connection{}).
		Where("follower_username = ? AND followed_username = ?", follower, followed).
		Count(&count).Error
	return count > 0, err
}

func (r *connectionRepository) ListFollowers(ctx context.Context, username string) ([]string, error) {
	var followers []string
	err := r.db.WithContext(ctx).Model(&entity.Connection{}).
		Where("followed_username = ?", username).
		Order("created_at desc").
		Pluck("follower_username", &followers).Error
	return followers, err
}

func (r *connectionRepository) ListFollowing(ctx context.Context, username string) ([]string, error) {
	var following []string
	err := r.db.WithContext(ctx).Model(&entity.Connection{}).
		Where("follower_username = ?", username).
		Order("created_at desc").
		Pluck("followed_username", &following).Error
	return following, err
}

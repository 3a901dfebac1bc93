package repository

import (
	"context"

	"github.com/globuddy/globuddy-server/internal/entity"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByUsername(ctx context.Context, username string, limit, offset int) ([]entity.Notification, error)
	FindByID(ctx context.Context, id uint) (*entity.Notification, error)
	MarkAsRead(ctx context.Context, id uint) error
	MarkAllAsRead(ctx context.Context, username string) error
	CountUnread(ctx context.Context, username string) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetByUsername(ctx context.Context, username string, limit, offset int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*entity.Notification, error) {
	var notification entity.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("username = ? AND read = ?", username, false).
		Update("read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("username = ? AND read = ?", username, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Notification{}, id).Error
}

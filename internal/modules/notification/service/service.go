package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/globuddy/globuddy-server/internal/entity"
	notifRepo "github.com/globuddy/globuddy-server/internal/modules/notification/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type NotificationService interface {
	// Notify persists a notification and pushes it to any live subscriber.
	Notify(ctx context.Context, notification *entity.Notification) error
	// Publish pushes an already-persisted notification to live subscribers.
	// Used by callers that insert the row inside their own transaction.
	Publish(ctx context.Context, notification *entity.Notification)
	GetNotifications(ctx context.Context, username string, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id uint) error
	MarkAllAsRead(ctx context.Context, username string) error
	UnreadCount(ctx context.Context, username string) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// Channel returns the redis pub/sub channel carrying a user's notifications.
func Channel(username string) string {
	return fmt.Sprintf("user_notifications:%s", username)
}

func (s *notificationService) Notify(ctx context.Context, notification *entity.Notification) error {
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	s.Publish(ctx, notification)
	return nil
}

func (s *notificationService) Publish(ctx context.Context, notification *entity.Notification) {
	if s.redisClient == nil || notification == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	s.redisClient.Publish(ctx, Channel(notification.Username), payload)
}

func (s *notificationService) GetNotifications(ctx context.Context, username string, limit, offset int) ([]entity.Notification, error) {
	return s.repo.GetByUsername(ctx, username, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("notification not found")
		}
		return err
	}
	// Re-marking an already-read notification is a no-op, not an error.
	return s.repo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, username string) error {
	return s.repo.MarkAllAsRead(ctx, username)
}

func (s *notificationService) UnreadCount(ctx context.Context, username string) (int64, error) {
	return s.repo.CountUnread(ctx, username)
}

func (s *notificationService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("notification not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

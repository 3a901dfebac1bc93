package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/globuddy/globuddy-server/internal/entity"
	messageRepo "github.com/globuddy/globuddy-server/internal/modules/message/repository"
	notificationService "github.com/globuddy/globuddy-server/internal/modules/notification/service"
	userRepo "github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/gorm"
)

// notification previews keep only the head of long messages.
const previewLength = 50

type MessageService interface {
	SendMessage(ctx context.Context, sender, recipient, content string) (*entity.Message, error)
	GetConversation(ctx context.Context, username, otherUser string, limit, offset int) ([]entity.Message, error)
	GetConversations(ctx context.Context, username string) ([]entity.Message, error)
}

type messageService struct {
	messageRepo   messageRepo.MessageRepository
	userRepo      userRepo.UserRepository
	notifications notificationService.NotificationService
}

func NewMessageService(
	messageRepository messageRepo.MessageRepository,
	userRepository userRepo.UserRepository,
	notifications notificationService.NotificationService,
) MessageService {
	return &messageService{
		messageRepo:   messageRepository,
		userRepo:      userRepository,
		notifications: notifications,
	}
}

func (s *messageService) SendMessage(ctx context.Context, sender, recipient, content string) (*entity.Message, error) {
	if recipient == sender {
		return nil, apperror.Invalid("cannot message yourself")
	}
	if err := s.checkUser(ctx, recipient); err != nil {
		return nil, err
	}

	message := &entity.Message{
		User1:   sender,
		User2:   recipient,
		Message: content,
	}
	notification := &entity.Notification{
		Type:     entity.NotificationMessage,
		Username: recipient,
		Content:  fmt.Sprintf("New message from %s: %s", sender, preview(content)),
	}

	if err := s.messageRepo.CreateWithNotification(ctx, message, notification); err != nil {
		return nil, err
	}
	s.notifications.Publish(ctx, notification)

	return message, nil
}

func (s *messageService) GetConversation(ctx context.Context, username, otherUser string, limit, offset int) ([]entity.Message, error) {
	if err := s.checkUser(ctx, otherUser); err != nil {
		return nil, err
	}
	return s.messageRepo.Conversation(ctx, username, otherUser, limit, offset)
}

func (s *messageService) GetConversations(ctx context.Context, username string) ([]entity.Message, error) {
	return s.messageRepo.Conversations(ctx, username)
}

func (s *messageService) checkUser(ctx context.Context, username string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	return nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/globuddy/globuddy-server/internal/entity"
	groupDto "github.com/globuddy/globuddy-server/internal/modules/group/dto"
	groupRepo "github.com/globuddy/globuddy-server/internal/modules/group/repository"
	notificationService "github.com/globuddy/globuddy-server/internal/modules/notification/service"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/storage"
	"gorm.io/gorm"
)

const messagePreviewLength = 50

type GroupService interface {
	CreateGroup(ctx context.Context, author string, input groupDto.CreateGroupRequest) (*entity.Group, error)
	GetGroup(ctx context.Context, id uint) (*entity.Group, error)
	// ListGroups returns the user's groups, or every group when all is set.
	ListGroups(ctx context.Context, username string, all bool) ([]entity.Group, error)
	UpdateGroup(ctx context.Context, username string, id uint, input groupDto.UpdateGroupRequest) (*entity.Group, error)
	DeleteGroup(ctx context.Context, username string, id uint) error

	JoinGroup(ctx context.Context, username string, id uint) error
	LeaveGroup(ctx context.Context, username string, id uint) error
	GetMembers(ctx context.Context, username string, id uint) (*groupDto.MembersResponse, error)

	SendMessage(ctx context.Context, sender string, id uint, content string) (*entity.GroupMessage, error)
	GetMessages(ctx context.Context, username string, id uint, limit, offset int) ([]entity.GroupMessage, error)

	UploadImage(ctx context.Context, username string, id uint, r io.Reader, fileName string) (string, error)
}

type groupService struct {
	repo          groupRepo.GroupRepository
	notifications notificationService.NotificationService
	imageStorage  storage.ImageStorage
}

func NewGroupService(
	repo groupRepo.GroupRepository,
	notifications notificationService.NotificationService,
	imageStorage storage.ImageStorage,
) GroupService {
	return &groupService{
		repo:          repo,
		notifications: notifications,
		imageStorage:  imageStorage,
	}
}

func (s *groupService) CreateGroup(ctx context.Context, author string, input groupDto.CreateGroupRequest) (*entity.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Invalid("group name is required")
	}

	group := &entity.Group{
		Name:        name,
		GroupAuthor: author,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, id uint) (*entity.Group, error) {
	return s.findGroup(ctx, id)
}

func (s *groupService) ListGroups(ctx context.Context, username string, all bool) ([]entity.Group, error) {
	if all {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByMember(ctx, username)
}

func (s *groupService) UpdateGroup(ctx context.Context, username string, id uint, input groupDto.UpdateGroupRequest) (*entity.Group, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.GroupAuthor != username {
		return nil, apperror.Forbidden("only the group author can update the group")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.Invalid("group name cannot be empty")
		}
		group.Name = name
	}
	if input.Description != nil {
		group.Description = *input.Description
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, username string, id uint) error {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return err
	}
	if group.GroupAuthor != username {
		return apperror.Forbidden("only the group author can delete the group")
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	if group.ImageURL != nil && *group.ImageURL != "" && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, *group.ImageURL); err != nil {
			log.Printf("failed to delete image for group %d: %v", id, err)
		}
	}
	return nil
}

func (s *groupService) JoinGroup(ctx context.Context, username string, id uint) error {
	if _, err := s.findGroup(ctx, id); err != nil {
		return err
	}
	return s.repo.Join(ctx, id, username)
}

func (s *groupService) LeaveGroup(ctx context.Context, username string, id uint) error {
	if _, err := s.findGroup(ctx, id); err != nil {
		return err
	}

	removed, err := s.repo.Leave(ctx, id, username)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("not a member of this group")
	}
	return nil
}

func (s *groupService) GetMembers(ctx context.Context, username string, id uint) (*groupDto.MembersResponse, error) {
	if _, err := s.findGroup(ctx, id); err != nil {
		return nil, err
	}

	members, err := s.repo.Members(ctx, id)
	if err != nil {
		return nil, err
	}

	isInGroup := false
	for _, member := range members {
		if member == username {
			isInGroup = true
			break
		}
	}

	return &groupDto.MembersResponse{
		Members:   members,
		IsInGroup: isInGroup,
	}, nil
}

func (s *groupService) SendMessage(ctx context.Context, sender string, id uint, content string) (*entity.GroupMessage, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	isMember, err := s.repo.IsMember(ctx, id, sender)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.Forbidden("only members can post in this group")
	}

	members, err := s.repo.Members(ctx, id)
	if err != nil {
		return nil, err
	}

	message := &entity.GroupMessage{
		GroupID: id,
		Sender:  sender,
		Message: content,
	}

	notifications := make([]*entity.Notification, 0, len(members))
	for _, member := range members {
		if member == sender {
			continue
		}
		notifications = append(notifications, &entity.Notification{
			Type:     entity.NotificationMessage,
			Username: member,
			Content:  fmt.Sprintf("New message in %s from %s: %s", group.Name, sender, preview(content)),
		})
	}

	if err := s.repo.CreateMessage(ctx, message, notifications); err != nil {
		return nil, err
	}
	for _, notification := range notifications {
		s.notifications.Publish(ctx, notification)
	}

	return message, nil
}

func (s *groupService) GetMessages(ctx context.Context, username string, id uint, limit, offset int) ([]entity.GroupMessage, error) {
	if _, err := s.findGroup(ctx, id); err != nil {
		return nil, err
	}

	isMember, err := s.repo.IsMember(ctx, id, username)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.Forbidden("only members can read this group")
	}

	return s.repo.ListMessages(ctx, id, limit, offset)
}

func (s *groupService) UploadImage(ctx context.Context, username string, id uint, r io.Reader, fileName string) (string, error) {
	group, err := s.findGroup(ctx, id)
	if err != nil {
		return "", err
	}
	if group.GroupAuthor != username {
		return "", apperror.Forbidden("only the group author can change the group image")
	}

	if s.imageStorage == nil {
		return "", apperror.New(500, "image storage is not configured", apperror.ErrInternal)
	}

	url, err := s.imageStorage.UploadImage(ctx, r, "groups", fileName)
	if err != nil {
		return "", err
	}

	old := group.ImageURL
	group.ImageURL = &url
	if err := s.repo.Update(ctx, group); err != nil {
		return "", err
	}

	if old != nil && *old != "" {
		if err := s.imageStorage.DeleteImage(ctx, *old); err != nil {
			log.Printf("failed to delete old image for group %d: %v", id, err)
		}
	}

	return url, nil
}

func (s *groupService) findGroup(ctx context.Context, id uint) (*entity.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("group not found")
		}
		return nil, err
	}
	return group, nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= messagePreviewLength {
		return content
	}
	return string(runes[:messagePreviewLength]) + "..."
}

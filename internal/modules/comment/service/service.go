package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/globuddy/globuddy-server/internal/entity"
	commentRepo "github.com/globuddy/globuddy-server/internal/modules/comment/repository"
	notifService "github.com/globuddy/globuddy-server/internal/modules/notification/service"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, postID uint, username, content string) (*entity.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]entity.Comment, error)
	DeleteComment(ctx context.Context, id uint, username string) error
}

type commentService struct {
	repo                commentRepo.CommentRepository
	postRepo            postRepo.PostRepository
	notificationService notifService.NotificationService
}

func NewCommentService(repo commentRepo.CommentRepository, postRepo postRepo.PostRepository, notificationService notifService.NotificationService) CommentService {
	return &commentService{
		repo:                repo,
		postRepo:            postRepo,
		notificationService: notificationService,
	}
}

func (s *commentService) CreateComment(ctx context.Context, postID uint, username, content string) (*entity.Comment, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	comment := &entity.Comment{
		PostID:   postID,
		Username: username,
		Content:  content,
	}

	// Commenting on your own post stays silent.
	var notification *entity.Notification
	if post.Username != username {
		notification = &entity.Notification{
			Type:     entity.NotificationComment,
			Username: post.Username,
			Content:  fmt.Sprintf("New comment from %s on your post", username),
		}
	}

	if err := s.repo.Create(ctx, comment, notification); err != nil {
		return nil, err
	}

	if notification != nil {
		s.notificationService.Publish(ctx, notification)
	}

	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, postID uint) ([]entity.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	return s.repo.ListByPost(ctx, postID)
}

func (s *commentService) DeleteComment(ctx context.Context, id uint, username string) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("comment not found")
		}
		return err
	}

	if comment.Username != username {
		return apperror.Forbidden("you can only delete your own comments")
	}

	return s.repo.Delete(ctx, id)
}

package service

import (
	"context"
	"errors"

	connRepo "github.com/globuddy/globuddy-server/internal/modules/connection/repository"
	userRepo "github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/gorm"
)

type ConnectionService interface {
	Follow(ctx context.Context, follower, followed string) error
	Unfollow(ctx context.Context, follower, followed string) error
	IsFollowing(ctx context.Context, follower, followed string) (bool, error)
	Followers(ctx context.Context, username string) ([]string, error)
	Following(ctx context.Context, username string) ([]string, error)
}

type connectionService struct {
	repo     connRepo.ConnectionRepository
	userRepo userRepo.UserRepository
}

func NewConnectionService(repo connRepo.ConnectionRepository, userRepo userRepo.UserRepository) ConnectionService {
	return &connectionService{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *connectionService) Follow(ctx context.Context, follower, followed string) error {
	if follower == followed {
		return apperror.Invalid("cannot follow yourself")
	}
	if err := s.checkUser(ctx, followed); err != nil {
		return err
	}
	return s.repo.Follow(ctx, follower, followed)
}

func (s *connectionService) Unfollow(ctx context.Context, follower, followed string) error {
	if follower == followed {
		return apperror.Invalid("cannot unfollow yourself")
	}
	return s.repo.Unfollow(ctx, follower, followed)
}

func (s *connectionService) IsFollowing(ctx context.Context, follower, followed string) (bool, error) {
	return s.repo.IsFollowing(ctx, follower, followed)
}

func (s *connectionService) Followers(ctx context.Context, username string) ([]string, error) {
	if err := s.checkUser(ctx, username); err != nil {
		return nil, err
	}
	return s.repo.ListFollowers(ctx, username)
}

func (s *connectionService) Following(ctx context.Context, username string) ([]string, error) {
	if err := s.checkUser(ctx, username); err != nil {
		return nil, err
	}
	return s.repo.ListFollowing(ctx, username)
}

func (s *connectionService) checkUser(ctx context.Context, username string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	return nil
}

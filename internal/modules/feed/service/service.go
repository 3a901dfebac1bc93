package service

import (
	"context"
	"errors"

	"github.com/globuddy/globuddy-server/internal/entity"
	feedDto "github.com/globuddy/globuddy-server/internal/modules/feed/dto"
	postDto "github.com/globuddy/globuddy-server/internal/modules/post/dto"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	postService "github.com/globuddy/globuddy-server/internal/modules/post/service"
	userRepo "github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/gorm"
)

type FeedService interface {
	// GetFeed returns posts relevant to the viewer's language profile:
	// the author's native language is one the viewer is learning, or the
	// author is learning the viewer's native language.
	GetFeed(ctx context.Context, viewer string, limit, offset int) ([]postDto.PostResponse, error)
	// FindPartners samples users the viewer could exchange with. Both sides
	// must be learning the other's native language.
	FindPartners(ctx context.Context, viewer string, limit int) ([]feedDto.PartnerResponse, error)
}

type feedService struct {
	postRepo postRepo.PostRepository
	userRepo userRepo.UserRepository
}

func NewFeedService(postRepository postRepo.PostRepository, userRepository userRepo.UserRepository) FeedService {
	return &feedService{
		postRepo: postRepository,
		userRepo: userRepository,
	}
}

func (s *feedService) GetFeed(ctx context.Context, viewer string, limit, offset int) ([]postDto.PostResponse, error) {
	user, err := s.findViewer(ctx, viewer)
	if err != nil {
		return nil, err
	}

	rows, err := s.postRepo.ListFeed(ctx, viewer, user.NativeLanguage, learningLanguages(user), limit, offset)
	if err != nil {
		return nil, err
	}
	return postService.ToPostResponses(rows), nil
}

func (s *feedService) FindPartners(ctx context.Context, viewer string, limit int) ([]feedDto.PartnerResponse, error) {
	user, err := s.findViewer(ctx, viewer)
	if err != nil {
		return nil, err
	}

	partners, err := s.userRepo.FindPartners(ctx, viewer, user.NativeLanguage, learningLanguages(user), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]feedDto.PartnerResponse, 0, len(partners))
	for i := range partners {
		responses = append(responses, feedDto.NewPartnerResponse(&partners[i]))
	}
	return responses, nil
}

func (s *feedService) findViewer(ctx context.Context, viewer string) (*entity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, viewer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func learningLanguages(user *entity.User) []string {
	languages := make([]string, 0, len(user.Languages))
	for _, l := range user.Languages {
		languages = append(languages, l.Language)
	}
	return languages
}

package service

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/globuddy/globuddy-server/internal/entity"
	profileDto "github.com/globuddy/globuddy-server/internal/modules/profile/dto"
	searchService "github.com/globuddy/globuddy-server/internal/modules/search/service"
	userDto "github.com/globuddy/globuddy-server/internal/modules/user/dto"
	userRepo "github.com/globuddy/globuddy-server/internal/modules/user/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/storage"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*userDto.UserResponse, error)
	UpdateProfile(ctx context.Context, username string, input profileDto.UpdateProfileRequest) (*userDto.UserResponse, error)
	DeleteLearningLanguage(ctx context.Context, username, language string) (*userDto.UserResponse, error)
	UploadAvatar(ctx context.Context, username string, r io.Reader, fileName string) (string, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]profileDto.SearchResult, error)
	FollowCounts(ctx context.Context, username string) (*profileDto.FollowCountsResponse, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	search       searchService.SearchService
	imageStorage storage.ImageStorage
}

func NewProfileService(repo userRepo.UserRepository, search searchService.SearchService, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		repo:         repo,
		search:       search,
		imageStorage: imageStorage,
	}
}

func (s *profileService) GetProfile(ctx context.Context, username string) (*userDto.UserResponse, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := userDto.NewUserResponse(user)
	return &resp, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, username string, input profileDto.UpdateProfileRequest) (*userDto.UserResponse, error) {
	// Languages and levels travel together; a lone array is rejected rather
	// than silently truncated.
	if (input.Languages == nil) != (input.Levels == nil) {
		return nil, apperror.Invalid("languages and levels must be supplied together")
	}
	if input.Languages != nil && len(*input.Languages) != len(*input.Levels) {
		return nil, apperror.Invalid("languages and levels must have the same length")
	}
	if input.Levels != nil {
		for _, level := range *input.Levels {
			if !validLevel(level) {
				return nil, apperror.Invalid("level must be one of Beginner, Intermediate, Advanced, Fluent")
			}
		}
	}

	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.NativeLanguage != nil {
		user.NativeLanguage = *input.NativeLanguage
	}
	if input.Interests != nil {
		if err := user.SetInterests(*input.Interests); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if input.Languages != nil {
		languages := make([]entity.LearningLanguage, 0, len(*input.Languages))
		for i, lang := range *input.Languages {
			languages = append(languages, entity.LearningLanguage{
				Language: lang,
				Level:    (*input.Levels)[i],
			})
		}
		if err := s.repo.ReplaceLanguages(ctx, username, languages); err != nil {
			return nil, err
		}
	}

	updated, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	s.reindex(updated)

	resp := userDto.NewUserResponse(updated)
	return &resp, nil
}

func (s *profileService) DeleteLearningLanguage(ctx context.Context, username, language string) (*userDto.UserResponse, error) {
	if _, err := s.findUser(ctx, username); err != nil {
		return nil, err
	}

	removed, err := s.repo.DeleteLanguage(ctx, username, language)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperror.NotFound("language not found")
	}

	updated, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	resp := userDto.NewUserResponse(updated)
	return &resp, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, username string, r io.Reader, fileName string) (string, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return "", err
	}

	if s.imageStorage == nil {
		return "", apperror.New(500, "image storage is not configured", apperror.ErrInternal)
	}

	url, err := s.imageStorage.UploadImage(ctx, r, "avatars", fileName)
	if err != nil {
		return "", err
	}

	old := user.AvatarURL
	user.AvatarURL = &url
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}

	if old != nil && *old != "" {
		if err := s.imageStorage.DeleteImage(ctx, *old); err != nil {
			log.Printf("failed to delete old avatar for %s: %v", username, err)
		}
	}

	s.reindex(user)

	return url, nil
}

func (s *profileService) SearchUsers(ctx context.Context, query string, limit int) ([]profileDto.SearchResult, error) {
	if s.search != nil {
		docs, err := s.search.SearchUsers(query, limit)
		if err != nil {
			log.Printf("meilisearch user search failed, falling back to db: %v", err)
		} else if docs != nil {
			results := make([]profileDto.SearchResult, 0, len(docs))
			for _, doc := range docs {
				results = append(results, profileDto.SearchResult{
					Username:       doc.Username,
					Country:        doc.Country,
					NativeLanguage: doc.NativeLanguage,
					AvatarURL:      doc.AvatarURL,
				})
			}
			return results, nil
		}
	}

	users, err := s.repo.SearchByUsername(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]profileDto.SearchResult, 0, len(users))
	for i := range users {
		results = append(results, profileDto.SearchResult{
			Username:       users[i].Username,
			Country:        users[i].Country,
			NativeLanguage: users[i].NativeLanguage,
			AvatarURL:      users[i].AvatarURL,
		})
	}
	return results, nil
}

func (s *profileService) FollowCounts(ctx context.Context, username string) (*profileDto.FollowCountsResponse, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	return &profileDto.FollowCountsResponse{
		Followers: user.Followers,
		Following: user.Following,
	}, nil
}

func (s *profileService) findUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *profileService) reindex(user *entity.User) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexUser(user); err != nil {
		log.Printf("failed to reindex user %s: %v", user.Username, err)
	}
}

func validLevel(level string) bool {
	switch level {
	case entity.LevelBeginner, entity.LevelIntermediate, entity.LevelAdvanced, entity.LevelFluent:
		return true
	}
	return false
}

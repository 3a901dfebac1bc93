package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/globuddy/globuddy-server/internal/entity"
	postDto "github.com/globuddy/globuddy-server/internal/modules/post/dto"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/globuddy/globuddy-server/pkg/ratelimiter"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, username, content string) (*entity.Post, error)
	GetPost(ctx context.Context, id uint, viewer string) (*postDto.PostResponse, error)
	ListPosts(ctx context.Context, viewer string, limit, offset int) ([]postDto.PostResponse, error)
	UpdatePost(ctx context.Context, id uint, username, content string) (*entity.Post, error)
	DeletePost(ctx context.Context, id uint, username string) error
}

type postService struct {
	repo        postRepo.PostRepository
	redisClient *redis.Client
}

func NewPostService(repo postRepo.PostRepository, redisClient *redis.Client) PostService {
	return &postService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *postService) CreatePost(ctx context.Context, username, content string) (*entity.Post, error) {
	// Messages may be empty, posts may not.
	if strings.TrimSpace(content) == "" {
		return nil, apperror.Invalid("content is required")
	}

	globalLimit := ratelimiter.GetDurationFromEnv("RATE_LIMIT_GLOBAL", 2*time.Second)
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, username, "global", globalLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, username, "global")
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	postLimit := ratelimiter.GetDurationFromEnv("RATE_LIMIT_POST", 15*time.Second)
	allowed, err = ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, username, "post", postLimit)
	if err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, username, "global")
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, username, "global")
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, username, "post")
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you can only create one post every %.0f seconds. Please wait %.0f seconds", postLimit.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	post := &entity.Post{
		Username: username,
		Content:  content,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, username, "global")
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, username, "post")
		return nil, err
	}

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id uint, viewer string) (*postDto.PostResponse, error) {
	row, err := s.repo.GetRow(ctx, id, viewer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	resp := ToPostResponse(row)
	return &resp, nil
}

func (s *postService) ListPosts(ctx context.Context, viewer string, limit, offset int) ([]postDto.PostResponse, error) {
	rows, err := s.repo.ListAll(ctx, viewer, limit, offset)
	if err != nil {
		return nil, err
	}

	return ToPostResponses(rows), nil
}

func (s *postService) UpdatePost(ctx context.Context, id uint, username, content string) (*entity.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.Invalid("content is required")
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.Username != username {
		return nil, apperror.Forbidden("you can only edit your own posts")
	}

	post.Content = content
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id uint, username string) error {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}

	if post.Username != username {
		return apperror.Forbidden("you can only delete your own posts")
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	// Drop the cached like count; the rows backing it are gone.
	if s.redisClient != nil {
		s.redisClient.Del(ctx, fmt.Sprintf("counts:post:%d", id))
	}

	return nil
}

func (s *postService) findPost(ctx context.Context, id uint) (*entity.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}
	return post, nil
}

func ToPostResponse(row *postRepo.PostRow) postDto.PostResponse {
	return postDto.PostResponse{
		ID:        row.ID,
		Content:   row.Content,
		Username:  row.Username,
		CreatedAt: row.CreatedAt,
		Likes:     row.LikesCount,
		Comments:  row.CommentsCount,
		UserLiked: row.UserLiked,
		User: postDto.PostAuthor{
			Username:       row.Username,
			AvatarURL:      row.AvatarURL,
			NativeLanguage: row.NativeLanguage,
		},
	}
}

func ToPostResponses(rows []postRepo.PostRow) []postDto.PostResponse {
	responses := make([]postDto.PostResponse, 0, len(rows))
	for i := range rows {
		responses = append(responses, ToPostResponse(&rows[i]))
	}
	return responses
}

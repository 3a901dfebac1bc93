package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/globuddy/globuddy-server/internal/entity"
	likeRepo "github.com/globuddy/globuddy-server/internal/modules/like/repository"
	notificationService "github.com/globuddy/globuddy-server/internal/modules/notification/service"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const likeCountTTL = 7 * 24 * time.Hour

type ToggleResult struct {
	PostID uint   `json:"post_id"`
	Likes  int64  `json:"likes"`
	Action string `json:"action"`
}

type LikeStatus struct {
	PostID    uint  `json:"post_id"`
	Likes     int64 `json:"likes"`
	UserLiked bool  `json:"userLiked"`
}

type LikeService interface {
	ToggleLike(ctx context.Context, username string, postID uint) (*ToggleResult, error)
	GetLikes(ctx context.Context, username string, postID uint) (*LikeStatus, error)
}

type likeService struct {
	likeRepo      likeRepo.LikeRepository
	postRepo      postRepo.PostRepository
	notifications notificationService.NotificationService
	redisClient   *redis.Client
}

func NewLikeService(
	likeRepository likeRepo.LikeRepository,
	postRepository postRepo.PostRepository,
	notifications notificationService.NotificationService,
	redisClient *redis.Client,
) LikeService {
	return &likeService{
		likeRepo:      likeRepository,
		postRepo:      postRepository,
		notifications: notifications,
		redisClient:   redisClient,
	}
}

func countCacheKey(postID uint) string {
	return fmt.Sprintf("counts:post:%d", postID)
}

func (s *likeService) ToggleLike(ctx context.Context, username string, postID uint) (*ToggleResult, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	var notification *entity.Notification
	if post.Username != username {
		notification = &entity.Notification{
			Type:     entity.NotificationLike,
			Username: post.Username,
			Content:  fmt.Sprintf("%s liked your post", username),
		}
	}

	liked, err := s.likeRepo.Toggle(ctx, username, postID, notification)
	if err != nil {
		return nil, err
	}

	count := s.adjustCachedCount(ctx, postID, liked)
	if count < 0 {
		count, err = s.likeRepo.CountByPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		s.primeCachedCount(ctx, postID, count)
	}

	action := "unliked"
	if liked {
		action = "liked"
		if notification != nil {
			s.notifications.Publish(ctx, notification)
		}
	}

	return &ToggleResult{PostID: postID, Likes: count, Action: action}, nil
}

func (s *likeService) GetLikes(ctx context.Context, username string, postID uint) (*LikeStatus, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, err
	}

	count := s.cachedCount(ctx, postID)
	if count < 0 {
		var err error
		count, err = s.likeRepo.CountByPost(ctx, postID)
		if err != nil {
			return nil, err
		}
		s.primeCachedCount(ctx, postID, count)
	}

	userLiked, err := s.likeRepo.UserLiked(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	return &LikeStatus{PostID: postID, Likes: count, UserLiked: userLiked}, nil
}

// adjustCachedCount bumps the cached counter and returns the new value, or -1
// when the cache is unavailable or the key is not present.
func (s *likeService) adjustCachedCount(ctx context.Context, postID uint, liked bool) int64 {
	if s.redisClient == nil {
		return -1
	}

	key := countCacheKey(postID)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return -1
	}

	var count int64
	if liked {
		count, err = s.redisClient.Incr(ctx, key).Result()
	} else {
		count, err = s.redisClient.Decr(ctx, key).Result()
	}
	if err != nil {
		log.Printf("like count cache update failed for post %d: %v", postID, err)
		return -1
	}
	return count
}

func (s *likeService) cachedCount(ctx context.Context, postID uint) int64 {
	if s.redisClient == nil {
		return -1
	}

	val, err := s.redisClient.Get(ctx, countCacheKey(postID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("like count cache read failed for post %d: %v", postID, err)
		}
		return -1
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return -1
	}
	return count
}

func (s *likeService) primeCachedCount(ctx context.Context, postID uint, count int64) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Set(ctx, countCacheKey(postID), count, likeCountTTL).Err(); err != nil {
		log.Printf("like count cache write failed for post %d: %v", postID, err)
	}
}

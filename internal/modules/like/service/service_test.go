package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/globuddy/globuddy-server/internal/entity"
	likeRepo "github.com/globuddy/globuddy-server/internal/modules/like/repository"
	notifRepo "github.com/globuddy/globuddy-server/internal/modules/notification/repository"
	notifService "github.com/globuddy/globuddy-server/internal/modules/notification/service"
	postRepo "github.com/globuddy/globuddy-server/internal/modules/post/repository"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.LearningLanguage{},
		&entity.Post{},
		&entity.Like{},
		&entity.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newService(db *gorm.DB) LikeService {
	notifications := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil)
	return NewLikeService(likeRepo.NewLikeRepository(db), postRepo.NewPostRepository(db), notifications, nil)
}

func seedPost(t *testing.T, db *gorm.DB, author string) *entity.Post {
	t.Helper()
	if err := db.Create(&entity.User{
		Username:       author,
		Email:          author + "@example.com",
		PasswordHash:   "x",
		NativeLanguage: "English",
		Interests:      "[]",
	}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	post := &entity.Post{Username: author, Content: "hello"}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func TestToggleLikePair(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)
	ctx := context.Background()

	result, err := svc.ToggleLike(ctx, "alice", post.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if result.Action != "liked" || result.Likes != 1 {
		t.Errorf("first toggle = (%s, %d), want (liked, 1)", result.Action, result.Likes)
	}

	result, err = svc.ToggleLike(ctx, "alice", post.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if result.Action != "unliked" || result.Likes != 0 {
		t.Errorf("second toggle = (%s, %d), want (unliked, 0)", result.Action, result.Likes)
	}

	var likes int64
	db.Model(&entity.Like{}).Count(&likes)
	if likes != 0 {
		t.Errorf("like rows after pair = %d, want 0", likes)
	}
}

func TestLikeNotifiesPostOwner(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)

	if _, err := svc.ToggleLike(context.Background(), "bob", post.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	var notifications []entity.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	got := notifications[0]
	if got.Username != "alice" || got.Type != entity.NotificationLike || got.RelatedID != post.ID {
		t.Errorf("notification = %+v, want like notification for alice on post %d", got, post.ID)
	}
}

func TestSelfLikeIsSilent(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)

	if _, err := svc.ToggleLike(context.Background(), "alice", post.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	var count int64
	db.Model(&entity.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("notifications after self-like = %d, want 0", count)
	}
}

func TestUnlikeDoesNotNotify(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)
	ctx := context.Background()

	if _, err := svc.ToggleLike(ctx, "bob", post.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := svc.ToggleLike(ctx, "bob", post.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	// Only the original like notification survives an unlike.
	var count int64
	db.Model(&entity.Notification{}).Count(&count)
	if count != 1 {
		t.Errorf("notifications after like/unlike = %d, want 1", count)
	}
}

func TestToggleUnknownPost(t *testing.T) {
	db := newTestDB(t)
	seedPost(t, db, "alice")
	svc := newService(db)

	_, err := svc.ToggleLike(context.Background(), "alice", 999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("toggle unknown post error = %v, want not found", err)
	}
}

func TestGetLikesReportsViewerState(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)
	ctx := context.Background()

	if _, err := svc.ToggleLike(ctx, "bob", post.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	status, err := svc.GetLikes(ctx, "bob", post.ID)
	if err != nil {
		t.Fatalf("get likes failed: %v", err)
	}
	if status.Likes != 1 || !status.UserLiked {
		t.Errorf("bob's view = (%d, %v), want (1, true)", status.Likes, status.UserLiked)
	}

	status, err = svc.GetLikes(ctx, "alice", post.ID)
	if err != nil {
		t.Fatalf("get likes failed: %v", err)
	}
	if status.Likes != 1 || status.UserLiked {
		t.Errorf("alice's view = (%d, %v), want (1, false)", status.Likes, status.UserLiked)
	}
}

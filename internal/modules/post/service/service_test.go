package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/globuddy/globuddy-server/internal/entity"
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
		&entity.Comment{},
		&entity.Like{},
		&entity.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newService(db *gorm.DB) PostService {
	return NewPostService(postRepo.NewPostRepository(db), nil)
}

func seedUser(t *testing.T, db *gorm.DB, username, native string) {
	t.Helper()
	if err := db.Create(&entity.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHash:   "x",
		NativeLanguage: native,
		Interests:      "[]",
	}).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
}

func TestCreatePostRequiresContent(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English")
	svc := newService(db)

	_, err := svc.CreatePost(context.Background(), "alice", "   ")
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("create with blank content error = %v, want invalid input", err)
	}
}

func TestCreateAndGetPost(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English")
	svc := newService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "first post")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.GetPost(ctx, post.ID, "alice")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Content != "first post" || got.Username != "alice" {
		t.Errorf("post = (%s, %s), want (first post, alice)", got.Content, got.Username)
	}
	if got.Likes != 0 || got.Comments != 0 || got.UserLiked {
		t.Errorf("fresh post counters = (%d, %d, %v), want (0, 0, false)", got.Likes, got.Comments, got.UserLiked)
	}
	if got.User.NativeLanguage != "English" {
		t.Errorf("author native language = %s, want English", got.User.NativeLanguage)
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English")
	svc := newService(db)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		post := &entity.Post{Username: "alice", Content: fmt.Sprintf("post %d", i)}
		if err := db.Create(post).Error; err != nil {
			t.Fatalf("failed to seed post: %v", err)
		}
		// Spread creation times so the ordering is deterministic.
		db.Model(post).UpdateColumn("created_at", time.Now().Add(-time.Duration(3-i)*time.Minute))
	}

	posts, err := svc.ListPosts(ctx, "alice", 20, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("posts = %d, want 3", len(posts))
	}
	if posts[0].Content != "post 3" || posts[2].Content != "post 1" {
		t.Errorf("order = [%s, %s, %s], want newest first", posts[0].Content, posts[1].Content, posts[2].Content)
	}
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English")
	svc := newService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "original")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdatePost(ctx, post.ID, "bob", "hijacked"); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("update by non-author error = %v, want forbidden", err)
	}

	updated, err := svc.UpdatePost(ctx, post.ID, "alice", "edited")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("content = %s, want edited", updated.Content)
	}
}

func TestDeletePostCascades(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English")
	svc := newService(db)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "doomed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := db.Create(&entity.Comment{PostID: post.ID, Username: "bob", Content: "nice"}).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if err := db.Create(&entity.Like{PostID: post.ID, Username: "bob"}).Error; err != nil {
		t.Fatalf("failed to seed like: %v", err)
	}
	if err := db.Create(&entity.Notification{
		Type:      entity.NotificationLike,
		Username:  "alice",
		Content:   "bob liked your post",
		RelatedID: post.ID,
	}).Error; err != nil {
		t.Fatalf("failed to seed notification: %v", err)
	}

	if err := svc.DeletePost(ctx, post.ID, "bob"); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("delete by non-author error = %v, want forbidden", err)
	}

	if err := svc.DeletePost(ctx, post.ID, "alice"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var posts, comments, likes, notifications int64
	db.Model(&entity.Post{}).Count(&posts)
	db.Model(&entity.Comment{}).Count(&comments)
	db.Model(&entity.Like{}).Count(&likes)
	db.Model(&entity.Notification{}).Count(&notifications)
	if posts != 0 || comments != 0 || likes != 0 || notifications != 0 {
		t.Errorf("rows after cascade = (%d, %d, %d, %d), want all zero", posts, comments, likes, notifications)
	}
}

func TestDeleteUnknownPost(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "alice", "English")
	svc := newService(db)

	err := svc.DeletePost(context.Background(), 42, "alice")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("delete unknown post error = %v, want not found", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/globuddy/globuddy-server/internal/entity"
	commentRepo "github.com/globuddy/globuddy-server/internal/modules/comment/repository"
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
		&entity.Comment{},
		&entity.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func newService(db *gorm.DB) CommentService {
	notifications := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil)
	return NewCommentService(commentRepo.NewCommentRepository(db), postRepo.NewPostRepository(db), notifications)
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

func TestCommentNotifiesPostOwner(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)

	comment, err := svc.CreateComment(context.Background(), post.ID, "bob", "great post")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if comment.ID == 0 {
		t.Error("comment was not persisted")
	}

	var notifications []entity.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications))
	}
	got := notifications[0]
	if got.Username != "alice" || got.Type != entity.NotificationComment {
		t.Errorf("notification = %+v, want comment notification for alice", got)
	}
	if !strings.Contains(got.Content, "bob") {
		t.Errorf("notification content = %q, want the commenter named", got.Content)
	}
}

func TestSelfCommentIsSilent(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)

	if _, err := svc.CreateComment(context.Background(), post.ID, "alice", "replying to myself"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var count int64
	db.Model(&entity.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("notifications after self-comment = %d, want 0", count)
	}
}

func TestCommentOnUnknownPost(t *testing.T) {
	db := newTestDB(t)
	seedPost(t, db, "alice")
	svc := newService(db)

	_, err := svc.CreateComment(context.Background(), 999, "bob", "where am I")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("comment on unknown post error = %v, want not found", err)
	}
}

func TestListCommentsOldestFirst(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 3; i++ {
		comment := &entity.Comment{PostID: post.ID, Username: "bob", Content: fmt.Sprintf("comment %d", i)}
		if err := db.Create(comment).Error; err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
		db.Model(comment).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute))
	}

	comments, err := svc.ListComments(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("comments = %d, want 3", len(comments))
	}
	if comments[0].Content != "comment 1" || comments[2].Content != "comment 3" {
		t.Errorf("order = [%s, %s, %s], want oldest first", comments[0].Content, comments[1].Content, comments[2].Content)
	}
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	post := seedPost(t, db, "alice")
	svc := newService(db)
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, post.ID, "bob", "to be removed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.DeleteComment(ctx, comment.ID, "alice"); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("delete by non-author error = %v, want forbidden", err)
	}

	if err := svc.DeleteComment(ctx, comment.ID, "bob"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	db.Model(&entity.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("comments after delete = %d, want 0", count)
	}
}

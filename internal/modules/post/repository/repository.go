package repository

import (
	"context"
	"time"

	"github.com/globuddy/globuddy-server/internal/entity"
	"gorm.io/gorm"
)

// PostRow is a post joined with its author and aggregate counters, as read
// by the listing queries.
type PostRow struct {
	ID             uint
	Username       string
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AvatarURL      *string
	NativeLanguage string
	LikesCount     int64
	CommentsCount  int64
	UserLiked      bool
}

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uint) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	// DeleteCascade removes the post together with its comments, likes and
	// derived notifications in a single transaction.
	DeleteCascade(ctx context.Context, id uint) error
	ListAll(ctx context.Context, viewer string, limit, offset int) ([]PostRow, error)
	GetRow(ctx context.Context, id uint, viewer string) (*PostRow, error)
	// ListFeed returns posts whose author's native language is one the
	// viewer is learning, or whose author is learning the viewer's native
	// language.
	ListFeed(ctx context.Context, viewer, viewerNative string, viewerLearning []string, limit, offset int) ([]PostRow, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postSelect = `posts.id, posts.username, posts.content, posts.created_at, posts.updated_at,
users.avatar_url, users.native_language,
(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
EXISTS(SELECT 1 FROM likes ul WHERE ul.post_id = posts.id AND ul.username = ?) AS user_liked`

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&entity.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_id = ? AND type IN ?", id,
			[]string{entity.NotificationLike, entity.NotificationComment}).
			Delete(&entity.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Post{}, id).Error
	})
}

func (r *postRepository) ListAll(ctx context.Context, viewer string, limit, offset int) ([]PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Select(postSelect, viewer).
		Joins("JOIN users ON users.username = posts.username").
		Order("posts.created_at desc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) GetRow(ctx context.Context, id uint, viewer string) (*PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Select(postSelect, viewer).
		Joins("JOIN users ON users.username = posts.username").
		Where("posts.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *postRepository) ListFeed(ctx context.Context, viewer, viewerNative string, viewerLearning []string, limit, offset int) ([]PostRow, error) {
	if viewerNative == "" && len(viewerLearning) == 0 {
		return []PostRow{}, nil
	}

	q := r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Select(postSelect, viewer).
		Joins("JOIN users ON users.username = posts.username").
		Where("posts.username <> ?", viewer)

	switch {
	case len(viewerLearning) == 0:
		q = q.Where("EXISTS (SELECT 1 FROM learning_languages ll WHERE ll.username = posts.username AND ll.language = ?)", viewerNative)
	case viewerNative == "":
		q = q.Where("users.native_language IN ?", viewerLearning)
	default:
		q = q.Where("users.native_language IN ? OR EXISTS (SELECT 1 FROM learning_languages ll WHERE ll.username = posts.username AND ll.language = ?)",
			viewerLearning, viewerNative)
	}

	var rows []PostRow
	err := q.Order("posts.created_at desc").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

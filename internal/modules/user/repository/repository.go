package repository

import (
	"context"
	"strings"

	"github.com/globuddy/globuddy-server/internal/entity"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ReplaceLanguages swaps the user's full learning list in one transaction,
	// preserving declared order via Position.
	ReplaceLanguages(ctx context.Context, username string, languages []entity.LearningLanguage) error
	// DeleteLanguage removes one (language, level) pair. Reports whether a row
	// was actually removed.
	DeleteLanguage(ctx context.Context, username, language string) (bool, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]entity.User, error)
	// FindPartners returns a uniformly random bounded sample of users
	// satisfying the mutual exchange predicate against the viewer.
	FindPartners(ctx context.Context, viewerUsername, viewerNative string, viewerLearning []string, limit int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Languages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).
		Omit("Languages").
		Save(user).Error
}

func (r *userRepository) ReplaceLanguages(ctx context.Context, username string, languages []entity.LearningLanguage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).
			Delete(&entity.LearningLanguage{}).Error; err != nil {
			return err
		}

		for i := range languages {
			languages[i].ID = 0
			languages[i].Username = username
			languages[i].Position = i
		}

		if len(languages) == 0 {
			return nil
		}
		return tx.Create(&languages).Error
	})
}

func (r *userRepository) DeleteLanguage(ctx context.Context, username, language string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("username = ? AND LOWER(language) = LOWER(?)", username, language).
		Delete(&entity.LearningLanguage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) SearchByUsername(ctx context.Context, query string, limit int) ([]entity.User, error) {
	var users []entity.User
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(username) LIKE ?", pattern).
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepository) FindPartners(ctx context.Context, viewerUsername, viewerNative string, viewerLearning []string, limit int) ([]entity.User, error) {
	if viewerNative == "" || len(viewerLearning) == 0 {
		return []entity.User{}, nil
	}

	var users []entity.User
	err := r.db.WithContext(ctx).
		Preload("Languages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("username <> ?", viewerUsername).
		Where("native_language <> ?", viewerNative).
		Where("native_language IN ?", viewerLearning).
		Where("EXISTS (SELECT 1 FROM learning_languages ll WHERE ll.username = users.username AND ll.language = ?)", viewerNative).
		Order("RANDOM()").
		Limit(limit).
		Find(&users).Error
	return users, err
}

package repository

import (
	"context"

	"github.com/globuddy/globuddy-server/internal/entity"
	"github.com/globuddy/globuddy-server/pkg/apperror"
	"gorm.io/gorm"
)

type GroupRepository interface {
	// Create inserts the group and enrolls its author as the first member
	// in one transaction.
	Create(ctx context.Context, group *entity.Group) error
	FindByID(ctx context.Context, id uint) (*entity.Group, error)
	ListByMember(ctx context.Context, username string) ([]entity.Group, error)
	ListAll(ctx context.Context) ([]entity.Group, error)
	Update(ctx context.Context, group *entity.Group) error
	// DeleteCascade removes the group with its members and messages.
	DeleteCascade(ctx context.Context, id uint) error

	Join(ctx context.Context, groupID uint, username string) error
	// Leave reports whether a membership row was actually removed.
	Leave(ctx context.Context, groupID uint, username string) (bool, error)
	IsMember(ctx context.Context, groupID uint, username string) (bool, error)
	Members(ctx context.Context, groupID uint) ([]string, error)

	// CreateMessage inserts the message and one notification per recipient
	// in the same transaction.
	CreateMessage(ctx context.Context, message *entity.GroupMessage, notifications []*entity.Notification) error
	ListMessages(ctx context.Context, groupID uint, limit, offset int) ([]entity.GroupMessage, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&entity.GroupMember{
			GroupID:  group.ID,
			Username: group.GroupAuthor,
		}).Error
	})
}

func (r *groupRepository) FindByID(ctx context.Context, id uint) (*entity.Group, error) {
	var group entity.Group
	err := r.db.WithContext(ctx).First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListByMember(ctx context.Context, username string) ([]entity.Group, error) {
	var groups []entity.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.username = ?", username).
		Order("groups.created_at desc").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) ListAll(ctx context.Context) ([]entity.Group, error) {
	var groups []entity.Group
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Update(ctx context.Context, group *entity.Group) error {
	return r.db.WithContext(ctx).Omit("Members").Save(group).Error
}

func (r *groupRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&entity.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&entity.GroupMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Group{}, id).Error
	})
}

func (r *groupRepository) Join(ctx context.Context, groupID uint, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.GroupMember{}).
			Where("group_id = ? AND username = ?", groupID, username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("already a member of this group")
		}
		return tx.Create(&entity.GroupMember{
			GroupID:  groupID,
			Username: username,
		}).Error
	})
}

func (r *groupRepository) Leave(ctx context.Context, groupID uint, username string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND username = ?", groupID, username).
		Delete(&entity.GroupMember{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *groupRepository) IsMember(ctx context.Context, groupID uint, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ? AND username = ?", groupID, username).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepository) Members(ctx context.Context, groupID uint) ([]string, error) {
	var members []string
	err := r.db.WithContext(ctx).Model(&entity.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Pluck("username", &members).Error
	return members, err
}

func (r *groupRepository) CreateMessage(ctx context.Context, message *entity.GroupMessage, notifications []*entity.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		for _, notification := range notifications {
			notification.RelatedID = message.ID
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *groupRepository) ListMessages(ctx context.Context, groupID uint, limit, offset int) ([]entity.GroupMessage, error) {
	var messages []entity.GroupMessage
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

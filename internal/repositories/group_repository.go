package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group and membership operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	AddMember(ctx context.Context, member *models.GroupMember) (bool, error)
	GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error)
	GetMembers(ctx context.Context, groupID uint, status string, page, limit int) ([]models.GroupMember, int64, error)
	CountMembers(ctx context.Context, groupID uint, status string) (int64, error)
	UpdateRole(ctx context.Context, groupID, userID uint, role string) (bool, error)
	ActivateMember(ctx context.Context, groupID, userID uint) (bool, error)
	SearchGroups(ctx context.Context, query string, page, limit int) ([]models.Group, int64, error)
}

// GormGroupRepository implements GroupRepository on gorm
type GormGroupRepository struct {
	db *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// CreateGroup stores the group and makes its creator an active admin
func (r *GormGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.Privacy == "" {
		group.Privacy = models.GroupPublic
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{
			GroupID:  group.ID,
			UserID:   group.CreatorID,
			Role:     models.RoleAdmin,
			Status:   models.MemberActive,
			JoinedAt: time.Now(),
		}).Error
	})
}

func (r *GormGroupRepository) GetGroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// AddMember inserts the membership unless one already exists for (group, user).
// It reports false when the user already had a row.
func (r *GormGroupRepository) AddMember(ctx context.Context, member *models.GroupMember) (bool, error) {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "group_id"}, {Name: "user_id"}}, DoNothing: true}).
		Create(member)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormGroupRepository) GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	var member models.GroupMember
	if err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetMembers lists members with the given status, admins first then by join time
func (r *GormGroupRepository) GetMembers(ctx context.Context, groupID uint, status string, page, limit int) ([]models.GroupMember, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND status = ?", groupID, status).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var members []models.GroupMember
	err := q.Preload("User").
		Order("CASE role WHEN 'admin' THEN 0 WHEN 'moderator' THEN 1 ELSE 2 END, joined_at ASC, id ASC").
		Scopes(Paginate(page, limit)).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *GormGroupRepository) CountMembers(ctx context.Context, groupID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND status = ?", groupID, status).
		Count(&count).Error
	return count, err
}

// UpdateRole changes the role of an existing membership; false when there is none
func (r *GormGroupRepository) UpdateRole(ctx context.Context, groupID, userID uint, role string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	return res.RowsAffected == 1, res.Error
}

// ActivateMember moves a pending membership to active; false when nothing was pending
func (r *GormGroupRepository) ActivateMember(ctx context.Context, groupID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.MemberPending).
		Updates(map[string]any{"status": models.MemberActive, "joined_at": time.Now()})
	return res.RowsAffected == 1, res.Error
}

func (r *GormGroupRepository) SearchGroups(ctx context.Context, query string, page, limit int) ([]models.Group, int64, error) {
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).Model(&models.Group{}).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var groups []models.Group
	if err := q.Order("name ASC, id ASC").Scopes(Paginate(page, limit)).Find(&groups).Error; err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	GetTopLevelComments(ctx context.Context, postID uint, page, limit int) ([]models.Comment, int64, error)
	GetReplies(ctx context.Context, parentID uint, limit int) ([]models.Comment, error)
	CountReplies(ctx context.Context, parentIDs []uint) (map[uint]int64, error)
}

// GormCommentRepository implements CommentRepository on gorm
type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *GormCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Model(comment).Update("content", comment.Content).Error
}

// DeleteComment removes the comment, its replies and their reactions
func (r *GormCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Comment{}).
			Where("id = ? OR parent_comment_id = ?", id, id).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, ids).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
}

// GetTopLevelComments lists comments without a parent, oldest first
func (r *GormCommentRepository) GetTopLevelComments(ctx context.Context, postID uint, page, limit int) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []models.Comment
	if err := q.Preload("Author").Order("created_at ASC, id ASC").Scopes(Paginate(page, limit)).Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GetReplies returns the first replies of a comment, oldest first
func (r *GormCommentRepository) GetReplies(ctx context.Context, parentID uint, limit int) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("parent_comment_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&replies).Error
	return replies, err
}

func (r *GormCommentRepository) CountReplies(ctx context.Context, parentIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}
	var rows []idCount
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("parent_comment_id AS id, COUNT(*) AS count").
		Where("parent_comment_id IN ?", parentIDs).
		Group("parent_comment_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row.Count
	}
	return result, nil
}

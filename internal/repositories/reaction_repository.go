package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	UpsertReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, userID uint, targetType string, targetID uint) (bool, error)
	GetReaction(ctx context.Context, userID uint, targetType string, targetID uint) (*models.Reaction, error)
	GetReactions(ctx context.Context, targetType string, targetID uint, page, limit int) ([]models.Reaction, int64, error)
	GetSummary(ctx context.Context, targetType string, targetID uint) (map[string]int64, error)
	GetUserReactions(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint]string, error)
}

// GormReactionRepository implements ReactionRepository on gorm
type GormReactionRepository struct {
	db *gorm.DB
}

func NewGormReactionRepository(db *gorm.DB) *GormReactionRepository {
	return &GormReactionRepository{db: db}
}

// UpsertReaction stores the reaction, replacing the type of an existing one for the same user and target
func (r *GormReactionRepository) UpsertReaction(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
	}).Create(reaction).Error
}

func (r *GormReactionRepository) DeleteReaction(ctx context.Context, userID uint, targetType string, targetID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&models.Reaction{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormReactionRepository) GetReaction(ctx context.Context, userID uint, targetType string, targetID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// GetReactions lists reactions on a target with the reacting user, newest first
func (r *GormReactionRepository) GetReactions(ctx context.Context, targetType string, targetID uint, page, limit int) ([]models.Reaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reactions []models.Reaction
	if err := q.Preload("User").Order("updated_at DESC, id DESC").Scopes(Paginate(page, limit)).Find(&reactions).Error; err != nil {
		return nil, 0, err
	}
	return reactions, total, nil
}

// GetSummary counts reactions on a target per reaction type
func (r *GormReactionRepository) GetSummary(ctx context.Context, targetType string, targetID uint) (map[string]int64, error) {
	var rows []struct {
		ReactionType string
		Count        int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("reaction_type, COUNT(*) AS count").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("reaction_type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	summary := make(map[string]int64, len(rows))
	for _, row := range rows {
		summary[row.ReactionType] = row.Count
	}
	return summary, nil
}

// GetUserReactions returns the user's reaction type per target id
func (r *GormReactionRepository) GetUserReactions(ctx context.Context, userID uint, targetType string, targetIDs []uint) (map[uint]string, error) {
	result := make(map[uint]string, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id IN ?", userID, targetType, targetIDs).
		Find(&reactions).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	for _, re := range reactions {
		result[re.TargetID] = re.ReactionType
	}
	return result, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryViewRepository records who watched which story
type StoryViewRepository interface {
	RecordView(ctx context.Context, storyID string, viewerID uint) (bool, error)
	GetViews(ctx context.Context, storyID string) ([]models.StoryView, error)
	GetViewedStoryIDs(ctx context.Context, viewerID uint, storyIDs []string) (map[string]bool, error)
}

type GormStoryViewRepository struct {
	db *gorm.DB
}

func NewGormStoryViewRepository(db *gorm.DB) *GormStoryViewRepository {
	return &GormStoryViewRepository{db: db}
}

// RecordView stores the first view of a story by viewerID; repeats report false
func (r *GormStoryViewRepository) RecordView(ctx context.Context, storyID string, viewerID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "story_id"}, {Name: "viewer_id"}}, DoNothing: true}).
		Create(&models.StoryView{StoryID: storyID, ViewerID: viewerID, ViewedAt: time.Now()})
	return res.RowsAffected == 1, res.Error
}

func (r *GormStoryViewRepository) GetViews(ctx context.Context, storyID string) ([]models.StoryView, error) {
	var views []models.StoryView
	err := r.db.WithContext(ctx).Preload("Viewer").
		Where("story_id = ?", storyID).
		Order("viewed_at DESC").
		Find(&views).Error
	return views, err
}

func (r *GormStoryViewRepository) GetViewedStoryIDs(ctx context.Context, viewerID uint, storyIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(storyIDs) == 0 {
		return result, nil
	}
	var seen []models.StoryView
	err := r.db.WithContext(ctx).Where("viewer_id = ? AND story_id IN ?", viewerID, storyIDs).Find(&seen).Error
	if err != nil {
		return nil, err
	}
	for _, s := range seen {
		result[s.StoryID] = true
	}
	return result, nil
}

package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedPostRepository defines the interface for bookmark operations
type SavedPostRepository interface {
	SavePost(ctx context.Context, userID, postID uint) (bool, error)
	UnsavePost(ctx context.Context, userID, postID uint) (bool, error)
	GetSavedPosts(ctx context.Context, userID uint, page, limit int) ([]models.Post, int64, error)
}

type GormSavedPostRepository struct {
	db *gorm.DB
}

func NewGormSavedPostRepository(db *gorm.DB) *GormSavedPostRepository {
	return &GormSavedPostRepository{db: db}
}

// SavePost reports false when the post was already saved
func (r *GormSavedPostRepository) SavePost(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedPost{UserID: userID, PostID: postID})
	return res.RowsAffected == 1, res.Error
}

func (r *GormSavedPostRepository) UnsavePost(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{})
	return res.RowsAffected > 0, res.Error
}

// GetSavedPosts returns the saved posts, most recently saved first
func (r *GormSavedPostRepository) GetSavedPosts(ctx context.Context, userID uint, page, limit int) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []models.Post
	err := q.Preload("Author").
		Order("saved_posts.created_at DESC").
		Scopes(Paginate(page, limit)).
		Find(&posts).Error
	return posts, total, err
}

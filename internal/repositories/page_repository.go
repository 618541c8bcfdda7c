package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageRepository defines the interface for pages and page likes
type PageRepository interface {
	CreatePage(ctx context.Context, page *models.Page) error
	GetPageByID(ctx context.Context, id uint) (*models.Page, error)
	ToggleLike(ctx context.Context, pageID, userID uint) (bool, error)
	IsLiked(ctx context.Context, pageID, userID uint) (bool, error)
	CountLikes(ctx context.Context, pageID uint, since *time.Time) (int64, error)
	SearchPages(ctx context.Context, query string, page, limit int) ([]models.Page, int64, error)
}

type GormPageRepository struct {
	db *gorm.DB
}

func NewGormPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

func (r *GormPageRepository) CreatePage(ctx context.Context, page *models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *GormPageRepository) GetPageByID(ctx context.Context, id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.WithContext(ctx).First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// ToggleLike removes the user's like if present, otherwise adds it. It returns the new state.
func (r *GormPageRepository) ToggleLike(ctx context.Context, pageID, userID uint) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("page_id = ? AND user_id = ?", pageID, userID).Delete(&models.PageLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "page_id"}, {Name: "user_id"}}, DoNothing: true}).
			Create(&models.PageLike{PageID: pageID, UserID: userID}).Error
	})
	return liked, err
}

func (r *GormPageRepository) IsLiked(ctx context.Context, pageID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PageLike{}).
		Where("page_id = ? AND user_id = ?", pageID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountLikes counts likes on a page, optionally only those created after since
func (r *GormPageRepository) CountLikes(ctx context.Context, pageID uint, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.PageLike{}).Where("page_id = ?", pageID)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *GormPageRepository) SearchPages(ctx context.Context, query string, page, limit int) ([]models.Page, int64, error) {
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).Model(&models.Page{}).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)", pattern, pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var pages []models.Page
	if err := q.Order("name ASC, id ASC").Scopes(Paginate(page, limit)).Find(&pages).Error; err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

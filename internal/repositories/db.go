package repositories

import (
	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Paginate applies page/limit as offset/limit; page is 1-based
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			return db
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// acceptedEdges expands accepted friendships into both directions (a -> b)
const acceptedEdges = `
	SELECT user_id AS a, friend_id AS b FROM friendships WHERE status = 'accepted'
	UNION ALL
	SELECT friend_id AS a, user_id AS b FROM friendships WHERE status = 'accepted'`

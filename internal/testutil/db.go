// Package testutil opens throwaway databases and seeds rows for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a private in-memory SQLite database migrated with every model
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:social_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "automigrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts an active user with a unique email
func CreateUser(t *testing.T, db *gorm.DB, firstName string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:     firstName,
		LastName:      "Test",
		Email:         fmt.Sprintf("%s.%s@example.com", firstName, uuid.NewString()[:8]),
		AccountStatus: models.AccountActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// MakeFriends stores an accepted friendship between a and b
func MakeFriends(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.Friendship{
		UserID:   a.ID,
		FriendID: b.ID,
		Status:   models.FriendshipAccepted,
	}).Error)
}

// CreatePost inserts a post by owner with the given privacy scope
func CreatePost(t *testing.T, db *gorm.DB, owner *models.User, privacy string) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:   owner.ID,
		Content:  fmt.Sprintf("%s post by %s", privacy, owner.FirstName),
		Privacy:  privacy,
		PostType: models.PostTypeStatus,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

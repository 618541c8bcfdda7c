package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormPageRepository(db)
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")

	page := &models.Page{Name: "Gopher Club", Category: "community", CreatorID: owner.ID}
	require.NoError(t, repo.CreatePage(ctx, page))

	liked, err := repo.ToggleLike(ctx, page.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	isLiked, err := repo.IsLiked(ctx, page.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	count, err := repo.CountLikes(ctx, page.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	liked, err = repo.ToggleLike(ctx, page.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	count, err = repo.CountLikes(ctx, page.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCountLikes_Since(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormPageRepository(db)
	owner := testutil.CreateUser(t, db, "owner")
	old := testutil.CreateUser(t, db, "old")
	recent := testutil.CreateUser(t, db, "recent")

	page := &models.Page{Name: "Insights", Category: "test", CreatorID: owner.ID}
	require.NoError(t, repo.CreatePage(ctx, page))

	now := time.Now()
	require.NoError(t, db.Create(&models.PageLike{PageID: page.ID, UserID: old.ID, CreatedAt: now.AddDate(0, 0, -30)}).Error)
	require.NoError(t, db.Create(&models.PageLike{PageID: page.ID, UserID: recent.ID, CreatedAt: now.Add(-time.Hour)}).Error)

	since := now.AddDate(0, 0, -7)
	count, err := repo.CountLikes(ctx, page.ID, &since)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgres starts a throwaway PostgreSQL container and returns a migrated connection
func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("social"),
		tcpostgres.WithUsername("social"),
		tcpostgres.WithPassword("social"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestPostgresFriendshipGraph(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	repo := NewGormFriendshipRepository(db)

	me := testutil.CreateUser(t, db, "me")
	bridge := testutil.CreateUser(t, db, "bridge")
	other := testutil.CreateUser(t, db, "other")
	stranger := testutil.CreateUser(t, db, "stranger")

	created, err := repo.CreateRequest(ctx, &models.Friendship{UserID: me.ID, FriendID: stranger.ID})
	require.NoError(t, err)
	assert.True(t, created)

	// same unordered pair from the other side hits the unique pair key
	created, err = repo.CreateRequest(ctx, &models.Friendship{UserID: stranger.ID, FriendID: me.ID})
	require.NoError(t, err)
	assert.False(t, created)

	testutil.MakeFriends(t, db, me, bridge)
	testutil.MakeFriends(t, db, bridge, other)

	ok, err := repo.AreFriends(ctx, bridge.ID, me.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	mutual, err := repo.MutualCount(ctx, me.ID, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, mutual)

	suggestions, err := repo.Suggestions(ctx, me.ID, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, other.ID, suggestions[0].ID)
	assert.EqualValues(t, 1, suggestions[0].MutualFriends)
}

func TestPostgresReactionUpsert(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	repo := NewGormReactionRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	post := testutil.CreatePost(t, db, owner, models.PrivacyPublic)

	for _, kind := range []string{models.ReactionLike, models.ReactionLove} {
		require.NoError(t, repo.UpsertReaction(ctx, &models.Reaction{
			UserID:       fan.ID,
			TargetType:   models.TargetPost,
			TargetID:     post.ID,
			ReactionType: kind,
		}))
	}

	var rows []models.Reaction
	require.NoError(t, db.Where("target_id = ?", post.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ReactionLove, rows[0].ReactionType)
}

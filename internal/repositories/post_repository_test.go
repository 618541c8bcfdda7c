package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePost_KeepsNotifications(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	posts := NewGormPostRepository(db)
	notifications := NewGormNotificationRepository(db)
	author := testutil.CreateUser(t, db, "author")
	fan := testutil.CreateUser(t, db, "fan")
	post := testutil.CreatePost(t, db, author, models.PrivacyPublic)

	comment := &models.Comment{PostID: post.ID, UserID: fan.ID, Content: "nice"}
	require.NoError(t, db.Create(comment).Error)
	require.NoError(t, db.Create(&models.Reaction{UserID: fan.ID, TargetType: models.TargetPost, TargetID: post.ID, ReactionType: models.ReactionLike}).Error)
	require.NoError(t, db.Create(&models.Reaction{UserID: author.ID, TargetType: models.TargetComment, TargetID: comment.ID, ReactionType: models.ReactionHaha}).Error)
	require.NoError(t, db.Create(&models.SavedPost{UserID: fan.ID, PostID: post.ID}).Error)
	require.NoError(t, notifications.CreateNotification(ctx, &models.Notification{
		UserID:     author.ID,
		Type:       models.NotificationPostComment,
		Message:    "fan commented on your post",
		ActorID:    &fan.ID,
		TargetType: models.TargetPost,
		TargetID:   &post.ID,
	}))

	require.NoError(t, posts.DeletePost(ctx, post.ID))

	for _, model := range []any{&models.Post{}, &models.Comment{}, &models.Reaction{}, &models.SavedPost{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T rows left after delete", model)
	}

	items, total, err := notifications.GetByRecipientID(ctx, author.ID, false, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.NotNil(t, items[0].TargetID)
	assert.Equal(t, post.ID, *items[0].TargetID)
}

func TestGetCounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	posts := NewGormPostRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")
	busy := testutil.CreatePost(t, db, a, models.PrivacyPublic)
	quiet := testutil.CreatePost(t, db, a, models.PrivacyPublic)

	for _, u := range []*models.User{a, b} {
		require.NoError(t, db.Create(&models.Reaction{UserID: u.ID, TargetType: models.TargetPost, TargetID: busy.ID, ReactionType: models.ReactionLike}).Error)
	}
	require.NoError(t, db.Create(&models.Comment{PostID: busy.ID, UserID: b.ID, Content: "first"}).Error)

	counts, err := posts.GetCounts(ctx, []uint{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PostCounts{Reactions: 2, Comments: 1}, counts[busy.ID])
	assert.Equal(t, models.PostCounts{}, counts[quiet.ID])
}

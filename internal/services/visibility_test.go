package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanView(t *testing.T) {
	const owner uint = 1
	friend := func(ok bool) func() (bool, error) {
		return func() (bool, error) { return ok, nil }
	}

	tests := []struct {
		name     string
		viewer   Viewer
		scope    string
		isFriend bool
		want     bool
	}{
		{"owner sees only_me", AuthenticatedAs(owner), models.PrivacyOnlyMe, false, true},
		{"owner sees friends scope", AuthenticatedAs(owner), models.PrivacyFriends, false, true},
		{"anonymous sees public", Anonymous(), models.PrivacyPublic, false, true},
		{"stranger sees public", AuthenticatedAs(2), models.PrivacyPublic, false, true},
		{"anonymous denied friends scope", Anonymous(), models.PrivacyFriends, true, false},
		{"stranger denied friends scope", AuthenticatedAs(2), models.PrivacyFriends, false, false},
		{"friend sees friends scope", AuthenticatedAs(2), models.PrivacyFriends, true, true},
		{"friend denied only_me", AuthenticatedAs(2), models.PrivacyOnlyMe, true, false},
		{"unknown scope denied", AuthenticatedAs(2), "secret", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanView(tt.viewer, owner, tt.scope, friend(tt.isFriend))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanView_AnonymousIsNotUserZero(t *testing.T) {
	got, err := CanView(Anonymous(), 0, models.PrivacyOnlyMe, nil)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = CanView(AuthenticatedAs(0), 0, models.PrivacyOnlyMe, nil)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCanView_FriendLookupError(t *testing.T) {
	boom := errors.New("boom")
	_, err := CanView(AuthenticatedAs(2), 1, models.PrivacyFriends, func() (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestVisibility_FriendsScopedPost(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	stranger := testutil.CreateUser(t, db, "stranger")
	testutil.MakeFriends(t, db, friend, owner)
	post := testutil.CreatePost(t, db, owner, models.PrivacyFriends)

	v := NewVisibility(repositories.NewGormFriendshipRepository(db), repositories.NewGormGroupRepository(db))

	for _, tc := range []struct {
		name   string
		viewer Viewer
		want   bool
	}{
		{"owner", AuthenticatedAs(owner.ID), true},
		{"friend", AuthenticatedAs(friend.ID), true},
		{"stranger", AuthenticatedAs(stranger.ID), false},
		{"anonymous", Anonymous(), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := v.CanViewPost(ctx, tc.viewer, post)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}

	err := v.RequirePost(ctx, AuthenticatedAs(stranger.ID), post)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestVisibility_PostScopesFor(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	testutil.MakeFriends(t, db, owner, friend)
	v := NewVisibility(repositories.NewGormFriendshipRepository(db), repositories.NewGormGroupRepository(db))

	scopes, err := v.PostScopesFor(ctx, AuthenticatedAs(owner.ID), owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyOnlyMe}, scopes)

	scopes, err = v.PostScopesFor(ctx, AuthenticatedAs(friend.ID), owner.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.PrivacyPublic, models.PrivacyFriends}, scopes)

	scopes, err = v.PostScopesFor(ctx, Anonymous(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.PrivacyPublic}, scopes)
}

func TestVisibility_StoryFriendsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	stranger := testutil.CreateUser(t, db, "stranger")
	testutil.MakeFriends(t, db, owner, friend)
	v := NewVisibility(repositories.NewGormFriendshipRepository(db), repositories.NewGormGroupRepository(db))
	story := &models.Story{UserID: owner.ID}

	ok, err := v.CanViewStory(ctx, AuthenticatedAs(friend.ID), story)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.CanViewStory(ctx, AuthenticatedAs(stranger.ID), story)
	require.NoError(t, err)
	assert.False(t, ok)
}

package services

import (
	"context"
	"testing"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostService(t *testing.T) (*gorm.DB, *PostService) {
	t.Helper()
	db := testutil.NewDB(t)
	friendships := repositories.NewGormFriendshipRepository(db)
	svc := NewPostService(
		repositories.NewGormPostRepository(db),
		repositories.NewGormReactionRepository(db),
		friendships,
		NewVisibility(friendships, repositories.NewGormGroupRepository(db)),
	)
	return db, svc
}

func postIDs(views []models.PostView) []uint {
	ids := make([]uint, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestPost_OnlyMeHiddenFromOthers(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	post, err := svc.Create(ctx, a.ID, models.CreatePostRequest{Content: "diary", Privacy: models.PrivacyOnlyMe})
	require.NoError(t, err)

	_, err = svc.Get(ctx, AuthenticatedAs(b.ID), post.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = svc.Get(ctx, Anonymous(), post.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	view, err := svc.Get(ctx, AuthenticatedAs(a.ID), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "diary", view.Content)
	assert.Equal(t, a.ID, view.Author.ID)
}

func TestPost_CreateDefaults(t *testing.T) {
	db, svc := newPostService(t)
	a := testutil.CreateUser(t, db, "alice")

	post, err := svc.Create(context.Background(), a.ID, models.CreatePostRequest{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, models.PrivacyPublic, post.Privacy)
	assert.Equal(t, models.PostTypeStatus, post.PostType)
}

func TestPost_FeedComposition(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	me := testutil.CreateUser(t, db, "me")
	friend := testutil.CreateUser(t, db, "friend")
	stranger := testutil.CreateUser(t, db, "stranger")
	testutil.MakeFriends(t, db, me, friend)

	mine := testutil.CreatePost(t, db, me, models.PrivacyOnlyMe)
	friendPublic := testutil.CreatePost(t, db, friend, models.PrivacyPublic)
	friendFriends := testutil.CreatePost(t, db, friend, models.PrivacyFriends)
	testutil.CreatePost(t, db, friend, models.PrivacyOnlyMe)
	testutil.CreatePost(t, db, stranger, models.PrivacyPublic)

	views, total, err := svc.Feed(ctx, me.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.ElementsMatch(t, []uint{mine.ID, friendPublic.ID, friendFriends.ID}, postIDs(views))
}

func TestPost_ByUserRespectsScopes(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	testutil.MakeFriends(t, db, owner, friend)
	for _, scope := range []string{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyOnlyMe} {
		testutil.CreatePost(t, db, owner, scope)
	}

	_, total, err := svc.ByUser(ctx, AuthenticatedAs(owner.ID), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = svc.ByUser(ctx, AuthenticatedAs(friend.ID), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = svc.ByUser(ctx, Anonymous(), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPost_SearchOnlyVisible(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	testutil.MakeFriends(t, db, owner, friend)

	for _, scope := range []string{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyOnlyMe} {
		_, err := svc.Create(ctx, owner.ID, models.CreatePostRequest{Content: "Gopher news " + scope, Privacy: scope})
		require.NoError(t, err)
	}

	_, total, err := svc.Search(ctx, Anonymous(), "gopher", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.Search(ctx, AuthenticatedAs(friend.ID), "gopher", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = svc.Search(ctx, AuthenticatedAs(owner.ID), "gopher", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestPost_UpdateDeleteOwnerOnly(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	post := testutil.CreatePost(t, db, owner, models.PrivacyPublic)

	content := "edited"
	_, err := svc.Update(ctx, other.ID, post.ID, models.UpdatePostRequest{Content: &content})
	assert.Equal(t, KindForbidden, KindOf(err))

	updated, err := svc.Update(ctx, owner.ID, post.ID, models.UpdatePostRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.Equal(t, KindForbidden, KindOf(svc.Delete(ctx, other.ID, post.ID)))
	require.NoError(t, svc.Delete(ctx, owner.ID, post.ID))
	_, err = svc.Get(ctx, AuthenticatedAs(owner.ID), post.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPost_FilterVisible(t *testing.T) {
	db, svc := newPostService(t)
	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")
	public := testutil.CreatePost(t, db, owner, models.PrivacyPublic)
	hidden := testutil.CreatePost(t, db, owner, models.PrivacyFriends)

	got, err := svc.FilterVisible(context.Background(), AuthenticatedAs(other.ID), []models.Post{*hidden, *public})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, public.ID, got[0].ID)
}

// groupPost creates a group owned by owner and a public post inside it
func groupPost(t *testing.T, db *gorm.DB, owner *models.User, privacy, content string) (*models.Group, *models.Post) {
	t.Helper()
	group := &models.Group{Name: "Group " + content, Privacy: privacy, CreatorID: owner.ID}
	require.NoError(t, repositories.NewGormGroupRepository(db).CreateGroup(context.Background(), group))
	post := &models.Post{UserID: owner.ID, GroupID: &group.ID, Content: content, Privacy: models.PrivacyPublic}
	require.NoError(t, db.Create(post).Error)
	return group, post
}

func addMember(t *testing.T, db *gorm.DB, group *models.Group, user *models.User, status string) {
	t.Helper()
	_, err := repositories.NewGormGroupRepository(db).AddMember(context.Background(), &models.GroupMember{
		GroupID: group.ID,
		UserID:  user.ID,
		Role:    models.RoleMember,
		Status:  status,
	})
	require.NoError(t, err)
}

func TestPost_PrivateGroupPostNeedsActiveMembership(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	member := testutil.CreateUser(t, db, "member")
	pending := testutil.CreateUser(t, db, "pending")
	outsider := testutil.CreateUser(t, db, "outsider")
	group, post := groupPost(t, db, owner, models.GroupPrivate, "closed doors")
	addMember(t, db, group, member, models.MemberActive)
	addMember(t, db, group, pending, models.MemberPending)

	for _, viewer := range []Viewer{Anonymous(), AuthenticatedAs(outsider.ID), AuthenticatedAs(pending.ID)} {
		_, err := svc.Get(ctx, viewer, post.ID)
		assert.Equal(t, KindForbidden, KindOf(err))
	}

	view, err := svc.Get(ctx, AuthenticatedAs(member.ID), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed doors", view.Content)

	_, err = svc.Get(ctx, AuthenticatedAs(owner.ID), post.ID)
	require.NoError(t, err)

	got, err := svc.FilterVisible(ctx, AuthenticatedAs(outsider.ID), []models.Post{*post})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPost_PrivateGroupPostsLeftOutOfListings(t *testing.T) {
	db, svc := newPostService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	member := testutil.CreateUser(t, db, "member")
	friend := testutil.CreateUser(t, db, "friend")
	testutil.MakeFriends(t, db, owner, friend)
	testutil.MakeFriends(t, db, owner, member)

	group, closed := groupPost(t, db, owner, models.GroupPrivate, "secret gopher")
	addMember(t, db, group, member, models.MemberActive)
	_, open := groupPost(t, db, owner, models.GroupPublic, "open gopher")

	_, total, err := svc.Search(ctx, Anonymous(), "gopher", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	views, total, err := svc.Search(ctx, AuthenticatedAs(friend.ID), "gopher", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{open.ID}, postIDs(views))

	views, total, err = svc.Search(ctx, AuthenticatedAs(member.ID), "gopher", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []uint{closed.ID, open.ID}, postIDs(views))

	views, total, err = svc.Feed(ctx, friend.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{open.ID}, postIDs(views))

	_, total, err = svc.Feed(ctx, member.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = svc.ByUser(ctx, Anonymous(), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.ByUser(ctx, AuthenticatedAs(owner.ID), owner.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

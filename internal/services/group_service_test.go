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

func newGroupService(t *testing.T) (*gorm.DB, *GroupService) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, NewGroupService(
		repositories.NewGormGroupRepository(db),
		repositories.NewGormPostRepository(db),
		repositories.NewGormFriendshipRepository(db),
	)
}

func TestGroup_CreatorIsActiveAdmin(t *testing.T) {
	db, svc := newGroupService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")

	group, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Gophers"})
	require.NoError(t, err)
	assert.Equal(t, models.GroupPublic, group.Privacy)

	details, err := svc.Get(ctx, group.ID, AuthenticatedAs(owner.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.MemberCount)
	require.NotNil(t, details.Membership)
	assert.True(t, details.Membership.IsActiveAdmin())
}

func TestGroup_JoinPublicAndPrivate(t *testing.T) {
	db, svc := newGroupService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	joiner := testutil.CreateUser(t, db, "joiner")

	public, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Open", Privacy: models.GroupPublic})
	require.NoError(t, err)
	private, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Closed", Privacy: models.GroupPrivate})
	require.NoError(t, err)

	member, err := svc.Join(ctx, public.ID, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberActive, member.Status)

	member, err = svc.Join(ctx, private.ID, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberPending, member.Status)

	_, err = svc.Join(ctx, private.ID, joiner.ID)
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = svc.Join(ctx, 999, joiner.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGroup_ApprovePendingMember(t *testing.T) {
	db, svc := newGroupService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	joiner := testutil.CreateUser(t, db, "joiner")
	other := testutil.CreateUser(t, db, "other")

	group, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Closed", Privacy: models.GroupPrivate})
	require.NoError(t, err)
	_, err = svc.Join(ctx, group.ID, joiner.ID)
	require.NoError(t, err)

	_, _, err = svc.Members(ctx, group.ID, AuthenticatedAs(other.ID), models.MemberPending, 1, 10)
	assert.Equal(t, KindForbidden, KindOf(err))
	_, _, err = svc.Members(ctx, group.ID, Anonymous(), models.MemberPending, 1, 10)
	assert.Equal(t, KindUnauthenticated, KindOf(err))

	pending, total, err := svc.Members(ctx, group.ID, AuthenticatedAs(owner.ID), models.MemberPending, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, joiner.ID, pending[0].UserID)

	assert.Equal(t, KindForbidden, KindOf(svc.Approve(ctx, group.ID, joiner.ID, joiner.ID)))
	require.NoError(t, svc.Approve(ctx, group.ID, owner.ID, joiner.ID))
	assert.Equal(t, KindConflict, KindOf(svc.Approve(ctx, group.ID, owner.ID, joiner.ID)))

	_, total, err = svc.Members(ctx, group.ID, Anonymous(), "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGroup_UpdateRoleRequiresActiveAdmin(t *testing.T) {
	db, svc := newGroupService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	mod := testutil.CreateUser(t, db, "mod")
	member := testutil.CreateUser(t, db, "member")

	group, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Flat"})
	require.NoError(t, err)
	for _, u := range []*models.User{mod, member} {
		_, err := svc.Join(ctx, group.ID, u.ID)
		require.NoError(t, err)
	}

	require.NoError(t, svc.UpdateRole(ctx, group.ID, owner.ID, mod.ID, models.RoleModerator))

	err = svc.UpdateRole(ctx, group.ID, mod.ID, member.ID, models.RoleModerator)
	assert.Equal(t, KindForbidden, KindOf(err), "moderators cannot change roles")

	err = svc.UpdateRole(ctx, group.ID, owner.ID, member.ID, "owner")
	assert.Equal(t, KindBadInput, KindOf(err))

	outsider := testutil.CreateUser(t, db, "outsider")
	err = svc.UpdateRole(ctx, group.ID, owner.ID, outsider.ID, models.RoleMember)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGroup_PrivatePostsMembersOnly(t *testing.T) {
	db, svc := newGroupService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	pending := testutil.CreateUser(t, db, "pending")

	group, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Closed", Privacy: models.GroupPrivate})
	require.NoError(t, err)
	_, err = svc.Join(ctx, group.ID, pending.ID)
	require.NoError(t, err)

	post := &models.Post{Content: "members only"}
	require.NoError(t, svc.CreatePost(ctx, group.ID, owner.ID, post))
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)

	err = svc.CreatePost(ctx, group.ID, pending.ID, &models.Post{Content: "let me in"})
	assert.Equal(t, KindForbidden, KindOf(err))

	_, _, err = svc.Posts(ctx, group.ID, AuthenticatedAs(pending.ID), 1, 10)
	assert.Equal(t, KindForbidden, KindOf(err))
	_, _, err = svc.Posts(ctx, group.ID, Anonymous(), 1, 10)
	assert.Equal(t, KindForbidden, KindOf(err))

	posts, total, err := svc.Posts(ctx, group.ID, AuthenticatedAs(owner.ID), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "members only", posts[0].Content)
}

func TestGroup_PostsHonorPostPrivacy(t *testing.T) {
	db, svc := newGroupService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	member := testutil.CreateUser(t, db, "member")
	friend := testutil.CreateUser(t, db, "friend")
	testutil.MakeFriends(t, db, owner, friend)

	group, err := svc.Create(ctx, owner.ID, models.CreateGroupRequest{Name: "Open"})
	require.NoError(t, err)
	for _, u := range []*models.User{member, friend} {
		_, err := svc.Join(ctx, group.ID, u.ID)
		require.NoError(t, err)
	}
	for _, scope := range []string{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyOnlyMe} {
		require.NoError(t, svc.CreatePost(ctx, group.ID, owner.ID, &models.Post{Content: "group " + scope, Privacy: scope}))
	}

	posts, total, err := svc.Posts(ctx, group.ID, AuthenticatedAs(member.ID), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, models.PrivacyPublic, posts[0].Privacy)

	posts, total, err = svc.Posts(ctx, group.ID, AuthenticatedAs(friend.ID), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range posts {
		assert.NotEqual(t, models.PrivacyOnlyMe, p.Privacy)
	}

	_, total, err = svc.Posts(ctx, group.ID, Anonymous(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.Posts(ctx, group.ID, AuthenticatedAs(owner.ID), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

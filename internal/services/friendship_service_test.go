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

type friendshipFixture struct {
	db            *gorm.DB
	svc           *FriendshipService
	notifications repositories.NotificationRepository
}

func newFriendshipFixture(t *testing.T) friendshipFixture {
	t.Helper()
	db := testutil.NewDB(t)
	notifications := repositories.NewGormNotificationRepository(db)
	svc := NewFriendshipService(
		repositories.NewGormFriendshipRepository(db),
		repositories.NewGormUserRepository(db),
		NewNotifier(notifications),
	)
	return friendshipFixture{db: db, svc: svc, notifications: notifications}
}

func TestSendRequest_DuplicateBlocksBothDirections(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.SendRequest(ctx, a.ID, b.ID, "hi")
	require.NoError(t, err)

	_, err = f.svc.SendRequest(ctx, a.ID, b.ID, "again")
	assert.Equal(t, KindConflict, KindOf(err))

	_, err = f.svc.SendRequest(ctx, b.ID, a.ID, "reverse")
	assert.Equal(t, KindConflict, KindOf(err))

	var rows int64
	require.NoError(t, f.db.Model(&models.Friendship{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestSendRequest_Validation(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	gone := testutil.CreateUser(t, f.db, "gone")
	require.NoError(t, f.db.Model(gone).Update("account_status", models.AccountDeleted).Error)

	_, err := f.svc.SendRequest(ctx, a.ID, a.ID, "")
	assert.Equal(t, KindBadInput, KindOf(err))

	_, err = f.svc.SendRequest(ctx, a.ID, 9999, "")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.SendRequest(ctx, a.ID, gone.ID, "")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSendRequest_InactiveRequesterIsForbidden(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	suspended := testutil.CreateUser(t, f.db, "suspended")
	b := testutil.CreateUser(t, f.db, "bob")
	require.NoError(t, f.db.Model(suspended).Update("account_status", models.AccountSuspended).Error)

	_, err := f.svc.SendRequest(ctx, suspended.ID, b.ID, "hi")
	assert.Equal(t, KindForbidden, KindOf(err))

	var rows int64
	require.NoError(t, f.db.Model(&models.Friendship{}).Count(&rows).Error)
	assert.Zero(t, rows)

	_, total, err := f.notifications.GetByRecipientID(ctx, b.ID, false, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRespond_InactiveResponderIsForbidden(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	request, err := f.svc.SendRequest(ctx, a.ID, b.ID, "")
	require.NoError(t, err)
	require.NoError(t, f.db.Model(b).Update("account_status", models.AccountInactive).Error)

	_, err = f.svc.Respond(ctx, request.ID, b.ID, "accept")
	assert.Equal(t, KindForbidden, KindOf(err))

	stored, err := repositories.NewGormFriendshipRepository(f.db).GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, stored.Status)
}

func TestSendRequest_NotifiesTarget(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.SendRequest(ctx, a.ID, b.ID, "hi")
	require.NoError(t, err)

	items, total, err := f.notifications.GetByRecipientID(ctx, b.ID, false, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationFriendRequest, items[0].Type)
	require.NotNil(t, items[0].ActorID)
	assert.Equal(t, a.ID, *items[0].ActorID)
	assert.Equal(t, "alice Test sent you a friend request", items[0].Message)
}

func TestFriendRequestScenario(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.SendRequest(ctx, a.ID, b.ID, "hi")
	require.NoError(t, err)

	received, err := f.svc.Requests(ctx, b.ID, false)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, a.ID, received[0].UserID)
	assert.Equal(t, "hi", received[0].RequestMessage)
	require.NotNil(t, received[0].User)
	assert.Equal(t, "alice", received[0].User.FirstName)

	_, err = f.svc.Respond(ctx, received[0].ID, b.ID, "accept")
	require.NoError(t, err)

	ok, err := f.svc.AreFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	items, total, err := f.notifications.GetByRecipientID(ctx, a.ID, false, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationFriendAccepted, items[0].Type)
	require.NotNil(t, items[0].ActorID)
	assert.Equal(t, b.ID, *items[0].ActorID)
}

func TestRespond_Authorization(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")
	c := testutil.CreateUser(t, f.db, "carol")

	req, err := f.svc.SendRequest(ctx, a.ID, b.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Respond(ctx, req.ID, c.ID, "accept")
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.svc.Respond(ctx, req.ID, a.ID, "accept")
	assert.Equal(t, KindForbidden, KindOf(err), "the requester cannot accept its own request")

	_, err = f.svc.Respond(ctx, req.ID, b.ID, "maybe")
	assert.Equal(t, KindBadInput, KindOf(err))

	_, err = f.svc.Respond(ctx, 4242, b.ID, "accept")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.svc.Respond(ctx, req.ID, b.ID, "reject")
	require.NoError(t, err)

	_, err = f.svc.Respond(ctx, req.ID, b.ID, "accept")
	assert.Equal(t, KindNotFound, KindOf(err), "a handled request is no longer pending")
}

func TestUnfriend_ResetsPair(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")
	testutil.MakeFriends(t, f.db, a, b)

	require.NoError(t, f.svc.Unfriend(ctx, b.ID, a.ID))

	ok, err := f.svc.AreFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.SendRequest(ctx, a.ID, b.ID, "again?")
	assert.NoError(t, err)
}

func TestUnfriend_Idempotent(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	assert.NoError(t, f.svc.Unfriend(ctx, a.ID, b.ID))
	assert.NoError(t, f.svc.Unfriend(ctx, a.ID, b.ID))
	assert.Equal(t, KindBadInput, KindOf(f.svc.Unfriend(ctx, a.ID, a.ID)))
}

func TestRejected_BlocksUntilTargetClears(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	req, err := f.svc.SendRequest(ctx, a.ID, b.ID, "")
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, req.ID, b.ID, "reject")
	require.NoError(t, err)

	_, err = f.svc.SendRequest(ctx, a.ID, b.ID, "")
	assert.Equal(t, KindConflict, KindOf(err))

	relation, err := f.svc.Relation(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationRejected, relation)

	assert.Equal(t, KindConflict, KindOf(f.svc.Withdraw(ctx, req.ID, a.ID)), "requester cannot clear a rejection")
	require.NoError(t, f.svc.Withdraw(ctx, req.ID, b.ID))

	_, err = f.svc.SendRequest(ctx, a.ID, b.ID, "second try")
	assert.NoError(t, err)
}

func TestWithdraw_PendingByRequester(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")
	c := testutil.CreateUser(t, f.db, "carol")

	req, err := f.svc.SendRequest(ctx, a.ID, b.ID, "")
	require.NoError(t, err)

	assert.Equal(t, KindForbidden, KindOf(f.svc.Withdraw(ctx, req.ID, c.ID)))
	assert.Equal(t, KindConflict, KindOf(f.svc.Withdraw(ctx, req.ID, b.ID)))
	require.NoError(t, f.svc.Withdraw(ctx, req.ID, a.ID))

	relation, err := f.svc.Relation(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationNone, relation)
}

func TestRelation(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, f.db, "alice")
	b := testutil.CreateUser(t, f.db, "bob")

	_, err := f.svc.SendRequest(ctx, a.ID, b.ID, "")
	require.NoError(t, err)

	got, err := f.svc.Relation(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationRequestSent, got)

	got, err = f.svc.Relation(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationRequestReceived, got)
}

func TestSuggestions_RankedByMutualFriends(t *testing.T) {
	f := newFriendshipFixture(t)
	ctx := context.Background()
	me := testutil.CreateUser(t, f.db, "me")
	f1 := testutil.CreateUser(t, f.db, "friendone")
	f2 := testutil.CreateUser(t, f.db, "friendtwo")
	popular := testutil.CreateUser(t, f.db, "popular")
	lonely := testutil.CreateUser(t, f.db, "lonely")
	pending := testutil.CreateUser(t, f.db, "pending")

	testutil.MakeFriends(t, f.db, me, f1)
	testutil.MakeFriends(t, f.db, f2, me)
	testutil.MakeFriends(t, f.db, f1, popular)
	testutil.MakeFriends(t, f.db, popular, f2)
	testutil.MakeFriends(t, f.db, f1, lonely)
	testutil.MakeFriends(t, f.db, f2, pending)
	_, err := f.svc.SendRequest(ctx, me.ID, pending.ID, "")
	require.NoError(t, err)

	got, err := f.svc.Suggestions(ctx, me.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, popular.ID, got[0].ID)
	assert.Equal(t, int64(2), got[0].MutualFriends)
	assert.Equal(t, lonely.ID, got[1].ID)
	assert.Equal(t, int64(1), got[1].MutualFriends)

	mutual, err := f.svc.MutualCount(ctx, me.ID, popular.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mutual)
}

func TestSuggestions_EmptyIsNotNil(t *testing.T) {
	f := newFriendshipFixture(t)
	me := testutil.CreateUser(t, f.db, "me")

	got, err := f.svc.Suggestions(context.Background(), me.ID, 500)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

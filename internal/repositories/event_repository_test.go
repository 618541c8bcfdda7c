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

func TestRSVP_UpsertAndOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormEventRepository(db)
	host := testutil.CreateUser(t, db, "host")
	maybe := testutil.CreateUser(t, db, "maybe")
	nope := testutil.CreateUser(t, db, "nope")

	event := &models.Event{Title: "Meetup", StartDate: time.Now().Add(48 * time.Hour), CreatorID: host.ID}
	require.NoError(t, repo.CreateEvent(ctx, event))
	assert.Equal(t, models.PrivacyPublic, event.Privacy)

	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: event.ID, UserID: nope.ID, Status: models.RSVPNotGoing}))
	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: event.ID, UserID: maybe.ID, Status: models.RSVPGoing}))
	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: event.ID, UserID: maybe.ID, Status: models.RSVPInterested}))
	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: event.ID, UserID: host.ID, Status: models.RSVPGoing}))

	counts, err := repo.CountRSVPs(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPCounts{Going: 1, Interested: 1, NotGoing: 1}, counts)

	rsvp, err := repo.GetRSVP(ctx, event.ID, maybe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPInterested, rsvp.Status)

	attendees, total, err := repo.GetAttendees(ctx, event.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	assert.Equal(t, []uint{host.ID, maybe.ID, nope.ID}, []uint{attendees[0].UserID, attendees[1].UserID, attendees[2].UserID})
	require.NotNil(t, attendees[0].User)
	assert.Equal(t, "host", attendees[0].User.FirstName)
}

func TestAttendingAndCreatedEvents(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormEventRepository(db)
	host := testutil.CreateUser(t, db, "host")
	guest := testutil.CreateUser(t, db, "guest")

	later := &models.Event{Title: "Later", StartDate: time.Now().Add(72 * time.Hour), CreatorID: host.ID}
	sooner := &models.Event{Title: "Sooner", StartDate: time.Now().Add(24 * time.Hour), CreatorID: host.ID}
	skipped := &models.Event{Title: "Skipped", StartDate: time.Now().Add(48 * time.Hour), CreatorID: host.ID}
	for _, e := range []*models.Event{later, sooner, skipped} {
		require.NoError(t, repo.CreateEvent(ctx, e))
	}
	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: later.ID, UserID: guest.ID, Status: models.RSVPGoing}))
	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: sooner.ID, UserID: guest.ID, Status: models.RSVPInterested}))
	require.NoError(t, repo.UpsertRSVP(ctx, &models.EventRSVP{EventID: skipped.ID, UserID: guest.ID, Status: models.RSVPNotGoing}))

	attending, total, err := repo.GetAttendingEvents(ctx, guest.ID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	assert.Equal(t, "Sooner", attending[0].Title)
	assert.Equal(t, "Later", attending[1].Title)

	_, total, err = repo.GetCreatedEvents(ctx, host.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateDirect_OnePerPair(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormConversationRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	first, err := repo.FindOrCreateDirect(ctx, a.ID, b.ID)
	require.NoError(t, err)
	second, err := repo.FindOrCreateDirect(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var conversations, participants int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&conversations).Error)
	require.NoError(t, db.Model(&models.ConversationParticipant{}).Count(&participants).Error)
	assert.Equal(t, int64(1), conversations)
	assert.Equal(t, int64(2), participants)

	ok, err := repo.IsParticipant(ctx, first.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddMessage_MovesLastMessage(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewGormConversationRepository(db)
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	conv, err := repo.FindOrCreateDirect(ctx, a.ID, b.ID)
	require.NoError(t, err)

	msg := &models.Message{ConversationID: conv.ID, SenderID: a.ID, Content: "hey"}
	require.NoError(t, repo.AddMessage(ctx, msg))
	assert.Equal(t, models.MessageSent, msg.Status)

	reloaded, err := repo.GetConversationByID(ctx, conv.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastMessageID)
	assert.Equal(t, msg.ID, *reloaded.LastMessageID)

	require.NoError(t, repo.MarkMessageRead(ctx, msg.ID))
	read, err := repo.GetMessageByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, read.Status)
}

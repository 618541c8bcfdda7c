package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/rs/zerolog/log"
)

// NotificationWriter is the part of the notification store the notifier needs.
type NotificationWriter interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
}

// Emission describes one notification to write.
type Emission struct {
	RecipientID uint
	Type        string
	Title       string
	Message     string
	ActorID     *uint
	TargetType  string
	TargetID    *uint
	ActionURL   string
}

// Notifier writes notifications synchronously, inline with the action that caused them.
// It never batches, deduplicates or retries; a failed write is returned to the caller.
type Notifier struct {
	store NotificationWriter
}

func NewNotifier(store NotificationWriter) *Notifier {
	return &Notifier{store: store}
}

// Emit creates exactly one notification row
func (n *Notifier) Emit(ctx context.Context, e Emission) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:     e.RecipientID,
		Type:       e.Type,
		Title:      e.Title,
		Message:    e.Message,
		ActorID:    e.ActorID,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		ActionURL:  e.ActionURL,
	}
	if err := n.store.CreateNotification(ctx, notification); err != nil {
		return nil, Internal(fmt.Errorf("create %s notification: %w", e.Type, err))
	}
	notificationsEmitted.WithLabelValues(e.Type).Inc()
	log.Ctx(ctx).Debug().
		Uint("recipient_id", e.RecipientID).
		Str("type", e.Type).
		Msg("notification emitted")
	return notification, nil
}

// FriendRequestSent notifies the target of a new request from sender
func (n *Notifier) FriendRequestSent(ctx context.Context, sender *models.User, targetID uint) error {
	_, err := n.Emit(ctx, Emission{
		RecipientID: targetID,
		Type:        models.NotificationFriendRequest,
		Title:       "New Friend Request",
		Message:     fmt.Sprintf("%s sent you a friend request", sender.FullName()),
		ActorID:     &sender.ID,
		TargetType:  "user",
		TargetID:    &sender.ID,
		ActionURL:   "/friends/requests",
	})
	return err
}

// FriendRequestAccepted notifies the original requester that accepter said yes
func (n *Notifier) FriendRequestAccepted(ctx context.Context, accepter *models.User, requesterID uint) error {
	_, err := n.Emit(ctx, Emission{
		RecipientID: requesterID,
		Type:        models.NotificationFriendAccepted,
		Title:       "Friend Request Accepted",
		Message:     fmt.Sprintf("%s accepted your friend request", accepter.FullName()),
		ActorID:     &accepter.ID,
		TargetType:  "user",
		TargetID:    &accepter.ID,
		ActionURL:   fmt.Sprintf("/users/%d", accepter.ID),
	})
	return err
}

package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 50
)

// Relationship states reported between a viewer and another user
const (
	RelationNone            = "none"
	RelationFriends         = "friends"
	RelationRequestSent     = "request_sent"
	RelationRequestReceived = "request_received"
	RelationRejected        = "rejected"
)

// UserReader is the part of the identity store the graph needs.
type UserReader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// FriendshipService owns the friendship state machine:
// (none) -> pending -> accepted | rejected, and back to (none) on unfriend or reset.
type FriendshipService struct {
	friendships repositories.FriendshipRepository
	users       UserReader
	notifier    *Notifier
}

func NewFriendshipService(friendships repositories.FriendshipRepository, users UserReader, notifier *Notifier) *FriendshipService {
	return &FriendshipService{friendships: friendships, users: users, notifier: notifier}
}

// activeUser loads a user and hides non-active accounts behind NotFound
func (s *FriendshipService) activeUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, Lookup(err, "user not found")
	}
	if !user.IsActive() {
		return nil, NotFound("user not found")
	}
	return user, nil
}

// actingUser loads the caller; a token that outlived its account's active status is Forbidden
func (s *FriendshipService) actingUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, Lookup(err, "user not found")
	}
	if !user.IsActive() {
		return nil, Forbidden("your account is not active")
	}
	return user, nil
}

func conflictFor(status string) error {
	switch status {
	case models.FriendshipAccepted:
		return Conflict("you are already friends with this user")
	case models.FriendshipRejected:
		return Conflict("a previous friend request between you was rejected")
	default:
		return Conflict("a friend request is already pending between you")
	}
}

// SendRequest creates a pending request from requesterID to targetID and notifies the target.
// Any existing row for the pair, in either direction and any status, is a Conflict.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, targetID uint, message string) (*models.Friendship, error) {
	if requesterID == targetID {
		return nil, BadInput("you cannot send a friend request to yourself")
	}
	requester, err := s.actingUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeUser(ctx, targetID); err != nil {
		return nil, err
	}

	existing, err := s.friendships.FindBetween(ctx, requesterID, targetID)
	switch {
	case err == nil:
		return nil, conflictFor(existing.Status)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, Internal(err)
	}

	request := &models.Friendship{
		UserID:         requesterID,
		FriendID:       targetID,
		RequestMessage: message,
	}
	created, err := s.friendships.CreateRequest(ctx, request)
	if err != nil {
		return nil, Internal(err)
	}
	if !created {
		// lost the race to a concurrent request for the same pair
		if existing, err := s.friendships.FindBetween(ctx, requesterID, targetID); err == nil {
			return nil, conflictFor(existing.Status)
		}
		return nil, Conflict("a friend request is already pending between you")
	}
	friendshipTransitions.WithLabelValues(models.FriendshipPending).Inc()

	if err := s.notifier.FriendRequestSent(ctx, requester, targetID); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().
		Uint("requester_id", requesterID).
		Uint("target_id", targetID).
		Msg("friend request sent")
	return request, nil
}

// Respond lets the target of a pending request accept or reject it.
// Accepting notifies the original requester.
func (s *FriendshipService) Respond(ctx context.Context, requestID, responderID uint, action string) (*models.Friendship, error) {
	var status string
	switch action {
	case "accept":
		status = models.FriendshipAccepted
	case "reject":
		status = models.FriendshipRejected
	default:
		return nil, BadInput("action must be accept or reject")
	}

	request, err := s.friendships.GetByID(ctx, requestID)
	if err != nil {
		return nil, Lookup(err, "friend request not found")
	}
	if request.FriendID != responderID {
		return nil, Forbidden("you can only respond to friend requests sent to you")
	}
	if request.Status != models.FriendshipPending {
		return nil, NotFound("friend request not found or already handled")
	}
	responder, err := s.actingUser(ctx, responderID)
	if err != nil {
		return nil, err
	}

	updated, err := s.friendships.Respond(ctx, requestID, responderID, status)
	if err != nil {
		return nil, Internal(err)
	}
	if !updated {
		return nil, NotFound("friend request not found or already handled")
	}
	request.Status = status
	friendshipTransitions.WithLabelValues(status).Inc()

	if status == models.FriendshipAccepted {
		if err := s.notifier.FriendRequestAccepted(ctx, responder, request.UserID); err != nil {
			return nil, err
		}
	}
	return request, nil
}

// Withdraw clears a request row: the requester may cancel a pending request and the
// target may clear a rejected one, which lets either side send a fresh request.
func (s *FriendshipService) Withdraw(ctx context.Context, requestID, userID uint) error {
	request, err := s.friendships.GetByID(ctx, requestID)
	if err != nil {
		return Lookup(err, "friend request not found")
	}
	switch {
	case request.UserID == userID && request.Status == models.FriendshipPending:
	case request.FriendID == userID && request.Status == models.FriendshipRejected:
	case request.UserID != userID && request.FriendID != userID:
		return Forbidden("you are not part of this friend request")
	default:
		return Conflict("this friend request cannot be withdrawn in its current state")
	}
	if err := s.friendships.DeleteByID(ctx, requestID); err != nil {
		return Internal(err)
	}
	friendshipTransitions.WithLabelValues("cleared").Inc()
	return nil
}

// Unfriend removes whatever row exists for the pair. Missing rows are not an error.
func (s *FriendshipService) Unfriend(ctx context.Context, userID, otherID uint) error {
	if userID == otherID {
		return BadInput("you cannot unfriend yourself")
	}
	removed, err := s.friendships.DeleteBetween(ctx, userID, otherID)
	if err != nil {
		return Internal(err)
	}
	if removed > 0 {
		friendshipTransitions.WithLabelValues("removed").Inc()
	}
	return nil
}

func (s *FriendshipService) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	ok, err := s.friendships.AreFriends(ctx, a, b)
	if err != nil {
		return false, Internal(err)
	}
	return ok, nil
}

// Requests lists pending requests received by userID, or sent by it
func (s *FriendshipService) Requests(ctx context.Context, userID uint, sent bool) ([]models.Friendship, error) {
	requests, err := s.friendships.ListPending(ctx, userID, sent)
	if err != nil {
		return nil, Internal(err)
	}
	return requests, nil
}

func (s *FriendshipService) Friends(ctx context.Context, userID uint, page, limit int) ([]models.User, int64, error) {
	friends, total, err := s.friendships.ListFriends(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return friends, total, nil
}

func (s *FriendshipService) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.friendships.FriendIDs(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return ids, nil
}

// Suggestions ranks friends-of-friends by mutual friend count. Ties are unordered.
func (s *FriendshipService) Suggestions(ctx context.Context, userID uint, limit int) ([]models.FriendSuggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		limit = MaxSuggestionLimit
	}
	suggestions, err := s.friendships.Suggestions(ctx, userID, limit)
	if err != nil {
		return nil, Internal(err)
	}
	if suggestions == nil {
		suggestions = []models.FriendSuggestion{}
	}
	return suggestions, nil
}

func (s *FriendshipService) MutualCount(ctx context.Context, a, b uint) (int64, error) {
	count, err := s.friendships.MutualCount(ctx, a, b)
	if err != nil {
		return 0, Internal(err)
	}
	return count, nil
}

// Relation reports how otherID relates to viewerID from the viewer's side
func (s *FriendshipService) Relation(ctx context.Context, viewerID, otherID uint) (string, error) {
	if viewerID == otherID {
		return RelationNone, nil
	}
	row, err := s.friendships.FindBetween(ctx, viewerID, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RelationNone, nil
		}
		return "", Internal(err)
	}
	switch row.Status {
	case models.FriendshipAccepted:
		return RelationFriends, nil
	case models.FriendshipRejected:
		return RelationRejected, nil
	case models.FriendshipPending:
		if row.UserID == viewerID {
			return RelationRequestSent, nil
		}
		return RelationRequestReceived, nil
	default:
		return RelationNone, nil
	}
}

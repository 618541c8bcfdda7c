package services

import (
	"context"
	"errors"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
)

// FriendChecker answers whether two users hold an accepted friendship.
type FriendChecker interface {
	AreFriends(ctx context.Context, a, b uint) (bool, error)
}

// CanView decides whether viewer may see an entity owned by ownerID with the given scope.
// isFriend is only consulted for the friends scope.
func CanView(viewer Viewer, ownerID uint, scope string, isFriend func() (bool, error)) (bool, error) {
	if viewer.Is(ownerID) {
		return true, nil
	}
	switch scope {
	case models.PrivacyPublic:
		return true, nil
	case models.PrivacyFriends:
		if viewer.IsAnonymous() {
			return false, nil
		}
		return isFriend()
	default:
		// only_me and anything unknown
		return false, nil
	}
}

// GroupReader loads the group and membership rows that gate group posts.
type GroupReader interface {
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	GetMembership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error)
}

// Visibility applies CanView with friendships read from the store. Posts inside a
// private group additionally require an active membership.
type Visibility struct {
	friends FriendChecker
	groups  GroupReader
}

func NewVisibility(friends FriendChecker, groups GroupReader) *Visibility {
	return &Visibility{friends: friends, groups: groups}
}

func (v *Visibility) friendCheck(ctx context.Context, viewer Viewer, ownerID uint) func() (bool, error) {
	return func() (bool, error) {
		id, ok := viewer.ID()
		if !ok {
			return false, nil
		}
		return v.friends.AreFriends(ctx, ownerID, id)
	}
}

func (v *Visibility) CanViewPost(ctx context.Context, viewer Viewer, post *models.Post) (bool, error) {
	ok, err := CanView(viewer, post.UserID, post.Privacy, v.friendCheck(ctx, viewer, post.UserID))
	if err != nil {
		return false, Internal(err)
	}
	if !ok || post.GroupID == nil || viewer.Is(post.UserID) {
		return ok, nil
	}
	return v.groupReadable(ctx, viewer, *post.GroupID)
}

// groupReadable: public groups are open to everyone, private groups to active members.
// A post whose group row is gone stays hidden.
func (v *Visibility) groupReadable(ctx context.Context, viewer Viewer, groupID uint) (bool, error) {
	group, err := v.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, Internal(err)
	}
	if group.Privacy != models.GroupPrivate {
		return true, nil
	}
	id, ok := viewer.ID()
	if !ok {
		return false, nil
	}
	member, err := v.groups.GetMembership(ctx, groupID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, Internal(err)
	}
	return member.Status == models.MemberActive, nil
}

// RequirePost returns Forbidden when the viewer may not see post.
func (v *Visibility) RequirePost(ctx context.Context, viewer Viewer, post *models.Post) error {
	ok, err := v.CanViewPost(ctx, viewer, post)
	if err != nil {
		return err
	}
	if !ok {
		return Forbidden("you do not have permission to view this post")
	}
	return nil
}

// CanViewStory: stories have no stored scope and are visible to the owner and accepted friends.
func (v *Visibility) CanViewStory(ctx context.Context, viewer Viewer, story *models.Story) (bool, error) {
	ok, err := CanView(viewer, story.UserID, models.PrivacyFriends, v.friendCheck(ctx, viewer, story.UserID))
	if err != nil {
		return false, Internal(err)
	}
	return ok, nil
}

// PostScopesFor lists the scopes of ownerID's posts that viewer may see.
func (v *Visibility) PostScopesFor(ctx context.Context, viewer Viewer, ownerID uint) ([]string, error) {
	if viewer.Is(ownerID) {
		return []string{models.PrivacyPublic, models.PrivacyFriends, models.PrivacyOnlyMe}, nil
	}
	friends, err := v.friendCheck(ctx, viewer, ownerID)()
	if err != nil {
		return nil, Internal(err)
	}
	if friends {
		return []string{models.PrivacyPublic, models.PrivacyFriends}, nil
	}
	return []string{models.PrivacyPublic}, nil
}

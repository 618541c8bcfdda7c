package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"gorm.io/gorm"
)

// GroupDetails is a group with its member count and the viewer's membership, if any
type GroupDetails struct {
	models.Group
	MemberCount int64               `json:"member_count"`
	Membership  *models.GroupMember `json:"membership,omitempty"`
}

// GroupService enforces membership rules. Authorization is flat: only active admins
// manage members, moderators have no extra rights.
type GroupService struct {
	groups      repositories.GroupRepository
	posts       repositories.PostRepository
	friendships repositories.FriendshipRepository
}

func NewGroupService(groups repositories.GroupRepository, posts repositories.PostRepository, friendships repositories.FriendshipRepository) *GroupService {
	return &GroupService{groups: groups, posts: posts, friendships: friendships}
}

func (s *GroupService) Create(ctx context.Context, creatorID uint, req models.CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Privacy:     req.Privacy,
		CoverPhoto:  req.CoverPhoto,
		CreatorID:   creatorID,
	}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, Internal(err)
	}
	return group, nil
}

func (s *GroupService) group(ctx context.Context, groupID uint) (*models.Group, error) {
	group, err := s.groups.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, Lookup(err, "group not found")
	}
	return group, nil
}

// membership returns nil without error when userID has no row in the group
func (s *GroupService) membership(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	member, err := s.groups.GetMembership(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, Internal(err)
	}
	return member, nil
}

func (s *GroupService) requireAdmin(ctx context.Context, groupID, actorID uint) error {
	actor, err := s.membership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !actor.IsActiveAdmin() {
		return Forbidden("only group admins can manage members")
	}
	return nil
}

func (s *GroupService) Get(ctx context.Context, groupID uint, viewer Viewer) (*GroupDetails, error) {
	group, err := s.group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	count, err := s.groups.CountMembers(ctx, groupID, models.MemberActive)
	if err != nil {
		return nil, Internal(err)
	}
	details := &GroupDetails{Group: *group, MemberCount: count}
	if id, ok := viewer.ID(); ok {
		if details.Membership, err = s.membership(ctx, groupID, id); err != nil {
			return nil, err
		}
	}
	return details, nil
}

// Join adds userID to the group: active in public groups, pending in private ones.
func (s *GroupService) Join(ctx context.Context, groupID, userID uint) (*models.GroupMember, error) {
	group, err := s.group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Role:     models.RoleMember,
		Status:   models.MemberActive,
		JoinedAt: time.Now(),
	}
	if group.Privacy == models.GroupPrivate {
		member.Status = models.MemberPending
	}
	created, err := s.groups.AddMember(ctx, member)
	if err != nil {
		return nil, Internal(err)
	}
	if !created {
		return nil, Conflict("you are already a member of this group or your request is pending")
	}
	return member, nil
}

// Members lists memberships with the given status. Only admins may list pending requests.
func (s *GroupService) Members(ctx context.Context, groupID uint, viewer Viewer, status string, page, limit int) ([]models.GroupMember, int64, error) {
	if _, err := s.group(ctx, groupID); err != nil {
		return nil, 0, err
	}
	if status == "" {
		status = models.MemberActive
	}
	if status != models.MemberActive && status != models.MemberPending {
		return nil, 0, BadInput("status must be active or pending")
	}
	if status == models.MemberPending {
		id, ok := viewer.ID()
		if !ok {
			return nil, 0, Unauthenticated("authentication required")
		}
		if err := s.requireAdmin(ctx, groupID, id); err != nil {
			return nil, 0, err
		}
	}
	members, total, err := s.groups.GetMembers(ctx, groupID, status, page, limit)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return members, total, nil
}

// UpdateRole requires actorID to be an active admin of the group
func (s *GroupService) UpdateRole(ctx context.Context, groupID, actorID, targetID uint, role string) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}
	switch role {
	case models.RoleAdmin, models.RoleModerator, models.RoleMember:
	default:
		return BadInput("role must be admin, moderator or member")
	}
	updated, err := s.groups.UpdateRole(ctx, groupID, targetID, role)
	if err != nil {
		return Internal(err)
	}
	if !updated {
		return NotFound("member not found in this group")
	}
	return nil
}

// Approve moves a pending membership to active. Only active admins may approve.
func (s *GroupService) Approve(ctx context.Context, groupID, actorID, targetID uint) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return err
	}
	target, err := s.membership(ctx, groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return NotFound("member not found in this group")
	}
	if target.Status != models.MemberPending {
		return Conflict("member is already active")
	}
	activated, err := s.groups.ActivateMember(ctx, groupID, targetID)
	if err != nil {
		return Internal(err)
	}
	if !activated {
		return Conflict("member is already active")
	}
	return nil
}

// CreatePost publishes a post into the group. Only active members may post.
func (s *GroupService) CreatePost(ctx context.Context, groupID, userID uint, post *models.Post) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	member, err := s.membership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil || member.Status != models.MemberActive {
		return Forbidden("only group members can post in this group")
	}
	post.UserID = userID
	post.GroupID = &groupID
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return Internal(err)
	}
	return nil
}

// Posts lists group posts. Private groups are readable by active members only, and each
// post's own privacy scope still applies to the reader.
func (s *GroupService) Posts(ctx context.Context, groupID uint, viewer Viewer, page, limit int) ([]models.Post, int64, error) {
	group, err := s.group(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	if group.Privacy == models.GroupPrivate {
		id, ok := viewer.ID()
		if !ok {
			return nil, 0, Forbidden("this group is private")
		}
		member, err := s.membership(ctx, groupID, id)
		if err != nil {
			return nil, 0, err
		}
		if member == nil || member.Status != models.MemberActive {
			return nil, 0, Forbidden("this group is private")
		}
	}
	audience, err := audienceFor(ctx, s.friendships, viewer)
	if err != nil {
		return nil, 0, err
	}
	posts, total, err := s.posts.GetPostsByGroup(ctx, groupID, audience, page, limit)
	if err != nil {
		return nil, 0, Internal(err)
	}
	return posts, total, nil
}

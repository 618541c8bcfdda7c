package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// GroupHandler handles groups and their membership
type GroupHandler struct {
	groups *services.GroupService
	posts  *services.PostService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groups *services.GroupService, posts *services.PostService) *GroupHandler {
	return &GroupHandler{groups: groups, posts: posts}
}

// RegisterGroupRoutes registers group routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups/:id", h.GetGroup)
	g.POST("/groups/:id/join", h.JoinGroup)
	g.GET("/groups/:id/members", h.GetMembers)
	g.PUT("/groups/:id/members/:userId/role", h.UpdateMemberRole)
	g.PUT("/groups/:id/members/:userId/approve", h.ApproveMember)
	g.POST("/groups/:id/posts", h.CreateGroupPost)
	g.GET("/groups/:id/posts", h.GetGroupPosts)
}

// CreateGroup creates a group with the caller as its admin
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	group, err := h.groups.Create(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, group)
}

// GetGroup returns a group with its member count and the caller's membership
func (h *GroupHandler) GetGroup(c echo.Context) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	details, err := h.groups.Get(c.Request().Context(), groupID, middleware.ViewerFrom(c))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, details)
}

// JoinGroup joins a public group or asks to join a private one
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	groupID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	member, err := h.groups.Join(c.Request().Context(), groupID, userID)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, member)
}

// GetMembers lists active members, or pending requests for admins with ?status=pending
func (h *GroupHandler) GetMembers(c echo.Context) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, limit := pagination(c)
	members, total, err := h.groups.Members(c.Request().Context(), groupID, middleware.ViewerFrom(c), c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}
	views := make([]models.GroupMemberView, 0, len(members))
	for _, m := range members {
		view := models.GroupMemberView{Role: m.Role, Status: m.Status, JoinedAt: m.JoinedAt}
		if m.User != nil {
			view.UserCompact = m.User.ToCompact()
		}
		views = append(views, view)
	}
	return paginated(c, views, page, limit, total)
}

// UpdateMemberRole changes a member's role; admins only
func (h *GroupHandler) UpdateMemberRole(c echo.Context) error {
	actorID, groupID, targetID, err := h.memberAction(c)
	if err != nil {
		return err
	}
	var req models.UpdateMemberRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.groups.UpdateRole(c.Request().Context(), groupID, actorID, targetID, req.Role); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Member role updated")
}

// ApproveMember activates a pending membership; admins only
func (h *GroupHandler) ApproveMember(c echo.Context) error {
	actorID, groupID, targetID, err := h.memberAction(c)
	if err != nil {
		return err
	}
	if err := h.groups.Approve(c.Request().Context(), groupID, actorID, targetID); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Member approved")
}

func (h *GroupHandler) memberAction(c echo.Context) (actorID, groupID, targetID uint, err error) {
	if actorID, err = middleware.RequireUser(c); err != nil {
		return
	}
	if groupID, err = paramID(c, "id"); err != nil {
		return
	}
	targetID, err = paramID(c, "userId")
	return
}

// CreateGroupPost posts into a group the caller is an active member of
func (h *GroupHandler) CreateGroupPost(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	groupID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post := &models.Post{
		Content:  req.Content,
		Images:   req.Images,
		Privacy:  req.Privacy,
		Location: req.Location,
		Feeling:  req.Feeling,
		PostType: req.PostType,
	}
	if err := h.groups.CreatePost(c.Request().Context(), groupID, userID, post); err != nil {
		return err
	}
	return success(c, http.StatusCreated, post)
}

// GetGroupPosts lists a group's posts, newest first
func (h *GroupHandler) GetGroupPosts(c echo.Context) error {
	groupID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	viewer := middleware.ViewerFrom(c)
	page, limit := pagination(c)
	posts, total, err := h.groups.Posts(ctx, groupID, viewer, page, limit)
	if err != nil {
		return err
	}
	views, err := h.posts.Views(ctx, viewer, posts)
	if err != nil {
		return err
	}
	return paginated(c, views, page, limit, total)
}

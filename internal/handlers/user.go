package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

const minSearchLength = 2

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	postRepository repositories.PostRepository
	friendships    *services.FriendshipService
	posts          *services.PostService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, friendships *services.FriendshipService, posts *services.PostService) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		postRepository: postRepo,
		friendships:    friendships,
		posts:          posts,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.GET("/users/search", h.SearchUsers)
	g.PUT("/users/profile", h.UpdateProfile)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/friends", h.GetUserFriends)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// UserProfile is a user as seen by another user
type UserProfile struct {
	*models.User
	FriendCount      int64  `json:"friend_count"`
	PostCount        int64  `json:"post_count"`
	FriendshipStatus string `json:"friendship_status,omitempty"`
	MutualFriends    *int64 `json:"mutual_friends,omitempty"`
}

// activeUser hides non-active accounts behind NotFound
func (h *UserHandler) activeUser(c echo.Context, id uint) (*models.User, error) {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return nil, services.Lookup(err, "user not found")
	}
	if !user.IsActive() {
		return nil, services.NotFound("user not found")
	}
	return user, nil
}

// GetMe returns the authenticated user's own account
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return services.Lookup(err, "user not found")
	}
	return success(c, http.StatusOK, user)
}

// GetUser returns a profile with counts and, for signed-in viewers, the relationship to them
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := h.activeUser(c, id)
	if err != nil {
		return err
	}

	friendIDs, err := h.friendships.FriendIDs(ctx, id)
	if err != nil {
		return err
	}
	postCount, err := h.postRepository.CountPostsByUser(ctx, id)
	if err != nil {
		return services.Internal(err)
	}
	profile := UserProfile{User: user, FriendCount: int64(len(friendIDs)), PostCount: postCount}

	if viewerID, ok := middleware.ViewerFrom(c).ID(); ok && viewerID != id {
		if profile.FriendshipStatus, err = h.friendships.Relation(ctx, viewerID, id); err != nil {
			return err
		}
		mutual, err := h.friendships.MutualCount(ctx, viewerID, id)
		if err != nil {
			return err
		}
		profile.MutualFriends = &mutual
	}
	return success(c, http.StatusOK, profile)
}

// UpdateProfile applies the fields present in the body to the caller's account
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return services.Lookup(err, "user not found")
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&user.FirstName, req.FirstName)
	apply(&user.LastName, req.LastName)
	apply(&user.Bio, req.Bio)
	apply(&user.Location, req.Location)
	apply(&user.WorkCompany, req.WorkCompany)
	apply(&user.WorkPosition, req.WorkPosition)
	apply(&user.Education, req.Education)
	apply(&user.RelationshipStatus, req.RelationshipStatus)
	apply(&user.ProfilePicture, req.ProfilePicture)
	apply(&user.CoverPhoto, req.CoverPhoto)

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, user)
}

// GetUserFriends lists a user's accepted friends
func (h *UserHandler) GetUserFriends(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.activeUser(c, id); err != nil {
		return err
	}
	page, limit := pagination(c)
	friends, total, err := h.friendships.Friends(c.Request().Context(), id, page, limit)
	if err != nil {
		return err
	}
	return paginated(c, compactUsers(friends), page, limit, total)
}

// GetUserPosts lists a user's posts that the viewer may see
func (h *UserHandler) GetUserPosts(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.activeUser(c, id); err != nil {
		return err
	}
	page, limit := pagination(c)
	posts, total, err := h.posts.ByUser(c.Request().Context(), middleware.ViewerFrom(c), id, page, limit)
	if err != nil {
		return err
	}
	return paginated(c, posts, page, limit, total)
}

// SearchUsers matches active users by name or email
func (h *UserHandler) SearchUsers(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len(q) < minSearchLength {
		return services.BadInput("search query must be at least 2 characters")
	}
	page, limit := pagination(c)
	users, total, err := h.userRepository.SearchUsers(c.Request().Context(), q, page, limit)
	if err != nil {
		return services.Internal(err)
	}
	return paginated(c, compactUsers(users), page, limit, total)
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out
}

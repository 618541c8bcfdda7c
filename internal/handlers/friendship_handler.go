package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendships *services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendships *services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendships: friendships}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/request", h.SendFriendRequest)
	g.GET("/friends/requests", h.GetFriendRequests)
	g.PUT("/friends/requests/:id", h.RespondToFriendRequest)
	g.DELETE("/friends/requests/:id", h.WithdrawFriendRequest)
	g.GET("/friends/suggestions", h.GetSuggestions)
	g.GET("/friends", h.GetFriends)
	g.DELETE("/friends/:id", h.Unfriend)
}

// FriendRequestView is a pending request with the user on the other side
type FriendRequestView struct {
	ID        uint               `json:"id"`
	Message   string             `json:"message"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	User      models.UserCompact `json:"user"`
}

// SendFriendRequest handles sending a friend request
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.SendFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	request, err := h.friendships.SendRequest(c.Request().Context(), userID, req.TargetID, req.Message)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, request)
}

// GetFriendRequests lists pending requests received by the caller, or sent with ?type=sent
func (h *FriendshipHandler) GetFriendRequests(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var sent bool
	switch c.QueryParam("type") {
	case "", "received":
	case "sent":
		sent = true
	default:
		return services.BadInput("type must be received or sent")
	}

	requests, err := h.friendships.Requests(c.Request().Context(), userID, sent)
	if err != nil {
		return err
	}
	views := make([]FriendRequestView, 0, len(requests))
	for _, r := range requests {
		view := FriendRequestView{
			ID:        r.ID,
			Message:   r.RequestMessage,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		}
		other := r.User
		if sent {
			other = r.Friend
		}
		if other != nil {
			view.User = other.ToCompact()
		}
		views = append(views, view)
	}
	return success(c, http.StatusOK, views)
}

// RespondToFriendRequest accepts or rejects a request addressed to the caller
func (h *FriendshipHandler) RespondToFriendRequest(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	requestID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.RespondFriendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	request, err := h.friendships.Respond(c.Request().Context(), requestID, userID, req.Action)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, request)
}

// WithdrawFriendRequest cancels a pending request the caller sent, or clears one they rejected
func (h *FriendshipHandler) WithdrawFriendRequest(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	requestID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.friendships.Withdraw(c.Request().Context(), requestID, userID); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Friend request removed")
}

// GetFriends retrieves the list of friends for the authenticated user
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	page, limit := pagination(c)
	friends, total, err := h.friendships.Friends(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}
	return paginated(c, compactUsers(friends), page, limit, total)
}

// GetSuggestions returns friends-of-friends ranked by mutual friends
func (h *FriendshipHandler) GetSuggestions(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	suggestions, err := h.friendships.Suggestions(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, suggestions)
}

// Unfriend removes the friendship with the given user; it succeeds when there was none
func (h *FriendshipHandler) Unfriend(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	otherID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.friendships.Unfriend(c.Request().Context(), userID, otherID); err != nil {
		return err
	}
	return message(c, http.StatusOK, "Friend removed")
}

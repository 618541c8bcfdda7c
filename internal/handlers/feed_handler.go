package handlers

import (
	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the news feed
type FeedHandler struct {
	posts *services.PostService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(posts *services.PostService) *FeedHandler {
	return &FeedHandler{posts: posts}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts/feed", h.GetFeed)
}

// GetFeed returns the caller's posts and their friends' public and friends-only posts, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	page, limit := pagination(c)
	posts, total, err := h.posts.Feed(c.Request().Context(), userID, page, limit)
	if err != nil {
		return err
	}
	return paginated(c, posts, page, limit, total)
}

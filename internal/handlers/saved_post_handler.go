package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// SavedPostHandler handles post bookmarks
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	posts               *services.PostService
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(savedPostRepo repositories.SavedPostRepository, posts *services.PostService) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedPostRepo,
		posts:               posts,
	}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.GET("/posts/saved", h.GetSavedPosts)
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/posts/:id/save", h.UnsavePost)
}

// SavePost bookmarks a post the caller can see
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.posts.Visible(ctx, middleware.ViewerFrom(c), postID); err != nil {
		return err
	}

	created, err := h.savedPostRepository.SavePost(ctx, userID, postID)
	if err != nil {
		return services.Internal(err)
	}
	if !created {
		return services.Conflict("post already saved")
	}
	return message(c, http.StatusCreated, "Post saved")
}

// UnsavePost removes a bookmark
func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	removed, err := h.savedPostRepository.UnsavePost(c.Request().Context(), userID, postID)
	if err != nil {
		return services.Internal(err)
	}
	if !removed {
		return services.NotFound("saved post not found")
	}
	return message(c, http.StatusOK, "Post unsaved")
}

// GetSavedPosts lists the caller's bookmarks. Posts whose privacy has since
// changed so the caller can no longer see them are left out of the page.
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pagination(c)
	saved, total, err := h.savedPostRepository.GetSavedPosts(ctx, userID, page, limit)
	if err != nil {
		return services.Internal(err)
	}
	viewer := middleware.ViewerFrom(c)
	visible, err := h.posts.FilterVisible(ctx, viewer, saved)
	if err != nil {
		return err
	}
	views, err := h.posts.Views(ctx, viewer, visible)
	if err != nil {
		return err
	}
	return paginated(c, views, page, limit, total)
}

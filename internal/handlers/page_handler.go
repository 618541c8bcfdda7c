package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

const insightsWindow = 7 * 24 * time.Hour

// PageHandler handles public pages and page likes
type PageHandler struct {
	pageRepository repositories.PageRepository
	postRepository repositories.PostRepository
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(pageRepo repositories.PageRepository, postRepo repositories.PostRepository) *PageHandler {
	return &PageHandler{pageRepository: pageRepo, postRepository: postRepo}
}

// RegisterPageRoutes registers page routes
func (h *PageHandler) RegisterPageRoutes(g *echo.Group) {
	g.POST("/pages", h.CreatePage)
	g.GET("/pages/:id", h.GetPage)
	g.POST("/pages/:id/like", h.ToggleLike)
	g.GET("/pages/:id/insights", h.GetInsights)
}

type pageDetails struct {
	*models.Page
	LikeCount int64 `json:"like_count"`
	IsLiked   bool  `json:"is_liked"`
}

// CreatePage creates a page owned by the caller
func (h *PageHandler) CreatePage(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.CreatePageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	page := &models.Page{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		ContactInfo:    req.ContactInfo,
		ProfilePicture: req.ProfilePicture,
		CreatorID:      userID,
	}
	if err := h.pageRepository.CreatePage(c.Request().Context(), page); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusCreated, page)
}

func (h *PageHandler) loadPage(c echo.Context) (*models.Page, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	page, err := h.pageRepository.GetPageByID(c.Request().Context(), id)
	if err != nil {
		return nil, services.Lookup(err, "page not found")
	}
	return page, nil
}

// GetPage returns a page with its like count and whether the caller likes it
func (h *PageHandler) GetPage(c echo.Context) error {
	page, err := h.loadPage(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	likes, err := h.pageRepository.CountLikes(ctx, page.ID, nil)
	if err != nil {
		return services.Internal(err)
	}
	details := pageDetails{Page: page, LikeCount: likes}
	if id, ok := middleware.ViewerFrom(c).ID(); ok {
		if details.IsLiked, err = h.pageRepository.IsLiked(ctx, page.ID, id); err != nil {
			return services.Internal(err)
		}
	}
	return success(c, http.StatusOK, details)
}

// ToggleLike likes the page, or unlikes it when already liked
func (h *PageHandler) ToggleLike(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	page, err := h.loadPage(c)
	if err != nil {
		return err
	}
	liked, err := h.pageRepository.ToggleLike(c.Request().Context(), page.ID, userID)
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"liked": liked})
}

// GetInsights returns like and post totals; page creator only
func (h *PageHandler) GetInsights(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	page, err := h.loadPage(c)
	if err != nil {
		return err
	}
	if page.CreatorID != userID {
		return services.Forbidden("only the page creator can view insights")
	}
	ctx := c.Request().Context()

	var insights models.PageInsights
	if insights.TotalLikes, err = h.pageRepository.CountLikes(ctx, page.ID, nil); err != nil {
		return services.Internal(err)
	}
	since := time.Now().Add(-insightsWindow)
	if insights.LikesLast7d, err = h.pageRepository.CountLikes(ctx, page.ID, &since); err != nil {
		return services.Internal(err)
	}
	if insights.TotalPosts, err = h.postRepository.CountPostsByPage(ctx, page.ID); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, insights)
}

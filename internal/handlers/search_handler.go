package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// SearchHandler searches people, posts, groups and pages
type SearchHandler struct {
	userRepository  repositories.UserRepository
	groupRepository repositories.GroupRepository
	pageRepository  repositories.PageRepository
	posts           *services.PostService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(userRepo repositories.UserRepository, groupRepo repositories.GroupRepository, pageRepo repositories.PageRepository, posts *services.PostService) *SearchHandler {
	return &SearchHandler{
		userRepository:  userRepo,
		groupRepository: groupRepo,
		pageRepository:  pageRepo,
		posts:           posts,
	}
}

// RegisterSearchRoutes registers the search route
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

type searchSection struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

// Search runs the query against the requested type, or every type with type=all.
// Posts only include what the caller is allowed to see.
func (h *SearchHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if len(q) < minSearchLength {
		return services.BadInput("search query must be at least 2 characters")
	}
	kind := c.QueryParam("type")
	if kind == "" {
		kind = "all"
	}
	switch kind {
	case "all", "people", "posts", "groups", "pages":
	default:
		return services.BadInput("type must be one of all, people, posts, groups, pages")
	}

	ctx := c.Request().Context()
	page, limit := pagination(c)
	results := map[string]searchSection{}
	want := func(k string) bool { return kind == "all" || kind == k }

	if want("people") {
		users, total, err := h.userRepository.SearchUsers(ctx, q, page, limit)
		if err != nil {
			return services.Internal(err)
		}
		results["people"] = searchSection{Items: compactUsers(users), Total: total}
	}
	if want("posts") {
		posts, total, err := h.posts.Search(ctx, middleware.ViewerFrom(c), q, page, limit)
		if err != nil {
			return err
		}
		results["posts"] = searchSection{Items: posts, Total: total}
	}
	if want("groups") {
		groups, total, err := h.groupRepository.SearchGroups(ctx, q, page, limit)
		if err != nil {
			return services.Internal(err)
		}
		results["groups"] = searchSection{Items: groups, Total: total}
	}
	if want("pages") {
		pages, total, err := h.pageRepository.SearchPages(ctx, q, page, limit)
		if err != nil {
			return services.Internal(err)
		}
		results["pages"] = searchSection{Items: pages, Total: total}
	}

	return success(c, http.StatusOK, echo.Map{
		"query":   q,
		"type":    kind,
		"results": results,
	})
}

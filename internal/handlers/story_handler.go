package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles 24h stories. Story content may live in SQL or Mongo; views are always in SQL.
type StoryHandler struct {
	storyRepository     repositories.StoryRepository
	storyViewRepository repositories.StoryViewRepository
	userRepository      repositories.UserRepository
	friendships         *services.FriendshipService
	visibility          *services.Visibility
	now                 func() time.Time
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(
	storyRepo repositories.StoryRepository,
	storyViewRepo repositories.StoryViewRepository,
	userRepo repositories.UserRepository,
	friendships *services.FriendshipService,
	visibility *services.Visibility,
) *StoryHandler {
	return &StoryHandler{
		storyRepository:     storyRepo,
		storyViewRepository: storyViewRepo,
		userRepository:      userRepo,
		friendships:         friendships,
		visibility:          visibility,
		now:                 time.Now,
	}
}

// RegisterStoryRoutes registers story routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.POST("/stories", h.CreateStory)
	g.GET("/stories/feed", h.GetStoryFeed)
	g.POST("/stories/:id/view", h.ViewStory)
	g.GET("/stories/:id/views", h.GetStoryViews)
}

// CreateStory publishes a story that expires after 24 hours
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateStoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	story := &models.Story{
		UserID:   userID,
		Type:     req.Type,
		Content:  req.Content,
		Text:     req.Text,
		Duration: req.Duration,
	}
	if err := h.storyRepository.CreateStory(c.Request().Context(), story); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusCreated, story)
}

// GetStoryFeed returns active stories of the caller and their friends grouped by author,
// the caller's own group first and then by most recent story
func (h *StoryHandler) GetStoryFeed(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	friendIDs, err := h.friendships.FriendIDs(ctx, userID)
	if err != nil {
		return err
	}
	authorIDs := append([]uint{userID}, friendIDs...)

	stories, err := h.storyRepository.GetActiveStoriesByUserIDs(ctx, authorIDs, h.now())
	if err != nil {
		return services.Internal(err)
	}

	storyIDs := make([]string, len(stories))
	for i := range stories {
		storyIDs[i] = stories[i].ID
	}
	viewed, err := h.storyViewRepository.GetViewedStoryIDs(ctx, userID, storyIDs)
	if err != nil {
		return services.Internal(err)
	}
	authors, err := h.userRepository.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return services.Internal(err)
	}

	byAuthor := map[uint]*models.StoryGroup{}
	latest := map[uint]time.Time{}
	var order []uint
	for _, s := range stories {
		group, ok := byAuthor[s.UserID]
		if !ok {
			author, found := authors[s.UserID]
			if !found {
				continue
			}
			group = &models.StoryGroup{Author: author.ToCompact()}
			byAuthor[s.UserID] = group
			order = append(order, s.UserID)
		}
		group.Stories = append(group.Stories, models.StoryItem{
			Story:  s,
			Viewed: s.UserID == userID || viewed[s.ID],
		})
		if s.CreatedAt.After(latest[s.UserID]) {
			latest[s.UserID] = s.CreatedAt
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i] == userID || order[j] == userID {
			return order[i] == userID
		}
		return latest[order[i]].After(latest[order[j]])
	})
	feed := make([]models.StoryGroup, 0, len(order))
	for _, id := range order {
		feed = append(feed, *byAuthor[id])
	}
	return success(c, http.StatusOK, feed)
}

func (h *StoryHandler) activeStory(c echo.Context) (*models.Story, error) {
	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, services.Lookup(err, "story not found")
	}
	if !story.Active(h.now()) {
		return nil, services.NotFound("story not found or expired")
	}
	return story, nil
}

// ViewStory records that the caller watched a story. Owner views and repeats are not recorded.
func (h *StoryHandler) ViewStory(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	story, err := h.activeStory(c)
	if err != nil {
		return err
	}
	ok, err := h.visibility.CanViewStory(ctx, middleware.ViewerFrom(c), story)
	if err != nil {
		return err
	}
	if !ok {
		return services.Forbidden("you do not have permission to view this story")
	}

	recorded := false
	if story.UserID != userID {
		if recorded, err = h.storyViewRepository.RecordView(ctx, story.ID, userID); err != nil {
			return services.Internal(err)
		}
	}
	return success(c, http.StatusOK, echo.Map{"recorded": recorded})
}

// GetStoryViews lists who watched a story; owner only
func (h *StoryHandler) GetStoryViews(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return services.Lookup(err, "story not found")
	}
	if story.UserID != userID {
		return services.Forbidden("only the story owner can see its views")
	}

	views, err := h.storyViewRepository.GetViews(c.Request().Context(), story.ID)
	if err != nil {
		return services.Internal(err)
	}
	out := make([]models.StoryViewerView, 0, len(views))
	for _, v := range views {
		view := models.StoryViewerView{ViewedAt: v.ViewedAt}
		if v.Viewer != nil {
			view.User = v.Viewer.ToCompact()
		}
		out = append(out, view)
	}
	return success(c, http.StatusOK, echo.Map{"views": out, "total": len(out)})
}

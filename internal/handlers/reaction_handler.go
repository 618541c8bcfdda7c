package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// ReactionHandler handles reactions on posts and comments
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	commentRepository  repositories.CommentRepository
	posts              *services.PostService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactionRepo repositories.ReactionRepository, commentRepo repositories.CommentRepository, posts *services.PostService) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		commentRepository:  commentRepo,
		posts:              posts,
	}
}

// RegisterReactionRoutes registers reaction routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:id/reactions", h.ReactToPost)
	g.DELETE("/posts/:id/reactions", h.RemovePostReaction)
	g.GET("/posts/:id/reactions", h.GetPostReactions)

	g.POST("/comments/:id/reactions", h.ReactToComment)
	g.DELETE("/comments/:id/reactions", h.RemoveCommentReaction)
	g.GET("/comments/:id/reactions", h.GetCommentReactions)
}

// visiblePost resolves the id param as a post the viewer may see
func (h *ReactionHandler) visiblePost(c echo.Context) (uint, error) {
	postID, err := paramID(c, "id")
	if err != nil {
		return 0, err
	}
	if _, err := h.posts.Visible(c.Request().Context(), middleware.ViewerFrom(c), postID); err != nil {
		return 0, err
	}
	return postID, nil
}

// visibleComment resolves the id param as a comment on a post the viewer may see
func (h *ReactionHandler) visibleComment(c echo.Context) (uint, error) {
	commentID, err := paramID(c, "id")
	if err != nil {
		return 0, err
	}
	ctx := c.Request().Context()
	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return 0, services.Lookup(err, "comment not found")
	}
	if _, err := h.posts.Visible(ctx, middleware.ViewerFrom(c), comment.PostID); err != nil {
		return 0, err
	}
	return commentID, nil
}

func (h *ReactionHandler) ReactToPost(c echo.Context) error {
	return h.react(c, models.TargetPost, h.visiblePost)
}

func (h *ReactionHandler) ReactToComment(c echo.Context) error {
	return h.react(c, models.TargetComment, h.visibleComment)
}

func (h *ReactionHandler) RemovePostReaction(c echo.Context) error {
	return h.remove(c, models.TargetPost)
}

func (h *ReactionHandler) RemoveCommentReaction(c echo.Context) error {
	return h.remove(c, models.TargetComment)
}

func (h *ReactionHandler) GetPostReactions(c echo.Context) error {
	return h.list(c, models.TargetPost, h.visiblePost)
}

func (h *ReactionHandler) GetCommentReactions(c echo.Context) error {
	return h.list(c, models.TargetComment, h.visibleComment)
}

// react sets the caller's reaction on the target; a second reaction replaces the first
func (h *ReactionHandler) react(c echo.Context, targetType string, resolve func(echo.Context) (uint, error)) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	targetID, err := resolve(c)
	if err != nil {
		return err
	}

	reaction := &models.Reaction{
		UserID:       userID,
		TargetType:   targetType,
		TargetID:     targetID,
		ReactionType: req.ReactionType,
	}
	if err := h.reactionRepository.UpsertReaction(c.Request().Context(), reaction); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"reaction_type": req.ReactionType})
}

func (h *ReactionHandler) remove(c echo.Context, targetType string) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	removed, err := h.reactionRepository.DeleteReaction(c.Request().Context(), userID, targetType, targetID)
	if err != nil {
		return services.Internal(err)
	}
	if !removed {
		return services.NotFound("reaction not found")
	}
	return message(c, http.StatusOK, "Reaction removed")
}

// list returns who reacted with a per-type summary
func (h *ReactionHandler) list(c echo.Context, targetType string, resolve func(echo.Context) (uint, error)) error {
	targetID, err := resolve(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pagination(c)
	reactions, total, err := h.reactionRepository.GetReactions(ctx, targetType, targetID, page, limit)
	if err != nil {
		return services.Internal(err)
	}
	summary, err := h.reactionRepository.GetSummary(ctx, targetType, targetID)
	if err != nil {
		return services.Internal(err)
	}

	views := make([]models.ReactionView, 0, len(reactions))
	for _, r := range reactions {
		view := models.ReactionView{ReactionType: r.ReactionType, CreatedAt: r.CreatedAt}
		if r.User != nil {
			view.User = r.User.ToCompact()
		}
		views = append(views, view)
	}
	return paginated(c, echo.Map{
		"reactions": views,
		"summary":   summary,
		"total":     total,
	}, page, limit, total)
}

package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// previewReplies is how many replies are inlined under each top-level comment
const previewReplies = 3

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	posts             *services.PostService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, posts *services.PostService) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		posts:             posts,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

func commentView(comment models.Comment) models.CommentView {
	view := models.CommentView{Comment: comment}
	if comment.Author != nil {
		view.Author = comment.Author.ToCompact()
	}
	return view
}

// CreateComment comments on a visible post, optionally as a reply to a top-level comment
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.posts.Visible(ctx, middleware.ViewerFrom(c), postID); err != nil {
		return err
	}

	if req.ParentCommentID != nil {
		parent, err := h.commentRepository.GetCommentByID(ctx, *req.ParentCommentID)
		if err != nil {
			return services.Lookup(err, "parent comment not found")
		}
		if parent.PostID != postID {
			return services.BadInput("parent comment belongs to a different post")
		}
		if parent.ParentCommentID != nil {
			return services.BadInput("replies cannot be nested")
		}
	}

	comment := &models.Comment{
		PostID:          postID,
		UserID:          userID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return services.Internal(err)
	}

	created, err := h.commentRepository.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusCreated, commentView(*created))
}

// GetCommentsByPostID lists top-level comments oldest first, each with its first replies
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.posts.Visible(ctx, middleware.ViewerFrom(c), postID); err != nil {
		return err
	}

	page, limit := pagination(c)
	comments, total, err := h.commentRepository.GetTopLevelComments(ctx, postID, page, limit)
	if err != nil {
		return services.Internal(err)
	}

	ids := make([]uint, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	replyCounts, err := h.commentRepository.CountReplies(ctx, ids)
	if err != nil {
		return services.Internal(err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		view := commentView(comment)
		view.ReplyCount = replyCounts[comment.ID]
		if view.ReplyCount > 0 {
			replies, err := h.commentRepository.GetReplies(ctx, comment.ID, previewReplies)
			if err != nil {
				return services.Internal(err)
			}
			for _, reply := range replies {
				view.Replies = append(view.Replies, commentView(reply))
			}
		}
		views = append(views, view)
	}
	return paginated(c, views, page, limit, total)
}

func (h *CommentHandler) ownedComment(c echo.Context) (*models.Comment, error) {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), id)
	if err != nil {
		return nil, services.Lookup(err, "comment not found")
	}
	if comment.UserID != userID {
		return nil, services.Forbidden("you can only modify your own comments")
	}
	return comment, nil
}

// UpdateComment updates the content of the caller's comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	comment, err := h.ownedComment(c)
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(c.Request().Context(), comment); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, commentView(*comment))
}

// DeleteComment deletes the caller's comment; a top-level comment takes its replies with it
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, err := h.ownedComment(c)
	if err != nil {
		return err
	}
	if err := h.commentRepository.DeleteComment(c.Request().Context(), comment.ID); err != nil {
		return services.Internal(err)
	}
	return message(c, http.StatusOK, "Comment deleted successfully")
}

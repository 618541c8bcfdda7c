package services

import (
	"context"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
)

// PostService applies the visibility rules to post reads and ownership to writes.
type PostService struct {
	posts       repositories.PostRepository
	reactions   repositories.ReactionRepository
	friendships repositories.FriendshipRepository
	visibility  *Visibility
}

func NewPostService(posts repositories.PostRepository, reactions repositories.ReactionRepository, friendships repositories.FriendshipRepository, visibility *Visibility) *PostService {
	return &PostService{posts: posts, reactions: reactions, friendships: friendships, visibility: visibility}
}

func (s *PostService) Create(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:   userID,
		Content:  req.Content,
		Images:   req.Images,
		Privacy:  req.Privacy,
		Location: req.Location,
		Feeling:  req.Feeling,
		PostType: req.PostType,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, Internal(err)
	}
	return post, nil
}

func (s *PostService) load(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, Lookup(err, "post not found")
	}
	return post, nil
}

// Visible loads a post and checks that viewer may see it
func (s *PostService) Visible(ctx context.Context, viewer Viewer, id uint) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.visibility.RequirePost(ctx, viewer, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns a single visible post with counts and the viewer's reaction
func (s *PostService) Get(ctx context.Context, viewer Viewer, id uint) (*models.PostView, error) {
	post, err := s.Visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	views, err := s.Views(ctx, viewer, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PostService) owned(ctx context.Context, userID, id uint) (*models.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, Forbidden("you can only modify your own posts")
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, userID, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Privacy != nil {
		post.Privacy = *req.Privacy
	}
	if req.Location != nil {
		post.Location = *req.Location
	}
	if req.Feeling != nil {
		post.Feeling = *req.Feeling
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, Internal(err)
	}
	return post, nil
}

// Delete removes an owned post. Notifications pointing at it stay behind.
func (s *PostService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return Internal(err)
	}
	return nil
}

// Feed lists the viewer's own posts and the public or friends-scoped posts of accepted friends
func (s *PostService) Feed(ctx context.Context, viewerID uint, page, limit int) ([]models.PostView, int64, error) {
	friendIDs, err := s.friendships.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, Internal(err)
	}
	posts, total, err := s.posts.GetFeed(ctx, viewerID, friendIDs, page, limit)
	if err != nil {
		return nil, 0, Internal(err)
	}
	views, err := s.Views(ctx, AuthenticatedAs(viewerID), posts)
	return views, total, err
}

// ByUser lists ownerID's posts restricted to the scopes viewer may see
func (s *PostService) ByUser(ctx context.Context, viewer Viewer, ownerID uint, page, limit int) ([]models.PostView, int64, error) {
	scopes, err := s.visibility.PostScopesFor(ctx, viewer, ownerID)
	if err != nil {
		return nil, 0, err
	}
	var viewerID *uint
	if id, ok := viewer.ID(); ok {
		viewerID = &id
	}
	posts, total, err := s.posts.GetPostsByUser(ctx, ownerID, scopes, viewerID, page, limit)
	if err != nil {
		return nil, 0, Internal(err)
	}
	views, err := s.Views(ctx, viewer, posts)
	return views, total, err
}

// Search matches post content among the posts viewer may see
func (s *PostService) Search(ctx context.Context, viewer Viewer, query string, page, limit int) ([]models.PostView, int64, error) {
	audience, err := audienceFor(ctx, s.friendships, viewer)
	if err != nil {
		return nil, 0, err
	}
	posts, total, err := s.posts.SearchPosts(ctx, query, audience, page, limit)
	if err != nil {
		return nil, 0, Internal(err)
	}
	views, err := s.Views(ctx, viewer, posts)
	return views, total, err
}

// audienceFor describes viewer to post listings that filter by privacy in SQL
func audienceFor(ctx context.Context, friendships repositories.FriendshipRepository, viewer Viewer) (repositories.Audience, error) {
	id, ok := viewer.ID()
	if !ok {
		return repositories.Audience{}, nil
	}
	friendIDs, err := friendships.FriendIDs(ctx, id)
	if err != nil {
		return repositories.Audience{}, Internal(err)
	}
	return repositories.Audience{ViewerID: &id, FriendIDs: friendIDs}, nil
}

// Views decorates posts with author, counts and the viewer's own reaction
func (s *PostService) Views(ctx context.Context, viewer Viewer, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	counts, err := s.posts.GetCounts(ctx, ids)
	if err != nil {
		return nil, Internal(err)
	}
	reactions := map[uint]string{}
	if id, ok := viewer.ID(); ok {
		if reactions, err = s.reactions.GetUserReactions(ctx, id, models.TargetPost, ids); err != nil {
			return nil, Internal(err)
		}
	}
	for _, p := range posts {
		view := models.PostView{
			Post:         p,
			Counts:       counts[p.ID],
			UserReaction: reactions[p.ID],
		}
		if p.Author != nil {
			view.Author = p.Author.ToCompact()
		}
		views = append(views, view)
	}
	return views, nil
}

// FilterVisible keeps the posts viewer may see, preserving order
func (s *PostService) FilterVisible(ctx context.Context, viewer Viewer, posts []models.Post) ([]models.Post, error) {
	visible := make([]models.Post, 0, len(posts))
	for i := range posts {
		ok, err := s.visibility.CanViewPost(ctx, viewer, &posts[i])
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, posts[i])
		}
	}
	return visible, nil
}

package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	GetFeed(ctx context.Context, viewerID uint, friendIDs []uint, page, limit int) ([]models.Post, int64, error)
	GetPostsByUser(ctx context.Context, userID uint, scopes []string, viewerID *uint, page, limit int) ([]models.Post, int64, error)
	GetPostsByGroup(ctx context.Context, groupID uint, audience Audience, page, limit int) ([]models.Post, int64, error)
	CountPostsByUser(ctx context.Context, userID uint) (int64, error)
	CountPostsByPage(ctx context.Context, pageID uint) (int64, error)
	GetCounts(ctx context.Context, postIDs []uint) (map[uint]models.PostCounts, error)
	SearchPosts(ctx context.Context, query string, audience Audience, page, limit int) ([]models.Post, int64, error)
}

// Audience is the reader of a post listing. A nil ViewerID is an anonymous reader.
type Audience struct {
	ViewerID  *uint
	FriendIDs []uint
}

// scopePrivacy keeps public posts, the viewer's own posts and friends-scoped posts of the
// viewer's friends
func scopePrivacy(a Audience) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case a.ViewerID == nil:
			return db.Where("posts.privacy = ?", models.PrivacyPublic)
		case len(a.FriendIDs) == 0:
			return db.Where("posts.privacy = ? OR posts.user_id = ?", models.PrivacyPublic, *a.ViewerID)
		default:
			return db.Where("posts.privacy = ? OR posts.user_id = ? OR (posts.privacy = ? AND posts.user_id IN ?)",
				models.PrivacyPublic, *a.ViewerID, models.PrivacyFriends, a.FriendIDs)
		}
	}
}

// scopeGroupReadable drops posts in private groups unless the viewer wrote them or is an
// active member of the group
func (r *GormPostRepository) scopeGroupReadable(ctx context.Context, viewerID *uint) func(*gorm.DB) *gorm.DB {
	private := r.db.WithContext(ctx).Model(&models.Group{}).Select("id").Where("privacy = ?", models.GroupPrivate)
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == nil {
			return db.Where("posts.group_id IS NULL OR posts.group_id NOT IN (?)", private)
		}
		joined := r.db.WithContext(ctx).Model(&models.GroupMember{}).Select("group_id").
			Where("user_id = ? AND status = ?", *viewerID, models.MemberActive)
		return db.Where("posts.group_id IS NULL OR posts.user_id = ? OR posts.group_id NOT IN (?) OR posts.group_id IN (?)",
			*viewerID, private, joined)
	}
}

// GormPostRepository implements PostRepository on gorm
type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.Privacy == "" {
		post.Privacy = models.PrivacyPublic
	}
	if post.PostType == "" {
		post.PostType = models.PostTypeStatus
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Save(post).Error
}

// DeletePost removes the post with its comments, reactions and bookmarks. Notifications that
// reference the post are left in place.
func (r *GormPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("target_type = ? AND target_id IN (?)", models.TargetComment, commentIDs).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetPost, id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// GetFeed returns every post by the viewer plus public and friends-scoped posts by
// the given friends, newest first. Friends' posts in private groups the viewer has not
// joined are left out.
func (r *GormPostRepository) GetFeed(ctx context.Context, viewerID uint, friendIDs []uint, page, limit int) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if len(friendIDs) == 0 {
		q = q.Where("posts.user_id = ?", viewerID)
	} else {
		q = q.Where("posts.user_id = ? OR (posts.user_id IN ? AND posts.privacy IN ?)",
			viewerID, friendIDs, []string{models.PrivacyPublic, models.PrivacyFriends})
	}
	q = q.Scopes(r.scopeGroupReadable(ctx, &viewerID))
	return r.list(q.Session(&gorm.Session{}), page, limit)
}

// GetPostsByUser lists a user's posts limited to the given scopes and to groups viewerID may read
func (r *GormPostRepository) GetPostsByUser(ctx context.Context, userID uint, scopes []string, viewerID *uint, page, limit int) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("posts.user_id = ? AND posts.privacy IN ?", userID, scopes).
		Scopes(r.scopeGroupReadable(ctx, viewerID)).
		Session(&gorm.Session{})
	return r.list(q, page, limit)
}

// GetPostsByGroup lists a group's posts whose privacy lets the audience see them.
// Group membership is checked by the caller.
func (r *GormPostRepository) GetPostsByGroup(ctx context.Context, groupID uint, audience Audience, page, limit int) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("posts.group_id = ?", groupID).
		Scopes(scopePrivacy(audience)).
		Session(&gorm.Session{})
	return r.list(q, page, limit)
}

func (r *GormPostRepository) list(q *gorm.DB, page, limit int) ([]models.Post, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []models.Post
	if err := q.Preload("Author").Order("created_at DESC, id DESC").Scopes(Paginate(page, limit)).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *GormPostRepository) CountPostsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormPostRepository) CountPostsByPage(ctx context.Context, pageID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("page_id = ?", pageID).Count(&count).Error
	return count, err
}

type idCount struct {
	ID    uint
	Count int64
}

// GetCounts returns reaction and comment totals for each post id
func (r *GormPostRepository) GetCounts(ctx context.Context, postIDs []uint) (map[uint]models.PostCounts, error) {
	result := make(map[uint]models.PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var reactions []idCount
	if err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("target_id AS id, COUNT(*) AS count").
		Where("target_type = ? AND target_id IN ?", models.TargetPost, postIDs).
		Group("target_id").Scan(&reactions).Error; err != nil {
		return nil, err
	}
	var comments []idCount
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id AS id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").Scan(&comments).Error; err != nil {
		return nil, err
	}

	for _, c := range reactions {
		pc := result[c.ID]
		pc.Reactions = c.Count
		result[c.ID] = pc
	}
	for _, c := range comments {
		pc := result[c.ID]
		pc.Comments = c.Count
		result[c.ID] = pc
	}
	return result, nil
}

// SearchPosts matches post content among posts the audience may see: public posts,
// the viewer's own posts, and friends-scoped posts of the viewer's friends, outside
// private groups the viewer has not joined.
func (r *GormPostRepository) SearchPosts(ctx context.Context, query string, audience Audience, page, limit int) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("LOWER(posts.content) LIKE LOWER(?)", "%"+query+"%").
		Scopes(scopePrivacy(audience), r.scopeGroupReadable(ctx, audience.ViewerID)).
		Session(&gorm.Session{})
	return r.list(q, page, limit)
}

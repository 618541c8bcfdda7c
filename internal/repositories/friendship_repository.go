package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	CreateRequest(ctx context.Context, f *models.Friendship) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	FindBetween(ctx context.Context, a, b uint) (*models.Friendship, error)
	ListPending(ctx context.Context, userID uint, sent bool) ([]models.Friendship, error)
	Respond(ctx context.Context, id, responderID uint, status string) (bool, error)
	DeleteByID(ctx context.Context, id uint) error
	DeleteBetween(ctx context.Context, a, b uint) (int64, error)
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
	ListFriends(ctx context.Context, userID uint, page, limit int) ([]models.User, int64, error)
	MutualCount(ctx context.Context, a, b uint) (int64, error)
	Suggestions(ctx context.Context, userID uint, limit int) ([]models.FriendSuggestion, error)
}

// GormFriendshipRepository implements FriendshipRepository on gorm
type GormFriendshipRepository struct {
	db *gorm.DB
}

func NewGormFriendshipRepository(db *gorm.DB) *GormFriendshipRepository {
	return &GormFriendshipRepository{db: db}
}

// CreateRequest inserts f unless a row for the same unordered pair exists.
// It reports false, with no error, when the pair is already taken.
func (r *GormFriendshipRepository) CreateRequest(ctx context.Context, f *models.Friendship) (bool, error) {
	f.Status = models.FriendshipPending
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pair_key"}}, DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormFriendshipRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FindBetween returns the row for the unordered pair {a, b}
func (r *GormFriendshipRepository) FindBetween(ctx context.Context, a, b uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.WithContext(ctx).Where("pair_key = ?", models.PairKey(a, b)).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// ListPending returns pending requests received by userID, or sent by it when sent is true.
// The other party is preloaded.
func (r *GormFriendshipRepository) ListPending(ctx context.Context, userID uint, sent bool) ([]models.Friendship, error) {
	q := r.db.WithContext(ctx).Where("status = ?", models.FriendshipPending)
	if sent {
		q = q.Where("user_id = ?", userID).Preload("Friend")
	} else {
		q = q.Where("friend_id = ?", userID).Preload("User")
	}
	var requests []models.Friendship
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Respond moves a pending request addressed to responderID to status in one conditional write.
// It reports false when no such pending row exists.
func (r *GormFriendshipRepository) Respond(ctx context.Context, id, responderID uint, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ? AND friend_id = ? AND status = ?", id, responderID, models.FriendshipPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormFriendshipRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error
}

// DeleteBetween removes any row for the pair, whichever side created it
func (r *GormFriendshipRepository) DeleteBetween(ctx context.Context, a, b uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&models.Friendship{})
	return res.RowsAffected, res.Error
}

func (r *GormFriendshipRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	if a == b {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("pair_key = ? AND status = ?", models.PairKey(a, b), models.FriendshipAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *GormFriendshipRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var rows []models.Friendship
	err := r.db.WithContext(ctx).
		Select("user_id", "friend_id").
		Where("status = ? AND (user_id = ? OR friend_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].OtherParty(userID))
	}
	return ids, nil
}

func (r *GormFriendshipRepository) ListFriends(ctx context.Context, userID uint, page, limit int) ([]models.User, int64, error) {
	asRequester := r.db.Model(&models.Friendship{}).Select("friend_id").Where("user_id = ? AND status = ?", userID, models.FriendshipAccepted)
	asTarget := r.db.Model(&models.Friendship{}).Select("user_id").Where("friend_id = ? AND status = ?", userID, models.FriendshipAccepted)

	q := r.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?) OR id IN (?)", asRequester, asTarget).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var friends []models.User
	if err := q.Order("first_name ASC, last_name ASC, id ASC").Scopes(Paginate(page, limit)).Find(&friends).Error; err != nil {
		return nil, 0, err
	}
	return friends, total, nil
}

// MutualCount counts users who are accepted friends of both a and b
func (r *GormFriendshipRepository) MutualCount(ctx context.Context, a, b uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		WITH edges AS (`+acceptedEdges+`)
		SELECT COUNT(*) FROM edges e1
		JOIN edges e2 ON e2.b = e1.b
		WHERE e1.a = ? AND e2.a = ?`, a, b).Scan(&count).Error
	return count, err
}

// Suggestions ranks friends-of-friends by mutual friend count, descending. Users already
// related to userID in any status are excluded. Ties come back in store order.
func (r *GormFriendshipRepository) Suggestions(ctx context.Context, userID uint, limit int) ([]models.FriendSuggestion, error) {
	var out []models.FriendSuggestion
	err := r.db.WithContext(ctx).Raw(`
		WITH edges AS (`+acceptedEdges+`)
		SELECT u.id, u.first_name, u.last_name, u.profile_picture, u.bio, COUNT(*) AS mutual_friends
		FROM edges e1
		JOIN edges e2 ON e2.a = e1.b
		JOIN users u ON u.id = e2.b
		WHERE e1.a = ?
		  AND u.id <> ?
		  AND u.account_status = ?
		  AND NOT EXISTS (
			SELECT 1 FROM friendships f
			WHERE (f.user_id = ? AND f.friend_id = u.id) OR (f.friend_id = ? AND f.user_id = u.id)
		  )
		GROUP BY u.id, u.first_name, u.last_name, u.profile_picture, u.bio
		ORDER BY mutual_friends DESC
		LIMIT ?`, userID, userID, models.AccountActive, userID, userID, limit).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

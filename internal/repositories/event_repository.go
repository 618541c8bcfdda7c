package repositories

import (
	"context"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository defines the interface for events and RSVPs
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id uint) (*models.Event, error)
	UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) error
	GetRSVP(ctx context.Context, eventID, userID uint) (*models.EventRSVP, error)
	CountRSVPs(ctx context.Context, eventID uint) (models.RSVPCounts, error)
	GetAttendees(ctx context.Context, eventID uint, page, limit int) ([]models.EventRSVP, int64, error)
	GetAttendingEvents(ctx context.Context, userID uint, page, limit int) ([]models.Event, int64, error)
	GetCreatedEvents(ctx context.Context, userID uint, page, limit int) ([]models.Event, int64, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.Privacy == "" {
		event.Privacy = models.PrivacyPublic
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *GormEventRepository) GetEventByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// UpsertRSVP records the user's answer, replacing any earlier one
func (r *GormEventRepository) UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(rsvp).Error
}

func (r *GormEventRepository) GetRSVP(ctx context.Context, eventID, userID uint) (*models.EventRSVP, error) {
	var rsvp models.EventRSVP
	if err := r.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&rsvp).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *GormEventRepository) CountRSVPs(ctx context.Context, eventID uint) (models.RSVPCounts, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	var counts models.RSVPCounts
	if err := r.db.WithContext(ctx).Model(&models.EventRSVP{}).
		Select("status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("status").Scan(&rows).Error; err != nil {
		return counts, err
	}
	for _, row := range rows {
		switch row.Status {
		case models.RSVPGoing:
			counts.Going = row.Count
		case models.RSVPInterested:
			counts.Interested = row.Count
		case models.RSVPNotGoing:
			counts.NotGoing = row.Count
		}
	}
	return counts, nil
}

// GetAttendees lists RSVPs ordered going, interested, then everything else
func (r *GormEventRepository) GetAttendees(ctx context.Context, eventID uint, page, limit int) ([]models.EventRSVP, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.EventRSVP{}).
		Where("event_id = ?", eventID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rsvps []models.EventRSVP
	err := q.Preload("User").
		Order("CASE status WHEN 'going' THEN 0 WHEN 'interested' THEN 1 ELSE 2 END, updated_at ASC, id ASC").
		Scopes(Paginate(page, limit)).
		Find(&rsvps).Error
	if err != nil {
		return nil, 0, err
	}
	return rsvps, total, nil
}

// GetAttendingEvents lists events the user answered going or interested, soonest first
func (r *GormEventRepository) GetAttendingEvents(ctx context.Context, userID uint, page, limit int) ([]models.Event, int64, error) {
	attending := r.db.Model(&models.EventRSVP{}).Select("event_id").
		Where("user_id = ? AND status IN ?", userID, []string{models.RSVPGoing, models.RSVPInterested})
	q := r.db.WithContext(ctx).Model(&models.Event{}).Where("id IN (?)", attending).Session(&gorm.Session{})
	return r.listEvents(q, page, limit)
}

func (r *GormEventRepository) GetCreatedEvents(ctx context.Context, userID uint, page, limit int) ([]models.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Event{}).Where("creator_id = ?", userID).Session(&gorm.Session{})
	return r.listEvents(q, page, limit)
}

func (r *GormEventRepository) listEvents(q *gorm.DB, page, limit int) ([]models.Event, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []models.Event
	if err := q.Order("start_date ASC, id ASC").Scopes(Paginate(page, limit)).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

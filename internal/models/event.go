package models

import "time"

// RSVP statuses
const (
	RSVPGoing      = "going"
	RSVPInterested = "interested"
	RSVPNotGoing   = "not_going"
)

type Event struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date" gorm:"not null;index"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    string     `json:"location" gorm:"size:200"`
	Privacy     string     `json:"privacy" gorm:"size:20;default:'public'"`
	CreatorID   uint       `json:"creator_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventRSVP is unique per (event, user)
type EventRSVP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_event_rsvp"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_event_rsvp;index"`
	Status    string    `json:"status" gorm:"size:20;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

type RSVPCounts struct {
	Going      int64 `json:"going"`
	Interested int64 `json:"interested"`
	NotGoing   int64 `json:"not_going"`
}

type AttendeeView struct {
	UserCompact
	Status string `json:"status"`
}

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    string     `json:"location" validate:"max=200"`
	Privacy     string     `json:"privacy" validate:"omitempty,oneof=public friends private"`
}

type RSVPRequest struct {
	Status string `json:"status" validate:"required,oneof=going interested not_going"`
}

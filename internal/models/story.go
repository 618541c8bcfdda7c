package models

import "time"

const (
	StoryPhoto = "photo"
	StoryVideo = "video"
	StoryText  = "text"
)

const (
	StoryLifetime        = 24 * time.Hour
	DefaultStoryDuration = 5
)

// Story is stored either in the relational store or as a Mongo document, so ids are uuid strings.
type Story struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID    uint      `json:"user_id" gorm:"not null;index" bson:"user_id"`
	Type      string    `json:"type" gorm:"size:10;not null" bson:"type"`
	Content   string    `json:"content,omitempty" bson:"content,omitempty"` // media path for photo/video
	Text      string    `json:"text,omitempty" bson:"text,omitempty"`
	Duration  int       `json:"duration" gorm:"default:5" bson:"duration"` // seconds
	ExpiresAt time.Time `json:"expires_at" gorm:"index" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (s *Story) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// StoryView records that a non-owner watched a story (relational store)
type StoryView struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StoryID  string    `json:"story_id" gorm:"size:36;not null;uniqueIndex:idx_story_viewer"`
	ViewerID uint      `json:"viewer_id" gorm:"not null;uniqueIndex:idx_story_viewer"`
	ViewedAt time.Time `json:"viewed_at"`

	Viewer *User `json:"-" gorm:"foreignKey:ViewerID"`
}

type StoryItem struct {
	Story
	Viewed bool `json:"viewed"`
}

// StoryGroup is one author's active stories in the feed
type StoryGroup struct {
	Author  UserCompact `json:"author"`
	Stories []StoryItem `json:"stories"`
}

type StoryViewerView struct {
	User     UserCompact `json:"user"`
	ViewedAt time.Time   `json:"viewed_at"`
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	Type     string `json:"type" validate:"required,oneof=photo video text"`
	Content  string `json:"content" validate:"required_unless=Type text"`
	Text     string `json:"text" validate:"max=500"`
	Duration int    `json:"duration" validate:"omitempty,min=1,max=60"`
}

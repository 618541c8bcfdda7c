package models

import "time"

// Post privacy scopes
const (
	PrivacyPublic  = "public"
	PrivacyFriends = "friends"
	PrivacyOnlyMe  = "only_me"
)

// Post types
const (
	PostTypeStatus = "status"
	PostTypePhoto  = "photo"
	PostTypeVideo  = "video"
	PostTypeShare  = "share"
)

// Post is owned by one user and carries a visibility scope
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Content   string    `json:"content"`
	Images    []string  `json:"images,omitempty" gorm:"serializer:json"` // opaque blob paths
	Privacy   string    `json:"privacy" gorm:"size:20;not null;default:'public';index"`
	Location  string    `json:"location,omitempty" gorm:"size:100"`
	Feeling   string    `json:"feeling,omitempty" gorm:"size:50"`
	PostType  string    `json:"post_type" gorm:"size:20;default:'status'"`
	GroupID   *uint     `json:"group_id,omitempty" gorm:"index"`
	PageID    *uint     `json:"page_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `json:"-" gorm:"foreignKey:UserID"`
}

// PostCounts carries the aggregates shown next to a post
type PostCounts struct {
	Reactions int64 `json:"reaction_count"`
	Comments  int64 `json:"comment_count"`
}

// PostView is a post as returned to clients
type PostView struct {
	Post
	Author       UserCompact `json:"author"`
	Counts       PostCounts  `json:"counts"`
	UserReaction string      `json:"user_reaction,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required_without=Images,max=5000"`
	Images   []string `json:"images,omitempty" validate:"omitempty,max=10"`
	Privacy  string   `json:"privacy" validate:"omitempty,oneof=public friends only_me"`
	Location string   `json:"location" validate:"max=100"`
	Feeling  string   `json:"feeling" validate:"max=50"`
	PostType string   `json:"post_type" validate:"omitempty,oneof=status photo video share"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  *string `json:"content,omitempty" validate:"omitempty,max=5000"`
	Privacy  *string `json:"privacy,omitempty" validate:"omitempty,oneof=public friends only_me"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Feeling  *string `json:"feeling,omitempty" validate:"omitempty,max=50"`
}

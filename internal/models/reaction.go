package models

import "time"

// Reaction types
const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionHaha  = "haha"
	ReactionWow   = "wow"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// Reaction targets
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Reaction is unique per (user, target); a second reaction replaces the first.
type Reaction struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reaction_user_target"`
	TargetType   string    `json:"target_type" gorm:"size:20;not null;uniqueIndex:idx_reaction_user_target;index:idx_reaction_target"`
	TargetID     uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_reaction_user_target;index:idx_reaction_target"`
	ReactionType string    `json:"reaction_type" gorm:"size:10;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

type ReactionView struct {
	ReactionType string      `json:"reaction_type"`
	CreatedAt    time.Time   `json:"created_at"`
	User         UserCompact `json:"user"`
}

// ReactRequest defines the request body for reacting to a post or comment
type ReactRequest struct {
	ReactionType string `json:"reaction_type" validate:"required,oneof=like love haha wow sad angry"`
}

package models

import "time"

// Comment on a post. Replies point at a top-level comment and never nest further.
type Comment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          uint      `json:"post_id" gorm:"not null;index"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	ParentCommentID *uint     `json:"parent_comment_id,omitempty" gorm:"index"`
	Content         string    `json:"content" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Author *User `json:"-" gorm:"foreignKey:UserID"`
}

type CommentView struct {
	Comment
	Author     UserCompact   `json:"author"`
	Replies    []CommentView `json:"replies,omitempty"`
	ReplyCount int64         `json:"reply_count"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=1000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

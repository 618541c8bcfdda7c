package models

import "time"

// SavedPost is a user's bookmark of a post, unique per (user, post)
type SavedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_post_save"`
	PostID    uint      `json:"post_id" gorm:"not null;index;uniqueIndex:idx_user_post_save"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Post *Post `json:"-" gorm:"foreignKey:PostID"`
}

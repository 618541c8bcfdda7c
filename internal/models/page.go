package models

import "time"

type Page struct {
	ID             uint              `json:"id" gorm:"primaryKey"`
	Name           string            `json:"name" gorm:"size:100;not null;index"`
	Category       string            `json:"category" gorm:"size:50"`
	Description    string            `json:"description"`
	ContactInfo    map[string]string `json:"contact_info,omitempty" gorm:"serializer:json"`
	ProfilePicture string            `json:"profile_picture"`
	CreatorID      uint              `json:"creator_id" gorm:"not null;index"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// PageLike is unique per (page, user)
type PageLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PageID    uint      `json:"page_id" gorm:"not null;uniqueIndex:idx_page_like"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_page_like"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

type PageInsights struct {
	TotalLikes  int64 `json:"total_likes"`
	LikesLast7d int64 `json:"likes_last_7_days"`
	TotalPosts  int64 `json:"total_posts"`
}

type CreatePageRequest struct {
	Name           string            `json:"name" validate:"required,min=2,max=100"`
	Category       string            `json:"category" validate:"required,max=50"`
	Description    string            `json:"description" validate:"max=2000"`
	ContactInfo    map[string]string `json:"contact_info"`
	ProfilePicture string            `json:"profile_picture"`
}

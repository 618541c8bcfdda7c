package models

import "time"

// Notification types. Only friend_request and friend_accepted are emitted today;
// the rest are reserved.
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationPostLike       = "post_like"
	NotificationPostComment    = "post_comment"
	NotificationPostShare      = "post_share"
	NotificationCommentLike    = "comment_like"
	NotificationCommentReply   = "comment_reply"
	NotificationGroupInvite    = "group_invite"
	NotificationGroupPost      = "group_post"
	NotificationMessage        = "message"
	NotificationStoryMention   = "story_mention"
	NotificationEventInvite    = "event_invite"
)

// Notification is a pre-rendered event record. Rows are never deleted, even when the target goes away.
type Notification struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"` // recipient
	Type       string    `json:"type" gorm:"size:30;not null;index"`
	Title      string    `json:"title" gorm:"size:255"`
	Message    string    `json:"message"`
	ActorID    *uint     `json:"actor_id,omitempty" gorm:"index"`
	TargetType string    `json:"target_type,omitempty" gorm:"size:20"` // post, comment, user, group
	TargetID   *uint     `json:"target_id,omitempty"`
	ActionURL  string    `json:"action_url,omitempty"`
	Read       bool      `json:"read" gorm:"column:is_read;default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// NotificationSettings holds per-user delivery preferences
type NotificationSettings struct {
	UserID             uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	EmailNotifications bool      `json:"email_notifications"`
	PushNotifications  bool      `json:"push_notifications"`
	FriendRequests     bool      `json:"friend_requests"`
	Comments           bool      `json:"comments"`
	Reactions          bool      `json:"reactions"`
	Messages           bool      `json:"messages"`
	GroupActivity      bool      `json:"group_activity"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func DefaultNotificationSettings(userID uint) NotificationSettings {
	return NotificationSettings{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
		FriendRequests:     true,
		Comments:           true,
		Reactions:          true,
		Messages:           true,
		GroupActivity:      true,
	}
}

type MarkNotificationsRequest struct {
	NotificationIDs []uint `json:"notification_ids"`
	MarkAll         bool   `json:"mark_all"`
}

type UpdateNotificationSettingsRequest struct {
	EmailNotifications *bool `json:"email_notifications"`
	PushNotifications  *bool `json:"push_notifications"`
	FriendRequests     *bool `json:"friend_requests"`
	Comments           *bool `json:"comments"`
	Reactions          *bool `json:"reactions"`
	Messages           *bool `json:"messages"`
	GroupActivity      *bool `json:"group_activity"`
}

package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Friendship statuses. Blocked is reserved: nothing produces it.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
	FriendshipBlocked  = "blocked"
)

// Friendship is a directed request (UserID -> FriendID) that becomes symmetric once accepted.
// PairKey is the same for both directions, so the unique index allows one row per unordered pair.
type Friendship struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	FriendID       uint      `json:"friend_id" gorm:"not null;index"`
	PairKey        string    `json:"-" gorm:"size:64;not null;uniqueIndex"`
	Status         string    `json:"status" gorm:"size:20;not null;default:'pending';index"`
	RequestMessage string    `json:"request_message"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Friend *User `json:"friend,omitempty" gorm:"foreignKey:FriendID"`
}

// PairKey returns the order-independent key for a pair of users
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.PairKey = PairKey(f.UserID, f.FriendID)
	return nil
}

// OtherParty returns the id on the other side of the row from userID
func (f *Friendship) OtherParty(userID uint) uint {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

type SendFriendRequest struct {
	TargetID uint   `json:"target_id" validate:"required"`
	Message  string `json:"message" validate:"max=500"`
}

type RespondFriendRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// FriendSuggestion is a candidate with the number of friends shared with the viewer
type FriendSuggestion struct {
	UserCompact
	Bio           string `json:"bio"`
	MutualFriends int64  `json:"mutual_friends"`
}

package models

import "time"

const (
	GroupPublic  = "public"
	GroupPrivate = "private"
)

// Member roles
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// Membership statuses
const (
	MemberPending = "pending"
	MemberActive  = "active"
)

type Group struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;index"`
	Description string    `json:"description"`
	Privacy     string    `json:"privacy" gorm:"size:20;not null;default:'public'"`
	CoverPhoto  string    `json:"cover_photo"`
	CreatorID   uint      `json:"creator_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupMember is unique per (group, user)
type GroupMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	GroupID  uint      `json:"group_id" gorm:"not null;uniqueIndex:idx_group_member"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_group_member;index"`
	Role     string    `json:"role" gorm:"size:20;not null;default:'member'"`
	Status   string    `json:"status" gorm:"size:20;not null;default:'active'"`
	JoinedAt time.Time `json:"joined_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (m *GroupMember) IsActiveAdmin() bool {
	return m != nil && m.Status == MemberActive && m.Role == RoleAdmin
}

type GroupMemberView struct {
	UserCompact
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Privacy     string `json:"privacy" validate:"omitempty,oneof=public private"`
	CoverPhoto  string `json:"cover_photo"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin moderator member"`
}

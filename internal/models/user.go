package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Account statuses
const (
	AccountActive    = "active"
	AccountInactive  = "inactive"
	AccountSuspended = "suspended"
	AccountDeleted   = "deleted"
)

type User struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	FirstName          string    `json:"first_name" gorm:"size:50;not null"`
	LastName           string    `json:"last_name" gorm:"size:50;not null"`
	Email              string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password           string    `json:"-"`                                         // bcrypt hash
	FirebaseUID        *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // set once the account is linked to Firebase
	Bio                string    `json:"bio"`
	Location           string    `json:"location" gorm:"size:100"`
	WorkCompany        string    `json:"work_company" gorm:"size:100"`
	WorkPosition       string    `json:"work_position" gorm:"size:100"`
	Education          string    `json:"education" gorm:"size:200"`
	RelationshipStatus string    `json:"relationship_status" gorm:"size:30"`
	ProfilePicture     string    `json:"profile_picture"`
	CoverPhoto         string    `json:"cover_photo"`
	AccountStatus      string    `json:"account_status" gorm:"size:20;default:'active';index"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UserCompact is the author/actor shape embedded in other payloads
type UserCompact struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

func (u *User) IsActive() bool {
	return u.AccountStatus == "" || u.AccountStatus == AccountActive
}

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest only touches the fields that are present
type UpdateProfileRequest struct {
	FirstName          *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName           *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio                *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location           *string `json:"location,omitempty" validate:"omitempty,max=100"`
	WorkCompany        *string `json:"work_company,omitempty" validate:"omitempty,max=100"`
	WorkPosition       *string `json:"work_position,omitempty" validate:"omitempty,max=100"`
	Education          *string `json:"education,omitempty" validate:"omitempty,max=200"`
	RelationshipStatus *string `json:"relationship_status,omitempty" validate:"omitempty,max=30"`
	ProfilePicture     *string `json:"profile_picture,omitempty"`
	CoverPhoto         *string `json:"cover_photo,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

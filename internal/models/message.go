package models

import "time"

const (
	ConversationDirect = "direct"
	ConversationGroup  = "group"
)

// Message statuses
const (
	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageRead      = "read"
)

// Conversation between participants. Direct conversations carry the pair key of their two
// participants so there is at most one per pair; group conversations leave it NULL.
type Conversation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Type          string    `json:"type" gorm:"size:10;not null;default:'direct'"`
	Name          string    `json:"name,omitempty" gorm:"size:100"`
	DirectKey     *string   `json:"-" gorm:"size:64;uniqueIndex"`
	LastMessageID *uint     `json:"last_message_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"index"`
}

type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;uniqueIndex:idx_conversation_participant"`
	UserID         uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_conversation_participant;index"`
	JoinedAt       time.Time `json:"joined_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null;index"`
	Content        string    `json:"content"`
	MessageType    string    `json:"message_type" gorm:"size:20;default:'text'"`
	Attachments    []string  `json:"attachments,omitempty" gorm:"serializer:json"`
	Status         string    `json:"status" gorm:"size:20;not null;default:'sent'"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

type ConversationView struct {
	Conversation
	Participants []UserCompact `json:"participants"`
	LastMessage  *Message      `json:"last_message,omitempty"`
}

// SendMessageRequest targets either a user (direct) or an existing conversation
type SendMessageRequest struct {
	RecipientID    uint     `json:"recipient_id" validate:"required_without=ConversationID"`
	ConversationID uint     `json:"conversation_id"`
	Content        string   `json:"content" validate:"required_without=Attachments,max=5000"`
	MessageType    string   `json:"message_type" validate:"omitempty,oneof=text image file"`
	Attachments    []string `json:"attachments,omitempty"`
}

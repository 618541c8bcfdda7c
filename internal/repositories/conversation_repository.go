package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/social/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository defines the interface for conversations and messages
type ConversationRepository interface {
	FindOrCreateDirect(ctx context.Context, a, b uint) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id uint) (*models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error)
	AddMessage(ctx context.Context, message *models.Message) error
	GetMessageByID(ctx context.Context, id uint) (*models.Message, error)
	MarkMessageRead(ctx context.Context, id uint) error
	GetConversations(ctx context.Context, userID uint, page, limit int) ([]models.Conversation, int64, error)
	GetMessages(ctx context.Context, conversationID uint, page, limit int) ([]models.Message, int64, error)
	GetParticipants(ctx context.Context, conversationIDs []uint) (map[uint][]models.UserCompact, error)
	GetMessagesByIDs(ctx context.Context, ids []uint) (map[uint]models.Message, error)
}

// GormConversationRepository implements ConversationRepository on gorm
type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// FindOrCreateDirect returns the single direct conversation between a and b, creating it
// on first use. The unique direct key makes concurrent first messages converge on one row.
func (r *GormConversationRepository) FindOrCreateDirect(ctx context.Context, a, b uint) (*models.Conversation, error) {
	key := models.PairKey(a, b)
	var conv models.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := models.Conversation{Type: models.ConversationDirect, DirectKey: &key}
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "direct_key"}}, DoNothing: true}).
			Create(&candidate).Error; err != nil {
			return err
		}
		if err := tx.Where("direct_key = ?", key).First(&conv).Error; err != nil {
			return err
		}
		now := time.Now()
		participants := []models.ConversationParticipant{
			{ConversationID: conv.ID, UserID: a, JoinedAt: now},
			{ConversationID: conv.ID, UserID: b, JoinedAt: now},
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *GormConversationRepository) GetConversationByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *GormConversationRepository) IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMessage stores the message and moves the conversation's last-message pointer to it
func (r *GormConversationRepository) AddMessage(ctx context.Context, message *models.Message) error {
	if message.Status == "" {
		message.Status = models.MessageSent
	}
	if message.MessageType == "" {
		message.MessageType = "text"
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Updates(map[string]any{"last_message_id": message.ID, "updated_at": time.Now()}).Error
	})
}

func (r *GormConversationRepository) GetMessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *GormConversationRepository) MarkMessageRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("status", models.MessageRead).Error
}

// GetConversations lists the user's conversations, most recently active first
func (r *GormConversationRepository) GetConversations(ctx context.Context, userID uint, page, limit int) ([]models.Conversation, int64, error) {
	mine := r.db.Model(&models.ConversationParticipant{}).Select("conversation_id").Where("user_id = ?", userID)
	q := r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id IN (?)", mine).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var convs []models.Conversation
	if err := q.Order("updated_at DESC, id DESC").Scopes(Paginate(page, limit)).Find(&convs).Error; err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// GetMessages lists a conversation's messages, newest first
func (r *GormConversationRepository) GetMessages(ctx context.Context, conversationID uint, page, limit int) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var messages []models.Message
	if err := q.Order("created_at DESC, id DESC").Scopes(Paginate(page, limit)).Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *GormConversationRepository) GetParticipants(ctx context.Context, conversationIDs []uint) (map[uint][]models.UserCompact, error) {
	result := make(map[uint][]models.UserCompact, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return result, nil
	}
	var rows []models.ConversationParticipant
	if err := r.db.WithContext(ctx).Preload("User").
		Where("conversation_id IN ?", conversationIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		if p.User == nil {
			continue
		}
		result[p.ConversationID] = append(result[p.ConversationID], p.User.ToCompact())
	}
	return result, nil
}

func (r *GormConversationRepository) GetMessagesByIDs(ctx context.Context, ids []uint) (map[uint]models.Message, error) {
	result := make(map[uint]models.Message, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var msgs []models.Message
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for _, m := range msgs {
		result[m.ID] = m
	}
	return result, nil
}

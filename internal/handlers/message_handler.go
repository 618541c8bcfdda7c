package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles conversations and messages. Users do not need to be friends to message.
type MessageHandler struct {
	conversationRepository repositories.ConversationRepository
	userRepository         repositories.UserRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(conversationRepo repositories.ConversationRepository, userRepo repositories.UserRepository) *MessageHandler {
	return &MessageHandler{
		conversationRepository: conversationRepo,
		userRepository:         userRepo,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages/send", h.SendMessage)
	g.GET("/messages/conversations", h.GetConversations)
	g.GET("/messages/conversation/:id", h.GetConversationMessages)
	g.PUT("/messages/:id/read", h.MarkAsRead)
}

// SendMessage sends to a user, reusing the direct conversation with them, or into an existing conversation
func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	var conversationID uint
	if req.ConversationID != 0 {
		if _, err := h.conversationRepository.GetConversationByID(ctx, req.ConversationID); err != nil {
			return services.Lookup(err, "conversation not found")
		}
		ok, err := h.conversationRepository.IsParticipant(ctx, req.ConversationID, userID)
		if err != nil {
			return services.Internal(err)
		}
		if !ok {
			return services.Forbidden("you are not a participant of this conversation")
		}
		conversationID = req.ConversationID
	} else {
		if req.RecipientID == userID {
			return services.BadInput("you cannot message yourself")
		}
		recipient, err := h.userRepository.GetUserByID(ctx, req.RecipientID)
		if err != nil {
			return services.Lookup(err, "recipient not found")
		}
		if !recipient.IsActive() {
			return services.NotFound("recipient not found")
		}
		conversation, err := h.conversationRepository.FindOrCreateDirect(ctx, userID, recipient.ID)
		if err != nil {
			return services.Internal(err)
		}
		conversationID = conversation.ID
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        req.Content,
		MessageType:    req.MessageType,
		Attachments:    req.Attachments,
		Status:         models.MessageSent,
	}
	if msg.MessageType == "" {
		msg.MessageType = "text"
	}
	if err := h.conversationRepository.AddMessage(ctx, msg); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusCreated, msg)
}

// GetConversations lists the caller's conversations, most recently active first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pagination(c)

	conversations, total, err := h.conversationRepository.GetConversations(ctx, userID, page, limit)
	if err != nil {
		return services.Internal(err)
	}

	ids := make([]uint, 0, len(conversations))
	var lastIDs []uint
	for _, conv := range conversations {
		ids = append(ids, conv.ID)
		if conv.LastMessageID != nil {
			lastIDs = append(lastIDs, *conv.LastMessageID)
		}
	}
	participants, err := h.conversationRepository.GetParticipants(ctx, ids)
	if err != nil {
		return services.Internal(err)
	}
	lastMessages, err := h.conversationRepository.GetMessagesByIDs(ctx, lastIDs)
	if err != nil {
		return services.Internal(err)
	}

	views := make([]models.ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view := models.ConversationView{Conversation: conv, Participants: participants[conv.ID]}
		if view.Participants == nil {
			view.Participants = []models.UserCompact{}
		}
		if conv.LastMessageID != nil {
			if last, ok := lastMessages[*conv.LastMessageID]; ok {
				view.LastMessage = &last
			}
		}
		views = append(views, view)
	}
	return paginated(c, views, page, limit, total)
}

// GetConversationMessages lists a conversation's messages newest first; participants only
func (h *MessageHandler) GetConversationMessages(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	conversationID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.conversationRepository.GetConversationByID(ctx, conversationID); err != nil {
		return services.Lookup(err, "conversation not found")
	}
	ok, err := h.conversationRepository.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return services.Internal(err)
	}
	if !ok {
		return services.Forbidden("you are not a participant of this conversation")
	}

	page, limit := pagination(c)
	messages, total, err := h.conversationRepository.GetMessages(ctx, conversationID, page, limit)
	if err != nil {
		return services.Internal(err)
	}
	return paginated(c, messages, page, limit, total)
}

// MarkAsRead marks a message read; only a participant other than the sender may do so
func (h *MessageHandler) MarkAsRead(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	messageID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	msg, err := h.conversationRepository.GetMessageByID(ctx, messageID)
	if err != nil {
		return services.Lookup(err, "message not found")
	}
	ok, err := h.conversationRepository.IsParticipant(ctx, msg.ConversationID, userID)
	if err != nil {
		return services.Internal(err)
	}
	if !ok || msg.SenderID == userID {
		return services.Forbidden("you cannot mark this message as read")
	}
	if err := h.conversationRepository.MarkMessageRead(ctx, messageID); err != nil {
		return services.Internal(err)
	}
	return message(c, http.StatusOK, "Message marked as read")
}

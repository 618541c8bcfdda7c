package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read", h.MarkAsRead)
	g.GET("/notifications/settings", h.GetSettings)
	g.PUT("/notifications/settings", h.UpdateSettings)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor *models.UserCompact `json:"actor,omitempty"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) ([]EnrichedNotification, error) {
	enriched := make([]EnrichedNotification, len(notifications))
	var actorIDs []uint
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if n.ActorID != nil {
			actorIDs = append(actorIDs, *n.ActorID)
		}
	}
	if len(actorIDs) == 0 {
		return enriched, nil
	}

	actors, err := h.userRepository.GetUsersByIDs(c.Request().Context(), actorIDs)
	if err != nil {
		return nil, services.Internal(err)
	}
	for i := range enriched {
		if id := enriched[i].ActorID; id != nil {
			if actor, ok := actors[*id]; ok {
				compact := actor.ToCompact()
				enriched[i].Actor = &compact
			}
		}
	}
	return enriched, nil
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pagination(c)
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread_only"))

	notifications, total, err := h.notificationRepository.GetByRecipientID(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return services.Internal(err)
	}
	unreadCount, err := h.notificationRepository.GetUnreadCount(ctx, userID)
	if err != nil {
		return services.Internal(err)
	}
	enriched, err := h.enrichNotifications(c, notifications)
	if err != nil {
		return err
	}

	return paginated(c, echo.Map{
		"notifications": enriched,
		"unreadCount":   unreadCount,
	}, page, limit, total)
}

// GetGroupedNotifications returns notifications grouped by time period
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	today, yesterday, thisWeek, older, err := h.notificationRepository.GetGrouped(ctx, userID, time.Now())
	if err != nil {
		return services.Internal(err)
	}
	unreadCount, err := h.notificationRepository.GetUnreadCount(ctx, userID)
	if err != nil {
		return services.Internal(err)
	}

	groups := echo.Map{}
	for name, list := range map[string][]models.Notification{
		"today":     today,
		"yesterday": yesterday,
		"thisWeek":  thisWeek,
		"older":     older,
	} {
		enriched, err := h.enrichNotifications(c, list)
		if err != nil {
			return err
		}
		groups[name] = enriched
	}

	return success(c, http.StatusOK, echo.Map{
		"notifications": groups,
		"unreadCount":   unreadCount,
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), userID)
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks the listed notifications, or all of them, as read. Only the caller's rows change.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.MarkNotificationsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	var updated int64
	switch {
	case req.MarkAll:
		updated, err = h.notificationRepository.MarkAllAsRead(ctx, userID)
	case len(req.NotificationIDs) > 0:
		updated, err = h.notificationRepository.MarkAsRead(ctx, userID, req.NotificationIDs)
	default:
		return services.BadInput("provide notification_ids or mark_all")
	}
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"updated": updated})
}

// GetSettings returns the caller's notification settings, all enabled when never saved
func (h *NotificationHandler) GetSettings(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	settings, err := h.notificationRepository.GetSettings(c.Request().Context(), userID)
	if err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, settings)
}

// UpdateSettings changes the toggles present in the body
func (h *NotificationHandler) UpdateSettings(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateNotificationSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	settings, err := h.notificationRepository.GetSettings(ctx, userID)
	if err != nil {
		return services.Internal(err)
	}

	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&settings.EmailNotifications, req.EmailNotifications)
	apply(&settings.PushNotifications, req.PushNotifications)
	apply(&settings.FriendRequests, req.FriendRequests)
	apply(&settings.Comments, req.Comments)
	apply(&settings.Reactions, req.Reactions)
	apply(&settings.Messages, req.Messages)
	apply(&settings.GroupActivity, req.GroupActivity)

	if err := h.notificationRepository.SaveSettings(ctx, settings); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, settings)
}

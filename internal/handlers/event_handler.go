package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/middleware"
	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// EventHandler handles events and RSVPs
type EventHandler struct {
	eventRepository repositories.EventRepository
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventRepo repositories.EventRepository) *EventHandler {
	return &EventHandler{eventRepository: eventRepo}
}

// RegisterEventRoutes registers event routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events/user/events", h.GetUserEvents)
	g.GET("/events/:id", h.GetEvent)
	g.POST("/events/:id/rsvp", h.RSVP)
	g.GET("/events/:id/attendees", h.GetAttendees)
}

type eventDetails struct {
	*models.Event
	RSVPCounts models.RSVPCounts `json:"rsvp_counts"`
	UserStatus string            `json:"user_status,omitempty"`
}

// CreateEvent creates the event, then marks the creator as going.
// The two writes are independent: if the RSVP fails the event stays.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return services.BadInput("end_date must be after start_date")
	}
	ctx := c.Request().Context()

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Privacy:     req.Privacy,
		CreatorID:   userID,
	}
	if err := h.eventRepository.CreateEvent(ctx, event); err != nil {
		return services.Internal(err)
	}
	rsvp := &models.EventRSVP{EventID: event.ID, UserID: userID, Status: models.RSVPGoing}
	if err := h.eventRepository.UpsertRSVP(ctx, rsvp); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Uint("event_id", event.ID).Msg("event created without creator rsvp")
		return services.Internal(err)
	}
	return success(c, http.StatusCreated, event)
}

// GetEvent returns the event with RSVP counts and the caller's own answer
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	event, err := h.eventRepository.GetEventByID(ctx, id)
	if err != nil {
		return services.Lookup(err, "event not found")
	}
	counts, err := h.eventRepository.CountRSVPs(ctx, id)
	if err != nil {
		return services.Internal(err)
	}
	details := eventDetails{Event: event, RSVPCounts: counts}
	if userID, ok := middleware.ViewerFrom(c).ID(); ok {
		rsvp, err := h.eventRepository.GetRSVP(ctx, id, userID)
		switch {
		case err == nil:
			details.UserStatus = rsvp.Status
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return services.Internal(err)
		}
	}
	return success(c, http.StatusOK, details)
}

// RSVP records or replaces the caller's answer
func (h *EventHandler) RSVP(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.RSVPRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.eventRepository.GetEventByID(ctx, id); err != nil {
		return services.Lookup(err, "event not found")
	}
	rsvp := &models.EventRSVP{EventID: id, UserID: userID, Status: req.Status}
	if err := h.eventRepository.UpsertRSVP(ctx, rsvp); err != nil {
		return services.Internal(err)
	}
	return success(c, http.StatusOK, echo.Map{"status": req.Status})
}

// GetAttendees lists RSVPs: going first, then interested, then the rest
func (h *EventHandler) GetAttendees(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.eventRepository.GetEventByID(ctx, id); err != nil {
		return services.Lookup(err, "event not found")
	}
	page, limit := pagination(c)
	rsvps, total, err := h.eventRepository.GetAttendees(ctx, id, page, limit)
	if err != nil {
		return services.Internal(err)
	}
	attendees := make([]models.AttendeeView, 0, len(rsvps))
	for _, r := range rsvps {
		view := models.AttendeeView{Status: r.Status}
		if r.User != nil {
			view.UserCompact = r.User.ToCompact()
		}
		attendees = append(attendees, view)
	}
	return paginated(c, attendees, page, limit, total)
}

// GetUserEvents lists events the caller is attending (default) or created
func (h *EventHandler) GetUserEvents(c echo.Context) error {
	userID, err := middleware.RequireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	page, limit := pagination(c)

	var events []models.Event
	var total int64
	switch c.QueryParam("type") {
	case "", "attending":
		events, total, err = h.eventRepository.GetAttendingEvents(ctx, userID, page, limit)
	case "created":
		events, total, err = h.eventRepository.GetCreatedEvents(ctx, userID, page, limit)
	default:
		return services.BadInput("type must be attending or created")
	}
	if err != nil {
		return services.Internal(err)
	}
	return paginated(c, events, page, limit, total)
}

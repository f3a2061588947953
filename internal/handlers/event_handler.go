package handlers

import (
	"net/http"
	"time"

	"event-ticketing/internal/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	catalog   *services.CatalogService
	ticketing *services.TicketingService
}

func NewEventHandler(catalog *services.CatalogService, ticketing *services.TicketingService) *EventHandler {
	return &EventHandler{
		catalog:   catalog,
		ticketing: ticketing,
	}
}

type createEventRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Venue             string    `json:"venue"`
	Date              time.Time `json:"date"`
	TotalTickets      uint32    `json:"total_tickets"`
	Price             int64     `json:"price"`
	MaxTicketsPerUser uint32    `json:"max_tickets_per_user"`
	SaleStartTime     time.Time `json:"sale_start_time"`
	SaleEndTime       time.Time `json:"sale_end_time"`
}

// CreateEvent - Register a new event with the caller as organizer
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req createEventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	event, err := h.catalog.CreateEvent(e.Request.Context(), e.Auth.Id, services.CreateEventInput{
		Name:              req.Name,
		Description:       req.Description,
		Venue:             req.Venue,
		Date:              req.Date,
		TotalTickets:      req.TotalTickets,
		Price:             req.Price,
		MaxTicketsPerUser: req.MaxTicketsPerUser,
		SaleStartTime:     req.SaleStartTime,
		SaleEndTime:       req.SaleEndTime,
	})
	if err != nil {
		return apiError(err)
	}

	return e.JSON(http.StatusCreated, event)
}

// ListEvents - List all events
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, h.catalog.ListEvents())
}

// ListActiveEvents - List events currently open for sale
func (h *EventHandler) ListActiveEvents(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, h.catalog.ListActiveEvents())
}

// GetEvent - Get one event by id
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	id, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	event, err := h.catalog.GetEvent(id)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// GetEventStatistics - Sales snapshot for one event
func (h *EventHandler) GetEventStatistics(e *core.RequestEvent) error {
	id, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	stats, err := h.ticketing.EventStatistics(id)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, stats)
}

// DeactivateEvent - Organizer-only, one-way deactivation
func (h *EventHandler) DeactivateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	id, err := pathID(e, "eventId")
	if err != nil {
		return err
	}

	if err := h.catalog.Deactivate(e.Request.Context(), id, e.Auth.Id); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"event_id": id, "is_active": false})
}

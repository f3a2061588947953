package handlers

import (
	"net/http"

	"event-ticketing/internal/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TicketHandler struct {
	ticketing *services.TicketingService
}

func NewTicketHandler(ticketing *services.TicketingService) *TicketHandler {
	return &TicketHandler{ticketing: ticketing}
}

type purchaseRequest struct {
	EventID  uint64 `json:"event_id"`
	Quantity uint32 `json:"quantity"`
}

type verifyRequest struct {
	VerificationCode string `json:"verification_code"`
}

// PurchaseTickets - Buy tickets for an event
func (h *TicketHandler) PurchaseTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req purchaseRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	purchase, err := h.ticketing.PurchaseTickets(e.Request.Context(), req.EventID, req.Quantity, e.Auth.Id)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, purchase)
}

// VerifyTicket - Check a ticket and its code without consuming it
func (h *TicketHandler) VerifyTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	id, err := pathID(e, "ticketId")
	if err != nil {
		return err
	}

	var req verifyRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	ticket, err := h.ticketing.VerifyTicket(id, req.VerificationCode)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, ticket)
}

// UseTicket - Redeem a ticket at the gate, organizer only
func (h *TicketHandler) UseTicket(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	id, err := pathID(e, "ticketId")
	if err != nil {
		return err
	}

	var req verifyRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	if err := h.ticketing.RedeemTicket(e.Request.Context(), id, req.VerificationCode, e.Auth.Id); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"ticket_id": id, "is_used": true})
}

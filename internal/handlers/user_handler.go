package handlers

import (
	"net/http"

	"event-ticketing/internal/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile - Profile of the given user, created on first lookup
func (h *UserHandler) GetProfile(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	profile, err := h.users.GetUserProfile(e.Request.PathValue("userId"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, profile)
}

// GetTickets - Tickets owned by the given user
func (h *UserHandler) GetTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return e.JSON(http.StatusOK, h.users.GetUserTickets(e.Request.PathValue("userId")))
}

// GetPurchases - Purchases made by the given user
func (h *UserHandler) GetPurchases(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return e.JSON(http.StatusOK, h.users.GetUserPurchases(e.Request.PathValue("userId")))
}

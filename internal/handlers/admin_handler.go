package handlers

import (
	"net/http"

	"event-ticketing/internal/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type AdminHandler struct {
	replica *services.ReplicaService
}

func NewAdminHandler(replica *services.ReplicaService) *AdminHandler {
	return &AdminHandler{replica: replica}
}

// SalesDashboard - Live sales snapshot of every active event, served from
// the Redis replica so dashboard polling never contends with purchases.
func (h *AdminHandler) SalesDashboard(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewForbiddenError("Superuser access required", nil)
	}

	dashboard, err := h.replica.Dashboard(e.Request.Context())
	if err != nil {
		return apis.NewInternalServerError("Dashboard unavailable", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"events": dashboard})
}

package handlers

import (
	"errors"
	"strconv"

	"event-ticketing/internal/status"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// apiError maps the service error taxonomy onto API responses. Not-found
// kinds become 404, authorization failures 403, everything else is a 400
// carrying the error kind so clients can branch on it.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrEventNotFound), errors.Is(err, status.ErrTicketNotFound):
		return apis.NewNotFoundError(err.Error(), nil)
	case errors.Is(err, status.ErrUnauthorized):
		return apis.NewForbiddenError(err.Error(), nil)
	default:
		return apis.NewBadRequestError(err.Error(), map[string]string{"kind": status.Kind(err)})
	}
}

// pathID parses a numeric path parameter.
func pathID(e *core.RequestEvent, name string) (uint64, error) {
	id, err := strconv.ParseUint(e.Request.PathValue(name), 10, 64)
	if err != nil {
		return 0, apis.NewBadRequestError("Invalid "+name, nil)
	}
	return id, nil
}

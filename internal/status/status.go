package status

import "errors"

// Expected, recoverable outcomes surfaced to the caller. Every validation
// failure maps to exactly one of these; none is fatal to the process.
var (
	ErrEventNotFound            = errors.New("ticketing: event not found")
	ErrTicketNotFound           = errors.New("ticketing: ticket not found")
	ErrInsufficientTickets      = errors.New("ticketing: insufficient tickets")
	ErrExceedsMaxTicketsPerUser = errors.New("ticketing: exceeds max tickets per user")
	ErrSaleNotStarted           = errors.New("ticketing: sale not started")
	ErrSaleEnded                = errors.New("ticketing: sale ended")
	ErrEventInactive            = errors.New("ticketing: event inactive")
	ErrUnauthorized             = errors.New("ticketing: unauthorized")
	ErrAlreadyUsed              = errors.New("ticketing: ticket already used")
	ErrInvalidVerificationCode  = errors.New("ticketing: invalid verification code")

	ErrInvalidQuantity = errors.New("ticketing: quantity must be positive")
	ErrInvalidEvent    = errors.New("ticketing: invalid event definition")
)

// Kind returns a stable machine-readable identifier for an error, suitable
// for API payloads and metric labels. Unknown errors map to "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, ErrTicketNotFound):
		return "ticket_not_found"
	case errors.Is(err, ErrInsufficientTickets):
		return "insufficient_tickets"
	case errors.Is(err, ErrExceedsMaxTicketsPerUser):
		return "exceeds_max_tickets_per_user"
	case errors.Is(err, ErrSaleNotStarted):
		return "sale_not_started"
	case errors.Is(err, ErrSaleEnded):
		return "sale_ended"
	case errors.Is(err, ErrEventInactive):
		return "event_inactive"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, ErrInvalidVerificationCode):
		return "invalid_verification_code"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInvalidEvent):
		return "invalid_event"
	default:
		return "internal"
	}
}

// Package notify publishes organizer activity to per-organizer PubNub
// channels. Delivery is best-effort: failures are logged and, after a run
// of them, a circuit breaker mutes publishing until the transport recovers.
package notify

import (
	"fmt"
	"log/slog"

	"event-ticketing/models"
	"event-ticketing/utils"

	pubnub "github.com/pubnub/go"
)

type Notifier struct {
	pn      *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func New(pn *pubnub.PubNub) *Notifier {
	return &Notifier{
		pn:      pn,
		breaker: utils.NewCircuitBreaker("pubnub"),
	}
}

func channelFor(organizer string) string {
	return fmt.Sprintf("organizer-%s", organizer)
}

func (n *Notifier) publish(organizer string, message map[string]any) {
	if n == nil || n.pn == nil {
		return
	}

	err := n.breaker.Do(func() error {
		_, _, err := n.pn.Publish().
			Channel(channelFor(organizer)).
			Message(message).
			Execute()
		return err
	})
	if err != nil {
		slog.Error("notify: publish failed", "organizer", organizer, "type", message["type"], "error", err)
	}
}

// PurchaseCompleted tells the organizer that tickets were sold.
func (n *Notifier) PurchaseCompleted(organizer string, event *models.Event, purchase *models.Purchase) {
	n.publish(organizer, map[string]any{
		"type":         "tickets_sold",
		"event_id":     event.ID,
		"event_name":   event.Name,
		"purchase_id":  purchase.ID,
		"quantity":     purchase.Quantity,
		"total_amount": utils.FormatAmount(purchase.TotalAmount),
		"available":    event.AvailableTickets,
	})
}

// TicketRedeemed tells the organizer that a ticket was used at the gate.
func (n *Notifier) TicketRedeemed(organizer string, ticket *models.Ticket) {
	n.publish(organizer, map[string]any{
		"type":        "ticket_redeemed",
		"event_id":    ticket.EventID,
		"ticket_id":   ticket.ID,
		"seat_number": ticket.SeatNumber,
	})
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"event-ticketing/internal/status"
	"event-ticketing/internal/store"
	"event-ticketing/models"
	"event-ticketing/monitoring"
)

// ActivityNotifier receives organizer-facing activity after a mutation has
// committed. Implementations must not block request handling.
type ActivityNotifier interface {
	PurchaseCompleted(organizer string, event *models.Event, purchase *models.Purchase)
	TicketRedeemed(organizer string, ticket *models.Ticket)
}

// TicketingService is the allocation and redemption engine. Every
// mutating operation runs its full validate-then-mutate sequence inside a
// single store critical section: two concurrent purchases cannot jointly
// oversell an event and two concurrent redemptions cannot both observe an
// unused ticket. Replica sync, persistence and notifications happen after
// commit and never affect the outcome.
type TicketingService struct {
	store    *store.Store
	replica  *ReplicaService
	records  *RecordService
	notifier ActivityNotifier
	now      func() time.Time
}

func NewTicketingService(st *store.Store, replica *ReplicaService, records *RecordService, notifier ActivityNotifier) *TicketingService {
	return &TicketingService{
		store:    st,
		replica:  replica,
		records:  records,
		notifier: notifier,
		now:      time.Now,
	}
}

// VerificationCode derives a ticket's redemption code from its id and the
// owning event's id. Both inputs are unique, so codes never collide.
func VerificationCode(ticketID, eventID uint64) string {
	return fmt.Sprintf("%08X-%08X", ticketID, eventID)
}

// SeatNumber derives the informational seat label for a ticket.
func SeatNumber(eventID, ticketID uint64) string {
	return fmt.Sprintf("SEAT-%d-%d", eventID, ticketID)
}

// PurchaseTickets validates the request and, if every check passes, mints
// the tickets, records the purchase and updates the buyer's ledger as one
// atomic unit. The first failing check wins and leaves no trace.
func (s *TicketingService) PurchaseTickets(ctx context.Context, eventID uint64, quantity uint32, buyer string) (*models.Purchase, error) {
	if quantity == 0 {
		return nil, status.ErrInvalidQuantity
	}

	now := s.now()

	var (
		purchase  *models.Purchase
		event     *models.Event
		tickets   []*models.Ticket
		profile   *models.UserProfile
		available uint32
	)

	err := s.store.Update(func(st *store.State) error {
		ev, ok := st.Events[eventID]
		if !ok {
			return status.ErrEventNotFound
		}
		if !ev.IsActive {
			return status.ErrEventInactive
		}
		if now.Before(ev.SaleStartTime) {
			return status.ErrSaleNotStarted
		}
		if now.After(ev.SaleEndTime) {
			return status.ErrSaleEnded
		}
		if ev.AvailableTickets < quantity {
			return status.ErrInsufficientTickets
		}
		if st.QuotaUsed(buyer, eventID)+quantity > ev.MaxTicketsPerUser {
			return status.ErrExceedsMaxTicketsPerUser
		}

		// All checks passed; from here on nothing can fail.
		ev.AvailableTickets -= quantity
		available = ev.AvailableTickets

		ticketIDs := make([]uint64, 0, quantity)
		tickets = make([]*models.Ticket, 0, quantity)
		for range quantity {
			id := st.NextTicketID()
			ticket := &models.Ticket{
				ID:               id,
				EventID:          eventID,
				Owner:            buyer,
				SeatNumber:       SeatNumber(eventID, id),
				PurchaseTime:     now,
				IsUsed:           false,
				VerificationCode: VerificationCode(id, eventID),
			}
			st.Tickets[id] = ticket
			ticketIDs = append(ticketIDs, id)
			tickets = append(tickets, ticket.Clone())
		}

		p := &models.Purchase{
			ID:           st.NextPurchaseID(),
			EventID:      eventID,
			Buyer:        buyer,
			Quantity:     quantity,
			TotalAmount:  ev.Price * int64(quantity),
			PurchaseTime: now,
			TicketIDs:    ticketIDs,
		}
		st.Purchases[p.ID] = p

		st.AddQuota(buyer, eventID, quantity)

		prof := st.Profile(buyer)
		prof.Purchases = append(prof.Purchases, p.ID)
		prof.Tickets = append(prof.Tickets, ticketIDs...)

		purchase = p.Clone()
		event = ev.Clone()
		profile = prof.Clone()
		return nil
	})

	monitoring.TrackPurchase(eventID, quantity, err)
	if err != nil {
		return nil, err
	}

	s.records.SavePurchase(purchase)
	for _, ticket := range tickets {
		s.records.SaveTicket(ticket)
	}
	s.records.SaveEvent(event)
	s.records.SaveProfile(profile)

	if err := s.replica.SyncAvailability(ctx, eventID, available); err != nil {
		slog.Error("replica: availability sync failed", "event_id", eventID, "error", err)
	}
	if s.notifier != nil {
		s.notifier.PurchaseCompleted(event.Organizer, event, purchase)
	}

	slog.Info("tickets purchased",
		"event_id", eventID,
		"buyer", buyer,
		"quantity", quantity,
		"purchase_id", purchase.ID,
	)
	return purchase, nil
}

// RedeemTicket marks a ticket used. The transition is one-way: the checks
// run in order (existence, code, not yet used, caller is the owning
// event's organizer) and the first failure wins. Ticket ownership by the
// buyer plays no role here.
func (s *TicketingService) RedeemTicket(ctx context.Context, ticketID uint64, code string, caller string) error {
	var (
		ticket    *models.Ticket
		organizer string
	)

	err := s.store.Update(func(st *store.State) error {
		t, ok := st.Tickets[ticketID]
		if !ok {
			return status.ErrTicketNotFound
		}
		if t.VerificationCode != code {
			return status.ErrInvalidVerificationCode
		}
		if t.IsUsed {
			return status.ErrAlreadyUsed
		}
		event, ok := st.Events[t.EventID]
		if !ok {
			return status.ErrEventNotFound
		}
		if caller != event.Organizer {
			return status.ErrUnauthorized
		}

		t.IsUsed = true
		ticket = t.Clone()
		organizer = event.Organizer
		return nil
	})

	monitoring.TrackRedemption(err)
	if err != nil {
		return err
	}

	s.records.SaveTicket(ticket)
	if s.notifier != nil {
		s.notifier.TicketRedeemed(organizer, ticket)
	}

	slog.Info("ticket redeemed", "ticket_id", ticketID, "event_id", ticket.EventID)
	return nil
}

// VerifyTicket runs the same existence and code checks as redemption but
// mutates nothing; used for pre-redemption lookup at the gate.
func (s *TicketingService) VerifyTicket(ticketID uint64, code string) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := s.store.View(func(st *store.State) error {
		t, ok := st.Tickets[ticketID]
		if !ok {
			return status.ErrTicketNotFound
		}
		if t.VerificationCode != code {
			return status.ErrInvalidVerificationCode
		}
		ticket = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// EventStats is the derived sales snapshot of one event.
type EventStats struct {
	SoldTickets      uint32 `json:"sold_tickets"`
	AvailableTickets uint32 `json:"available_tickets"`
	TotalRevenue     int64  `json:"total_revenue"`
}

// EventStatistics derives sold count and revenue from the inventory
// counters; nothing is stored.
func (s *TicketingService) EventStatistics(eventID uint64) (*EventStats, error) {
	var stats *EventStats
	err := s.store.View(func(st *store.State) error {
		event, ok := st.Events[eventID]
		if !ok {
			return status.ErrEventNotFound
		}
		sold := event.TotalTickets - event.AvailableTickets
		stats = &EventStats{
			SoldTickets:      sold,
			AvailableTickets: event.AvailableTickets,
			TotalRevenue:     int64(sold) * event.Price,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

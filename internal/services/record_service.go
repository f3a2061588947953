package services

import (
	"log/slog"

	"event-ticketing/internal/store"
	"event-ticketing/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// RecordService persists the in-memory state to the PocketBase collections
// created by the migrations, and restores it on startup. Writes happen
// after a mutation has committed and are best-effort: a failed write is
// logged and the request still succeeds, the same way the Redis replica
// sync is handled.
type RecordService struct {
	app core.App
}

func NewRecordService(app core.App) *RecordService {
	return &RecordService{app: app}
}

func (s *RecordService) upsert(collection, idField string, id uint64, set func(*core.Record)) {
	if s == nil || s.app == nil {
		return
	}

	record, err := s.app.FindFirstRecordByFilter(collection, idField+" = {:id}", dbx.Params{"id": id})
	if err != nil {
		col, cerr := s.app.FindCollectionByNameOrId(collection)
		if cerr != nil {
			slog.Error("persist: collection lookup failed", "collection", collection, "error", cerr)
			return
		}
		record = core.NewRecord(col)
		record.Set(idField, id)
	}

	set(record)
	if err := s.app.Save(record); err != nil {
		slog.Error("persist: save failed", "collection", collection, "id", id, "error", err)
	}
}

func (s *RecordService) SaveEvent(event *models.Event) {
	s.upsert("events", "event_id", event.ID, func(r *core.Record) {
		r.Set("name", event.Name)
		r.Set("description", event.Description)
		r.Set("venue", event.Venue)
		r.Set("date", event.Date)
		r.Set("total_tickets", event.TotalTickets)
		r.Set("available_tickets", event.AvailableTickets)
		r.Set("price", event.Price)
		r.Set("organizer", event.Organizer)
		r.Set("max_tickets_per_user", event.MaxTicketsPerUser)
		r.Set("sale_start_time", event.SaleStartTime)
		r.Set("sale_end_time", event.SaleEndTime)
		r.Set("is_active", event.IsActive)
	})
}

func (s *RecordService) SaveTicket(ticket *models.Ticket) {
	s.upsert("tickets", "ticket_id", ticket.ID, func(r *core.Record) {
		r.Set("event_id", ticket.EventID)
		r.Set("owner", ticket.Owner)
		r.Set("seat_number", ticket.SeatNumber)
		r.Set("purchase_time", ticket.PurchaseTime)
		r.Set("is_used", ticket.IsUsed)
		r.Set("verification_code", ticket.VerificationCode)
	})
}

func (s *RecordService) SavePurchase(purchase *models.Purchase) {
	s.upsert("purchases", "purchase_id", purchase.ID, func(r *core.Record) {
		r.Set("event_id", purchase.EventID)
		r.Set("buyer", purchase.Buyer)
		r.Set("quantity", purchase.Quantity)
		r.Set("total_amount", purchase.TotalAmount)
		r.Set("purchase_time", purchase.PurchaseTime)
		r.Set("ticket_ids", purchase.TicketIDs)
	})
}

func (s *RecordService) SaveProfile(profile *models.UserProfile) {
	if s == nil || s.app == nil {
		return
	}

	record, err := s.app.FindFirstRecordByFilter("user_profiles", "user_id = {:id}", dbx.Params{"id": profile.UserID})
	if err != nil {
		col, cerr := s.app.FindCollectionByNameOrId("user_profiles")
		if cerr != nil {
			slog.Error("persist: collection lookup failed", "collection", "user_profiles", "error", cerr)
			return
		}
		record = core.NewRecord(col)
		record.Set("user_id", profile.UserID)
	}

	record.Set("purchases", profile.Purchases)
	record.Set("tickets", profile.Tickets)
	record.Set("reputation_score", profile.ReputationScore)
	record.Set("is_verified", profile.IsVerified)

	if err := s.app.Save(record); err != nil {
		slog.Error("persist: save failed", "collection", "user_profiles", "user", profile.UserID, "error", err)
	}
}

// Restore loads all persisted records into the store and seeds the id
// counters so freshly assigned ids never collide with restored ones.
func (s *RecordService) Restore(st *store.Store) error {
	if s == nil || s.app == nil {
		return nil
	}

	events, err := s.app.FindAllRecords("events")
	if err != nil {
		return err
	}
	tickets, err := s.app.FindAllRecords("tickets")
	if err != nil {
		return err
	}
	purchases, err := s.app.FindAllRecords("purchases")
	if err != nil {
		return err
	}
	profiles, err := s.app.FindAllRecords("user_profiles")
	if err != nil {
		return err
	}

	return st.Update(func(state *store.State) error {
		var maxEvent, maxTicket, maxPurchase uint64

		for _, r := range events {
			event := &models.Event{
				ID:                uint64(r.GetInt("event_id")),
				Name:              r.GetString("name"),
				Description:       r.GetString("description"),
				Venue:             r.GetString("venue"),
				Date:              r.GetDateTime("date").Time(),
				TotalTickets:      uint32(r.GetInt("total_tickets")),
				AvailableTickets:  uint32(r.GetInt("available_tickets")),
				Price:             int64(r.GetInt("price")),
				Organizer:         r.GetString("organizer"),
				MaxTicketsPerUser: uint32(r.GetInt("max_tickets_per_user")),
				SaleStartTime:     r.GetDateTime("sale_start_time").Time(),
				SaleEndTime:       r.GetDateTime("sale_end_time").Time(),
				IsActive:          r.GetBool("is_active"),
			}
			state.Events[event.ID] = event
			maxEvent = max(maxEvent, event.ID)
		}

		for _, r := range tickets {
			ticket := &models.Ticket{
				ID:               uint64(r.GetInt("ticket_id")),
				EventID:          uint64(r.GetInt("event_id")),
				Owner:            r.GetString("owner"),
				SeatNumber:       r.GetString("seat_number"),
				PurchaseTime:     r.GetDateTime("purchase_time").Time(),
				IsUsed:           r.GetBool("is_used"),
				VerificationCode: r.GetString("verification_code"),
			}
			state.Tickets[ticket.ID] = ticket
			maxTicket = max(maxTicket, ticket.ID)
		}

		for _, r := range purchases {
			purchase := &models.Purchase{
				ID:           uint64(r.GetInt("purchase_id")),
				EventID:      uint64(r.GetInt("event_id")),
				Buyer:        r.GetString("buyer"),
				Quantity:     uint32(r.GetInt("quantity")),
				TotalAmount:  int64(r.GetInt("total_amount")),
				PurchaseTime: r.GetDateTime("purchase_time").Time(),
			}
			if err := r.UnmarshalJSONField("ticket_ids", &purchase.TicketIDs); err != nil {
				slog.Error("restore: malformed ticket_ids", "purchase_id", purchase.ID, "error", err)
			}
			state.Purchases[purchase.ID] = purchase
			maxPurchase = max(maxPurchase, purchase.ID)

			// The quota map is derived state; rebuild it from purchases.
			state.AddQuota(purchase.Buyer, purchase.EventID, purchase.Quantity)
		}

		for _, r := range profiles {
			profile := models.NewUserProfile(r.GetString("user_id"))
			profile.ReputationScore = uint32(r.GetInt("reputation_score"))
			profile.IsVerified = r.GetBool("is_verified")
			if err := r.UnmarshalJSONField("purchases", &profile.Purchases); err != nil {
				slog.Error("restore: malformed purchases", "user", profile.UserID, "error", err)
			}
			if err := r.UnmarshalJSONField("tickets", &profile.Tickets); err != nil {
				slog.Error("restore: malformed tickets", "user", profile.UserID, "error", err)
			}
			state.Profiles[profile.UserID] = profile
		}

		state.SeedCounters(maxEvent, maxTicket, maxPurchase)

		slog.Info("state restored",
			"events", len(events),
			"tickets", len(tickets),
			"purchases", len(purchases),
			"profiles", len(profiles),
		)
		return nil
	})
}

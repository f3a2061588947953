package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"event-ticketing/internal/status"
	"event-ticketing/internal/store"
	"event-ticketing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) (*TicketingService, *CatalogService, *store.Store) {
	t.Helper()

	st := store.New()
	replica := NewReplicaService(nil)
	records := NewRecordService(nil)
	return NewTicketingService(st, replica, records, nil),
		NewCatalogService(st, replica, records),
		st
}

func defaultEventInput(now time.Time) CreateEventInput {
	return CreateEventInput{
		Name:              "Summer Festival",
		Venue:             "Main Arena",
		Date:              now.Add(30 * 24 * time.Hour),
		TotalTickets:      10,
		Price:             100,
		MaxTicketsPerUser: 4,
		SaleStartTime:     now.Add(-time.Hour),
		SaleEndTime:       now.Add(time.Hour),
	}
}

func mustCreateEvent(t *testing.T, catalog *CatalogService, organizer string, in CreateEventInput) *models.Event {
	t.Helper()

	event, err := catalog.CreateEvent(context.Background(), organizer, in)
	require.NoError(t, err)
	return event
}

func TestPurchaseTickets_Success(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	purchase, err := engine.PurchaseTickets(context.Background(), event.ID, 3, "buyer-1")
	require.NoError(t, err)

	assert.Equal(t, uint32(3), purchase.Quantity)
	assert.Equal(t, int64(300), purchase.TotalAmount)
	assert.Len(t, purchase.TicketIDs, 3)
	assert.Equal(t, "buyer-1", purchase.Buyer)

	updated, err := catalog.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), updated.AvailableTickets)
}

func TestPurchaseTickets_MintedTickets(t *testing.T) {
	engine, catalog, st := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	purchase, err := engine.PurchaseTickets(context.Background(), event.ID, 2, "buyer-1")
	require.NoError(t, err)

	err = st.View(func(state *store.State) error {
		for _, id := range purchase.TicketIDs {
			ticket, ok := state.Tickets[id]
			require.True(t, ok)
			assert.Equal(t, "buyer-1", ticket.Owner)
			assert.Equal(t, event.ID, ticket.EventID)
			assert.False(t, ticket.IsUsed)
			assert.Equal(t, fmt.Sprintf("SEAT-%d-%d", event.ID, id), ticket.SeatNumber)
			assert.Equal(t, fmt.Sprintf("%08X-%08X", id, event.ID), ticket.VerificationCode)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestPurchaseTickets_PerUserCapIsCumulative(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	_, err := engine.PurchaseTickets(context.Background(), event.ID, 3, "buyer-1")
	require.NoError(t, err)

	// 3 already held, 2 more would exceed the cap of 4.
	_, err = engine.PurchaseTickets(context.Background(), event.ID, 2, "buyer-1")
	assert.ErrorIs(t, err, status.ErrExceedsMaxTicketsPerUser)

	// The failed attempt must not consume inventory.
	updated, err := catalog.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), updated.AvailableTickets)

	// One more inside the cap still works.
	_, err = engine.PurchaseTickets(context.Background(), event.ID, 1, "buyer-1")
	assert.NoError(t, err)

	// A different buyer has their own cap.
	_, err = engine.PurchaseTickets(context.Background(), event.ID, 4, "buyer-2")
	assert.NoError(t, err)
}

func TestPurchaseTickets_InsufficientTickets(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	in := defaultEventInput(time.Now())
	in.TotalTickets = 2
	event := mustCreateEvent(t, catalog, "org-1", in)

	_, err := engine.PurchaseTickets(context.Background(), event.ID, 3, "buyer-1")
	assert.ErrorIs(t, err, status.ErrInsufficientTickets)

	updated, err := catalog.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), updated.AvailableTickets)
}

func TestPurchaseTickets_SaleWindow(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	now := time.Now()

	early := defaultEventInput(now)
	early.SaleStartTime = now.Add(time.Hour)
	early.SaleEndTime = now.Add(2 * time.Hour)
	notStarted := mustCreateEvent(t, catalog, "org-1", early)

	_, err := engine.PurchaseTickets(context.Background(), notStarted.ID, 1, "buyer-1")
	assert.ErrorIs(t, err, status.ErrSaleNotStarted)

	// Move the clock past the end of an open event's window.
	open := mustCreateEvent(t, catalog, "org-1", defaultEventInput(now))
	engine.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, err = engine.PurchaseTickets(context.Background(), open.ID, 1, "buyer-1")
	assert.ErrorIs(t, err, status.ErrSaleEnded)
}

func TestPurchaseTickets_ValidationOrder(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	now := time.Now()

	_, err := engine.PurchaseTickets(context.Background(), 999, 1, "buyer-1")
	assert.ErrorIs(t, err, status.ErrEventNotFound)

	_, err = engine.PurchaseTickets(context.Background(), 999, 0, "buyer-1")
	assert.ErrorIs(t, err, status.ErrInvalidQuantity, "quantity check precedes existence")

	// Inactive wins over a closed sale window.
	in := defaultEventInput(now)
	event := mustCreateEvent(t, catalog, "org-1", in)
	require.NoError(t, catalog.Deactivate(context.Background(), event.ID, "org-1"))
	engine.now = func() time.Time { return now.Add(2 * time.Hour) }

	_, err = engine.PurchaseTickets(context.Background(), event.ID, 1, "buyer-1")
	assert.ErrorIs(t, err, status.ErrEventInactive)

	// Availability wins over the per-user cap.
	engine.now = time.Now
	small := defaultEventInput(now)
	small.TotalTickets = 2
	small.MaxTicketsPerUser = 1
	event2 := mustCreateEvent(t, catalog, "org-1", small)

	_, err = engine.PurchaseTickets(context.Background(), event2.ID, 3, "buyer-1")
	assert.ErrorIs(t, err, status.ErrInsufficientTickets)
}

func TestPurchaseTickets_NeverOversells(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	in := defaultEventInput(time.Now())
	in.TotalTickets = 10
	in.MaxTicketsPerUser = 10
	event := mustCreateEvent(t, catalog, "org-1", in)

	sold := uint32(0)
	for i := 0; i < 20; i++ {
		p, err := engine.PurchaseTickets(context.Background(), event.ID, 3, fmt.Sprintf("buyer-%d", i))
		if err != nil {
			assert.ErrorIs(t, err, status.ErrInsufficientTickets)
			continue
		}
		sold += p.Quantity
	}

	updated, err := catalog.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, in.TotalTickets-sold, updated.AvailableTickets)
	assert.LessOrEqual(t, sold, in.TotalTickets)
}

func TestPurchaseTickets_ConcurrentBuyers(t *testing.T) {
	engine, catalog, st := newTestServices(t)
	in := defaultEventInput(time.Now())
	in.TotalTickets = 10
	in.MaxTicketsPerUser = 1
	event := mustCreateEvent(t, catalog, "org-1", in)

	const buyers = 25
	var wg sync.WaitGroup
	results := make(chan error, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := engine.PurchaseTickets(context.Background(), event.ID, 1, fmt.Sprintf("buyer-%d", i))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, status.ErrInsufficientTickets)
		}
	}
	assert.Equal(t, 10, succeeded)

	updated, err := catalog.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), updated.AvailableTickets)

	// Exactly as many tickets exist as were sold.
	err = st.View(func(state *store.State) error {
		assert.Len(t, state.Tickets, 10)
		return nil
	})
	require.NoError(t, err)
}

func TestPurchaseTickets_UpdatesProfileAndQuota(t *testing.T) {
	engine, catalog, st := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	purchase, err := engine.PurchaseTickets(context.Background(), event.ID, 2, "buyer-1")
	require.NoError(t, err)

	err = st.View(func(state *store.State) error {
		profile, ok := state.Profiles["buyer-1"]
		require.True(t, ok)
		assert.Equal(t, []uint64{purchase.ID}, profile.Purchases)
		assert.Equal(t, purchase.TicketIDs, profile.Tickets)
		assert.Equal(t, models.DefaultReputation, profile.ReputationScore)
		assert.Equal(t, uint32(2), state.QuotaUsed("buyer-1", event.ID))
		return nil
	})
	require.NoError(t, err)
}

func TestRedeemTicket_Lifecycle(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	purchase, err := engine.PurchaseTickets(context.Background(), event.ID, 1, "buyer-1")
	require.NoError(t, err)
	ticketID := purchase.TicketIDs[0]
	code := VerificationCode(ticketID, event.ID)

	// Wrong caller, wrong code, missing ticket.
	err = engine.RedeemTicket(context.Background(), ticketID, code, "buyer-1")
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	err = engine.RedeemTicket(context.Background(), ticketID, "BAD-CODE", "org-1")
	assert.ErrorIs(t, err, status.ErrInvalidVerificationCode)

	err = engine.RedeemTicket(context.Background(), 999, code, "org-1")
	assert.ErrorIs(t, err, status.ErrTicketNotFound)

	// Successful redemption, then replay.
	err = engine.RedeemTicket(context.Background(), ticketID, code, "org-1")
	require.NoError(t, err)

	err = engine.RedeemTicket(context.Background(), ticketID, code, "org-1")
	assert.ErrorIs(t, err, status.ErrAlreadyUsed)
}

func TestVerifyTicket_DoesNotConsume(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	purchase, err := engine.PurchaseTickets(context.Background(), event.ID, 1, "buyer-1")
	require.NoError(t, err)
	ticketID := purchase.TicketIDs[0]
	code := VerificationCode(ticketID, event.ID)

	for i := 0; i < 3; i++ {
		ticket, err := engine.VerifyTicket(ticketID, code)
		require.NoError(t, err)
		assert.False(t, ticket.IsUsed)
	}

	_, err = engine.VerifyTicket(ticketID, "BAD-CODE")
	assert.ErrorIs(t, err, status.ErrInvalidVerificationCode)

	_, err = engine.VerifyTicket(999, code)
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestVerifyTicket_UsedTicketStillVerifiable(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	purchase, err := engine.PurchaseTickets(context.Background(), event.ID, 1, "buyer-1")
	require.NoError(t, err)
	ticketID := purchase.TicketIDs[0]
	code := VerificationCode(ticketID, event.ID)

	require.NoError(t, engine.RedeemTicket(context.Background(), ticketID, code, "org-1"))

	ticket, err := engine.VerifyTicket(ticketID, code)
	require.NoError(t, err)
	assert.True(t, ticket.IsUsed)
}

func TestEventStatistics(t *testing.T) {
	engine, catalog, _ := newTestServices(t)
	event := mustCreateEvent(t, catalog, "org-1", defaultEventInput(time.Now()))

	stats, err := engine.EventStatistics(event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), stats.SoldTickets)
	assert.Equal(t, uint32(10), stats.AvailableTickets)
	assert.Equal(t, int64(0), stats.TotalRevenue)

	_, err = engine.PurchaseTickets(context.Background(), event.ID, 3, "buyer-1")
	require.NoError(t, err)

	stats, err = engine.EventStatistics(event.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), stats.SoldTickets)
	assert.Equal(t, uint32(7), stats.AvailableTickets)
	assert.Equal(t, int64(300), stats.TotalRevenue)

	_, err = engine.EventStatistics(999)
	assert.ErrorIs(t, err, status.ErrEventNotFound)
}

func TestVerificationCode_Format(t *testing.T) {
	assert.Equal(t, "00000001-00000002", VerificationCode(1, 2))
	assert.Equal(t, "000000FF-00000010", VerificationCode(255, 16))

	// Codes are unique across tickets of the same and different events.
	seen := map[string]bool{}
	for ticket := uint64(1); ticket <= 50; ticket++ {
		for event := uint64(1); event <= 3; event++ {
			code := VerificationCode(ticket, event)
			assert.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true
		}
	}
}

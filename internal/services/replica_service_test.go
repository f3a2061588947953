package services

import (
	"context"
	"testing"
	"time"

	"event-ticketing/models"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestReplica() (*ReplicaService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewReplicaService(db), mock
}

func testEvent() *models.Event {
	now := time.Now()
	return &models.Event{
		ID:               7,
		Name:             "Summer Festival",
		TotalTickets:     100,
		AvailableTickets: 60,
		Price:            2500,
		IsActive:         true,
		SaleStartTime:    now.Add(-time.Hour),
		SaleEndTime:      now.Add(time.Hour),
	}
}

func TestSyncEvent_ActiveEvent(t *testing.T) {
	service, mock := setupTestReplica()
	defer mock.ClearExpect()

	event := testEvent()
	mock.ExpectSAdd("active_events", "7").SetVal(1)
	mock.ExpectHSet("event:stats:7",
		"name", event.Name,
		"total", event.TotalTickets,
		"available", event.AvailableTickets,
		"price", event.Price,
	).SetVal(4)

	err := service.SyncEvent(context.Background(), event)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncEvent_InactiveEventLeavesActiveSet(t *testing.T) {
	service, mock := setupTestReplica()
	defer mock.ClearExpect()

	event := testEvent()
	event.IsActive = false

	mock.ExpectSRem("active_events", "7").SetVal(1)
	mock.ExpectHSet("event:stats:7",
		"name", event.Name,
		"total", event.TotalTickets,
		"available", event.AvailableTickets,
		"price", event.Price,
	).SetVal(4)

	err := service.SyncEvent(context.Background(), event)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncAvailability(t *testing.T) {
	service, mock := setupTestReplica()
	defer mock.ClearExpect()

	mock.ExpectHSet("event:stats:7", "available", uint32(42)).SetVal(1)

	err := service.SyncAvailability(context.Background(), 7, 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveActive(t *testing.T) {
	service, mock := setupTestReplica()
	defer mock.ClearExpect()

	mock.ExpectSRem("active_events", "7").SetVal(1)

	err := service.RemoveActive(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveEventIDs_SkipsMalformedMembers(t *testing.T) {
	service, mock := setupTestReplica()
	defer mock.ClearExpect()

	mock.ExpectSMembers("active_events").SetVal([]string{"3", "not-a-number", "11"})

	ids, err := service.ActiveEventIDs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{3, 11}, ids)
}

func TestDashboard(t *testing.T) {
	service, mock := setupTestReplica()
	defer mock.ClearExpect()

	mock.ExpectSMembers("active_events").SetVal([]string{"7"})
	mock.ExpectHGetAll("event:stats:7").SetVal(map[string]string{
		"name":      "Summer Festival",
		"total":     "100",
		"available": "60",
		"price":     "2500",
	})

	dashboard, err := service.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dashboard, 1)
	assert.Equal(t, uint64(7), dashboard[0]["event_id"])
	assert.Equal(t, "60", dashboard[0]["available"])
}

func TestReplica_NilClientIsNoop(t *testing.T) {
	service := NewReplicaService(nil)

	assert.NoError(t, service.SyncEvent(context.Background(), testEvent()))
	assert.NoError(t, service.SyncAvailability(context.Background(), 1, 1))
	assert.NoError(t, service.RemoveActive(context.Background(), 1))
}

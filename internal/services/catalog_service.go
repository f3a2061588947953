package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"event-ticketing/internal/status"
	"event-ticketing/internal/store"
	"event-ticketing/models"
)

// CatalogService owns the event records and their availability counters.
// Availability is only ever decremented, by the ticketing engine, inside
// the same critical section as purchase validation.
type CatalogService struct {
	store   *store.Store
	replica *ReplicaService
	records *RecordService
	now     func() time.Time
}

func NewCatalogService(st *store.Store, replica *ReplicaService, records *RecordService) *CatalogService {
	return &CatalogService{
		store:   st,
		replica: replica,
		records: records,
		now:     time.Now,
	}
}

type CreateEventInput struct {
	Name              string
	Description       string
	Venue             string
	Date              time.Time
	TotalTickets      uint32
	Price             int64
	MaxTicketsPerUser uint32
	SaleStartTime     time.Time
	SaleEndTime       time.Time
}

// CreateEvent registers a new event with the caller as organizer. The
// full inventory starts available and the event starts active.
func (s *CatalogService) CreateEvent(ctx context.Context, organizer string, in CreateEventInput) (*models.Event, error) {
	if in.TotalTickets == 0 || in.MaxTicketsPerUser == 0 ||
		in.Price < 0 || in.SaleStartTime.After(in.SaleEndTime) {
		return nil, status.ErrInvalidEvent
	}

	var event *models.Event
	err := s.store.Update(func(st *store.State) error {
		event = &models.Event{
			ID:                st.NextEventID(),
			Name:              in.Name,
			Description:       in.Description,
			Venue:             in.Venue,
			Date:              in.Date,
			TotalTickets:      in.TotalTickets,
			AvailableTickets:  in.TotalTickets,
			Price:             in.Price,
			Organizer:         organizer,
			MaxTicketsPerUser: in.MaxTicketsPerUser,
			SaleStartTime:     in.SaleStartTime,
			SaleEndTime:       in.SaleEndTime,
			IsActive:          true,
		}
		st.Events[event.ID] = event
		event = event.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.records.SaveEvent(event)
	if err := s.replica.SyncEvent(ctx, event); err != nil {
		slog.Error("replica: event sync failed", "event_id", event.ID, "error", err)
	}

	return event, nil
}

func (s *CatalogService) GetEvent(id uint64) (*models.Event, error) {
	var event *models.Event
	err := s.store.View(func(st *store.State) error {
		e, ok := st.Events[id]
		if !ok {
			return status.ErrEventNotFound
		}
		event = e.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns every event ordered by id.
func (s *CatalogService) ListEvents() []*models.Event {
	var events []*models.Event
	_ = s.store.View(func(st *store.State) error {
		events = make([]*models.Event, 0, len(st.Events))
		for _, e := range st.Events {
			events = append(events, e.Clone())
		}
		return nil
	})
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

// ListActiveEvents returns events that are active and whose sale window
// has not yet closed, ordered by id.
func (s *CatalogService) ListActiveEvents() []*models.Event {
	now := s.now()
	var events []*models.Event
	_ = s.store.View(func(st *store.State) error {
		for _, e := range st.Events {
			if e.IsActive && e.SaleEndTime.After(now) {
				events = append(events, e.Clone())
			}
		}
		return nil
	})
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events
}

// Deactivate flips an event inactive. Only the organizer may do this and
// there is no way back.
func (s *CatalogService) Deactivate(ctx context.Context, id uint64, caller string) error {
	var event *models.Event
	err := s.store.Update(func(st *store.State) error {
		e, ok := st.Events[id]
		if !ok {
			return status.ErrEventNotFound
		}
		if e.Organizer != caller {
			return status.ErrUnauthorized
		}
		e.IsActive = false
		event = e.Clone()
		return nil
	})
	if err != nil {
		return err
	}

	s.records.SaveEvent(event)
	if err := s.replica.RemoveActive(ctx, id); err != nil {
		slog.Error("replica: active removal failed", "event_id", id, "error", err)
	}
	return nil
}

// SyncReplica pushes every event's snapshot to the replica, used after a
// restart to rebuild the active set.
func (s *CatalogService) SyncReplica(ctx context.Context) {
	for _, event := range s.ListEvents() {
		if err := s.replica.SyncEvent(ctx, event); err != nil {
			slog.Error("replica: event sync failed", "event_id", event.ID, "error", err)
			return
		}
	}
}

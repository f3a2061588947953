package services

import (
	"context"
	"fmt"
	"strconv"

	"event-ticketing/models"

	"github.com/redis/go-redis/v9"
)

const activeEventsKey = "active_events"

// ReplicaService mirrors catalog availability into Redis for the admin
// dashboard and other operational consumers. The replica is advisory:
// callers log sync errors and continue, the in-memory store stays the
// source of truth.
type ReplicaService struct {
	Redis *redis.Client
}

func NewReplicaService(redisClient *redis.Client) *ReplicaService {
	return &ReplicaService{Redis: redisClient}
}

func statsKey(eventID uint64) string {
	return fmt.Sprintf("event:stats:%d", eventID)
}

// SyncEvent writes the event's sales snapshot and updates its membership
// in the active set.
func (s *ReplicaService) SyncEvent(ctx context.Context, event *models.Event) error {
	if s == nil || s.Redis == nil {
		return nil
	}

	member := strconv.FormatUint(event.ID, 10)
	if event.IsActive {
		if err := s.Redis.SAdd(ctx, activeEventsKey, member).Err(); err != nil {
			return err
		}
	} else {
		if err := s.Redis.SRem(ctx, activeEventsKey, member).Err(); err != nil {
			return err
		}
	}

	return s.Redis.HSet(ctx, statsKey(event.ID),
		"name", event.Name,
		"total", event.TotalTickets,
		"available", event.AvailableTickets,
		"price", event.Price,
	).Err()
}

// SyncAvailability updates only the availability counter after a purchase.
func (s *ReplicaService) SyncAvailability(ctx context.Context, eventID uint64, available uint32) error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.HSet(ctx, statsKey(eventID), "available", available).Err()
}

// RemoveActive drops a deactivated event from the active set. Its stats
// hash is kept for historical dashboards.
func (s *ReplicaService) RemoveActive(ctx context.Context, eventID uint64) error {
	if s == nil || s.Redis == nil {
		return nil
	}
	return s.Redis.SRem(ctx, activeEventsKey, strconv.FormatUint(eventID, 10)).Err()
}

// ActiveEventIDs returns the replicated set of active event ids.
func (s *ReplicaService) ActiveEventIDs(ctx context.Context) ([]uint64, error) {
	members, err := s.Redis.SMembers(ctx, activeEventsKey).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Dashboard assembles the sales snapshot of every active event from the
// replica.
func (s *ReplicaService) Dashboard(ctx context.Context) ([]map[string]any, error) {
	ids, err := s.ActiveEventIDs(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		stats, err := s.Redis.HGetAll(ctx, statsKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if len(stats) == 0 {
			continue
		}

		entry := map[string]any{"event_id": id}
		for k, v := range stats {
			entry[k] = v
		}
		dashboard = append(dashboard, entry)
	}
	return dashboard, nil
}

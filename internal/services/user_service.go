package services

import (
	"sort"

	"event-ticketing/internal/store"
	"event-ticketing/models"
)

// UserService exposes the per-user ledger: the profile plus the tickets
// and purchases attributed to one user id.
type UserService struct {
	store   *store.Store
	records *RecordService
}

func NewUserService(st *store.Store, records *RecordService) *UserService {
	return &UserService{store: st, records: records}
}

// GetUserProfile returns the user's profile, creating a default one on
// first contact. Any caller may read any profile.
func (s *UserService) GetUserProfile(userID string) (*models.UserProfile, error) {
	var (
		profile *models.UserProfile
		created bool
	)
	err := s.store.Update(func(st *store.State) error {
		_, created = st.Profiles[userID]
		created = !created
		profile = st.Profile(userID).Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.records.SaveProfile(profile)
	}
	return profile, nil
}

// GetUserTickets returns every ticket owned by the user, ordered by id.
// Unknown users get an empty list, not an error.
func (s *UserService) GetUserTickets(userID string) []*models.Ticket {
	var tickets []*models.Ticket
	_ = s.store.View(func(st *store.State) error {
		for _, t := range st.Tickets {
			if t.Owner == userID {
				tickets = append(tickets, t.Clone())
			}
		}
		return nil
	})
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets
}

// GetUserPurchases returns every purchase made by the user, ordered by id.
func (s *UserService) GetUserPurchases(userID string) []*models.Purchase {
	var purchases []*models.Purchase
	_ = s.store.View(func(st *store.State) error {
		for _, p := range st.Purchases {
			if p.Buyer == userID {
				purchases = append(purchases, p.Clone())
			}
		}
		return nil
	})
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].ID < purchases[j].ID })
	return purchases
}

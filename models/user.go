package models

import "slices"

// DefaultReputation is the reputation score assigned to newly created
// profiles. Reputation and verification are reserved for future use and
// are never changed by any current operation.
const DefaultReputation uint32 = 100

type UserProfile struct {
	UserID          string   `json:"user_id"`
	Purchases       []uint64 `json:"purchases"`
	Tickets         []uint64 `json:"tickets"`
	ReputationScore uint32   `json:"reputation_score"`
	IsVerified      bool     `json:"is_verified"`
}

// NewUserProfile returns a profile with default values for a user seen
// for the first time.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:          userID,
		Purchases:       []uint64{},
		Tickets:         []uint64{},
		ReputationScore: DefaultReputation,
		IsVerified:      false,
	}
}

func (p *UserProfile) Clone() *UserProfile {
	clone := *p
	clone.Purchases = slices.Clone(p.Purchases)
	clone.Tickets = slices.Clone(p.Tickets)
	return &clone
}

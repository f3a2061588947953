// Package store holds the authoritative ticketing state: the four record
// collections, the per-(user, event) purchase quota and the identifier
// counters. All access goes through Update/View so that every
// validate-then-mutate sequence runs as a single critical section.
package store

import (
	"sync"

	"event-ticketing/models"
)

// QuotaKey identifies the cumulative purchase count of one user for one
// event. Entries are only ever incremented.
type QuotaKey struct {
	User    string
	EventID uint64
}

// State is the aggregate root. It must only be touched from inside an
// Update or View closure.
type State struct {
	Events    map[uint64]*models.Event
	Tickets   map[uint64]*models.Ticket
	Purchases map[uint64]*models.Purchase
	Profiles  map[string]*models.UserProfile
	Quota     map[QuotaKey]uint32

	eventSeq    uint64
	ticketSeq   uint64
	purchaseSeq uint64
}

func newState() *State {
	return &State{
		Events:    make(map[uint64]*models.Event),
		Tickets:   make(map[uint64]*models.Ticket),
		Purchases: make(map[uint64]*models.Purchase),
		Profiles:  make(map[string]*models.UserProfile),
		Quota:     make(map[QuotaKey]uint32),
	}
}

// NextEventID returns a fresh event identifier. The first id is 1 and ids
// are never reused.
func (st *State) NextEventID() uint64 {
	st.eventSeq++
	return st.eventSeq
}

func (st *State) NextTicketID() uint64 {
	st.ticketSeq++
	return st.ticketSeq
}

func (st *State) NextPurchaseID() uint64 {
	st.purchaseSeq++
	return st.purchaseSeq
}

// SeedCounters raises the identifier counters to at least the given
// values. Used when restoring persisted state so that new ids never
// collide with restored records.
func (st *State) SeedCounters(event, ticket, purchase uint64) {
	if event > st.eventSeq {
		st.eventSeq = event
	}
	if ticket > st.ticketSeq {
		st.ticketSeq = ticket
	}
	if purchase > st.purchaseSeq {
		st.purchaseSeq = purchase
	}
}

// QuotaUsed returns the cumulative quantity the user has purchased for the
// event so far, 0 if none recorded.
func (st *State) QuotaUsed(user string, eventID uint64) uint32 {
	return st.Quota[QuotaKey{User: user, EventID: eventID}]
}

// AddQuota increments the cumulative purchase count. Callers must have
// checked the event cap against QuotaUsed within the same critical
// section.
func (st *State) AddQuota(user string, eventID uint64, quantity uint32) {
	key := QuotaKey{User: user, EventID: eventID}
	st.Quota[key] += quantity
}

// Profile returns the user's profile, creating it with defaults on first
// reference.
func (st *State) Profile(user string) *models.UserProfile {
	if p, ok := st.Profiles[user]; ok {
		return p
	}
	p := models.NewUserProfile(user)
	st.Profiles[user] = p
	return p
}

// Store serializes access to the shared State.
type Store struct {
	mu    sync.RWMutex
	state *State
}

func New() *Store {
	return &Store{state: newState()}
}

// Update runs fn under the exclusive lock. The closure is the transaction
// boundary: it must perform all validation before the first mutation so
// that an error return leaves the state untouched.
func (s *Store) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// View runs fn under the shared lock against a consistent snapshot.
// Closures must not retain pointers into the state; copy what they return.
func (s *Store) View(fn func(*State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

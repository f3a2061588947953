package models

import (
	"time"
)

type Ticket struct {
	ID               uint64    `json:"id"`
	EventID          uint64    `json:"event_id"`
	Owner            string    `json:"owner"`
	SeatNumber       string    `json:"seat_number"`
	PurchaseTime     time.Time `json:"purchase_time"`
	IsUsed           bool      `json:"is_used"`
	VerificationCode string    `json:"verification_code"`
}

func (t *Ticket) Clone() *Ticket {
	clone := *t
	return &clone
}

package models

import (
	"slices"
	"time"
)

type Purchase struct {
	ID           uint64    `json:"id"`
	EventID      uint64    `json:"event_id"`
	Buyer        string    `json:"buyer"`
	Quantity     uint32    `json:"quantity"`
	TotalAmount  int64     `json:"total_amount"` // quantity x event price at purchase time
	PurchaseTime time.Time `json:"purchase_time"`
	TicketIDs    []uint64  `json:"ticket_ids"`
}

func (p *Purchase) Clone() *Purchase {
	clone := *p
	clone.TicketIDs = slices.Clone(p.TicketIDs)
	return &clone
}

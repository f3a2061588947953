package models

import (
	"time"
)

type Event struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Venue             string    `json:"venue"`
	Date              time.Time `json:"date"`
	TotalTickets      uint32    `json:"total_tickets"`
	AvailableTickets  uint32    `json:"available_tickets"`
	Price             int64     `json:"price"` // smallest currency unit
	Organizer         string    `json:"organizer"`
	MaxTicketsPerUser uint32    `json:"max_tickets_per_user"`
	SaleStartTime     time.Time `json:"sale_start_time"`
	SaleEndTime       time.Time `json:"sale_end_time"`
	IsActive          bool      `json:"is_active"`
}

func (e *Event) Clone() *Event {
	clone := *e
	return &clone
}

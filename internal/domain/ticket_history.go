package domain

import "time"

// TicketHistory is an immutable audit trail entry for one lifecycle action.
type TicketHistory struct {
	ID        string
	TicketID  string
	ActorID   string
	ActorRole Role
	Action    string
	OldValue  map[string]any
	NewValue  map[string]any
	CreatedAt time.Time
}

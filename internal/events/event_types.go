package events

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventBalanceDebited      EventType = "balance_debited"
)

// Actor identifies who caused an event.
type Actor struct {
	EmployeeID string      `json:"employee_id"`
	Role       domain.Role `json:"role"`
}

// Event represents a domain event emitted after a lifecycle transaction commits.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	EmployeeID string           `json:"employee_id"`
	LeaveType  domain.LeaveType `json:"leave_type"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Action      string              `json:"action"`
	OldStatus   domain.TicketStatus `json:"old_status"`
	OldTLStatus domain.TLStatus     `json:"old_tl_status,omitempty"`
	NewStatus   domain.TicketStatus `json:"new_status"`
	NewTLStatus domain.TLStatus     `json:"new_tl_status,omitempty"`
	Message     string              `json:"message,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedHREmail string `json:"assigned_hr_email"`
	PreviousHREmail string `json:"previous_hr_email,omitempty"`
}

// BalanceDebitedPayload payload.
type BalanceDebitedPayload struct {
	EmployeeID string           `json:"employee_id"`
	LeaveType  domain.LeaveType `json:"leave_type"`
	Remaining  int              `json:"remaining"`
}

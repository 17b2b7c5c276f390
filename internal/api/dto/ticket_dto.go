package dto

import (
	"time"

	"github.com/spec-kit/leave-service/internal/domain"
)

// TicketRequest is the payload of ticket create and update. With QueryAnswer set, an update
// answers the open HR query instead.
type TicketRequest struct {
	LeaveType       string  `json:"leave_type" validate:"required,oneof=PlannedLeave SickLeave EmergencyLeave"`
	Reason          string  `json:"reason" validate:"required,max=1000"`
	StartDate       string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	EmployeeMessage string  `json:"employee_message" validate:"max=2000"`
	AttachmentRef   *string `json:"attachment_ref" validate:"omitempty,max=500"`
	QueryAnswer     bool    `json:"query_answer"`
}

// ReRaiseRequest carries the optional message of a re-raise.
type ReRaiseRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

// AssignRequest names the HR employee a ticket is handed to.
type AssignRequest struct {
	HREmail string `json:"hr_email" validate:"required,email"`
}

// StatusActionRequest is the HR and team lead status payload.
type StatusActionRequest struct {
	Action  string `json:"action" validate:"required"`
	Message string `json:"message" validate:"max=2000"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID              string           `json:"id"`
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    string           `json:"employee_name"`
	EmployeeEmail   string           `json:"employee_email"`
	DepartmentID    *string          `json:"department_id"`
	LeaveType       domain.LeaveType `json:"leave_type"`
	Reason          string           `json:"reason"`
	StartDate       string           `json:"start_date"`
	EndDate         string           `json:"end_date"`
	Days            int              `json:"days"`
	EmployeeMessage string           `json:"employee_message,omitempty"`
	AttachmentRef   *string          `json:"attachment_ref,omitempty"`
	Status          string           `json:"status"`
	TLStatus        *string          `json:"tl_status"`
	AssignedHREmail *string          `json:"assigned_hr_email"`
	AssignedTL      *string          `json:"assigned_tl"`
	HRMessage       string           `json:"hr_message,omitempty"`
	TLMessage       string           `json:"tl_message,omitempty"`
	Version         int64            `json:"version"`
	AppliedAt       time.Time        `json:"applied_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// HistoryResponse is one audit entry of a ticket.
type HistoryResponse struct {
	ActorID   string         `json:"actor_id"`
	ActorRole domain.Role    `json:"actor_role"`
	Action    string         `json:"action"`
	OldValue  map[string]any `json:"old_value"`
	NewValue  map[string]any `json:"new_value"`
	CreatedAt time.Time      `json:"created_at"`
}

// TicketDetailResponse is a ticket with its history.
type TicketDetailResponse struct {
	TicketResponse
	History []HistoryResponse `json:"history"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:              t.ID,
		EmployeeID:      t.EmployeeID,
		EmployeeName:    t.EmployeeName,
		EmployeeEmail:   t.EmployeeEmail,
		DepartmentID:    t.DepartmentID,
		LeaveType:       t.LeaveType,
		Reason:          t.Reason,
		StartDate:       t.StartDate.Format(DateLayout),
		EndDate:         t.EndDate.Format(DateLayout),
		Days:            t.Days(),
		EmployeeMessage: t.EmployeeMessage,
		AttachmentRef:   t.AttachmentRef,
		Status:          string(t.State.Status()),
		AssignedHREmail: t.AssignedHREmail,
		AssignedTL:      t.AssignedTL,
		HRMessage:       t.HRMessage,
		TLMessage:       t.TLMessage,
		Version:         t.Version,
		AppliedAt:       t.AppliedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if tl := t.State.TLStatus(); tl != domain.TLStatusNone {
		value := string(tl)
		resp.TLStatus = &value
	}
	return resp
}

// NewTicketResponses converts a page of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// NewTicketDetailResponse converts a ticket and its history.
func NewTicketDetailResponse(t *domain.Ticket, history []domain.TicketHistory) TicketDetailResponse {
	resp := TicketDetailResponse{
		TicketResponse: NewTicketResponse(t),
		History:        make([]HistoryResponse, 0, len(history)),
	}
	for _, h := range history {
		resp.History = append(resp.History, HistoryResponse{
			ActorID:   h.ActorID,
			ActorRole: h.ActorRole,
			Action:    h.Action,
			OldValue:  h.OldValue,
			NewValue:  h.NewValue,
			CreatedAt: h.CreatedAt,
		})
	}
	return resp
}

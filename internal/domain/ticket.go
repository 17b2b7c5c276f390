package domain

import "time"

// LeaveType enumerates the kinds of leave an employee may request.
type LeaveType string

const (
	LeavePlanned   LeaveType = "PlannedLeave"
	LeaveSick      LeaveType = "SickLeave"
	LeaveEmergency LeaveType = "EmergencyLeave"
)

// LeaveTypes lists every supported leave type.
var LeaveTypes = []LeaveType{LeavePlanned, LeaveSick, LeaveEmergency}

// Valid reports whether t is a known leave type.
func (t LeaveType) Valid() bool {
	switch t {
	case LeavePlanned, LeaveSick, LeaveEmergency:
		return true
	default:
		return false
	}
}

// Ticket is the aggregate for a leave request and its approval record.
type Ticket struct {
	ID              string
	EmployeeID      string
	EmployeeName    string
	EmployeeEmail   string
	DepartmentID    *string
	LeaveType       LeaveType
	Reason          string
	StartDate       time.Time
	EndDate         time.Time
	EmployeeMessage string
	AttachmentRef   *string
	State           TicketState
	AssignedHREmail *string
	AssignedTL      *string
	HRMessage       string
	TLMessage       string
	Version         int64
	AppliedAt       time.Time
	UpdatedAt       time.Time
}

// Days returns the inclusive number of calendar days covered by the ticket.
func (t *Ticket) Days() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

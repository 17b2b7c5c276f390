package domain

import "time"

// LeavePolicy holds yearly quotas per leave type for a gender.
type LeavePolicy struct {
	Gender    Gender
	Planned   int
	Sick      int
	Emergency int
}

// Quota returns the yearly quota for the leave type.
func (p LeavePolicy) Quota(t LeaveType) int {
	switch t {
	case LeavePlanned:
		return p.Planned
	case LeaveSick:
		return p.Sick
	case LeaveEmergency:
		return p.Emergency
	default:
		return 0
	}
}

// LeaveBalance is the ledger-owned remaining allowance of one employee.
type LeaveBalance struct {
	EmployeeID         string
	RemainingPlanned   int
	RemainingSick      int
	RemainingEmergency int
	PlannedCap         int
	SickCap            int
	EmergencyCap       int
	TotalTickets       int
	UpdatedAt          time.Time
}

// Remaining returns the remaining count for the leave type.
func (b *LeaveBalance) Remaining(t LeaveType) int {
	switch t {
	case LeavePlanned:
		return b.RemainingPlanned
	case LeaveSick:
		return b.RemainingSick
	case LeaveEmergency:
		return b.RemainingEmergency
	default:
		return 0
	}
}

// Cap returns the yearly cap for the leave type.
func (b *LeaveBalance) Cap(t LeaveType) int {
	switch t {
	case LeavePlanned:
		return b.PlannedCap
	case LeaveSick:
		return b.SickCap
	case LeaveEmergency:
		return b.EmergencyCap
	default:
		return 0
	}
}

// LedgerEntryKind distinguishes debits from refunds.
type LedgerEntryKind string

const (
	LedgerDebit  LedgerEntryKind = "debit"
	LedgerRefund LedgerEntryKind = "refund"
)

// LedgerEntry records one applied balance mutation. A ticket holds at most one entry per kind.
type LedgerEntry struct {
	ID         string
	TicketID   string
	EmployeeID string
	LeaveType  LeaveType
	Kind       LedgerEntryKind
	CreatedAt  time.Time
}

// MonthlyUsage counts approved tickets per leave type starting within one month.
type MonthlyUsage struct {
	EmployeeID string
	Year       int
	Month      time.Month
	Planned    int
	Sick       int
	Emergency  int
}

// Add counts one ticket of the given type.
func (u *MonthlyUsage) Add(t LeaveType) {
	switch t {
	case LeavePlanned:
		u.Planned++
	case LeaveSick:
		u.Sick++
	case LeaveEmergency:
		u.Emergency++
	}
}

package dto

import (
	"github.com/spec-kit/leave-service/internal/domain"
)

// LeaveCount is one row of a per-leave-type breakdown.
type LeaveCount struct {
	LeaveType domain.LeaveType `json:"leave_type"`
	Remaining int              `json:"remaining"`
	Cap       int              `json:"cap"`
}

// BalanceResponse is the remaining allowance of an employee.
type BalanceResponse struct {
	EmployeeID   string       `json:"employee_id"`
	TotalTickets int          `json:"total_tickets"`
	Leaves       []LeaveCount `json:"leaves"`
}

// UsageResponse counts approved leave starting in one month.
type UsageResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      string `json:"month"`
	Planned    int    `json:"planned_leave"`
	Sick       int    `json:"sick_leave"`
	Emergency  int    `json:"emergency_leave"`
	Total      int    `json:"total"`
}

// NewBalanceResponse converts a domain balance.
func NewBalanceResponse(b *domain.LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		EmployeeID:   b.EmployeeID,
		TotalTickets: b.TotalTickets,
		Leaves:       make([]LeaveCount, 0, len(domain.LeaveTypes)),
	}
	for _, lt := range domain.LeaveTypes {
		resp.Leaves = append(resp.Leaves, LeaveCount{LeaveType: lt, Remaining: b.Remaining(lt), Cap: b.Cap(lt)})
	}
	return resp
}

// NewUsageResponse converts a monthly usage report.
func NewUsageResponse(u *domain.MonthlyUsage) UsageResponse {
	return UsageResponse{
		EmployeeID: u.EmployeeID,
		Year:       u.Year,
		Month:      u.Month.String(),
		Planned:    u.Planned,
		Sick:       u.Sick,
		Emergency:  u.Emergency,
		Total:      u.Planned + u.Sick + u.Emergency,
	}
}

package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(&TicketRequest{LeaveType: "Holiday", StartDate: "06/01/2025", EndDate: "2025-06-02"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.Equal(t, "Leave Type must be one of PlannedLeave SickLeave EmergencyLeave", domainErr.Details["leave_type"])
	assert.Equal(t, "Reason is required", domainErr.Details["reason"])
	assert.Equal(t, "Start Date must be a date in YYYY-MM-DD format", domainErr.Details["start_date"])
	assert.NotContains(t, domainErr.Details, "end_date")
}

func TestValidateAcceptsQuotedRole(t *testing.T) {
	req := CreateEmployeeRequest{
		Name:     "Lead",
		Email:    "lead@corp.com",
		Password: "password123",
		Role:     "Team Lead",
		Gender:   "Female",
	}
	assert.NoError(t, Validate(&req))

	req.Role = "Boss"
	err := Validate(&req)
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "role")
}

func TestValidatePartialUpdate(t *testing.T) {
	assert.NoError(t, Validate(&UpdateEmployeeRequest{}))

	bad := "not-an-email"
	err := Validate(&UpdateEmployeeRequest{Email: &bad})
	require.Error(t, err)
	assert.Equal(t, "Email must be a valid email", apperrors.ToDomainError(err).Details["email"])
}

func TestTicketResponseOmitsTLStatusOutsideTLStates(t *testing.T) {
	ticket := &domain.Ticket{
		ID:        "t-1",
		LeaveType: domain.LeaveSick,
		StartDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		State:     domain.StateOf(domain.StatusPending),
	}
	resp := NewTicketResponse(ticket)
	assert.Nil(t, resp.TLStatus)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, "2025-06-02", resp.StartDate)

	ticket.State = domain.MustTicketState(domain.StatusApproved, domain.TLStatusApproved)
	resp = NewTicketResponse(ticket)
	require.NotNil(t, resp.TLStatus)
	assert.Equal(t, "approved", *resp.TLStatus)
}

func TestBalanceResponseListsEveryLeaveType(t *testing.T) {
	resp := NewBalanceResponse(&domain.LeaveBalance{
		EmployeeID:         "emp-1",
		RemainingPlanned:   4,
		RemainingSick:      10,
		RemainingEmergency: 0,
		PlannedCap:         12,
		SickCap:            10,
		EmergencyCap:       5,
	})
	require.Len(t, resp.Leaves, 3)
	assert.Equal(t, LeaveCount{LeaveType: domain.LeavePlanned, Remaining: 4, Cap: 12}, resp.Leaves[0])
	assert.Equal(t, LeaveCount{LeaveType: domain.LeaveEmergency, Remaining: 0, Cap: 5}, resp.Leaves[2])
}

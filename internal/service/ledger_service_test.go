package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

func TestDebitAndRefundAreIdempotentPerTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	balance, err := f.ledger.Debit(ctx, f.employee.ID, "ticket-1", domain.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 9, balance.RemainingSick)

	balance, err = f.ledger.Debit(ctx, f.employee.ID, "ticket-1", domain.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 9, balance.RemainingSick)

	balance, err = f.ledger.Refund(ctx, f.employee.ID, "ticket-1", domain.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.RemainingSick)

	balance, err = f.ledger.Refund(ctx, f.employee.ID, "ticket-1", domain.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.RemainingSick)

	balance, err = f.ledger.Refund(ctx, f.employee.ID, "never-debited", domain.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.RemainingSick)

	entries, err := f.store.Ledger().ListByEmployee(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRefundNeverExceedsCap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Balances().Open(ctx, &domain.LeaveBalance{
		EmployeeID: f.employee.ID, RemainingSick: 10, SickCap: 10,
	}))
	require.NoError(t, f.store.Ledger().Create(ctx, &domain.LedgerEntry{
		ID: "l-1", TicketID: "ticket-9", EmployeeID: f.employee.ID, LeaveType: domain.LeaveSick, Kind: domain.LedgerDebit,
	}))

	balance, err := f.ledger.Refund(ctx, f.employee.ID, "ticket-9", domain.LeaveSick)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.RemainingSick)
}

func TestDebitFailsWhenExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Balances().Open(ctx, &domain.LeaveBalance{EmployeeID: f.employee.ID, EmergencyCap: 5}))

	_, err := f.ledger.Debit(ctx, f.employee.ID, "ticket-1", domain.LeaveEmergency)
	requireCode(t, err, apperrors.CodeInsufficientBalance)
	assert.Equal(t, 0, apperrors.ToDomainError(err).Details["remaining"])

	debited, err := f.store.Ledger().Exists(ctx, "ticket-1", domain.LedgerDebit)
	require.NoError(t, err)
	assert.False(t, debited)
}

func TestOpenUsesGenderPolicyThenDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	female := &domain.Employee{ID: "f-1", Gender: domain.GenderFemale}
	balance, err := f.ledger.Open(ctx, female)
	require.NoError(t, err)
	assert.Equal(t, 12, balance.RemainingSick)

	unknown := &domain.Employee{ID: "u-1"}
	balance, err = f.ledger.Open(ctx, unknown)
	require.NoError(t, err)
	assert.Equal(t, 10, balance.RemainingPlanned)
	assert.Equal(t, 8, balance.SickCap)
	assert.Equal(t, 3, balance.RemainingEmergency)
}

func TestGetBalanceUnknownEmployee(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.GetBalance(context.Background(), "ghost")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestBalanceVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.BalanceFor(ctx, f.employee, f.employee.ID)
	require.NoError(t, err)
	_, err = f.ledger.BalanceFor(ctx, f.employee, f.other.ID)
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.ledger.BalanceFor(ctx, f.hr, f.other.ID)
	require.NoError(t, err)
	_, err = f.ledger.UsageFor(ctx, f.tl, f.other.ID, 2025, time.May)
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.ledger.UsageFor(ctx, nil, f.other.ID, 2025, time.May)
	requireCode(t, err, apperrors.CodeUnauthenticated)
}

func TestParseUsagePeriod(t *testing.T) {
	now := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		month, year string
		wantYear    int
		wantMonth   time.Month
		wantErr     bool
	}{
		{"June", "2025", 2025, time.June, false},
		{"june", "2024", 2024, time.June, false},
		{"Sep", "2024", 2024, time.September, false},
		{"2025-06", "", 2025, time.June, false},
		{"7", "2023", 2023, time.July, false},
		{"", "", 2025, time.March, false},
		{"Jun", "", 2025, time.June, false},
		{"Smarch", "2025", 0, 0, true},
		{"13", "2025", 0, 0, true},
		{"June", "abc", 0, 0, true},
		{"", "2024", 2024, time.March, false},
		{"2025-06", "2025", 2025, time.June, false},
		{"2025-06", "2024", 0, 0, true},
	}
	for _, tc := range cases {
		y, m, err := ParseUsagePeriod(tc.month, tc.year, now)
		if tc.wantErr {
			requireCode(t, err, apperrors.CodeValidation)
			continue
		}
		require.NoError(t, err, "%s %s", tc.month, tc.year)
		assert.Equal(t, tc.wantYear, y)
		assert.Equal(t, tc.wantMonth, m)
	}
}

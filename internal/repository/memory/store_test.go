package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/repository"
)

func newTicket(id, employeeID string) *domain.Ticket {
	start := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Ticket{
		ID:         id,
		EmployeeID: employeeID,
		LeaveType:  domain.LeaveSick,
		StartDate:  start,
		EndDate:    start,
		State:      domain.StateOf(domain.StatusPending),
	}
}

func TestTicketUpdateIsConditionalOnVersion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tickets := store.Tickets()

	ticket := newTicket("t-1", "e-1")
	require.NoError(t, tickets.Create(ctx, ticket))
	assert.Equal(t, int64(1), ticket.Version)

	first := *ticket
	first.State = domain.StateOf(domain.StatusInProgress)
	require.NoError(t, tickets.Update(ctx, &first, 1))
	assert.Equal(t, int64(2), first.Version)

	second := *ticket
	second.State = domain.StateOf(domain.StatusInProgress)
	assert.ErrorIs(t, tickets.Update(ctx, &second, 1), repository.ErrStaleTicket)
	assert.ErrorIs(t, tickets.Delete(ctx, "t-1", 1), repository.ErrStaleTicket)

	require.NoError(t, tickets.Delete(ctx, "t-1", 2))
	_, err := tickets.GetByID(ctx, "t-1")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Balances().Open(ctx, &domain.LeaveBalance{EmployeeID: "e-1", RemainingSick: 1, SickCap: 1}))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := store.Balances().Decrement(ctx, "e-1", domain.LeaveSick)
		require.NoError(t, err)
		require.NoError(t, store.Ledger().Create(ctx, &domain.LedgerEntry{ID: "l-1", TicketID: "t-1", EmployeeID: "e-1", Kind: domain.LedgerDebit}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	balance, err := store.Balances().Get(ctx, "e-1")
	require.NoError(t, err)
	assert.Equal(t, 1, balance.RemainingSick)

	exists, err := store.Ledger().Exists(ctx, "t-1", domain.LedgerDebit)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNestedWithinTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employee := &domain.Employee{ID: "e-1", Email: "A@X.com", Role: domain.RoleEmployee}

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return store.WithinTx(ctx, func(ctx context.Context) error {
			return store.Employees().Create(ctx, employee)
		})
	})
	require.NoError(t, err)

	found, err := store.Employees().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)
}

func TestBalanceFloorAndCap(t *testing.T) {
	ctx := context.Background()
	balances := NewStore().Balances()
	require.NoError(t, balances.Open(ctx, &domain.LeaveBalance{EmployeeID: "e-1", RemainingEmergency: 1, EmergencyCap: 1}))

	// a second Open must not reset the row
	require.NoError(t, balances.Open(ctx, &domain.LeaveBalance{EmployeeID: "e-1", RemainingEmergency: 5, EmergencyCap: 5}))

	updated, err := balances.Decrement(ctx, "e-1", domain.LeaveEmergency)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.RemainingEmergency)

	_, err = balances.Decrement(ctx, "e-1", domain.LeaveEmergency)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	updated, err = balances.Increment(ctx, "e-1", domain.LeaveEmergency)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RemainingEmergency)
	updated, err = balances.Increment(ctx, "e-1", domain.LeaveEmergency)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RemainingEmergency)
}

func TestLedgerRejectsDuplicateKind(t *testing.T) {
	ctx := context.Background()
	ledger := NewStore().Ledger()

	require.NoError(t, ledger.Create(ctx, &domain.LedgerEntry{ID: "l-1", TicketID: "t-1", Kind: domain.LedgerDebit}))
	assert.ErrorIs(t, ledger.Create(ctx, &domain.LedgerEntry{ID: "l-2", TicketID: "t-1", Kind: domain.LedgerDebit}), repository.ErrDuplicate)
	assert.NoError(t, ledger.Create(ctx, &domain.LedgerEntry{ID: "l-3", TicketID: "t-1", Kind: domain.LedgerRefund}))
}

func TestTicketListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tickets := store.Tickets()

	hr := "hr@x.com"
	a := newTicket("t-a", "e-1")
	b := newTicket("t-b", "e-2")
	b.AssignedHREmail = &hr
	b.State = domain.StateOf(domain.StatusInProgress)
	require.NoError(t, tickets.Create(ctx, a))
	require.NoError(t, tickets.Create(ctx, b))

	employeeID := "e-1"
	got, err := tickets.List(ctx, repository.TicketFilter{EmployeeID: &employeeID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-a", got[0].ID)

	upper := "HR@X.COM"
	got, err = tickets.List(ctx, repository.TicketFilter{AssignedHREmail: &upper})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t-b", got[0].ID)

	got, err = tickets.List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.StatusApproved}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

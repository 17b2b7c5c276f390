package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// BalanceRepository persists leave balances. Decrement and Increment are single conditional
// statements so concurrent callers cannot push a balance past its floor or cap.
type BalanceRepository interface {
	// Open inserts balance unless one already exists for the employee.
	Open(ctx context.Context, balance *domain.LeaveBalance) error
	Get(ctx context.Context, employeeID string) (*domain.LeaveBalance, error)
	// Decrement returns pgx.ErrNoRows when the remaining count is already zero.
	Decrement(ctx context.Context, employeeID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error)
	// Increment never raises the remaining count above its cap.
	Increment(ctx context.Context, employeeID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error)
	IncrementTickets(ctx context.Context, employeeID string) error
}

type balanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository constructs repository.
func NewBalanceRepository(pool *pgxpool.Pool) BalanceRepository {
	return &balanceRepository{pool: pool}
}

const balanceColumns = `employee_id, remaining_planned, remaining_sick, remaining_emergency,
       planned_cap, sick_cap, emergency_cap, total_tickets, updated_at`

func (r *balanceRepository) Open(ctx context.Context, balance *domain.LeaveBalance) error {
	const query = `
        INSERT INTO leave_balances (employee_id, remaining_planned, remaining_sick, remaining_emergency,
            planned_cap, sick_cap, emergency_cap, total_tickets)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (employee_id) DO NOTHING`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		balance.EmployeeID,
		balance.RemainingPlanned,
		balance.RemainingSick,
		balance.RemainingEmergency,
		balance.PlannedCap,
		balance.SickCap,
		balance.EmergencyCap,
		balance.TotalTickets,
	)
	return err
}

func (r *balanceRepository) Get(ctx context.Context, employeeID string) (*domain.LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE employee_id=$1`
	return r.scan(conn(ctx, r.pool).QueryRow(ctx, query, employeeID))
}

func (r *balanceRepository) Decrement(ctx context.Context, employeeID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	remaining, _, err := balanceColumnsFor(leaveType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        UPDATE leave_balances SET %[1]s=%[1]s-1, updated_at=NOW()
        WHERE employee_id=$1 AND %[1]s > 0
        RETURNING %[2]s`, remaining, balanceColumns)
	return r.scan(conn(ctx, r.pool).QueryRow(ctx, query, employeeID))
}

func (r *balanceRepository) Increment(ctx context.Context, employeeID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	remaining, capCol, err := balanceColumnsFor(leaveType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
        UPDATE leave_balances SET %[1]s=LEAST(%[1]s+1, %[2]s), updated_at=NOW()
        WHERE employee_id=$1
        RETURNING %[3]s`, remaining, capCol, balanceColumns)
	return r.scan(conn(ctx, r.pool).QueryRow(ctx, query, employeeID))
}

func (r *balanceRepository) IncrementTickets(ctx context.Context, employeeID string) error {
	const query = `UPDATE leave_balances SET total_tickets=total_tickets+1, updated_at=NOW() WHERE employee_id=$1`
	_, err := conn(ctx, r.pool).Exec(ctx, query, employeeID)
	return err
}

func (r *balanceRepository) scan(row pgx.Row) (*domain.LeaveBalance, error) {
	var balance domain.LeaveBalance
	if err := row.Scan(
		&balance.EmployeeID,
		&balance.RemainingPlanned,
		&balance.RemainingSick,
		&balance.RemainingEmergency,
		&balance.PlannedCap,
		&balance.SickCap,
		&balance.EmergencyCap,
		&balance.TotalTickets,
		&balance.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &balance, nil
}

func balanceColumnsFor(leaveType domain.LeaveType) (remaining, capCol string, err error) {
	switch leaveType {
	case domain.LeavePlanned:
		return "remaining_planned", "planned_cap", nil
	case domain.LeaveSick:
		return "remaining_sick", "sick_cap", nil
	case domain.LeaveEmergency:
		return "remaining_emergency", "emergency_cap", nil
	default:
		return "", "", fmt.Errorf("unknown leave type %q", leaveType)
	}
}

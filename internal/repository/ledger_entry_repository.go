package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// LedgerEntryRepository stores applied balance mutations keyed by (ticket, kind).
type LedgerEntryRepository interface {
	// Create returns ErrDuplicate when the ticket already has an entry of that kind.
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	Exists(ctx context.Context, ticketID string, kind domain.LedgerEntryKind) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.LedgerEntry, error)
}

type ledgerEntryRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerEntryRepository builds repository.
func NewLedgerEntryRepository(pool *pgxpool.Pool) LedgerEntryRepository {
	return &ledgerEntryRepository{pool: pool}
}

func (r *ledgerEntryRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	const query = `
        INSERT INTO ledger_entries (id, ticket_id, employee_id, leave_type, kind)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (ticket_id, kind) DO NOTHING
        RETURNING created_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		entry.ID,
		entry.TicketID,
		entry.EmployeeID,
		entry.LeaveType,
		entry.Kind,
	).Scan(&entry.CreatedAt)
	// ON CONFLICT keeps an enclosing transaction usable; a skipped insert returns no row.
	if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ledgerEntryRepository) Exists(ctx context.Context, ticketID string, kind domain.LedgerEntryKind) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE ticket_id=$1 AND kind=$2)`
	var exists bool
	err := conn(ctx, r.pool).QueryRow(ctx, query, ticketID, kind).Scan(&exists)
	return exists, err
}

func (r *ledgerEntryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.LedgerEntry, error) {
	const query = `
        SELECT id, ticket_id, employee_id, leave_type, kind, created_at
        FROM ledger_entries WHERE employee_id=$1 ORDER BY created_at ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(&entry.ID, &entry.TicketID, &entry.EmployeeID, &entry.LeaveType, &entry.Kind, &entry.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

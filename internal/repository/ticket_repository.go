package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// TicketFilter captures listing parameters. Nil fields are ignored.
type TicketFilter struct {
	EmployeeID      *string
	DepartmentID    *string
	AssignedHREmail *string
	AssignedTL      *string
	Statuses        []domain.TicketStatus
	LeaveTypes      []domain.LeaveType
	StartFrom       *time.Time
	StartTo         *time.Time
	Limit           int
	Offset          int
}

// TicketRepository encapsulates leave ticket persistence. Update and Delete are conditional on
// the version the caller read and return ErrStaleTicket when it no longer matches.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket, expectedVersion int64) error
	Delete(ctx context.Context, id string, expectedVersion int64) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, employee_id, employee_name, employee_email, department_id, leave_type, reason,
       start_date, end_date, employee_message, attachment_ref, status, tl_status, assigned_hr_email,
       assigned_tl, hr_message, tl_message, version, applied_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, employee_id, employee_name, employee_email, department_id, leave_type, reason,
            start_date, end_date, employee_message, attachment_ref, status, tl_status, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,1)
        RETURNING version, applied_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.ID,
		ticket.EmployeeID,
		ticket.EmployeeName,
		ticket.EmployeeEmail,
		ticket.DepartmentID,
		ticket.LeaveType,
		ticket.Reason,
		ticket.StartDate,
		ticket.EndDate,
		ticket.EmployeeMessage,
		ticket.AttachmentRef,
		ticket.State.Status(),
		tlColumn(ticket.State),
	).Scan(&ticket.Version, &ticket.AppliedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket, expectedVersion int64) error {
	const query = `
        UPDATE tickets SET leave_type=$1, reason=$2, start_date=$3, end_date=$4, employee_message=$5,
            attachment_ref=$6, status=$7, tl_status=$8, assigned_hr_email=$9, assigned_tl=$10,
            hr_message=$11, tl_message=$12, version=version+1, updated_at=NOW()
        WHERE id=$13 AND version=$14
        RETURNING version, updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		ticket.LeaveType,
		ticket.Reason,
		ticket.StartDate,
		ticket.EndDate,
		ticket.EmployeeMessage,
		ticket.AttachmentRef,
		ticket.State.Status(),
		tlColumn(ticket.State),
		ticket.AssignedHREmail,
		ticket.AssignedTL,
		ticket.HRMessage,
		ticket.TLMessage,
		ticket.ID,
		expectedVersion,
	).Scan(&ticket.Version, &ticket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleTicket
	}
	return err
}

func (r *ticketRepository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM tickets WHERE id=$1 AND version=$2`, id, expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrStaleTicket
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssignedHREmail != nil {
		args = append(args, *filter.AssignedHREmail)
		clauses = append(clauses, fmt.Sprintf("LOWER(assigned_hr_email)=LOWER($%d)", len(args)))
	}
	if filter.AssignedTL != nil {
		args = append(args, *filter.AssignedTL)
		clauses = append(clauses, fmt.Sprintf("LOWER(assigned_tl)=LOWER($%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.LeaveTypes) > 0 {
		placeholders := make([]string, len(filter.LeaveTypes))
		for i, lt := range filter.LeaveTypes {
			args = append(args, lt)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("leave_type IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StartFrom != nil {
		args = append(args, *filter.StartFrom)
		clauses = append(clauses, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if filter.StartTo != nil {
		args = append(args, *filter.StartTo)
		clauses = append(clauses, fmt.Sprintf("start_date < $%d", len(args)))
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset, 50)
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY applied_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		status   string
		tlStatus *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.EmployeeID,
		&ticket.EmployeeName,
		&ticket.EmployeeEmail,
		&ticket.DepartmentID,
		&ticket.LeaveType,
		&ticket.Reason,
		&ticket.StartDate,
		&ticket.EndDate,
		&ticket.EmployeeMessage,
		&ticket.AttachmentRef,
		&status,
		&tlStatus,
		&ticket.AssignedHREmail,
		&ticket.AssignedTL,
		&ticket.HRMessage,
		&ticket.TLMessage,
		&ticket.Version,
		&ticket.AppliedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	tl := domain.TLStatusNone
	if tlStatus != nil {
		tl = domain.TLStatus(*tlStatus)
	}
	state, err := domain.NewTicketState(domain.TicketStatus(status), tl)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", ticket.ID, err)
	}
	ticket.State = state
	return &ticket, nil
}

func tlColumn(state domain.TicketState) *string {
	if state.TLStatus() == domain.TLStatusNone {
		return nil
	}
	tl := string(state.TLStatus())
	return &tl
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// TicketHistoryRepository is the append-only audit trail of lifecycle actions.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewTicketHistoryRepository builds repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{pool: pool}
}

// Create stamps the entry with clock_timestamp() so several entries written in one
// transaction keep their order.
func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (id, ticket_id, actor_id, actor_role, action, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7, clock_timestamp())
        RETURNING created_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		history.ID,
		history.TicketID,
		history.ActorID,
		history.ActorRole,
		history.Action,
		jsonObject(history.OldValue),
		jsonObject(history.NewValue),
	).Scan(&history.CreatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT id, ticket_id, actor_id, actor_role, action, old_value, new_value, created_at
        FROM ticket_history WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[domain.TicketHistory])
}

// jsonObject keeps NOT NULL jsonb columns at '{}' for entries without a value.
func jsonObject(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return values
}

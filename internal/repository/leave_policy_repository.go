package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// LeavePolicyRepository reads and writes yearly quotas per gender.
type LeavePolicyRepository interface {
	GetByGender(ctx context.Context, gender domain.Gender) (*domain.LeavePolicy, error)
	Upsert(ctx context.Context, policy *domain.LeavePolicy) error
	List(ctx context.Context) ([]domain.LeavePolicy, error)
}

type leavePolicyRepository struct {
	pool *pgxpool.Pool
}

// NewLeavePolicyRepository constructs repository.
func NewLeavePolicyRepository(pool *pgxpool.Pool) LeavePolicyRepository {
	return &leavePolicyRepository{pool: pool}
}

func (r *leavePolicyRepository) GetByGender(ctx context.Context, gender domain.Gender) (*domain.LeavePolicy, error) {
	const query = `SELECT gender, planned, sick, emergency FROM leave_policies WHERE gender=$1`
	var policy domain.LeavePolicy
	if err := conn(ctx, r.pool).QueryRow(ctx, query, gender).Scan(
		&policy.Gender,
		&policy.Planned,
		&policy.Sick,
		&policy.Emergency,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *leavePolicyRepository) Upsert(ctx context.Context, policy *domain.LeavePolicy) error {
	const query = `
        INSERT INTO leave_policies (gender, planned, sick, emergency)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (gender) DO UPDATE SET planned=EXCLUDED.planned, sick=EXCLUDED.sick, emergency=EXCLUDED.emergency`
	_, err := conn(ctx, r.pool).Exec(ctx, query, policy.Gender, policy.Planned, policy.Sick, policy.Emergency)
	return err
}

func (r *leavePolicyRepository) List(ctx context.Context) ([]domain.LeavePolicy, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT gender, planned, sick, emergency FROM leave_policies ORDER BY gender`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LeavePolicy
	for rows.Next() {
		var policy domain.LeavePolicy
		if err := rows.Scan(&policy.Gender, &policy.Planned, &policy.Sick, &policy.Emergency); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}

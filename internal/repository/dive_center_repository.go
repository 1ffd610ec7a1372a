package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

// DiveCenterRepository handles persistence for tenants.
type DiveCenterRepository interface {
	Create(ctx context.Context, center *domain.DiveCenter) error
	Update(ctx context.Context, center *domain.DiveCenter) error
	GetByID(ctx context.Context, id string) (*domain.DiveCenter, error)
	List(ctx context.Context, limit, offset int) ([]domain.DiveCenter, error)
}

type diveCenterRepository struct {
	pool *pgxpool.Pool
}

// NewDiveCenterRepository instantiates the repository.
func NewDiveCenterRepository(pool *pgxpool.Pool) DiveCenterRepository {
	return &diveCenterRepository{pool: pool}
}

func (r *diveCenterRepository) Create(ctx context.Context, center *domain.DiveCenter) error {
	const query = `
        INSERT INTO dive_centers (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, center.Name).
		Scan(&center.ID, &center.CreatedAt, &center.UpdatedAt)
}

func (r *diveCenterRepository) Update(ctx context.Context, center *domain.DiveCenter) error {
	const query = `UPDATE dive_centers SET name=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, center.Name, center.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *diveCenterRepository) GetByID(ctx context.Context, id string) (*domain.DiveCenter, error) {
	const query = `SELECT id, name, created_at, updated_at FROM dive_centers WHERE id=$1`

	var center domain.DiveCenter
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&center.ID,
		&center.Name,
		&center.CreatedAt,
		&center.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &center, nil
}

func (r *diveCenterRepository) List(ctx context.Context, limit, offset int) ([]domain.DiveCenter, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `SELECT id, name, created_at, updated_at FROM dive_centers ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DiveCenter
	for rows.Next() {
		var center domain.DiveCenter
		if err := rows.Scan(&center.ID, &center.Name, &center.CreatedAt, &center.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, center)
	}
	return result, rows.Err()
}

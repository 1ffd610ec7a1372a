package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

// StaffRepository is the staff directory: pure lookups plus the write paths
// used by the administrative flows. Absence is reported as pgx.ErrNoRows,
// a normal outcome for lookups, never a fault. Code lookups are
// case-sensitive (codes are opaque tokens); email comparison is
// case-insensitive.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByCode(ctx context.Context, code string) (*domain.Staff, error)
	GetByCodeAndEmail(ctx context.Context, code, email string) (*domain.Staff, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.Staff, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	DiveCenterID *string
	Status       *domain.StaffStatus
	Limit        int
	Offset       int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, dive_center_id, full_name, email, role_title, staff_code, status, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO staff_members (dive_center_id, full_name, email, role_title, staff_code, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, query,
		staff.DiveCenterID,
		staff.FullName,
		staff.Email,
		staff.RoleTitle,
		staff.StaffCode,
		staff.Status,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt); err != nil {
		return err
	}

	if err := replacePermissions(ctx, tx, staff.ID, staff.Permissions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE staff_members
        SET dive_center_id=$1, full_name=$2, email=$3, role_title=$4, staff_code=$5, status=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := tx.Exec(ctx, query,
		staff.DiveCenterID,
		staff.FullName,
		staff.Email,
		staff.RoleTitle,
		staff.StaffCode,
		staff.Status,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := replacePermissions(ctx, tx, staff.ID, staff.Permissions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	return r.getOne(ctx, fmt.Sprintf(`SELECT %s FROM staff_members WHERE id=$1`, staffColumns), id)
}

// A reissued code can match both a retired INACTIVE row and the current
// ACTIVE holder; code lookups must resolve to the active row so the current
// holder always verifies.
const codePreference = ` ORDER BY (status='ACTIVE') DESC, created_at DESC LIMIT 1`

func (r *staffRepository) GetByCode(ctx context.Context, code string) (*domain.Staff, error) {
	return r.getOne(ctx,
		fmt.Sprintf(`SELECT %s FROM staff_members WHERE staff_code=$1%s`, staffColumns, codePreference),
		code)
}

func (r *staffRepository) GetByCodeAndEmail(ctx context.Context, code, email string) (*domain.Staff, error) {
	return r.getOne(ctx,
		fmt.Sprintf(`SELECT %s FROM staff_members WHERE staff_code=$1 AND LOWER(email)=LOWER($2)%s`, staffColumns, codePreference),
		code, email)
}

func (r *staffRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Staff, error) {
	var staff domain.Staff
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&staff.ID,
		&staff.DiveCenterID,
		&staff.FullName,
		&staff.Email,
		&staff.RoleTitle,
		&staff.StaffCode,
		&staff.Status,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}

	perms, err := r.loadPermissions(ctx, staff.ID)
	if err != nil {
		return nil, err
	}
	staff.Permissions = perms
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_members`, staffColumns)
	args := []any{}
	clauses := []string{}

	if filter.DiveCenterID != nil {
		args = append(args, *filter.DiveCenterID)
		clauses = append(clauses, fmt.Sprintf("dive_center_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		var staff domain.Staff
		if err := rows.Scan(
			&staff.ID,
			&staff.DiveCenterID,
			&staff.FullName,
			&staff.Email,
			&staff.RoleTitle,
			&staff.StaffCode,
			&staff.Status,
			&staff.CreatedAt,
			&staff.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		perms, err := r.loadPermissions(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Permissions = perms
	}
	return result, nil
}

// loadPermissions returns grants in their stored order; entry routing
// depends on that order.
func (r *staffRepository) loadPermissions(ctx context.Context, staffID string) ([]domain.Permission, error) {
	const query = `SELECT permission FROM staff_permissions WHERE staff_id=$1 ORDER BY position`

	rows, err := r.pool.Query(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, domain.Permission(p))
	}
	return perms, rows.Err()
}

func replacePermissions(ctx context.Context, tx pgx.Tx, staffID string, perms []domain.Permission) error {
	if _, err := tx.Exec(ctx, `DELETE FROM staff_permissions WHERE staff_id=$1`, staffID); err != nil {
		return err
	}
	for i, p := range perms {
		if _, err := tx.Exec(ctx,
			`INSERT INTO staff_permissions (staff_id, permission, position) VALUES ($1,$2,$3)`,
			staffID, p, i,
		); err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami/academy-backend/internal/model"
)

// UserAcademyRepository handles tenancy bindings between users and academies.
type UserAcademyRepository struct {
	pool *pgxpool.Pool
}

// NewUserAcademyRepository creates a new UserAcademyRepository.
func NewUserAcademyRepository(pool *pgxpool.Pool) *UserAcademyRepository {
	return &UserAcademyRepository{pool: pool}
}

// FindTenancyForUser returns the latest binding of userID, or nil when the
// user has none.
func (r *UserAcademyRepository) FindTenancyForUser(ctx context.Context, userID string) (*model.TenancyBinding, error) {
	b := &model.TenancyBinding{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, academy_id, role, created_at
		 FROM user_academies
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, userID,
	).Scan(&b.UserID, &b.AcademyID, &b.Role, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// ListByAcademy returns every binding of an academy.
func (r *UserAcademyRepository) ListByAcademy(ctx context.Context, academyID string) ([]model.UserAcademy, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, academy_id, role, created_at, updated_at
		 FROM user_academies WHERE academy_id = $1
		 ORDER BY created_at`, academyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bindings := []model.UserAcademy{}
	for rows.Next() {
		var b model.UserAcademy
		if err := rows.Scan(&b.ID, &b.UserID, &b.AcademyID, &b.Role, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, rows.Err()
}

// Bind links userID to academyID with role, replacing the role of an
// existing link.
func (r *UserAcademyRepository) Bind(ctx context.Context, userID, academyID, role string) error {
	return mapError(bindTx(ctx, r.pool, userID, academyID, role))
}

// Unbind removes the link between userID and academyID.
func (r *UserAcademyRepository) Unbind(ctx context.Context, userID, academyID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_academies WHERE user_id = $1 AND academy_id = $2`, userID, academyID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func bindTx(ctx context.Context, db execer, userID, academyID, role string) error {
	_, err := db.Exec(ctx,
		`INSERT INTO user_academies (user_id, academy_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, academy_id)
		 DO UPDATE SET role = EXCLUDED.role, updated_at = CURRENT_TIMESTAMP`,
		userID, academyID, role,
	)
	return err
}

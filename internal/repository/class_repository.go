package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/model"
)

const classColumns = `id, academy_id, name, instructor, level, day_of_week,
	to_char(time_start, 'HH24:MI'), to_char(time_end, 'HH24:MI'), user_id, created_at, updated_at`

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row pgx.Row, c *model.Class) error {
	return row.Scan(&c.ID, &c.AcademyID, &c.Name, &c.Instructor, &c.Level, &c.DaysOfWeek,
		&c.TimeStart, &c.TimeEnd, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a class visible in scope.
func (r *ClassRepository) GetByID(ctx context.Context, scope access.Scope, id string) (*model.Class, error) {
	if scope.Empty() {
		return nil, ErrNotFound
	}
	c := &model.Class{}
	err := scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes
		 WHERE id = $1 AND ($2::uuid IS NULL OR academy_id = $2)`, id, scope.Filter(),
	), c)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// List retrieves all classes visible in scope, ordered by start time.
func (r *ClassRepository) List(ctx context.Context, scope access.Scope) ([]model.Class, error) {
	if scope.Empty() {
		return []model.Class{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes
		 WHERE ($1::uuid IS NULL OR academy_id = $1)
		 ORDER BY time_start, name`, scope.Filter())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		if err := scanClass(rows, &c); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Count returns the number of classes visible in scope.
func (r *ClassRepository) Count(ctx context.Context, scope access.Scope) (int, error) {
	if scope.Empty() {
		return 0, nil
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM classes WHERE ($1::uuid IS NULL OR academy_id = $1)`, scope.Filter(),
	).Scan(&n)
	return n, err
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return mapError(r.pool.QueryRow(ctx,
		`INSERT INTO classes (academy_id, name, instructor, level, day_of_week, time_start, time_end, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6::time, $7::time, $8)
		 RETURNING id, created_at, updated_at`,
		c.AcademyID, c.Name, c.Instructor, c.Level, c.DaysOfWeek, c.TimeStart, c.TimeEnd, c.UserID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

// Update modifies a class visible in scope.
func (r *ClassRepository) Update(ctx context.Context, scope access.Scope, c *model.Class) error {
	if scope.Empty() {
		return ErrNotFound
	}
	return mapError(r.pool.QueryRow(ctx,
		`UPDATE classes SET name = $1, instructor = $2, level = $3, day_of_week = $4,
		   time_start = $5::time, time_end = $6::time, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7 AND ($8::uuid IS NULL OR academy_id = $8)
		 RETURNING academy_id, user_id, created_at, updated_at`,
		c.Name, c.Instructor, c.Level, c.DaysOfWeek, c.TimeStart, c.TimeEnd, c.ID, scope.Filter(),
	).Scan(&c.AcademyID, &c.UserID, &c.CreatedAt, &c.UpdatedAt))
}

// Delete removes a class visible in scope. A class with recorded attendance
// cannot be deleted.
func (r *ClassRepository) Delete(ctx context.Context, scope access.Scope, id string) error {
	if scope.Empty() {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM classes WHERE id = $1 AND ($2::uuid IS NULL OR academy_id = $2)`, id, scope.Filter())
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
